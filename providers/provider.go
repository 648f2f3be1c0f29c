package providers

import (
	"context"
)

// Recognizer converts a finite audio buffer into text with word-level
// timings. Different providers can implement this interface to support
// various speech services like Deepgram, Google Speech, etc.
//
// Implementations must be safe for concurrent invocation by multiple
// sessions; the session engine shares one Recognizer process-wide and never
// wraps calls in session-level locking.
type Recognizer interface {
	// Name returns the name of the provider.
	Name() string

	// Recognize transcribes the given audio buffer. Audio must match the
	// format described by config. A (nil, nil) return means the provider ran
	// successfully but recognized nothing; callers must not retry the same
	// buffer.
	Recognize(ctx context.Context, audio []byte, config Config) (*Result, error)
}

// Config holds provider-agnostic parameters for a recognition call.
type Config struct {
	// SampleRate is the audio sample rate in Hz (e.g., 16000)
	SampleRate int

	// SampleWidth is the number of bytes per sample (e.g., 2 for 16-bit PCM)
	SampleWidth int

	// LanguageCode specifies the language for transcription (e.g., "en-US").
	// Empty means provider default.
	LanguageCode string
}

// Result is the outcome of one recognition call over one audio buffer.
type Result struct {
	// Text is the transcribed text
	Text string

	// Duration is the length of the recognized audio in seconds
	Duration float64

	// Words carries word-level timings, when the provider reports them
	Words []Word
}

// Word is a single recognized word with its timing inside the buffer.
type Word struct {
	Word        string
	Start       float64
	End         float64
	Probability float64
}
