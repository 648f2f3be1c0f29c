package vad

// Segment is a single detected span of speech within an audio buffer.
// Times are in seconds relative to the start of the buffer.
type Segment struct {
	Start      float64
	End        float64
	Confidence float64
}

// Detector finds speech intervals in a finite PCM buffer. Implementations
// must return segments sorted by start time and non-overlapping. An empty
// result means "not enough signal yet" and is not an error; callers must not
// treat it as a failure. Detectors are shared across sessions and must be
// safe for concurrent use.
type Detector interface {
	// Detect inspects audio (16-bit little-endian PCM) sampled at sampleRate
	// with sampleWidth bytes per sample and returns the detected speech
	// segments.
	Detect(audio []byte, sampleRate, sampleWidth int) ([]Segment, error)
}
