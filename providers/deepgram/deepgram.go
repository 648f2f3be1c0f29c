package deepgram

import (
	"bytes"
	"context"
	"io"
	"strings"

	restv1 "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	api "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest/interfaces"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"

	"github.com/voxpipe/stt_streaming/providers"
)

const providerName = "deepgram"

// restTranscriber is a local interface that wraps the method we need
// from the Deepgram REST client to enable easier testing
type restTranscriber interface {
	FromStream(ctx context.Context, source io.Reader, options *interfaces.PreRecordedTranscriptionOptions) (*api.PreRecordedResponse, error)
}

// Recognizer transcribes finite audio buffers through Deepgram's
// pre-recorded transcription API.
type Recognizer struct {
	api restTranscriber
}

// NewRecognizer creates a Deepgram recognizer with the given API key.
func NewRecognizer(apiKey string) *Recognizer {
	client.InitWithDefault()

	c := client.NewREST(apiKey, &interfaces.ClientOptions{})
	return &Recognizer{
		api: restv1.New(c),
	}
}

// Name returns the name of the provider.
func (r *Recognizer) Name() string {
	return providerName
}

// Recognize sends the audio buffer to Deepgram and maps the response into
// the engine's result shape. An empty transcript maps to (nil, nil).
func (r *Recognizer) Recognize(ctx context.Context, audio []byte, config providers.Config) (*providers.Result, error) {
	options := &interfaces.PreRecordedTranscriptionOptions{
		Model:      "nova-3",
		Punctuate:  true,
		Language:   config.LanguageCode,
		Encoding:   "linear16",
		SampleRate: config.SampleRate,
	}

	resp, err := r.api.FromStream(ctx, bytes.NewReader(audio), options)
	if err != nil {
		return nil, err
	}

	if resp == nil || resp.Results == nil || len(resp.Results.Channels) == 0 || len(resp.Results.Channels[0].Alternatives) == 0 {
		return nil, nil
	}

	alternative := resp.Results.Channels[0].Alternatives[0]
	text := strings.TrimSpace(alternative.Transcript)
	if text == "" {
		return nil, nil
	}

	var duration float64
	if resp.Metadata != nil {
		duration = resp.Metadata.Duration
	}
	if duration == 0 && config.SampleRate > 0 && config.SampleWidth > 0 {
		duration = float64(len(audio)) / float64(config.SampleRate*config.SampleWidth)
	}

	words := make([]providers.Word, 0, len(alternative.Words))
	for _, w := range alternative.Words {
		word := w.Word
		if w.PunctuatedWord != "" {
			word = w.PunctuatedWord
		}
		words = append(words, providers.Word{
			Word:        word,
			Start:       w.Start,
			End:         w.End,
			Probability: w.Confidence,
		})
	}

	return &providers.Result{
		Text:     text,
		Duration: duration,
		Words:    words,
	}, nil
}
