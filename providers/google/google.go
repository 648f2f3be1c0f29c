package google

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/voxpipe/stt_streaming/providers"
)

const providerName = "google"

// recognizeClient is a local interface that wraps the method we need from
// speech.Client to enable easier testing.
type recognizeClient interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error)
}

// Recognizer implements providers.Recognizer using Google's one-shot
// Recognize call with word time offsets enabled.
type Recognizer struct {
	client recognizeClient
}

// NewRecognizer creates a Google Speech recognizer with the given client.
func NewRecognizer(client *speech.Client) *Recognizer {
	return &Recognizer{
		client: client,
	}
}

// Name returns the name of the provider.
func (r *Recognizer) Name() string {
	return providerName
}

// Recognize transcribes the audio buffer through the Google Speech API. The
// per-alternative transcripts are concatenated in result order; an empty
// transcript maps to (nil, nil).
func (r *Recognizer) Recognize(ctx context.Context, audio []byte, config providers.Config) (*providers.Result, error) {
	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:              speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:       int32(config.SampleRate),
			LanguageCode:          config.LanguageCode,
			EnableWordTimeOffsets: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}

	resp, err := r.client.Recognize(ctx, req)
	if err != nil {
		if status.Code(err) == codes.DeadlineExceeded {
			return nil, fmt.Errorf("google recognize timed out: %w", err)
		}
		return nil, err
	}

	var sb strings.Builder
	var words []providers.Word
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		alt := result.Alternatives[0]
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strings.TrimSpace(alt.Transcript))

		for _, w := range alt.Words {
			words = append(words, providers.Word{
				Word:        w.Word,
				Start:       w.StartTime.AsDuration().Seconds(),
				End:         w.EndTime.AsDuration().Seconds(),
				Probability: float64(alt.Confidence),
			})
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, nil
	}

	// Google does not report the buffer duration; derive it from the PCM
	// length so segment timestamps line up with the session timeline.
	var duration float64
	if config.SampleRate > 0 && config.SampleWidth > 0 {
		duration = float64(len(audio)) / float64(config.SampleRate*config.SampleWidth)
	} else if len(words) > 0 {
		duration = words[len(words)-1].End
	}

	return &providers.Result{
		Text:     text,
		Duration: duration,
		Words:    words,
	}, nil
}
