package deepgram

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	api "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest/interfaces"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"

	"github.com/voxpipe/stt_streaming/providers"
)

func testConfig() providers.Config {
	return providers.Config{
		SampleRate:   16000,
		SampleWidth:  2,
		LanguageCode: "en-US",
	}
}

func responseWith(transcript string, duration float64, words ...api.Word) *api.PreRecordedResponse {
	return &api.PreRecordedResponse{
		Metadata: &api.Metadata{
			Duration: duration,
		},
		Results: &api.Result{
			Channels: []api.Channel{
				{
					Alternatives: []api.Alternative{
						{
							Transcript: transcript,
							Words:      words,
						},
					},
				},
			},
		},
	}
}

func TestRecognizer_Name(t *testing.T) {
	r := &Recognizer{}
	assert.Equal(t, "deepgram", r.Name())
}

func TestRecognizer_Recognize(t *testing.T) {
	tests := []struct {
		name         string
		response     *api.PreRecordedResponse
		apiErr       error
		expectErr    bool
		expectNil    bool
		expectedText string
	}{
		{
			name:         "valid transcript",
			response:     responseWith("hello world", 1.5),
			expectedText: "hello world",
		},
		{
			name:         "transcript with whitespace trimming",
			response:     responseWith("  hello world  ", 1.5),
			expectedText: "hello world",
		},
		{
			name:      "empty transcript - nothing recognized",
			response:  responseWith("", 1.5),
			expectNil: true,
		},
		{
			name:      "whitespace-only transcript - nothing recognized",
			response:  responseWith("   ", 1.5),
			expectNil: true,
		},
		{
			name: "no channels - nothing recognized",
			response: &api.PreRecordedResponse{
				Results: &api.Result{},
			},
			expectNil: true,
		},
		{
			name: "no alternatives - nothing recognized",
			response: &api.PreRecordedResponse{
				Results: &api.Result{
					Channels: []api.Channel{{}},
				},
			},
			expectNil: true,
		},
		{
			name:      "api error",
			apiErr:    errors.New("upstream unavailable"),
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAPI := newMockRestTranscriber(t)
			mockAPI.EXPECT().
				FromStream(mock.Anything, mock.Anything, mock.Anything).
				Return(tt.response, tt.apiErr)

			r := &Recognizer{api: mockAPI}
			result, err := r.Recognize(context.Background(), []byte("audio"), testConfig())

			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			if tt.expectNil {
				assert.Nil(t, result)
				return
			}

			require.NotNil(t, result)
			assert.Equal(t, tt.expectedText, result.Text)
			assert.Equal(t, 1.5, result.Duration)
		})
	}
}

func TestRecognizer_Recognize_RequestOptions(t *testing.T) {
	mockAPI := newMockRestTranscriber(t)
	mockAPI.EXPECT().
		FromStream(mock.Anything, mock.Anything, mock.Anything).
		Run(func(ctx context.Context, source io.Reader, options *interfaces.PreRecordedTranscriptionOptions) {
			assert.Equal(t, "nova-3", options.Model)
			assert.Equal(t, "linear16", options.Encoding)
			assert.Equal(t, "en-US", options.Language)
			assert.Equal(t, 16000, options.SampleRate)
			assert.True(t, options.Punctuate)
		}).
		Return(responseWith("ok", 1.0), nil)

	r := &Recognizer{api: mockAPI}
	_, err := r.Recognize(context.Background(), []byte{0, 0, 0, 0}, testConfig())
	require.NoError(t, err)
}

func TestRecognizer_Recognize_Words(t *testing.T) {
	words := []api.Word{
		{Word: "hello", PunctuatedWord: "Hello,", Start: 0.1, End: 0.4, Confidence: 0.95},
		{Word: "world", Start: 0.5, End: 0.9, Confidence: 0.9},
	}

	mockAPI := newMockRestTranscriber(t)
	mockAPI.EXPECT().
		FromStream(mock.Anything, mock.Anything, mock.Anything).
		Return(responseWith("hello world", 1.0, words...), nil)

	r := &Recognizer{api: mockAPI}
	result, err := r.Recognize(context.Background(), []byte("audio"), testConfig())
	require.NoError(t, err)
	require.NotNil(t, result)

	require.Len(t, result.Words, 2)
	// Punctuated form preferred when present.
	assert.Equal(t, "Hello,", result.Words[0].Word)
	assert.Equal(t, "world", result.Words[1].Word)
	assert.Equal(t, 0.1, result.Words[0].Start)
	assert.Equal(t, 0.9, result.Words[1].End)
	assert.Equal(t, 0.95, result.Words[0].Probability)
}

func TestRecognizer_Recognize_DurationFallback(t *testing.T) {
	// One second of 16kHz 16-bit mono PCM.
	audio := make([]byte, 16000*2)

	resp := responseWith("fallback", 0)
	resp.Metadata = nil

	mockAPI := newMockRestTranscriber(t)
	mockAPI.EXPECT().
		FromStream(mock.Anything, mock.Anything, mock.Anything).
		Return(resp, nil)

	r := &Recognizer{api: mockAPI}
	result, err := r.Recognize(context.Background(), audio, testConfig())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.InDelta(t, 1.0, result.Duration, 0.001)
}
