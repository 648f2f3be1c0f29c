package providers

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestNewFailover(t *testing.T) {
	t.Run("requires at least one recognizer", func(t *testing.T) {
		f, err := NewFailover(testLogger())
		assert.Nil(t, f)
		assert.Error(t, err)
	})

	t.Run("single recognizer", func(t *testing.T) {
		f, err := NewFailover(testLogger(), NewMockRecognizer(t))
		require.NoError(t, err)
		assert.Equal(t, "failover", f.Name())
	})
}

func TestFailover_Recognize(t *testing.T) {
	cfg := Config{SampleRate: 16000, SampleWidth: 2, LanguageCode: "en-US"}
	audio := []byte("pcm")

	t.Run("first provider succeeds", func(t *testing.T) {
		first := NewMockRecognizer(t)
		first.EXPECT().Recognize(mock.Anything, audio, cfg).
			Return(&Result{Text: "hello"}, nil)
		second := NewMockRecognizer(t)

		f, err := NewFailover(testLogger(), first, second)
		require.NoError(t, err)

		result, err := f.Recognize(context.Background(), audio, cfg)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "hello", result.Text)
		// Second provider never consulted.
		second.AssertNotCalled(t, "Recognize")
	})

	t.Run("falls through to second provider", func(t *testing.T) {
		first := NewMockRecognizer(t)
		first.EXPECT().Recognize(mock.Anything, audio, cfg).
			Return(nil, errors.New("upstream down"))
		first.EXPECT().Name().Return("first").Maybe()

		second := NewMockRecognizer(t)
		second.EXPECT().Recognize(mock.Anything, audio, cfg).
			Return(&Result{Text: "recovered"}, nil)
		second.EXPECT().Name().Return("second").Maybe()

		f, err := NewFailover(testLogger(), first, second)
		require.NoError(t, err)

		result, err := f.Recognize(context.Background(), audio, cfg)
		require.NoError(t, err)
		assert.Equal(t, "recovered", result.Text)
	})

	t.Run("successful provider becomes preferred", func(t *testing.T) {
		first := NewMockRecognizer(t)
		first.EXPECT().Recognize(mock.Anything, audio, cfg).
			Return(nil, errors.New("upstream down")).Once()
		first.EXPECT().Name().Return("first").Maybe()

		second := NewMockRecognizer(t)
		second.EXPECT().Recognize(mock.Anything, audio, cfg).
			Return(&Result{Text: "ok"}, nil).Twice()
		second.EXPECT().Name().Return("second").Maybe()

		f, err := NewFailover(testLogger(), first, second)
		require.NoError(t, err)

		_, err = f.Recognize(context.Background(), audio, cfg)
		require.NoError(t, err)

		// Second call goes straight to the now-preferred provider.
		_, err = f.Recognize(context.Background(), audio, cfg)
		require.NoError(t, err)
	})

	t.Run("nothing recognized counts as success", func(t *testing.T) {
		first := NewMockRecognizer(t)
		first.EXPECT().Recognize(mock.Anything, audio, cfg).
			Return(nil, nil)
		second := NewMockRecognizer(t)

		f, err := NewFailover(testLogger(), first, second)
		require.NoError(t, err)

		result, err := f.Recognize(context.Background(), audio, cfg)
		require.NoError(t, err)
		assert.Nil(t, result)
		second.AssertNotCalled(t, "Recognize")
	})

	t.Run("all providers fail", func(t *testing.T) {
		errFirst := errors.New("first down")
		errSecond := errors.New("second down")

		first := NewMockRecognizer(t)
		first.EXPECT().Recognize(mock.Anything, audio, cfg).Return(nil, errFirst)
		first.EXPECT().Name().Return("first").Maybe()

		second := NewMockRecognizer(t)
		second.EXPECT().Recognize(mock.Anything, audio, cfg).Return(nil, errSecond)
		second.EXPECT().Name().Return("second").Maybe()

		f, err := NewFailover(testLogger(), first, second)
		require.NoError(t, err)

		result, err := f.Recognize(context.Background(), audio, cfg)
		assert.Nil(t, result)
		require.Error(t, err)
		assert.ErrorIs(t, err, errFirst)
		assert.ErrorIs(t, err, errSecond)
	})

	t.Run("stops after context deadline", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		first := NewMockRecognizer(t)
		first.EXPECT().Recognize(mock.Anything, audio, cfg).
			RunAndReturn(func(ctx context.Context, audio []byte, config Config) (*Result, error) {
				cancel()
				return nil, ctx.Err()
			})
		first.EXPECT().Name().Return("first").Maybe()

		second := NewMockRecognizer(t)

		f, err := NewFailover(testLogger(), first, second)
		require.NoError(t, err)

		result, err := f.Recognize(ctx, audio, cfg)
		assert.Nil(t, result)
		assert.Error(t, err)
		second.AssertNotCalled(t, "Recognize")
	})
}
