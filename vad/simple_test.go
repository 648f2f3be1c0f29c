package vad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleDetectorEmptyBuffer(t *testing.T) {
	d := NewSimpleDetector(0.1)

	segments, err := d.Detect(nil, 16000, 2)
	require.NoError(t, err)
	assert.Empty(t, segments)
}

func TestSimpleDetectorBelowMinDuration(t *testing.T) {
	d := NewSimpleDetector(0.1)

	// 0.05s of 16kHz 16-bit audio
	audio := make([]byte, 16000*2/20)
	segments, err := d.Detect(audio, 16000, 2)
	require.NoError(t, err)
	assert.Empty(t, segments)
}

func TestSimpleDetectorWholeBufferAsSpeech(t *testing.T) {
	d := NewSimpleDetector(0.1)

	// 2.0s of 16kHz 16-bit audio
	audio := make([]byte, 16000*2*2)
	segments, err := d.Detect(audio, 16000, 2)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, 0.0, segments[0].Start)
	assert.InDelta(t, 2.0, segments[0].End, 0.001)
	assert.Equal(t, 1.0, segments[0].Confidence)
}

func TestSimpleDetectorDefaultMinDuration(t *testing.T) {
	d := NewSimpleDetector(0)

	// Exactly at the default threshold
	audio := make([]byte, int(DefaultMinDuration*16000*2))
	segments, err := d.Detect(audio, 16000, 2)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.InDelta(t, DefaultMinDuration, segments[0].End, 0.001)
}
