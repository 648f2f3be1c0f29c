package vad

// DefaultMinDuration is the minimum buffered duration, in seconds, below
// which SimpleDetector reports no activity.
const DefaultMinDuration = 0.1

// SimpleDetector is a degenerate Detector that treats the entire buffer as
// one continuous speech interval once a minimum duration of audio has been
// buffered. It exists so the session engine can run without a real VAD model;
// any real implementation is a drop-in replacement.
type SimpleDetector struct {
	minDuration float64
}

// NewSimpleDetector creates a SimpleDetector with the given minimum duration
// in seconds. Non-positive values fall back to DefaultMinDuration.
func NewSimpleDetector(minDuration float64) *SimpleDetector {
	if minDuration <= 0 {
		minDuration = DefaultMinDuration
	}
	return &SimpleDetector{minDuration: minDuration}
}

// Detect reports the whole buffer as speech, or nothing if the buffer is
// shorter than the configured minimum duration.
func (d *SimpleDetector) Detect(audio []byte, sampleRate, sampleWidth int) ([]Segment, error) {
	if len(audio) == 0 || sampleRate <= 0 || sampleWidth <= 0 {
		return nil, nil
	}

	duration := float64(len(audio)) / float64(sampleRate*sampleWidth)
	if duration < d.minDuration {
		return nil, nil
	}

	return []Segment{{Start: 0, End: duration, Confidence: 1.0}}, nil
}
