// Package metrics exposes Prometheus instrumentation for the streaming
// transcription service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the streaming service.
type Metrics struct {
	// Session metrics
	ActiveSessions   prometheus.Gauge
	SessionsRejected prometheus.Counter

	// Audio metrics
	AudioBytesReceived prometheus.Counter
	ChunksPromoted     prometheus.Counter
	ChunksDiscarded    prometheus.Counter

	// Recognition metrics
	RecognitionDuration prometheus.Histogram
	RecognitionFailures prometheus.Counter
	ResultsEmitted      prometheus.Counter
}

// New creates and registers all metrics against the given registerer. Tests
// pass a fresh prometheus.NewRegistry to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "stt_active_sessions",
			Help: "Number of currently admitted streaming sessions",
		}),
		SessionsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "stt_sessions_rejected_total",
			Help: "Total connections rejected by admission control",
		}),
		AudioBytesReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "stt_audio_bytes_received_total",
			Help: "Total audio bytes appended across all sessions",
		}),
		ChunksPromoted: factory.NewCounter(prometheus.CounterOpts{
			Name: "stt_chunks_promoted_total",
			Help: "Total buffer promotions into a recognition attempt",
		}),
		ChunksDiscarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "stt_chunks_discarded_total",
			Help: "Total working buffers discarded as silence or after errors",
		}),
		RecognitionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "stt_recognition_duration_seconds",
			Help:    "Wall-clock duration of recognition calls",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		RecognitionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "stt_recognition_failures_total",
			Help: "Total recognition calls that returned an error",
		}),
		ResultsEmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "stt_results_emitted_total",
			Help: "Total transcription result messages emitted",
		}),
	}
}
