package session

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/voxpipe/stt_streaming/metrics"
	"github.com/voxpipe/stt_streaming/providers"
	"github.com/voxpipe/stt_streaming/vad"
)

// livenessSlackSeconds bounds how long a session may accumulate audio
// without a detected trailing silence before a flush is forced anyway.
const livenessSlackSeconds = 2.0

// DefaultRecognizeTimeout caps a single recognition call so an unbounded
// provider cannot stall the session forever.
const DefaultRecognizeTimeout = 30 * time.Second

// Result is one finalized transcription segment ready for emission.
type Result struct {
	Segment int
	Text    string
	Start   float64
	End     float64
	Words   []providers.Word
}

// Segmenter implements the silence-at-end-of-chunk segmentation strategy: a
// two-state machine (Idle / Processing) that decides on every audio append
// whether enough buffered audio has accumulated to promote it and attempt
// recognition.
//
// The in-flight guard lives on the AudioSession so that rebuilding the
// Segmenter on a config update cannot mint a second recognition slot while
// an old task is still running.
type Segmenter struct {
	sess       *AudioSession
	detector   vad.Detector
	recognizer providers.Recognizer
	emit       func(Result)
	log        *log.Logger
	metrics    *metrics.Metrics

	chunkLength      float64
	chunkOffset      float64
	recognizeTimeout time.Duration

	wg sync.WaitGroup
}

// SegmenterOptions bundles the collaborators a Segmenter drives.
type SegmenterOptions struct {
	Detector   vad.Detector
	Recognizer providers.Recognizer
	Emit       func(Result)
	Logger     *log.Logger
	Metrics    *metrics.Metrics

	// RecognizeTimeout caps each recognition call; zero means
	// DefaultRecognizeTimeout.
	RecognizeTimeout time.Duration
}

// NewSegmenter builds a segmenter for sess using the chunk parameters in the
// session's current config.
func NewSegmenter(sess *AudioSession, opts SegmenterOptions) *Segmenter {
	cfg := sess.Config()
	timeout := opts.RecognizeTimeout
	if timeout <= 0 {
		timeout = DefaultRecognizeTimeout
	}
	return &Segmenter{
		sess:             sess,
		detector:         opts.Detector,
		recognizer:       opts.Recognizer,
		emit:             opts.Emit,
		log:              opts.Logger,
		metrics:          opts.Metrics,
		chunkLength:      cfg.ChunkLengthSeconds,
		chunkOffset:      cfg.ChunkOffsetSeconds,
		recognizeTimeout: timeout,
	}
}

// Rebuild returns a fresh Segmenter picking up the session's current config.
// Buffered audio and the in-flight guard live on the session, so a rebuild
// mid-stream loses nothing.
func (g *Segmenter) Rebuild() *Segmenter {
	return NewSegmenter(g.sess, SegmenterOptions{
		Detector:         g.detector,
		Recognizer:       g.recognizer,
		Emit:             g.emit,
		Logger:           g.log,
		Metrics:          g.metrics,
		RecognizeTimeout: g.recognizeTimeout,
	})
}

// OnAudio evaluates the trigger condition after an append. When enough audio
// is pending and no recognition is outstanding, it promotes the pending
// buffer and spawns the recognition task. It never blocks on recognition;
// the caller's receive loop keeps consuming frames while the task runs.
//
// The spawned task deliberately survives ctx cancellation: disconnecting a
// session does not cancel in-flight recognition, it only discards the
// eventual result.
func (g *Segmenter) OnAudio(ctx context.Context) {
	chunkBytes := g.chunkLength * float64(g.sess.BytesPerSecond())
	if float64(g.sess.PendingLen()) <= chunkBytes {
		return
	}

	if !g.sess.TryBeginProcessing() {
		// A chunk became ready while the previous one was still being
		// processed. The next append after the task finishes re-evaluates
		// the combined buffer.
		g.log.Warn("tried processing a new chunk while the previous one was still being processed",
			"session", g.sess.ID(), "pending_bytes", g.sess.PendingLen())
		return
	}

	promoted, batchStart := g.sess.PromoteToWorking()
	if promoted == 0 {
		// Should be unreachable: the pending threshold was just exceeded.
		g.log.Warn("promotion produced an empty working buffer", "session", g.sess.ID())
		g.sess.EndProcessing()
		return
	}
	if g.metrics != nil {
		g.metrics.ChunksPromoted.Inc()
	}

	g.wg.Add(1)
	go g.process(context.WithoutCancel(ctx), batchStart)
}

// Wait blocks until any outstanding recognition task has finished.
func (g *Segmenter) Wait() {
	g.wg.Wait()
}

func (g *Segmenter) process(ctx context.Context, batchStart time.Time) {
	defer g.wg.Done()
	defer g.sess.EndProcessing()

	working := g.sess.Working()
	rate, width := g.sess.SampleRate(), g.sess.SampleWidth()

	segments, err := g.detector.Detect(working, rate, width)
	if err != nil {
		g.log.Error("activity detection failed, discarding chunk",
			"session", g.sess.ID(), "error", err)
		g.discardWorking()
		return
	}
	if len(segments) == 0 {
		// Silence-only chunk. Pending audio appended meanwhile is untouched.
		g.discardWorking()
		return
	}

	duration := float64(len(working)) / float64(rate*width)
	cutoff := duration - g.chunkOffset
	lastEnd := segments[len(segments)-1].End
	if lastEnd >= cutoff && cutoff <= livenessSlackSeconds {
		// Speech may still be continuing right at the edge of the buffer.
		// Leave the working buffer intact; the next promotion folds new
		// pending audio onto it.
		return
	}

	cfg := g.sess.Config()
	rctx, cancel := context.WithTimeout(ctx, g.recognizeTimeout)
	defer cancel()

	started := time.Now()
	result, err := g.recognizer.Recognize(rctx, working, providers.Config{
		SampleRate:   rate,
		SampleWidth:  width,
		LanguageCode: cfg.Language,
	})
	if g.metrics != nil {
		g.metrics.RecognitionDuration.Observe(time.Since(started).Seconds())
	}
	if err != nil {
		// A bad chunk must never wedge the session in Processing state; log,
		// drop the audio and move on.
		g.log.Error("recognition failed, discarding chunk",
			"session", g.sess.ID(), "provider", g.recognizer.Name(), "error", err)
		if g.metrics != nil {
			g.metrics.RecognitionFailures.Inc()
		}
		g.discardWorking()
		return
	}
	if result == nil || result.Text == "" {
		// Unintelligible audio: clear and advance, never retry the same
		// bytes.
		g.discardWorking()
		return
	}

	start := math.Trunc(batchStart.Sub(g.sess.ConnectTime()).Seconds()) + g.sess.BaseOffset()
	end := start + result.Duration

	g.emit(Result{
		Segment: g.sess.NextSegmentIndex(),
		Text:    result.Text,
		Start:   round3(start),
		End:     round3(end),
		Words:   result.Words,
	})
	if g.metrics != nil {
		g.metrics.ResultsEmitted.Inc()
	}

	g.sess.AdvanceEmittedEnd(end)
	g.sess.ClearWorking()
}

func (g *Segmenter) discardWorking() {
	g.sess.ClearWorking()
	if g.metrics != nil {
		g.metrics.ChunksDiscarded.Inc()
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
