package session

import (
	"sync"
	"time"
)

// Default segmentation parameters, matching the shipped deployment profile.
const (
	DefaultChunkLengthSeconds = 1.5
	DefaultChunkOffsetSeconds = 0.1
	DefaultStrategy           = "silence_at_end_of_chunk"
)

// Config holds the per-session tuning values. Replacing it rebuilds the
// session's segmenter but never touches buffered audio.
type Config struct {
	Language           string
	ProcessingStrategy string
	ChunkLengthSeconds float64
	ChunkOffsetSeconds float64
}

// DefaultConfig returns the segmentation defaults used when a session is
// created without an explicit configuration.
func DefaultConfig() Config {
	return Config{
		ProcessingStrategy: DefaultStrategy,
		ChunkLengthSeconds: DefaultChunkLengthSeconds,
		ChunkOffsetSeconds: DefaultChunkOffsetSeconds,
	}
}

// ConfigUpdate is a partial configuration change; nil fields are left as-is.
type ConfigUpdate struct {
	Language           *string
	ProcessingStrategy *string
	ChunkLengthSeconds *float64
	ChunkOffsetSeconds *float64
	SampleRate         *int
}

// AudioSession owns the audio buffers and timing state for one logical
// duplex connection.
//
// Audio arrives into the pending buffer via AppendAudio and is moved, never
// copied, into the working buffer by PromoteToWorking. The working buffer is
// exclusively owned by the single in-flight recognition task gated by
// TryBeginProcessing; the receive loop only ever touches the pending buffer.
type AudioSession struct {
	id    string
	jobID string

	mu            sync.Mutex
	sampleRate    int
	sampleWidth   int
	pending       []byte
	working       []byte
	totalSamples  int64
	config        Config
	connectTime   time.Time // first audio observed
	batchStart    time.Time // first audio since the last promotion
	lastEmitEnd   float64
	segmentIndex  int
	processing    bool
	baseOffset    float64
	now           func() time.Time
}

// New creates an AudioSession. sampleRate and sampleWidth are fixed for the
// session lifetime (sampleRate may still be adjusted by a config message
// before processing starts, mirroring the wire protocol). baseOffset seeds
// the emitted timeline, for resumed jobs.
func New(id, jobID string, sampleRate, sampleWidth int, baseOffset float64, cfg Config) *AudioSession {
	if cfg.ChunkLengthSeconds <= 0 {
		cfg.ChunkLengthSeconds = DefaultChunkLengthSeconds
	}
	if cfg.ChunkOffsetSeconds <= 0 {
		cfg.ChunkOffsetSeconds = DefaultChunkOffsetSeconds
	}
	if cfg.ProcessingStrategy == "" {
		cfg.ProcessingStrategy = DefaultStrategy
	}
	return &AudioSession{
		id:          id,
		jobID:       jobID,
		sampleRate:  sampleRate,
		sampleWidth: sampleWidth,
		config:      cfg,
		baseOffset:  baseOffset,
		now:         time.Now,
	}
}

// ID returns the session identifier.
func (s *AudioSession) ID() string { return s.id }

// JobID returns the job identifier assigned at connect time.
func (s *AudioSession) JobID() string { return s.jobID }

// AppendAudio concatenates audio onto the pending buffer. It never fails;
// growth is bounded only by admission control, not here.
func (s *AudioSession) AppendAudio(audio []byte) {
	if len(audio) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.connectTime.IsZero() {
		s.connectTime = now
	}
	if s.batchStart.IsZero() {
		s.batchStart = now
	}
	s.pending = append(s.pending, audio...)
	if s.sampleWidth > 0 {
		s.totalSamples += int64(len(audio) / s.sampleWidth)
	}
}

// PromoteToWorking atomically moves all pending bytes onto the working
// buffer (after any leftover from a previous, untriggered promotion) and
// returns the working buffer length in bytes together with the wall-clock
// time the promoted batch started accumulating.
func (s *AudioSession) PromoteToWorking() (int, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batchStart := s.batchStart
	s.batchStart = time.Time{}

	if len(s.pending) == 0 {
		return len(s.working), batchStart
	}
	if len(s.working) == 0 {
		// Pure move: hand the backing array over and force future appends
		// onto a fresh allocation so the two buffers can never alias.
		s.working = s.pending
		s.pending = nil
		return len(s.working), batchStart
	}
	s.working = append(s.working, s.pending...)
	s.pending = nil
	return len(s.working), batchStart
}

// Working returns the working buffer. Only the recognition task that won
// TryBeginProcessing may call this.
func (s *AudioSession) Working() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working
}

// ClearWorking discards the working buffer.
func (s *AudioSession) ClearWorking() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.working = nil
}

// PendingLen reports the pending buffer size in bytes.
func (s *AudioSession) PendingLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// WorkingLen reports the working buffer size in bytes.
func (s *AudioSession) WorkingLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.working)
}

// TryBeginProcessing attempts to take the single recognition-in-flight slot.
// It returns false when a recognition task is already outstanding.
func (s *AudioSession) TryBeginProcessing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return false
	}
	s.processing = true
	return true
}

// EndProcessing releases the recognition-in-flight slot.
func (s *AudioSession) EndProcessing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = false
}

// Processing reports whether a recognition task is outstanding.
func (s *AudioSession) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

// UpdateConfig merges the non-nil fields of update into the session config
// and returns the merged result. Buffered audio is untouched; the caller is
// responsible for rebuilding its segmenter from the returned config.
func (s *AudioSession) UpdateConfig(update ConfigUpdate) Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	if update.Language != nil {
		s.config.Language = *update.Language
	}
	if update.ProcessingStrategy != nil {
		s.config.ProcessingStrategy = *update.ProcessingStrategy
	}
	if update.ChunkLengthSeconds != nil {
		s.config.ChunkLengthSeconds = *update.ChunkLengthSeconds
	}
	if update.ChunkOffsetSeconds != nil {
		s.config.ChunkOffsetSeconds = *update.ChunkOffsetSeconds
	}
	if update.SampleRate != nil && *update.SampleRate > 0 {
		s.sampleRate = *update.SampleRate
	}
	return s.config
}

// Config returns a copy of the current session configuration.
func (s *AudioSession) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// SampleRate returns the session sample rate in Hz.
func (s *AudioSession) SampleRate() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampleRate
}

// SampleWidth returns the bytes per sample.
func (s *AudioSession) SampleWidth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampleWidth
}

// BytesPerSecond returns the audio byte rate for duration math.
func (s *AudioSession) BytesPerSecond() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampleRate * s.sampleWidth
}

// TotalSamples reports the total number of samples appended. Diagnostics
// only.
func (s *AudioSession) TotalSamples() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalSamples
}

// ConnectTime returns the wall-clock instant the first audio arrived; zero
// when no audio has been received yet.
func (s *AudioSession) ConnectTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectTime
}

// BaseOffset returns the timeline offset the session was seeded with.
func (s *AudioSession) BaseOffset() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseOffset
}

// NextSegmentIndex hands out the next result segment index.
func (s *AudioSession) NextSegmentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.segmentIndex
	s.segmentIndex++
	return i
}

// AdvanceEmittedEnd records the end time of the last emitted segment.
func (s *AudioSession) AdvanceEmittedEnd(end float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if end > s.lastEmitEnd {
		s.lastEmitEnd = end
	}
}

// LastEmittedEnd returns the stream-relative end of the last recognized
// segment.
func (s *AudioSession) LastEmittedEnd() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastEmitEnd
}
