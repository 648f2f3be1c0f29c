package main

import (
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
)

// TranscriptBuffer keeps a ring of recently printed transcripts so the client
// can suppress near-duplicate results from overlapping recognition windows.
type TranscriptBuffer struct {
	entries  []string
	head     int
	size     int
	capacity int
	mu       sync.RWMutex
}

// NewTranscriptBuffer creates a buffer holding at most capacity transcripts.
func NewTranscriptBuffer(capacity int) *TranscriptBuffer {
	if capacity <= 0 {
		capacity = 1
	}

	return &TranscriptBuffer{
		entries:  make([]string, capacity),
		capacity: capacity,
	}
}

// Add records a transcript, evicting the oldest entry when full.
func (tb *TranscriptBuffer) Add(transcript string) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.entries[tb.head] = transcript
	tb.head = (tb.head + 1) % tb.capacity
	if tb.size < tb.capacity {
		tb.size++
	}
}

// IsSimilar reports whether transcript matches any recorded entry within the
// given similarity threshold.
func (tb *TranscriptBuffer) IsSimilar(transcript string, threshold float64) bool {
	tb.mu.RLock()
	defer tb.mu.RUnlock()

	normalized := normalizeTranscript(transcript)

	for i := 0; i < tb.size; i++ {
		if similarTranscripts(normalized, normalizeTranscript(tb.entries[i]), threshold) {
			return true
		}
	}
	return false
}

func normalizeTranscript(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// similarTranscripts compares two normalized transcripts by Levenshtein
// distance relative to the longer of the two.
func similarTranscripts(a, b string, threshold float64) bool {
	if a == b {
		return true
	}

	if a == "" || b == "" {
		return false
	}

	distance := levenshtein.ComputeDistance(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}

	similarity := 1.0 - (float64(distance) / float64(maxLen))
	return similarity >= threshold
}
