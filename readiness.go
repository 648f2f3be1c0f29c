package stt_streaming

import "sync"

// ReadyGate is a process-wide one-shot broadcast signaling that the
// recognition subsystem has finished initializing. Every session waits on it
// exactly once; sessions created before initialization completes still
// observe the signal when it fires, and sessions created after see it
// immediately. No polling and no re-notification.
type ReadyGate struct {
	once sync.Once
	ch   chan struct{}
}

// NewReadyGate returns an unfired gate.
func NewReadyGate() *ReadyGate {
	return &ReadyGate{ch: make(chan struct{})}
}

// Set fires the gate. Safe to call multiple times; only the first has any
// effect.
func (g *ReadyGate) Set() {
	g.once.Do(func() { close(g.ch) })
}

// Ready returns a channel closed once the gate has fired.
func (g *ReadyGate) Ready() <-chan struct{} {
	return g.ch
}

// Fired reports whether the gate has fired without blocking.
func (g *ReadyGate) Fired() bool {
	select {
	case <-g.ch:
		return true
	default:
		return false
	}
}
