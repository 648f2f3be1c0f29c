package stt_streaming

import (
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultMaxSessions bounds concurrent streaming sessions when the
// configuration does not say otherwise.
const DefaultMaxSessions = 10

// SessionRegistry enforces the concurrent-session cap and tracks active
// sessions for shutdown cleanup. Admission is immediate accept-or-reject;
// there is no queueing, callers must retry.
type SessionRegistry struct {
	sem      *semaphore.Weighted
	sessions sync.Map // id -> close func()
}

// NewSessionRegistry creates a registry admitting at most maxSessions
// concurrent sessions.
func NewSessionRegistry(maxSessions int) *SessionRegistry {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &SessionRegistry{
		sem: semaphore.NewWeighted(int64(maxSessions)),
	}
}

// TryAdmit claims a session slot for id. It returns false immediately when
// the registry is at capacity.
func (r *SessionRegistry) TryAdmit(id string) bool {
	if !r.sem.TryAcquire(1) {
		return false
	}
	r.sessions.Store(id, func() {})
	return true
}

// Track attaches the close callback invoked by CloseAll. It must follow a
// successful TryAdmit for the same id.
func (r *SessionRegistry) Track(id string, close func()) {
	if _, ok := r.sessions.Load(id); ok {
		r.sessions.Store(id, close)
	}
}

// Release frees the slot held by id. Idempotent: releasing an unknown or
// already-released id is a no-op, so it is safe to call from both the
// connection handler's cleanup path and CloseAll.
func (r *SessionRegistry) Release(id string) {
	if _, ok := r.sessions.LoadAndDelete(id); ok {
		r.sem.Release(1)
	}
}

// Count reports the number of admitted sessions.
func (r *SessionRegistry) Count() int {
	n := 0
	r.sessions.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// CloseAll shuts down every tracked session and releases its slot.
func (r *SessionRegistry) CloseAll() {
	r.sessions.Range(func(key, value any) bool {
		if close, ok := value.(func()); ok {
			close()
		}
		r.Release(key.(string))
		return true
	})
}
