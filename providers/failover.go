package providers

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
)

const failoverName = "failover"

// Failover wraps multiple recognizers and tries them in order until one
// succeeds. The most recently successful recognizer is preferred for the
// next call, so a healthy provider keeps serving until it fails.
type Failover struct {
	recognizers []Recognizer
	log         *log.Logger

	mu        sync.Mutex
	preferred int
}

// NewFailover builds a Failover over the given recognizers. At least one
// recognizer is required.
func NewFailover(logger *log.Logger, recognizers ...Recognizer) (*Failover, error) {
	if len(recognizers) == 0 {
		return nil, errors.New("no recognizers available")
	}
	return &Failover{
		recognizers: recognizers,
		log:         logger,
	}, nil
}

// Name implements Recognizer.
func (f *Failover) Name() string {
	return failoverName
}

// Recognize tries each wrapped recognizer, preferred one first, and returns
// the first successful result. A (nil, nil) return from a provider counts as
// success. All providers failing yields the joined errors.
func (f *Failover) Recognize(ctx context.Context, audio []byte, config Config) (*Result, error) {
	f.mu.Lock()
	preferred := f.preferred
	f.mu.Unlock()

	order := make([]int, 0, len(f.recognizers))
	order = append(order, preferred)
	for i := range f.recognizers {
		if i != preferred {
			order = append(order, i)
		}
	}

	var errs []error
	for _, i := range order {
		r := f.recognizers[i]
		result, err := r.Recognize(ctx, audio, config)
		if err != nil {
			f.log.Warn("recognizer failed, trying next", "provider", r.Name(), "error", err)
			errs = append(errs, err)
			if ctx.Err() != nil {
				// The shared deadline is gone; the remaining providers would
				// fail the same way.
				break
			}
			continue
		}

		if i != preferred {
			f.mu.Lock()
			f.preferred = i
			f.mu.Unlock()
			f.log.Info("switched preferred recognizer", "provider", r.Name())
		}
		return result, nil
	}

	return nil, errors.Join(errs...)
}
