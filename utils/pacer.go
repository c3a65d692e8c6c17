package utils

import (
	"context"
	"sync"
	"time"
)

// Pacer spaces out consecutive requests by a fixed minimum interval.
// The first call to Wait never blocks.
type Pacer struct {
	interval time.Duration

	mu          sync.Mutex
	lastRequest time.Time
}

// NewPacer creates a Pacer enforcing the given interval.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval}
}

// Wait blocks until at least one interval has passed since the previous
// call returned, or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.lastRequest.IsZero() && p.interval > 0 {
		elapsed := time.Since(p.lastRequest)
		if elapsed < p.interval {
			t := time.NewTimer(p.interval - elapsed)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
	}
	p.lastRequest = time.Now()
	return nil
}

// Interval returns the configured minimum gap.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}
