package delivery

import (
	"context"
	"sync"
	"time"
)

// Pacer is a token bucket capping outbound event rate independently of
// per-event retry backoff, so a burst of retries cannot exceed the
// configured maximum rate.
type Pacer struct {
	mu       sync.Mutex
	rate     float64 // tokens per second
	capacity float64
	tokens   float64
	last     time.Time
}

// NewPacer creates a pacer allowing eventsPerSecond sustained throughput
// with a burst of up to burst events. A non-positive rate disables pacing.
func NewPacer(eventsPerSecond float64, burst int) *Pacer {
	if burst < 1 {
		burst = 1
	}
	return &Pacer{
		rate:     eventsPerSecond,
		capacity: float64(burst),
		tokens:   float64(burst),
		last:     time.Now(),
	}
}

// Wait blocks until a token is available or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.rate <= 0 {
		return ctx.Err()
	}

	for {
		p.mu.Lock()
		now := time.Now()
		p.tokens += now.Sub(p.last).Seconds() * p.rate
		if p.tokens > p.capacity {
			p.tokens = p.capacity
		}
		p.last = now

		if p.tokens >= 1 {
			p.tokens--
			p.mu.Unlock()
			return nil
		}
		wait := time.Duration((1 - p.tokens) / p.rate * float64(time.Second))
		p.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
