package middleware

import (
	"net/http"
	"sync"
	"time"
)

// RateLimiter bounds request rates on the control API.
type RateLimiter interface {
	Allow(key string) bool
}

// NoOpRateLimiter admits everything.
type NoOpRateLimiter struct{}

func (NoOpRateLimiter) Allow(string) bool { return true }

// WindowRateLimiter is an in-process sliding-window limiter keyed by
// client, capped at limit requests per window.
type WindowRateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	seen   map[string][]time.Time
}

func NewWindowRateLimiter(limit int, window time.Duration) *WindowRateLimiter {
	return &WindowRateLimiter{
		limit:  limit,
		window: window,
		seen:   make(map[string][]time.Time),
	}
}

func (l *WindowRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-l.window)

	stamps := l.seen[key]
	kept := stamps[:0]
	for _, t := range stamps {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.seen[key] = kept
		return false
	}
	l.seen[key] = append(kept, now)
	return true
}

// RateLimit rejects requests over the limit with 429, keyed by remote host.
func RateLimit(limiter RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientKey(r)) {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}
