package delivery

import (
	"time"

	"github.com/roarinpenguin/jarvis-coding-sub000/pkg/hec"
)

// Target is one endpoint/auth combination in the fallback cascade.
type Target struct {
	// BaseURL is the collector base, e.g. "https://ingest.example.com:8088".
	BaseURL string

	// Path is the collector path; hec.EventPath or hec.RawPath.
	Path string

	// Token is the collector credential for this target.
	Token string

	// InsecureSkipVerify disables TLS verification for this target only.
	InsecureSkipVerify bool
}

// Policy is the explicit retry/fallback schedule evaluated per event,
// decoupled from the dispatch loop. Attempt n uses Targets[n % len] and
// backs off Backoff[min(n-1, len-1)] before retrying.
type Policy struct {
	MaxAttempts int
	Backoff     []time.Duration
	Targets     []Target
}

// DefaultPolicy builds the standard cascade for a primary endpoint: the
// structured collector path first, then the raw path, then the structured
// path without TLS verification, with three attempts per event.
func DefaultPolicy(baseURL, token string) Policy {
	return Policy{
		MaxAttempts: 3,
		Backoff:     []time.Duration{500 * time.Millisecond, 2 * time.Second},
		Targets: []Target{
			{BaseURL: baseURL, Path: hec.EventPath, Token: token},
			{BaseURL: baseURL, Path: hec.RawPath, Token: token},
			{BaseURL: baseURL, Path: hec.EventPath, Token: token, InsecureSkipVerify: true},
		},
	}
}

// SkipTLSVerify returns a copy of the policy with TLS verification disabled
// on every target, for collectors presenting self-signed certificates.
func (p Policy) SkipTLSVerify() Policy {
	targets := make([]Target, len(p.Targets))
	copy(targets, p.Targets)
	for i := range targets {
		targets[i].InsecureSkipVerify = true
	}
	p.Targets = targets
	return p
}

// target returns the fallback target for a given attempt number (1-based).
func (p Policy) target(attempt int) Target {
	if len(p.Targets) == 0 {
		return Target{}
	}
	return p.Targets[(attempt-1)%len(p.Targets)]
}

// backoff returns the delay before the given retry (attempt ≥ 2).
func (p Policy) backoff(attempt int) time.Duration {
	if len(p.Backoff) == 0 {
		return 0
	}
	idx := attempt - 2
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p.Backoff) {
		idx = len(p.Backoff) - 1
	}
	return p.Backoff[idx]
}

// maxAttempts normalizes the attempt bound.
func (p Policy) maxAttempts() int {
	if p.MaxAttempts <= 0 {
		return 3
	}
	return p.MaxAttempts
}
