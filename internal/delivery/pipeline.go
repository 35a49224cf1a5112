package delivery

import (
	"context"
	"log/slog"
	"time"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/schedule"
)

// Progress is invoked after each event is resolved (delivered or
// exhausted). It runs on the pipeline goroutine; keep it cheap.
type Progress func(dispatched int, ev *schedule.ScheduledEvent)

// Pipeline consumes an ordered event queue, waiting out each event's
// dispatch offset and transmitting through the policy's fallback cascade.
type Pipeline struct {
	transmitter Transmitter
	policy      Policy
	pacer       *Pacer
	logger      *slog.Logger

	// KeepAttempts retains the full per-try audit log on the summary.
	KeepAttempts bool
}

// NewPipeline assembles a delivery pipeline. pacer may be nil to disable
// rate limiting (dry runs).
func NewPipeline(transmitter Transmitter, policy Policy, pacer *Pacer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		transmitter:  transmitter,
		policy:       policy,
		pacer:        pacer,
		logger:       logger,
		KeepAttempts: true,
	}
}

// Run delivers the queue in order. Cancellation is cooperative: ctx is
// checked before each dispatch, an in-flight attempt is allowed to finish,
// and the returned summary reflects events sent so far. Run returns ctx.Err
// when stopped early, nil otherwise; per-event failures are accounted in
// the summary, never returned.
func (p *Pipeline) Run(ctx context.Context, queue []schedule.ScheduledEvent, progress Progress) (*Summary, error) {
	summary := newSummary()
	start := time.Now()

	for i := range queue {
		ev := &queue[i]

		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := p.waitUntil(ctx, start, ev.Offset); err != nil {
			return summary, err
		}
		if p.pacer != nil {
			if err := p.pacer.Wait(ctx); err != nil {
				return summary, err
			}
		}

		delivered := p.dispatch(ctx, ev, summary)
		summary.record(ev.PhaseName, ev.GeneratorID, delivered)
		if progress != nil {
			progress(summary.Attempted, ev)
		}
	}

	return summary, nil
}

// dispatch runs the retry/fallback cascade for one event. Exhausting all
// attempts marks the event failed without halting the queue.
func (p *Pipeline) dispatch(ctx context.Context, ev *schedule.ScheduledEvent, summary *Summary) bool {
	max := p.policy.maxAttempts()
	var lastErr error
	var lastTarget Target

	for attempt := 1; attempt <= max; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, p.policy.backoff(attempt)); err != nil {
				break
			}
		}

		target := p.policy.target(attempt)
		lastTarget = target
		err := p.transmitter.Transmit(ctx, target, ev)

		outcome := OutcomeSuccess
		if err != nil {
			outcome = OutcomeFailure
			if isTimeout(err) {
				outcome = OutcomeTimeout
			}
		}
		if p.KeepAttempts {
			record := Attempt{
				Sequence: ev.Sequence,
				Endpoint: target.BaseURL + target.Path,
				Auth:     authLabel(target),
				Number:   attempt,
				Outcome:  outcome,
				Time:     time.Now(),
			}
			if err != nil {
				record.Error = err.Error()
			}
			summary.Attempts = append(summary.Attempts, record)
		}

		if err == nil {
			return true
		}
		lastErr = err
		p.logger.Debug("delivery attempt failed",
			slog.Int("sequence", ev.Sequence),
			slog.Int("attempt", attempt),
			slog.String("endpoint", target.BaseURL+target.Path),
			slog.String("error", err.Error()),
		)
	}

	failed := FailedEvent{
		Sequence:    ev.Sequence,
		PhaseName:   ev.PhaseName,
		GeneratorID: ev.GeneratorID,
		Endpoint:    lastTarget.BaseURL + lastTarget.Path,
	}
	if lastErr != nil {
		failed.Error = lastErr.Error()
	}
	summary.FailedEvents = append(summary.FailedEvents, failed)

	p.logger.Warn("event delivery exhausted",
		slog.Int("sequence", ev.Sequence),
		slog.String("phase", ev.PhaseName),
		slog.String("generator", ev.GeneratorID),
	)
	return false
}

// waitUntil sleeps until offset has elapsed since start, honoring ctx.
func (p *Pipeline) waitUntil(ctx context.Context, start time.Time, offset time.Duration) error {
	remaining := offset - time.Since(start)
	if remaining <= 0 {
		return nil
	}
	return sleep(ctx, remaining)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func authLabel(t Target) string {
	if t.InsecureSkipVerify {
		return "splunk-token/insecure-tls"
	}
	return "splunk-token"
}
