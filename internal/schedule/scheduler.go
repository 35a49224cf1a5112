// Package schedule turns a validated campaign definition into a single
// ordered, time-stamped event queue spanning all phases.
package schedule

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/campaign"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/entity"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/generator"
)

// jitterFraction bounds intra-phase jitter to a fraction of the even
// inter-event gap, small enough that sorting restores strict order without
// events escaping their phase.
const jitterFraction = 0.4

// ScheduledEvent is one routed event with its place on the timeline.
// LogicalTime is narrative time embedded in the payload; Offset is the
// speed-scaled dispatch delay from execution start.
type ScheduledEvent struct {
	Sequence    int
	PhaseIndex  int
	PhaseName   string
	GeneratorID string
	LogicalTime time.Time
	Offset      time.Duration
	SourceType  string
	Index       string
	Payload     map[string]interface{}
}

// GeneratorFailure attributes a failed generator invocation to its phase.
// Failures are non-fatal: the phase proceeds with whatever other generators
// produced.
type GeneratorFailure struct {
	PhaseIndex  int
	PhaseName   string
	GeneratorID string
	Err         error
}

func (f GeneratorFailure) Error() string {
	return fmt.Sprintf("phase %q generator %q: %v", f.PhaseName, f.GeneratorID, f.Err)
}

// Options configures a schedule build.
type Options struct {
	Speed      Speed
	FastFactor float64

	// Start anchors logical time. Zero means time.Now().
	Start time.Time

	// Seed drives jitter; fixed seeds give reproducible schedules.
	Seed int64
}

// Scheduler converts campaigns into ordered queues. It is pure computation
// apart from generator invocation through the adapter.
type Scheduler struct {
	adapter *generator.Adapter
	logger  *slog.Logger
}

// NewScheduler creates a scheduler invoking generators through adapter.
func NewScheduler(adapter *generator.Adapter, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{adapter: adapter, logger: logger}
}

// Build materializes and orders the full event queue for one campaign run.
// Returned failures carry per-generator attribution; the queue covers every
// generator that succeeded. A phase in which all generators fail contributes
// zero events (degraded) without aborting the build.
func (s *Scheduler) Build(c *campaign.Campaign, pool *entity.Pool, opts Options) ([]ScheduledEvent, []GeneratorFailure, error) {
	start := opts.Start
	if start.IsZero() {
		start = time.Now()
	}
	factor := opts.Speed.factor(opts.FastFactor)
	rng := rand.New(rand.NewSource(opts.Seed))

	// Identities allocate up front so every phase resolves the same values.
	for _, role := range c.Roles() {
		if _, err := pool.Allocate(role); err != nil {
			return nil, nil, fmt.Errorf("allocate role: %w", err)
		}
	}

	var (
		queue     []ScheduledEvent
		failures  []GeneratorFailure
		phaseBase time.Duration
	)

	for phaseIdx, phase := range c.Phases {
		counts := apportion(phase.Generators, phase.EventBudget)

		// Each generator's events spread across the whole phase; sorting by
		// offset afterwards interleaves the generator outputs.
		var phaseQueue []ScheduledEvent
		for i, gw := range phase.Generators {
			events, err := s.adapter.Produce(gw.GeneratorID, counts[i], phaseIdx, pool, phase.Params)
			if err != nil {
				failures = append(failures, GeneratorFailure{
					PhaseIndex:  phaseIdx,
					PhaseName:   phase.Name,
					GeneratorID: gw.GeneratorID,
					Err:         err,
				})
				continue
			}

			offsets := spread(rng, len(events), phase.Duration)
			for j, ev := range events {
				phaseQueue = append(phaseQueue, ScheduledEvent{
					PhaseIndex:  phaseIdx,
					PhaseName:   phase.Name,
					GeneratorID: ev.GeneratorID,
					LogicalTime: start.Add(phaseBase + offsets[j]),
					Offset:      scale(phaseBase+offsets[j], factor),
					SourceType:  ev.SourceType,
					Index:       ev.Index,
					Payload:     ev.Payload,
				})
			}
		}

		if len(phaseQueue) == 0 {
			s.logger.Warn("phase degraded: no generator produced events",
				slog.String("phase", phase.Name),
				slog.Int("phase_index", phaseIdx),
			)
			phaseBase += phase.Duration
			continue
		}

		queue = append(queue, phaseQueue...)
		phaseBase += phase.Duration
	}

	// Interleave each phase's generator outputs by offset; phases never
	// cross because offsets are anchored to the cumulative phase base.
	sort.SliceStable(queue, func(i, j int) bool {
		if queue[i].PhaseIndex != queue[j].PhaseIndex {
			return queue[i].PhaseIndex < queue[j].PhaseIndex
		}
		return queue[i].LogicalTime.Before(queue[j].LogicalTime)
	})
	for i := range queue {
		queue[i].Sequence = i
	}

	return queue, failures, nil
}

// apportion computes per-generator counts as round(weight*budget), assigning
// the rounding remainder to the first generator so the phase total exactly
// matches its budget. When rounding overshoots by more than the first
// generator held, the residual is pulled from the later generators instead,
// keeping the sum exact.
func apportion(weights []campaign.GeneratorWeight, budget int) []int {
	counts := make([]int, len(weights))
	total := 0
	for i, gw := range weights {
		counts[i] = int(math.Round(gw.Weight * float64(budget)))
		total += counts[i]
	}
	counts[0] += budget - total
	if counts[0] < 0 {
		deficit := -counts[0]
		counts[0] = 0
		for i := 1; i < len(counts) && deficit > 0; i++ {
			take := deficit
			if take > counts[i] {
				take = counts[i]
			}
			counts[i] -= take
			deficit -= take
		}
	}
	return counts
}

// spread distributes n events evenly across duration with bounded jitter,
// returning sorted intra-phase offsets strictly inside [0, duration).
func spread(rng *rand.Rand, n int, duration time.Duration) []time.Duration {
	offsets := make([]time.Duration, n)
	gap := float64(duration) / float64(n)
	for i := 0; i < n; i++ {
		base := (float64(i) + 0.5) * gap
		jitter := (rng.Float64()*2 - 1) * jitterFraction * gap
		off := time.Duration(base + jitter)
		if off < 0 {
			off = 0
		}
		if off >= duration {
			off = duration - 1
		}
		offsets[i] = off
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	return offsets
}

func scale(d time.Duration, factor float64) time.Duration {
	if factor == 0 {
		return 0
	}
	return time.Duration(float64(d) * factor)
}
