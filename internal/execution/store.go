package execution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/campaign"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/delivery"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/entity"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/generator"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/metrics"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/schedule"
)

var (
	ErrExecutionNotFound = errors.New("execution not found")
	ErrCampaignNotFound  = errors.New("campaign not found")
	ErrNotRunning        = errors.New("execution is not running")
)

// Options configures one execution.
type Options struct {
	Speed      schedule.Speed
	FastFactor float64
	DryRun     bool

	// Seed drives identity and jitter synthesis. Zero means derive from the
	// current time; a fixed seed makes dry-runs reproducible.
	Seed int64

	// Start anchors logical event time. Zero means now.
	Start time.Time
}

// Store supervises one scheduler+delivery worker per execution and exposes
// lifecycle control. The registry map is guarded; each execution record has
// its own lock for worker/poller contention.
type Store struct {
	mu    sync.RWMutex
	execs map[string]*Execution

	library     *campaign.Library
	registry    *generator.Registry
	catalog     *entity.Catalog
	policy      delivery.Policy
	transmitter delivery.Transmitter
	pacer       func() *delivery.Pacer
	logger      *slog.Logger

	// FastFactor is applied to executions that do not set their own. Zero
	// leaves the scheduler's built-in default in effect.
	FastFactor float64
}

// NewStore wires the orchestration dependencies. transmitter is used for
// live runs; dry runs always use the no-op transmitter. pacerFn builds a
// fresh pacer per live execution (nil disables pacing).
func NewStore(lib *campaign.Library, reg *generator.Registry, catalog *entity.Catalog,
	policy delivery.Policy, transmitter delivery.Transmitter, pacerFn func() *delivery.Pacer,
	logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		execs:       make(map[string]*Execution),
		library:     lib,
		registry:    reg,
		catalog:     catalog,
		policy:      policy,
		transmitter: transmitter,
		pacer:       pacerFn,
		logger:      logger,
	}
}

// Start validates the campaign, registers a PENDING execution, spawns its
// worker, and returns the execution ID without blocking. Configuration
// errors surface here and never produce an execution.
func (s *Store) Start(campaignID string, opts Options) (string, error) {
	c, ok := s.library.Get(campaignID)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrCampaignNotFound, campaignID)
	}
	// Re-validate at the start boundary: the library only holds validated
	// campaigns, but this is where configuration errors must surface.
	if err := campaign.Validate(c, s.registry, s.catalog); err != nil {
		return "", err
	}
	if opts.Speed == "" {
		opts.Speed = schedule.SpeedInstant
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.FastFactor == 0 {
		opts.FastFactor = s.FastFactor
	}

	ctx, cancel := context.WithCancel(context.Background())
	exec := &Execution{
		ID:          uuid.New().String(),
		CampaignID:  c.ID,
		Speed:       opts.Speed,
		DryRun:      opts.DryRun,
		status:      StatusPending,
		startedAt:   time.Now(),
		totalEvents: c.TotalBudget(),
		phaseIndex:  -1,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
	for _, p := range c.Phases {
		exec.phases = append(exec.phases, PhaseProgress{Name: p.Name})
	}

	s.mu.Lock()
	s.execs[exec.ID] = exec
	s.mu.Unlock()

	metrics.ExecutionsStarted.WithLabelValues(c.ID, string(opts.Speed), fmt.Sprint(opts.DryRun)).Inc()
	metrics.ActiveExecutions.Inc()

	go s.run(ctx, exec, c, opts)

	return exec.ID, nil
}

// Get returns the execution record.
func (s *Store) Get(id string) (*Execution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exec, ok := s.execs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrExecutionNotFound, id)
	}
	return exec, nil
}

// Status returns the current status view for an execution.
func (s *Store) Status(id string) (StatusInfo, error) {
	exec, err := s.Get(id)
	if err != nil {
		return StatusInfo{}, err
	}
	return exec.Snapshot(), nil
}

// Stop requests cooperative cancellation of a running execution. No new
// dispatch begins after the flag is set; an in-flight attempt finishes.
func (s *Store) Stop(id string) error {
	exec, err := s.Get(id)
	if err != nil {
		return err
	}

	exec.mu.Lock()
	if exec.status != StatusRunning && exec.status != StatusPending {
		exec.mu.Unlock()
		return fmt.Errorf("%w: %q is %s", ErrNotRunning, id, exec.status)
	}
	exec.mu.Unlock()

	exec.cancel()
	return nil
}

// Results returns the delivery summary and, optionally, the full payload
// list. Available while RUNNING and in any terminal state.
func (s *Store) Results(id string, includeEvents bool) (Results, error) {
	exec, err := s.Get(id)
	if err != nil {
		return Results{}, err
	}
	return exec.ResultsSnapshot(includeEvents), nil
}

// List returns status views for all known executions.
func (s *Store) List() []StatusInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]StatusInfo, 0, len(s.execs))
	for _, exec := range s.execs {
		out = append(out, exec.Snapshot())
	}
	return out
}

// run is the per-execution worker: build the schedule, then drive delivery.
func (s *Store) run(ctx context.Context, exec *Execution, c *campaign.Campaign, opts Options) {
	defer close(exec.done)
	defer metrics.ActiveExecutions.Dec()
	defer exec.cancel()

	logger := s.logger.With(
		slog.String("execution_id", exec.ID),
		slog.String("campaign", c.ID),
	)

	faker := gofakeit.New(opts.Seed)
	pool := entity.NewPool(s.catalog, faker)
	adapter := generator.NewAdapter(s.registry, logger)
	scheduler := schedule.NewScheduler(adapter, logger)

	buildStart := time.Now()
	queue, failures, err := scheduler.Build(c, pool, schedule.Options{
		Speed:      opts.Speed,
		FastFactor: opts.FastFactor,
		Start:      opts.Start,
		Seed:       opts.Seed,
	})
	metrics.ScheduleDuration.Observe(time.Since(buildStart).Seconds())

	exec.mu.Lock()
	for _, f := range failures {
		exec.errors = append(exec.errors, ErrorEntry{
			Phase:     f.PhaseName,
			Generator: f.GeneratorID,
			Message:   f.Err.Error(),
		})
		metrics.GeneratorFailures.WithLabelValues(f.GeneratorID).Inc()
	}
	if err != nil {
		// Fatal scheduler error: preserve partial results, halt progress.
		exec.errors = append(exec.errors, ErrorEntry{Message: err.Error()})
		exec.status = StatusFailed
		exec.finishedAt = time.Now()
		exec.mu.Unlock()
		metrics.ExecutionsFinished.WithLabelValues(c.ID, string(StatusFailed)).Inc()
		logger.Error("schedule build failed", slog.String("error", err.Error()))
		return
	}
	exec.status = StatusRunning
	exec.totalEvents = len(queue)
	exec.events = queue
	for i := range queue {
		exec.phases[queue[i].PhaseIndex].Scheduled++
	}
	exec.mu.Unlock()

	logger.Info("execution running",
		slog.Int("events", len(queue)),
		slog.String("speed", string(opts.Speed)),
		slog.Bool("dry_run", opts.DryRun),
	)

	transmitter := s.transmitter
	var pacer *delivery.Pacer
	if opts.DryRun {
		transmitter = delivery.NopTransmitter{}
	} else if s.pacer != nil {
		pacer = s.pacer()
	}

	pipeline := delivery.NewPipeline(transmitter, s.policy, pacer, logger)
	summary, runErr := pipeline.Run(ctx, queue, func(dispatched int, ev *schedule.ScheduledEvent) {
		exec.mu.Lock()
		exec.dispatched = dispatched
		exec.phaseIndex = ev.PhaseIndex
		exec.mu.Unlock()
	})

	exec.mu.Lock()
	exec.summary = summary
	for _, fe := range summary.FailedEvents {
		exec.errors = append(exec.errors, ErrorEntry{
			Phase:     fe.PhaseName,
			Generator: fe.GeneratorID,
			Endpoint:  fe.Endpoint,
			Message:   fe.Error,
		})
	}
	for phase, counts := range summary.ByPhase {
		for i := range exec.phases {
			if exec.phases[i].Name == phase {
				exec.phases[i].Delivered = counts.Succeeded
				exec.phases[i].Failed = counts.Failed
			}
		}
	}

	switch {
	case runErr != nil && errors.Is(runErr, context.Canceled):
		exec.status = StatusStopped
	case runErr != nil:
		exec.errors = append(exec.errors, ErrorEntry{Message: runErr.Error()})
		exec.status = StatusFailed
	default:
		exec.status = StatusCompleted
	}
	exec.finishedAt = time.Now()
	status := exec.status
	exec.mu.Unlock()

	metrics.ExecutionsFinished.WithLabelValues(c.ID, string(status)).Inc()
	metrics.EventsDelivered.WithLabelValues(c.ID, "succeeded").Add(float64(summary.Succeeded))
	metrics.EventsDelivered.WithLabelValues(c.ID, "failed").Add(float64(summary.Failed))
	metrics.DeliveryAttempts.Add(float64(len(summary.Attempts)))

	logger.Info("execution finished",
		slog.String("status", string(status)),
		slog.Int("attempted", summary.Attempted),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed),
	)
}
