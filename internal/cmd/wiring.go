package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/campaign"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/config"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/delivery"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/entity"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/execution"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/generator"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/logging"
)

// app bundles the wired orchestration components shared by the run and
// serve commands.
type app struct {
	catalog  *entity.Catalog
	registry *generator.Registry
	library  *campaign.Library
	store    *execution.Store
	logger   *logging.Logger
}

// buildApp wires the registry, campaign library, delivery policy, and
// execution store from configuration. seed fixes generator randomness for
// reproducible dry-runs; zero seeds from the clock.
func buildApp(cfg *config.Config, seed int64) (*app, error) {
	logger := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	logging.SetDefault(logger)

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	catalog := entity.DefaultCatalog()
	registry := generator.Builtin(gofakeit.New(seed))

	library, err := campaign.NewLibrary(registry, catalog)
	if err != nil {
		return nil, fmt.Errorf("build campaign library: %w", err)
	}

	policy := delivery.DefaultPolicy(cfg.HEC.URL, cfg.HEC.Token)
	if cfg.Delivery.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.Delivery.MaxAttempts
	}
	if cfg.Delivery.BackoffInitial > 0 {
		policy.Backoff = []time.Duration{cfg.Delivery.BackoffInitial, cfg.Delivery.BackoffMax}
	}
	if cfg.HEC.TLSSkipVerify {
		policy = policy.SkipTLSVerify()
	}

	transmitter := delivery.NewClient(cfg.HEC.Timeout)
	pacerFn := func() *delivery.Pacer {
		return delivery.NewPacer(cfg.Delivery.EventsPerSecond, cfg.Delivery.Burst)
	}

	store := execution.NewStore(library, registry, catalog, policy, transmitter, pacerFn, logger.Logger)
	store.FastFactor = cfg.Schedule.FastFactor

	slog.Debug("application wired",
		slog.Int("generators", len(registry.List())),
		slog.Int("campaigns", len(library.List())),
	)

	return &app{
		catalog:  catalog,
		registry: registry,
		library:  library,
		store:    store,
		logger:   logger,
	}, nil
}
