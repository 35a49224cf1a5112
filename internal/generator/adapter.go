package generator

import (
	"fmt"
	"log/slog"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/entity"
)

// Adapter invokes generators through the registry, merging correlated
// identities into the overrides map and tagging each returned record with
// its routing metadata. A generator failure (error or panic) is isolated to
// that generator; the caller decides how to account for it.
type Adapter struct {
	registry *Registry
	logger   *slog.Logger
}

// NewAdapter creates an adapter over registry.
func NewAdapter(registry *Registry, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{registry: registry, logger: logger}
}

// Produce materializes count events from the named generator for one phase.
// Pool identities are injected into overrides keyed by role, alongside any
// phase parameters already present.
func (a *Adapter) Produce(generatorID string, count, phaseIndex int, pool *entity.Pool, params map[string]interface{}) ([]Event, error) {
	gen, ok := a.registry.Get(generatorID)
	if !ok {
		return nil, fmt.Errorf("generator %q not registered", generatorID)
	}
	if count <= 0 {
		return nil, nil
	}

	overrides := make(map[string]interface{}, len(params)+8)
	for k, v := range params {
		overrides[k] = v
	}
	for role, id := range pool.All() {
		overrides[role] = id
	}

	payloads, err := a.invoke(gen, count, overrides)
	if err != nil {
		a.logger.Warn("generator failed",
			slog.String("generator", generatorID),
			slog.Int("phase", phaseIndex),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	events := make([]Event, 0, len(payloads))
	for _, payload := range payloads {
		events = append(events, Event{
			GeneratorID: generatorID,
			PhaseIndex:  phaseIndex,
			SourceType:  gen.SourceType(),
			Index:       gen.Index(),
			Payload:     payload,
		})
	}
	return events, nil
}

// invoke shields the orchestrator from a panicking plugin.
func (a *Adapter) invoke(gen Generator, count int, overrides map[string]interface{}) (payloads []map[string]interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			payloads = nil
			err = fmt.Errorf("generator %q panicked: %v", gen.Name(), r)
		}
	}()
	return gen.Generate(count, overrides)
}
