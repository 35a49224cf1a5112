package execution

import (
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/campaign"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/delivery"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/entity"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/generator"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/schedule"
)

// brokenGenerator always errors, for failure attribution coverage.
type brokenGenerator struct{}

func (brokenGenerator) Name() string        { return "broken" }
func (brokenGenerator) Description() string { return "always fails" }
func (brokenGenerator) SourceType() string  { return "broken:events" }
func (brokenGenerator) Index() string       { return "main" }

func (brokenGenerator) Generate(int, map[string]interface{}) ([]map[string]interface{}, error) {
	return nil, errors.New("feed unavailable")
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	catalog := entity.DefaultCatalog()
	registry := generator.Builtin(gofakeit.New(1))
	registry.MustRegister(brokenGenerator{})
	library, err := campaign.NewLibrary(registry, catalog)
	require.NoError(t, err)

	// Dry runs never touch the transmitter, so a nil-safe no-op is enough.
	return NewStore(library, registry, catalog,
		delivery.DefaultPolicy("http://collector.invalid:8088", "tok"),
		delivery.NopTransmitter{}, nil, nil)
}

func addSmallCampaign(t *testing.T, s *Store, durations []time.Duration) string {
	t.Helper()

	c := &campaign.Campaign{
		ID:   "small",
		Name: "Small",
		Phases: []campaign.Phase{
			{
				Name:        "one",
				Duration:    durations[0],
				EventBudget: 5,
				Generators:  []campaign.GeneratorWeight{{GeneratorID: "okta_authentication", Weight: 1.0}},
				Roles:       []string{"victim_user", "attacker_ip"},
			},
			{
				Name:        "two",
				Duration:    durations[1],
				EventBudget: 5,
				Generators:  []campaign.GeneratorWeight{{GeneratorID: "crowdstrike_process", Weight: 1.0}},
				Roles:       []string{"victim_user", "victim_host"},
			},
			{
				Name:        "three",
				Duration:    durations[2],
				EventBudget: 25,
				Generators:  []campaign.GeneratorWeight{{GeneratorID: "cisco_umbrella_dns", Weight: 1.0}},
				Roles:       []string{"victim_host", "c2_domain"},
			},
		},
	}
	require.NoError(t, s.library.Add(c, s.registry, s.catalog))
	return c.ID
}

func TestStartDryRunCompletes(t *testing.T) {
	store := newTestStore(t)
	id := addSmallCampaign(t, store, []time.Duration{10 * time.Minute, 10 * time.Minute, 10 * time.Minute})

	execID, err := store.Start(id, Options{Speed: schedule.SpeedInstant, DryRun: true, Seed: 7})
	require.NoError(t, err)
	require.NotEmpty(t, execID)

	exec, err := store.Get(execID)
	require.NoError(t, err)
	exec.Wait()

	info, err := store.Status(execID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, info.Status)
	assert.Equal(t, 35, info.TotalEvents)
	assert.Equal(t, 35, info.Dispatched)
	assert.InDelta(t, 1.0, info.Progress, 0.0001)
	require.Len(t, info.Phases, 3)
	assert.Equal(t, 5, info.Phases[0].Delivered)
	assert.Equal(t, 5, info.Phases[1].Delivered)
	assert.Equal(t, 25, info.Phases[2].Delivered)
	assert.Empty(t, info.Errors)
	require.NotNil(t, info.FinishedAt)

	results, err := store.Results(execID, true)
	require.NoError(t, err)
	require.NotNil(t, results.Summary)
	assert.Equal(t, 35, results.Summary.Succeeded)
	assert.Len(t, results.Events, 35)
}

func TestFailingGeneratorDegradesItsShare(t *testing.T) {
	store := newTestStore(t)

	c := &campaign.Campaign{
		ID:   "partial",
		Name: "Partial",
		Phases: []campaign.Phase{{
			Name:        "mixed",
			Duration:    10 * time.Minute,
			EventBudget: 30,
			Generators: []campaign.GeneratorWeight{
				{GeneratorID: "okta_authentication", Weight: 1.0 / 3},
				{GeneratorID: "broken", Weight: 1.0 / 3},
				{GeneratorID: "cisco_umbrella_dns", Weight: 1.0 / 3},
			},
			Roles: []string{"victim_user"},
		}},
	}
	require.NoError(t, store.library.Add(c, store.registry, store.catalog))

	execID, err := store.Start(c.ID, Options{Speed: schedule.SpeedInstant, DryRun: true, Seed: 3})
	require.NoError(t, err)

	exec, err := store.Get(execID)
	require.NoError(t, err)
	exec.Wait()

	info, err := store.Status(execID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, info.Status, "a partial phase still completes")
	assert.Equal(t, 20, info.Dispatched, "only the broken generator's share is lost")

	require.Len(t, info.Errors, 1)
	assert.Equal(t, "broken", info.Errors[0].Generator)
	assert.Equal(t, "mixed", info.Errors[0].Phase)
	assert.Contains(t, info.Errors[0].Message, "feed unavailable")
}

func TestStartUnknownCampaign(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Start("missing", Options{DryRun: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCampaignNotFound))
}

func TestStopRunningExecution(t *testing.T) {
	store := newTestStore(t)
	// Realtime with long phases so the worker is parked waiting for the
	// first dispatch offset when the stop arrives.
	id := addSmallCampaign(t, store, []time.Duration{time.Hour, time.Hour, time.Hour})

	execID, err := store.Start(id, Options{Speed: schedule.SpeedRealtime, DryRun: true, Seed: 7})
	require.NoError(t, err)

	exec, err := store.Get(execID)
	require.NoError(t, err)

	// Let the worker finish building the schedule before stopping.
	require.Eventually(t, func() bool {
		info, err := store.Status(execID)
		return err == nil && info.Status == StatusRunning
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, store.Stop(execID))
	exec.Wait()

	info, err := store.Status(execID)
	require.NoError(t, err)
	assert.Equal(t, StatusStopped, info.Status)
	assert.Less(t, info.Dispatched, info.TotalEvents)

	t.Run("stop after terminal state", func(t *testing.T) {
		err := store.Stop(execID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotRunning))
	})
}

func TestStopUnknownExecution(t *testing.T) {
	store := newTestStore(t)

	err := store.Stop("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExecutionNotFound))
}

func TestListExecutions(t *testing.T) {
	store := newTestStore(t)
	id := addSmallCampaign(t, store, []time.Duration{time.Minute, time.Minute, time.Minute})

	assert.Empty(t, store.List())

	execID, err := store.Start(id, Options{Speed: schedule.SpeedInstant, DryRun: true, Seed: 1})
	require.NoError(t, err)

	exec, err := store.Get(execID)
	require.NoError(t, err)
	exec.Wait()

	list := store.List()
	require.Len(t, list, 1)
	assert.Equal(t, execID, list[0].ID)
}

func TestResultsWhileRunning(t *testing.T) {
	store := newTestStore(t)
	id := addSmallCampaign(t, store, []time.Duration{time.Hour, time.Hour, time.Hour})

	execID, err := store.Start(id, Options{Speed: schedule.SpeedRealtime, DryRun: true, Seed: 1})
	require.NoError(t, err)
	defer func() {
		_ = store.Stop(execID)
		exec, _ := store.Get(execID)
		exec.Wait()
	}()

	require.Eventually(t, func() bool {
		info, err := store.Status(execID)
		return err == nil && info.Status == StatusRunning
	}, 5*time.Second, 10*time.Millisecond)

	// Partial results are readable mid-run.
	results, err := store.Results(execID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, results.Status)
	assert.Equal(t, 35, results.TotalEvents)
}

func TestStatusUnknownExecution(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Status("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExecutionNotFound))
}
