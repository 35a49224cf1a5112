package schedule

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/campaign"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/entity"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/generator"
)

// failingGenerator always errors so failure attribution can be exercised.
type failingGenerator struct{}

func (failingGenerator) Name() string        { return "failing" }
func (failingGenerator) Description() string { return "always fails" }
func (failingGenerator) SourceType() string  { return "fail:events" }
func (failingGenerator) Index() string       { return "main" }

func (failingGenerator) Generate(int, map[string]interface{}) ([]map[string]interface{}, error) {
	return nil, errors.New("no data source")
}

func buildScheduler(seed int64) (*Scheduler, *entity.Pool) {
	registry := generator.Builtin(gofakeit.New(seed))
	registry.MustRegister(failingGenerator{})
	adapter := generator.NewAdapter(registry, nil)
	pool := entity.NewPool(entity.DefaultCatalog(), gofakeit.New(seed))
	return NewScheduler(adapter, nil), pool
}

func testCampaign() *campaign.Campaign {
	return &campaign.Campaign{
		ID:   "test",
		Name: "Test",
		Phases: []campaign.Phase{
			{
				Name:        "access",
				Duration:    30 * time.Minute,
				EventBudget: 20,
				Generators: []campaign.GeneratorWeight{
					{GeneratorID: "proofpoint_email", Weight: 0.6},
					{GeneratorID: "okta_authentication", Weight: 0.4},
				},
				Roles: []string{"victim_user", "mail_sender"},
			},
			{
				Name:        "beacon",
				Duration:    time.Hour,
				EventBudget: 15,
				Generators: []campaign.GeneratorWeight{
					{GeneratorID: "cisco_umbrella_dns", Weight: 1.0},
				},
				Roles: []string{"victim_host", "c2_domain"},
			},
		},
	}
}

func TestBuildInstant(t *testing.T) {
	s, pool := buildScheduler(1)
	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	queue, failures, err := s.Build(testCampaign(), pool, Options{
		Speed: SpeedInstant,
		Start: start,
		Seed:  1,
	})
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, queue, 35, "queue must match the total event budget")

	for i, ev := range queue {
		assert.Equal(t, i, ev.Sequence)
		assert.Equal(t, time.Duration(0), ev.Offset, "instant mode collapses dispatch offsets")
		assert.NotEmpty(t, ev.SourceType)
		assert.NotEmpty(t, ev.Payload)
	}

	// Logical timestamps stay in narrative time regardless of speed.
	first := queue[0]
	last := queue[len(queue)-1]
	assert.False(t, first.LogicalTime.Before(start))
	assert.True(t, last.LogicalTime.Before(start.Add(90*time.Minute)))
}

func TestBuildOrdering(t *testing.T) {
	s, pool := buildScheduler(3)
	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	queue, _, err := s.Build(testCampaign(), pool, Options{
		Speed: SpeedRealtime,
		Start: start,
		Seed:  3,
	})
	require.NoError(t, err)

	for i := 1; i < len(queue); i++ {
		prev, cur := queue[i-1], queue[i]
		assert.LessOrEqual(t, prev.PhaseIndex, cur.PhaseIndex, "phases must progress forward")
		if prev.PhaseIndex == cur.PhaseIndex {
			assert.False(t, cur.LogicalTime.Before(prev.LogicalTime),
				"events within a phase must be time-ordered")
		}
	}

	// Events never escape their phase window.
	bounds := []struct{ lo, hi time.Duration }{
		{0, 30 * time.Minute},
		{30 * time.Minute, 90 * time.Minute},
	}
	for _, ev := range queue {
		b := bounds[ev.PhaseIndex]
		offset := ev.LogicalTime.Sub(start)
		assert.GreaterOrEqual(t, offset, b.lo, "event before its phase start")
		assert.Less(t, offset, b.hi, "event after its phase end")
	}
}

func TestBuildPhasesInterleaveGenerators(t *testing.T) {
	s, pool := buildScheduler(5)

	queue, _, err := s.Build(testCampaign(), pool, Options{Speed: SpeedInstant, Seed: 5})
	require.NoError(t, err)

	// The first phase mixes two generators; they should not appear as two
	// contiguous blocks.
	var firstPhase []string
	for _, ev := range queue {
		if ev.PhaseIndex == 0 {
			firstPhase = append(firstPhase, ev.GeneratorID)
		}
	}
	require.Len(t, firstPhase, 20)

	switches := 0
	for i := 1; i < len(firstPhase); i++ {
		if firstPhase[i] != firstPhase[i-1] {
			switches++
		}
	}
	assert.Greater(t, switches, 1, "generator outputs should interleave within the phase")
}

func TestBuildDeterministic(t *testing.T) {
	s1, pool1 := buildScheduler(42)
	s2, pool2 := buildScheduler(42)
	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	opts := Options{Speed: SpeedInstant, Start: start, Seed: 42}

	q1, _, err := s1.Build(testCampaign(), pool1, opts)
	require.NoError(t, err)
	q2, _, err := s2.Build(testCampaign(), pool2, opts)
	require.NoError(t, err)

	require.Equal(t, len(q1), len(q2))
	for i := range q1 {
		assert.Equal(t, q1[i].LogicalTime, q2[i].LogicalTime)
		assert.Equal(t, q1[i].GeneratorID, q2[i].GeneratorID)
	}
}

func TestBuildFailureAttribution(t *testing.T) {
	s, pool := buildScheduler(1)
	c := &campaign.Campaign{
		ID:   "partial",
		Name: "Partial",
		Phases: []campaign.Phase{{
			Name:        "mixed",
			Duration:    10 * time.Minute,
			EventBudget: 10,
			Generators: []campaign.GeneratorWeight{
				{GeneratorID: "failing", Weight: 0.5},
				{GeneratorID: "okta_authentication", Weight: 0.5},
			},
		}},
	}

	queue, failures, err := s.Build(c, pool, Options{Speed: SpeedInstant, Seed: 1})
	require.NoError(t, err, "a generator failure must not abort the build")

	require.Len(t, failures, 1)
	assert.Equal(t, "failing", failures[0].GeneratorID)
	assert.Equal(t, "mixed", failures[0].PhaseName)
	assert.Len(t, queue, 5, "surviving generator still contributes its share")
}

func TestBuildDegradedPhase(t *testing.T) {
	s, pool := buildScheduler(1)
	c := &campaign.Campaign{
		ID:   "degraded",
		Name: "Degraded",
		Phases: []campaign.Phase{
			{
				Name:        "dead",
				Duration:    10 * time.Minute,
				EventBudget: 10,
				Generators:  []campaign.GeneratorWeight{{GeneratorID: "failing", Weight: 1.0}},
			},
			{
				Name:        "alive",
				Duration:    10 * time.Minute,
				EventBudget: 5,
				Generators:  []campaign.GeneratorWeight{{GeneratorID: "okta_authentication", Weight: 1.0}},
			},
		},
	}

	queue, failures, err := s.Build(c, pool, Options{Speed: SpeedInstant, Seed: 1})
	require.NoError(t, err)
	assert.Len(t, failures, 1)
	require.Len(t, queue, 5)
	for _, ev := range queue {
		assert.Equal(t, 1, ev.PhaseIndex, "all events come from the surviving phase")
	}
}

func TestBuildUnknownRole(t *testing.T) {
	s, pool := buildScheduler(1)
	c := testCampaign()
	c.Phases[0].Roles = append(c.Phases[0].Roles, "ghost_role")

	_, _, err := s.Build(c, pool, Options{Speed: SpeedInstant, Seed: 1})
	assert.Error(t, err)
}

func TestApportion(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		budget  int
		want    []int
	}{
		{
			name:    "even split",
			weights: []float64{0.5, 0.5},
			budget:  10,
			want:    []int{5, 5},
		},
		{
			name:    "rounding remainder to first",
			weights: []float64{1.0 / 3, 1.0 / 3, 1.0 / 3},
			budget:  10,
			want:    []int{4, 3, 3},
		},
		{
			name:    "single generator",
			weights: []float64{1.0},
			budget:  7,
			want:    []int{7},
		},
		{
			name:    "skewed",
			weights: []float64{0.9, 0.1},
			budget:  20,
			want:    []int{18, 2},
		},
		{
			// Rounds give [1,2,2,2] = 7 for a budget of 5; the overshoot
			// exceeds the first generator's share and must come out of the
			// later ones.
			name:    "overshoot pulled from later generators",
			weights: []float64{0.1, 0.3, 0.3, 0.3},
			budget:  5,
			want:    []int{0, 1, 2, 2},
		},
		{
			name:    "small budget many generators",
			weights: []float64{0.25, 0.25, 0.25, 0.25},
			budget:  2,
			want:    []int{0, 0, 1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weights := make([]campaign.GeneratorWeight, len(tt.weights))
			for i, w := range tt.weights {
				weights[i] = campaign.GeneratorWeight{Weight: w}
			}

			counts := apportion(weights, tt.budget)
			assert.Equal(t, tt.want, counts)

			total := 0
			for _, c := range counts {
				total += c
			}
			assert.Equal(t, tt.budget, total, "counts must sum to the budget exactly")
		})
	}
}

func TestSpread(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	duration := time.Hour

	offsets := spread(rng, 50, duration)
	require.Len(t, offsets, 50)

	for i, off := range offsets {
		assert.GreaterOrEqual(t, off, time.Duration(0))
		assert.Less(t, off, duration)
		if i > 0 {
			assert.GreaterOrEqual(t, off, offsets[i-1], "offsets must be sorted")
		}
	}
}

func TestParseSpeed(t *testing.T) {
	tests := []struct {
		in      string
		want    Speed
		wantErr bool
	}{
		{in: "realtime", want: SpeedRealtime},
		{in: "fast", want: SpeedFast},
		{in: "instant", want: SpeedInstant},
		{in: "", want: SpeedInstant},
		{in: "warp", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseSpeed(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestSpeedFactor(t *testing.T) {
	assert.Equal(t, 1.0, SpeedRealtime.factor(0))
	assert.Equal(t, 0.0, SpeedInstant.factor(0))
	assert.Equal(t, 0.5, SpeedFast.factor(0.5))
	assert.Equal(t, defaultFastFactor, SpeedFast.factor(0), "zero falls back to the default compression")
	assert.Equal(t, defaultFastFactor, SpeedFast.factor(5), "factors above 1 are rejected")
}
