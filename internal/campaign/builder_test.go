package campaign

import (
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/entity"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/generator"
)

func testRegistry() *generator.Registry {
	return generator.Builtin(gofakeit.New(1))
}

func validPhase() Phase {
	return Phase{
		Name:        "initial-access",
		Duration:    30 * time.Minute,
		EventBudget: 20,
		Generators: []GeneratorWeight{
			{GeneratorID: "proofpoint_email", Weight: 0.6},
			{GeneratorID: "okta_authentication", Weight: 0.4},
		},
		Roles: []string{"victim_user", "mail_sender"},
	}
}

func TestBuilderBuild(t *testing.T) {
	c, err := NewBuilder("test", "Test Campaign").
		Describe("a narrative", "high").
		Techniques("T1566.001").
		Phase(validPhase()).
		Build(testRegistry(), entity.DefaultCatalog())

	require.NoError(t, err)
	assert.Equal(t, "test", c.ID)
	assert.Equal(t, "high", c.Severity)
	assert.Equal(t, []string{"T1566.001"}, c.Techniques)
	assert.Len(t, c.Phases, 1)
}

func TestValidateRejections(t *testing.T) {
	registry := testRegistry()
	catalog := entity.DefaultCatalog()

	tests := []struct {
		name   string
		mutate func(c *Campaign)
	}{
		{
			name:   "missing id",
			mutate: func(c *Campaign) { c.ID = "" },
		},
		{
			name:   "no phases",
			mutate: func(c *Campaign) { c.Phases = nil },
		},
		{
			name:   "unnamed phase",
			mutate: func(c *Campaign) { c.Phases[0].Name = "" },
		},
		{
			name:   "zero duration",
			mutate: func(c *Campaign) { c.Phases[0].Duration = 0 },
		},
		{
			name:   "zero budget",
			mutate: func(c *Campaign) { c.Phases[0].EventBudget = 0 },
		},
		{
			name:   "no generators",
			mutate: func(c *Campaign) { c.Phases[0].Generators = nil },
		},
		{
			name: "unknown generator",
			mutate: func(c *Campaign) {
				c.Phases[0].Generators = []GeneratorWeight{{GeneratorID: "nope", Weight: 1.0}}
			},
		},
		{
			name: "negative weight",
			mutate: func(c *Campaign) {
				c.Phases[0].Generators[0].Weight = -0.6
			},
		},
		{
			name: "weights do not sum to one",
			mutate: func(c *Campaign) {
				c.Phases[0].Generators[0].Weight = 0.9
			},
		},
		{
			name: "unknown role",
			mutate: func(c *Campaign) {
				c.Phases[0].Roles = []string{"ghost_role"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Campaign{ID: "test", Name: "Test", Phases: []Phase{validPhase()}}
			tt.mutate(&c)

			err := Validate(&c, registry, catalog)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCampaign), "want ErrInvalidCampaign, got %v", err)
		})
	}
}

func TestValidateWeightTolerance(t *testing.T) {
	// Three thirds never sum to exactly 1.0; the epsilon must absorb that.
	c := Campaign{
		ID:   "thirds",
		Name: "Thirds",
		Phases: []Phase{{
			Name:        "spread",
			Duration:    time.Hour,
			EventBudget: 30,
			Generators: []GeneratorWeight{
				{GeneratorID: "okta_authentication", Weight: 1.0 / 3},
				{GeneratorID: "proofpoint_email", Weight: 1.0 / 3},
				{GeneratorID: "zscaler_web", Weight: 1.0 / 3},
			},
		}},
	}

	assert.NoError(t, Validate(&c, testRegistry(), entity.DefaultCatalog()))
}

func TestCampaignAggregates(t *testing.T) {
	c := Campaign{
		Phases: []Phase{
			{Name: "a", Duration: 30 * time.Minute, EventBudget: 10, Roles: []string{"victim_user", "victim_host"}},
			{Name: "b", Duration: time.Hour, EventBudget: 15, Roles: []string{"victim_user", "c2_domain"}},
		},
	}

	assert.Equal(t, 90*time.Minute, c.TotalDuration())
	assert.Equal(t, 25, c.TotalBudget())
	assert.ElementsMatch(t, []string{"victim_user", "victim_host", "c2_domain"}, c.Roles())
}
