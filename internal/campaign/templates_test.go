package campaign

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/entity"
)

func TestNewLibraryValidatesTemplates(t *testing.T) {
	lib, err := NewLibrary(testRegistry(), entity.DefaultCatalog())
	require.NoError(t, err)

	campaigns := lib.List()
	require.Len(t, campaigns, 4)

	// List is sorted by ID.
	ids := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"credential-theft", "insider-threat", "phishing-takeover", "ransomware"}, ids)
}

func TestRansomwareTemplate(t *testing.T) {
	lib, err := NewLibrary(testRegistry(), entity.DefaultCatalog())
	require.NoError(t, err)

	c, ok := lib.Get("ransomware")
	require.True(t, ok)
	assert.Equal(t, "critical", c.Severity)
	assert.Len(t, c.Phases, 5)
	assert.Equal(t, 150, c.TotalBudget())

	// The victim thread runs through the whole narrative.
	for _, phase := range c.Phases {
		assert.NotEmpty(t, phase.Roles, "phase %s has no roles", phase.Name)
	}
}

func TestLibraryAdd(t *testing.T) {
	registry := testRegistry()
	catalog := entity.DefaultCatalog()
	lib, err := NewLibrary(registry, catalog)
	require.NoError(t, err)

	custom := &Campaign{
		ID:   "custom",
		Name: "Custom",
		Phases: []Phase{{
			Name:        "only",
			Duration:    10 * time.Minute,
			EventBudget: 5,
			Generators:  []GeneratorWeight{{GeneratorID: "okta_authentication", Weight: 1.0}},
		}},
	}
	require.NoError(t, lib.Add(custom, registry, catalog))

	_, ok := lib.Get("custom")
	assert.True(t, ok)

	t.Run("duplicate id rejected", func(t *testing.T) {
		assert.Error(t, lib.Add(custom, registry, catalog))
	})

	t.Run("invalid campaign rejected", func(t *testing.T) {
		bad := &Campaign{ID: "bad", Name: "Bad"}
		assert.Error(t, lib.Add(bad, registry, catalog))
	})
}
