// Package campaign models the declarative multi-phase attack narrative a
// scheduler turns into an event stream. Definitions are validated at
// construction and immutable afterwards; phase progression is strictly
// forward.
package campaign

import (
	"time"
)

// GeneratorWeight assigns a share of a phase's event budget to a generator.
type GeneratorWeight struct {
	GeneratorID string  `json:"generator"`
	Weight      float64 `json:"weight"`
}

// Phase is one ordered stage of a campaign.
type Phase struct {
	Name        string            `json:"name"`
	Duration    time.Duration     `json:"duration"`
	EventBudget int               `json:"event_budget"`
	Generators  []GeneratorWeight `json:"generators"`
	Roles       []string          `json:"roles"`

	// Params are forwarded to every generator in the phase as overrides.
	Params map[string]interface{} `json:"params,omitempty"`
}

// Campaign is a validated multi-phase attack narrative. Construct with
// Builder or Load; a zero Campaign is not usable.
type Campaign struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
	Techniques  []string `json:"techniques"`
	Phases      []Phase  `json:"phases"`
}

// TotalDuration is the logical length of the whole narrative.
func (c *Campaign) TotalDuration() time.Duration {
	var total time.Duration
	for _, p := range c.Phases {
		total += p.Duration
	}
	return total
}

// TotalBudget is the requested event count across all phases.
func (c *Campaign) TotalBudget() int {
	total := 0
	for _, p := range c.Phases {
		total += p.EventBudget
	}
	return total
}

// Roles returns the union of entity roles referenced by any phase.
func (c *Campaign) Roles() []string {
	seen := make(map[string]bool)
	var roles []string
	for _, p := range c.Phases {
		for _, r := range p.Roles {
			if !seen[r] {
				seen[r] = true
				roles = append(roles, r)
			}
		}
	}
	return roles
}
