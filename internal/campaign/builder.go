package campaign

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/entity"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/generator"
)

// weightEpsilon is the tolerance when checking phase weights sum to 1.0.
const weightEpsilon = 0.001

// ErrInvalidCampaign wraps every validation failure so callers can
// distinguish configuration errors from runtime ones.
var ErrInvalidCampaign = errors.New("invalid campaign")

// GeneratorCatalog is the slice of the registry the builder needs: existence
// and routing metadata for referenced generators. *generator.Registry
// satisfies it.
type GeneratorCatalog interface {
	Get(id string) (generator.Generator, bool)
}

// Builder assembles and validates a campaign definition. Use one builder
// per campaign; Build returns an immutable Campaign or a validation error.
type Builder struct {
	campaign Campaign
}

// NewBuilder starts a campaign definition.
func NewBuilder(id, name string) *Builder {
	return &Builder{campaign: Campaign{ID: id, Name: name}}
}

// Describe sets the description and severity tag.
func (b *Builder) Describe(description, severity string) *Builder {
	b.campaign.Description = description
	b.campaign.Severity = severity
	return b
}

// Techniques tags the campaign with ATT&CK technique IDs.
func (b *Builder) Techniques(ids ...string) *Builder {
	b.campaign.Techniques = append(b.campaign.Techniques, ids...)
	return b
}

// Phase appends an ordered phase.
func (b *Builder) Phase(p Phase) *Builder {
	b.campaign.Phases = append(b.campaign.Phases, p)
	return b
}

// Build validates the assembled definition and returns it.
func (b *Builder) Build(generators GeneratorCatalog, catalog *entity.Catalog) (*Campaign, error) {
	c := b.campaign
	if err := Validate(&c, generators, catalog); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks a campaign definition against the generator registry and
// entity catalog. Invalid definitions fail fast and never produce an
// execution.
func Validate(c *Campaign, generators GeneratorCatalog, catalog *entity.Catalog) error {
	if c.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidCampaign)
	}
	if len(c.Phases) == 0 {
		return fmt.Errorf("%w %q: no phases", ErrInvalidCampaign, c.ID)
	}

	for i, p := range c.Phases {
		if p.Name == "" {
			return fmt.Errorf("%w %q: phase %d has no name", ErrInvalidCampaign, c.ID, i)
		}
		if p.Duration <= 0 {
			return fmt.Errorf("%w %q: phase %q has non-positive duration %s",
				ErrInvalidCampaign, c.ID, p.Name, p.Duration)
		}
		if p.EventBudget <= 0 {
			return fmt.Errorf("%w %q: phase %q has non-positive event budget %d",
				ErrInvalidCampaign, c.ID, p.Name, p.EventBudget)
		}
		if len(p.Generators) == 0 {
			return fmt.Errorf("%w %q: phase %q has no generators", ErrInvalidCampaign, c.ID, p.Name)
		}

		var sum float64
		for _, gw := range p.Generators {
			if gw.Weight <= 0 {
				return fmt.Errorf("%w %q: phase %q generator %q has non-positive weight",
					ErrInvalidCampaign, c.ID, p.Name, gw.GeneratorID)
			}
			gen, ok := generators.Get(gw.GeneratorID)
			if !ok {
				return fmt.Errorf("%w %q: phase %q references unknown generator %q",
					ErrInvalidCampaign, c.ID, p.Name, gw.GeneratorID)
			}
			// Routing metadata is the contract with the downstream parser
			// mappings; an unroutable generator is a definition error.
			if gen.SourceType() == "" {
				return fmt.Errorf("%w %q: generator %q has no sourcetype routing",
					ErrInvalidCampaign, c.ID, gw.GeneratorID)
			}
			sum += gw.Weight
		}
		if math.Abs(sum-1.0) > weightEpsilon {
			return fmt.Errorf("%w %q: phase %q generator weights sum to %.4f, want 1.0",
				ErrInvalidCampaign, c.ID, p.Name, sum)
		}

		for _, role := range p.Roles {
			if !catalog.Registered(role) {
				return fmt.Errorf("%w %q: phase %q requires unallocatable role %q",
					ErrInvalidCampaign, c.ID, p.Name, role)
			}
		}
	}

	return nil
}

// minutes is a convenience for template definitions.
func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
