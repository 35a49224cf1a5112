package generator

import (
	"fmt"
	"sort"

	"github.com/brianvoe/gofakeit/v6"
)

// Registry resolves generator IDs to implementations. It is populated once
// at startup and passed by reference into the orchestrator; there is no
// package-global registration.
type Registry struct {
	generators map[string]Generator
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{generators: make(map[string]Generator)}
}

// Builtin returns a registry holding every builtin generator, all drawing
// randomness from faker so a seeded faker yields reproducible output.
func Builtin(faker *gofakeit.Faker) *Registry {
	r := NewRegistry()
	r.MustRegister(
		&OktaAuthentication{faker: faker},
		&ProofpointEmail{faker: faker},
		&CrowdStrikeProcess{faker: faker},
		&CiscoUmbrellaDNS{faker: faker},
		&ZscalerWeb{faker: faker},
		&PaloAltoFirewall{faker: faker},
		&SentinelOneDetection{faker: faker},
	)
	return r
}

// Register adds generators, rejecting duplicate IDs.
func (r *Registry) Register(gens ...Generator) error {
	for _, g := range gens {
		if _, exists := r.generators[g.Name()]; exists {
			return fmt.Errorf("generator %q already registered", g.Name())
		}
		r.generators[g.Name()] = g
	}
	return nil
}

// MustRegister is Register for startup wiring, where a duplicate is a bug.
func (r *Registry) MustRegister(gens ...Generator) {
	if err := r.Register(gens...); err != nil {
		panic(err)
	}
}

// Get retrieves a generator by ID.
func (r *Registry) Get(id string) (Generator, bool) {
	g, ok := r.generators[id]
	return g, ok
}

// List returns all registered generator IDs, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
