// Package generator provides the uniform invocation surface over the
// per-vendor event generators and the registry that resolves generator IDs
// to implementations at startup.
package generator

import (
	"strconv"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/entity"
)

// Generator is a stateless event-content producer. Generate returns count
// flat, serializable records; overrides carry correlated identities and any
// caller-supplied parameter values. Errors are generator-local and must not
// panic the caller; the adapter recovers panics regardless.
type Generator interface {
	// Name returns the stable generator ID (e.g. "okta_authentication").
	Name() string

	// Description returns a human-readable description.
	Description() string

	// SourceType returns the routing sourcetype attached to each event.
	// It must match a parser mapping on the downstream platform.
	SourceType() string

	// Index returns the destination index for the generator's events.
	Index() string

	Generate(count int, overrides map[string]interface{}) ([]map[string]interface{}, error)
}

// Event is one materialized, routed event ready for scheduling. The payload
// is opaque above this package.
type Event struct {
	GeneratorID string
	PhaseIndex  int
	SourceType  string
	Index       string
	Payload     map[string]interface{}
}

// IdentityParam extracts a correlated identity from an overrides map.
func IdentityParam(overrides map[string]interface{}, role string) (entity.Identity, bool) {
	if overrides == nil {
		return entity.Identity{}, false
	}
	id, ok := overrides[role].(entity.Identity)
	return id, ok
}

// StringParam extracts a string parameter with a default.
func StringParam(overrides map[string]interface{}, key, defaultValue string) string {
	if overrides == nil {
		return defaultValue
	}
	if val, ok := overrides[key].(string); ok {
		return val
	}
	return defaultValue
}

// IntParam extracts an integer parameter, parsing from string if necessary.
func IntParam(overrides map[string]interface{}, key string, defaultValue int) int {
	if overrides == nil {
		return defaultValue
	}

	switch val := overrides[key].(type) {
	case int:
		return val
	case string:
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}
