package entity

import (
	"errors"
	"fmt"
	"sync"

	"github.com/brianvoe/gofakeit/v6"
)

// ErrRoleNotFound is returned by Get for a role that was never allocated.
var ErrRoleNotFound = errors.New("role not allocated")

// ErrUnknownRole is returned by Allocate for a role absent from the catalog.
// Campaign validation surfaces this before an execution starts.
var ErrUnknownRole = errors.New("role not registered in catalog")

// Pool allocates identities for one campaign instance. Allocate is
// idempotent per role: the first call synthesizes the identity, later calls
// return the same value. The pool is read-shared by all generator
// invocations once a campaign is running.
type Pool struct {
	mu      sync.Mutex
	catalog *Catalog
	faker   *gofakeit.Faker
	byRole  map[string]Identity
}

// NewPool creates a pool drawing attribute values from faker. Pass a faker
// built with a fixed seed for deterministic dry-runs.
func NewPool(catalog *Catalog, faker *gofakeit.Faker) *Pool {
	return &Pool{
		catalog: catalog,
		faker:   faker,
		byRole:  make(map[string]Identity),
	}
}

// Allocate returns the identity bound to role, creating it on first use.
func (p *Pool) Allocate(role string) (Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id, ok := p.byRole[role]; ok {
		return id, nil
	}

	kind, ok := p.catalog.KindOf(role)
	if !ok {
		return Identity{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	id := p.synthesize(role, kind)
	p.byRole[role] = id
	return id, nil
}

// Get returns the identity previously allocated for role.
func (p *Pool) Get(role string) (Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, ok := p.byRole[role]
	if !ok {
		return Identity{}, fmt.Errorf("%w: %q", ErrRoleNotFound, role)
	}
	return id, nil
}

// All returns every allocated identity keyed by role. The returned map is a
// copy; identities themselves are immutable.
func (p *Pool) All() map[string]Identity {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]Identity, len(p.byRole))
	for role, id := range p.byRole {
		out[role] = id
	}
	return out
}

func (p *Pool) synthesize(role string, kind Kind) Identity {
	id := Identity{
		Role: role,
		Kind: kind,
		UID:  p.faker.UUID(),
		IP:   p.faker.IPv4Address(),
	}

	switch kind {
	case KindUser:
		id.Name = p.faker.Name()
		id.Username = p.faker.Username()
		id.Email = p.faker.Email()
		id.Hostname = "ws-" + p.faker.LetterN(6)
		id.UserAgent = p.faker.UserAgent()
	case KindHost:
		id.Hostname = p.faker.DomainName()
		id.MAC = p.faker.MacAddress()
	case KindAddress:
		id.UserAgent = p.faker.UserAgent()
	case KindDomain:
		id.Domain = p.faker.DomainName()
	case KindEmail:
		id.Name = p.faker.Name()
		id.Email = p.faker.Email()
		id.Domain = p.faker.DomainName()
	}

	return id
}
