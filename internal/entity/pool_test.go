package entity

import (
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(seed int64) *Pool {
	return NewPool(DefaultCatalog(), gofakeit.New(seed))
}

func TestAllocateIdempotent(t *testing.T) {
	pool := newTestPool(1)

	first, err := pool.Allocate("victim_user")
	require.NoError(t, err)
	second, err := pool.Allocate("victim_user")
	require.NoError(t, err)

	assert.Equal(t, first, second, "repeated allocation must return the same identity")
	assert.Equal(t, "victim_user", first.Role)
	assert.Equal(t, KindUser, first.Kind)
}

func TestAllocateUnknownRole(t *testing.T) {
	pool := newTestPool(1)

	_, err := pool.Allocate("nonexistent_role")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownRole))
}

func TestGetBeforeAllocate(t *testing.T) {
	pool := newTestPool(1)

	_, err := pool.Get("victim_user")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRoleNotFound))

	_, err = pool.Allocate("victim_user")
	require.NoError(t, err)

	id, err := pool.Get("victim_user")
	require.NoError(t, err)
	assert.Equal(t, "victim_user", id.Role)
}

func TestKindAttributes(t *testing.T) {
	pool := newTestPool(1)

	tests := []struct {
		role  string
		check func(t *testing.T, id Identity)
	}{
		{
			role: "victim_user",
			check: func(t *testing.T, id Identity) {
				assert.NotEmpty(t, id.Username)
				assert.NotEmpty(t, id.Email)
				assert.NotEmpty(t, id.Hostname)
			},
		},
		{
			role: "domain_controller",
			check: func(t *testing.T, id Identity) {
				assert.NotEmpty(t, id.Hostname)
				assert.NotEmpty(t, id.MAC)
			},
		},
		{
			role: "c2_domain",
			check: func(t *testing.T, id Identity) {
				assert.NotEmpty(t, id.Domain)
			},
		},
		{
			role: "mail_sender",
			check: func(t *testing.T, id Identity) {
				assert.NotEmpty(t, id.Email)
				assert.NotEmpty(t, id.Domain)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			id, err := pool.Allocate(tt.role)
			require.NoError(t, err)
			assert.NotEmpty(t, id.UID)
			assert.NotEmpty(t, id.IP)
			tt.check(t, id)
		})
	}
}

func TestSeededPoolsMatch(t *testing.T) {
	a := newTestPool(42)
	b := newTestPool(42)

	for _, role := range []string{"victim_user", "victim_host", "attacker_ip"} {
		idA, err := a.Allocate(role)
		require.NoError(t, err)
		idB, err := b.Allocate(role)
		require.NoError(t, err)
		assert.Equal(t, idA, idB, "role %s should synthesize identically for equal seeds", role)
	}
}

func TestAllCopies(t *testing.T) {
	pool := newTestPool(1)
	_, err := pool.Allocate("victim_user")
	require.NoError(t, err)

	all := pool.All()
	require.Len(t, all, 1)

	// Mutating the returned map must not affect the pool.
	delete(all, "victim_user")
	_, err = pool.Get("victim_user")
	assert.NoError(t, err)
}

func TestCatalogRoles(t *testing.T) {
	catalog := DefaultCatalog()

	assert.True(t, catalog.Registered("victim_user"))
	assert.False(t, catalog.Registered("made_up"))

	kind, ok := catalog.KindOf("c2_ip")
	require.True(t, ok)
	assert.Equal(t, KindAddress, kind)

	assert.Len(t, catalog.Roles(), 12)
}
