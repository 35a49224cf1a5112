package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	tg := NewTokenGenerator("test-secret", time.Hour)

	token, err := tg.Generate("operator", []string{"executions"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tg.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)
	assert.Equal(t, []string{"executions"}, claims.Scopes)
	assert.Equal(t, "jarvis", claims.Issuer)
}

func TestValidateWrongSecret(t *testing.T) {
	tg := NewTokenGenerator("secret-a", time.Hour)
	other := NewTokenGenerator("secret-b", time.Hour)

	token, err := tg.Generate("operator", nil)
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestValidateExpired(t *testing.T) {
	tg := NewTokenGenerator("test-secret", time.Hour)
	tg.ttl = -time.Minute

	token, err := tg.Generate("operator", nil)
	require.NoError(t, err)

	_, err = tg.Validate(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExpiredToken))
}

func TestValidateGarbage(t *testing.T) {
	tg := NewTokenGenerator("test-secret", time.Hour)

	_, err := tg.Validate("not.a.token")
	assert.Error(t, err)
}

func TestDefaultTTL(t *testing.T) {
	tg := NewTokenGenerator("test-secret", 0)
	assert.Equal(t, 24*time.Hour, tg.ttl)
}
