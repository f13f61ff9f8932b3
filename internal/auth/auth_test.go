package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ifinsure/internal/config"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword("s3cret-pass", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestTokenIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer(config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "ifinsure-test",
		AccessTTL: time.Minute,
	})

	token, err := issuer.Issue("user-1", "agent", "sess-1")
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "agent", claims.UserType)
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestTokenVerifyRejectsTampered(t *testing.T) {
	issuer := NewTokenIssuer(config.AuthConfig{JWTSecret: "a", Issuer: "i", AccessTTL: time.Minute})
	other := NewTokenIssuer(config.AuthConfig{JWTSecret: "b", Issuer: "i", AccessTTL: time.Minute})

	token, err := other.Issue("user-1", "agent", "sess-1")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.Error(t, err)
}

func TestTokenVerifyRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer(config.AuthConfig{JWTSecret: "a", Issuer: "i", AccessTTL: -time.Minute})

	token, err := issuer.Issue("user-1", "agent", "sess-1")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.Error(t, err)
}
