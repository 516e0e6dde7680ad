package authn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-signing-key"), time.Hour)

	token, err := issuer.Issue("u-1", "dev@example.com", "contributor")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "dev@example.com", claims.Email)
	assert.Equal(t, "contributor", claims.Role)
}

func TestTokenVerifyWrongKey(t *testing.T) {
	issuer := NewTokenIssuer([]byte("key-a"), time.Hour)
	other := NewTokenIssuer([]byte("key-b"), time.Hour)

	token, err := issuer.Issue("u-1", "dev@example.com", "admin")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenVerifyExpired(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-signing-key"), -time.Minute)

	token, err := issuer.Issue("u-1", "dev@example.com", "admin")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenVerifyGarbage(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-signing-key"), time.Hour)

	_, err := issuer.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
