package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	now := time.Now()
	token, expiresAt, err := GenerateJWT("admin", "secret", time.Hour, "resource-bank", now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), expiresAt, time.Second)

	claims, err := ParseAndValidateJWT(token, "secret", "resource-bank")
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
}

func TestParseAndValidateJWT_Rejects(t *testing.T) {
	token, _, err := GenerateJWT("admin", "secret", time.Hour, "resource-bank", time.Now())
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, "other-secret", "resource-bank")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = ParseAndValidateJWT(token, "secret", "someone-else")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	expired, _, err := GenerateJWT("admin", "secret", time.Minute, "resource-bank", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, "secret", "resource-bank")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestHashAdminPassword(t *testing.T) {
	hash, err := HashAdminPassword("correct-horse\n")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("correct-horse", hash))
	assert.False(t, CheckPasswordHash("correct-horse\n", hash))
	assert.False(t, CheckPasswordHash("battery-staple", hash))

	_, err = HashAdminPassword("  short ")
	assert.ErrorIs(t, err, ErrWeakPassword)
}
