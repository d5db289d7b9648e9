package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// TestTokenRoundTrip tests issue and parse with the same secret
func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(testSecret, "user-123", "OWNER", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

// TestParseTokenWrongSecret tests rejection of a foreign signature
func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, "user-123", "OWNER", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

// TestParseTokenExpired tests rejection of an expired token
func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken(testSecret, "user-123", "OWNER", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.Error(t, err)
}

// TestParseTokenGarbage tests rejection of a malformed token
func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken(testSecret, "not.a.token")
	assert.Error(t, err)
}
