package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 5)

	token, expiresAt, err := tm.GenerateToken("staff-1", "session-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "staff-1", claims.StaffID)
	assert.Equal(t, "session-1", claims.SessionID)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 5).GenerateToken("staff-1", "session-1")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 5).ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := NewTokenManager("test-secret", 5).ParseToken("not-a-token")
	assert.Error(t, err)
}
