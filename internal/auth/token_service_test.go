package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "eventhub/internal/errors"
)

func TestTokenService_RoundTrip(t *testing.T) {
	service := NewTokenService("test-secret", 30*time.Minute)

	token, err := service.Issue(42, "alice", "session-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "session-1", claims.ID)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenService_Expired(t *testing.T) {
	// Negative TTL puts the expiry in the past at issue time.
	service := NewTokenService("test-secret", -1*time.Minute)

	token, err := service.Issue(1, "bob", "session-2")
	assert.NoError(t, err)

	claims, err := service.Verify(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestTokenService_Malformed(t *testing.T) {
	service := NewTokenService("test-secret", 30*time.Minute)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{name: "truncated", token: "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.Verify(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, apperrors.ErrTokenMalformed)
		})
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", 30*time.Minute)
	verifier := NewTokenService("secret-b", 30*time.Minute)

	token, err := issuer.Issue(7, "carol", "session-3")
	assert.NoError(t, err)

	claims, err := verifier.Verify(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, apperrors.ErrTokenMalformed)
}
