package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eventhub/internal/cache"
)

const sessionKeyPrefix = "session:"

// SessionStoreInterface defines the interface for issued-token tracking.
// Token verification itself is lookup-free; sessions exist so logout can
// revoke a token before it expires.
type SessionStoreInterface interface {
	StoreSession(ctx context.Context, tokenID string, userID uint, username string, ttl time.Duration) error
	GetSession(ctx context.Context, tokenID string) (userID uint, username string, err error)
	DeleteSession(ctx context.Context, tokenID string) error
}

// SessionStore tracks issued tokens in Redis, keyed by token ID (JTI).
type SessionStore struct {
	cache *cache.Client
}

// Ensure SessionStore implements SessionStoreInterface
var _ SessionStoreInterface = (*SessionStore)(nil)

// NewSessionStore creates a new session store.
func NewSessionStore(cache *cache.Client) *SessionStore {
	return &SessionStore{cache: cache}
}

type sessionData struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// StoreSession records an issued token with the same TTL as the token itself.
func (s *SessionStore) StoreSession(ctx context.Context, tokenID string, userID uint, username string, ttl time.Duration) error {
	payload, err := json.Marshal(sessionData{UserID: userID, Username: username})
	if err != nil {
		return fmt.Errorf("marshal session data: %w", err)
	}
	return s.cache.Set(ctx, sessionKeyPrefix+tokenID, payload, ttl)
}

// GetSession retrieves session data for a token ID.
func (s *SessionStore) GetSession(ctx context.Context, tokenID string) (uint, string, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+tokenID)
	if err != nil || data == nil {
		return 0, "", fmt.Errorf("session not found")
	}

	var session sessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return 0, "", fmt.Errorf("unmarshal session data: %w", err)
	}
	return session.UserID, session.Username, nil
}

// DeleteSession removes a session, revoking the token for logout purposes.
func (s *SessionStore) DeleteSession(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+tokenID)
}
