package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// TokenManager issues and verifies bearer tokens backed by Redis. A token
// is the whole authenticated application state: issuing one is the auth
// context init, revoking it the teardown.
type TokenManager struct {
	client *redis.Client
	ttl    time.Duration
}

type tokenPayload struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(client *redis.Client, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &TokenManager{client: client, ttl: ttl}
}

// Issue creates a fresh token for the user.
func (m *TokenManager) Issue(ctx context.Context, user User) (string, error) {
	token := uuid.NewString()
	payload, err := json.Marshal(tokenPayload{UserID: user.ID, Username: user.Username})
	if err != nil {
		return "", err
	}
	if err := m.client.Set(ctx, tokenKey(token), payload, m.ttl).Err(); err != nil {
		return "", fmt.Errorf("auth: store token: %w", err)
	}
	return token, nil
}

// Verify resolves a token to the caller identity, refreshing its TTL.
func (m *TokenManager) Verify(ctx context.Context, token string) (*shared.Identity, error) {
	if token == "" {
		return nil, shared.ErrTokenMissing
	}
	payload, err := m.client.Get(ctx, tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrTokenExpired
		}
		return nil, fmt.Errorf("auth: load token: %w", err)
	}
	var stored tokenPayload
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, fmt.Errorf("auth: decode token: %w", err)
	}
	_ = m.client.Expire(ctx, tokenKey(token), m.ttl).Err()
	return &shared.Identity{UserID: stored.UserID, Username: stored.Username, Token: token}, nil
}

// Revoke deletes a token.
func (m *TokenManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.client.Del(ctx, tokenKey(token)).Err()
}

func tokenKey(token string) string {
	return "auth:token:" + token
}
