package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound indicates the refresh token id is absent from the
// allowlist, either revoked or expired.
var ErrTokenNotFound = errors.New("refresh token not found")

// TokenStore keeps an allowlist of active refresh token ids. Tokens not
// present in the store are treated as revoked.
// Key format: refresh:<jti>
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore creates a TokenStore wrapping the given Redis client.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Save registers a refresh token id for userID until ttl elapses.
func (s *TokenStore) Save(ctx context.Context, jti, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(jti), userID, ttl).Err()
}

// UserID resolves the owner of a refresh token id, or ErrTokenNotFound.
func (s *TokenStore) UserID(ctx context.Context, jti string) (string, error) {
	v, err := s.client.Get(ctx, s.key(jti)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("token lookup: %w", err)
	}
	return v, nil
}

// Revoke removes a refresh token id from the allowlist. Revoking an unknown
// id is a no-op.
func (s *TokenStore) Revoke(ctx context.Context, jti string) error {
	return s.client.Del(ctx, s.key(jti)).Err()
}

func (s *TokenStore) key(jti string) string {
	return fmt.Sprintf("refresh:%s", jti)
}
