package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces fixed-window request limits backed by Redis.
// Key format: ratelimit:<scope>:<subject>
type RateLimiter struct {
	client *redis.Client
}

// NewRateLimiter creates a RateLimiter wrapping the given Redis client.
func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow increments the counter for subject within scope and reports whether
// the request stays under limit. The window starts on the first hit and
// resets after window elapses.
func (l *RateLimiter) Allow(ctx context.Context, scope, subject string, limit int64, window time.Duration) (bool, error) {
	key := l.key(scope, subject)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("ratelimit expire: %w", err)
		}
	}
	return count <= limit, nil
}

// RetryAfter returns how long until the window for subject resets. Zero means
// no active window.
func (l *RateLimiter) RetryAfter(ctx context.Context, scope, subject string) (time.Duration, error) {
	ttl, err := l.client.TTL(ctx, l.key(scope, subject)).Result()
	if err != nil {
		return 0, fmt.Errorf("ratelimit ttl: %w", err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

func (l *RateLimiter) key(scope, subject string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, subject)
}
