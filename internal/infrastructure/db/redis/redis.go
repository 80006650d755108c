package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDialTimeout = 5 * time.Second

// Config carries the connection settings for the Redis instance backing the
// login rate limiter and the refresh-token allowlist.
type Config struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
	PoolSize    int  // 0 = go-redis default (10 per CPU)
	TLS         bool // dial with TLS, for managed Redis offerings
}

// Connect dials Redis and verifies the connection with a ping before any
// limiter or token operation depends on it. Callers own closing the client.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}

	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return client, nil
}
