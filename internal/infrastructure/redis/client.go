package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPingTimeout bounds the startup PING.
const DefaultPingTimeout = 5 * time.Second

type clientOptions struct {
	pingTimeout time.Duration
	poolSize    int
}

// Option tunes NewClient.
type Option func(*clientOptions)

// WithPingTimeout overrides DefaultPingTimeout.
func WithPingTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.pingTimeout = d }
}

// WithPoolSize caps the connection pool. Zero keeps the go-redis default.
func WithPoolSize(n int) Option {
	return func(o *clientOptions) { o.poolSize = n }
}

// NewClient connects to the hierarchy cache and idempotency store at
// redisURL and verifies the server answers PING before returning.
func NewClient(ctx context.Context, redisURL string, opts ...Option) (*redis.Client, error) {
	o := clientOptions{pingTimeout: DefaultPingTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if o.poolSize > 0 {
		redisOpts.PoolSize = o.poolSize
	}

	client := redis.NewClient(redisOpts)

	if err := Ping(client, o.pingTimeout)(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// Ping returns a readiness check that PINGs client within timeout.
func Ping(client *redis.Client, timeout time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to ping redis: %w", err)
		}
		return nil
	}
}
