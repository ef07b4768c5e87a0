package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	redisinfra "github.com/accountability/ledger/internal/infrastructure/redis"
)

// newTestRedisClient connects to a fresh miniredis through the server's own
// constructor. Both are torn down at test cleanup.
func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := redisinfra.NewClient(context.Background(), "redis://"+mr.Addr(), redisinfra.WithPingTimeout(time.Second))
	if err != nil {
		t.Fatalf("connect to miniredis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func requireTTL(t *testing.T, mr *miniredis.Miniredis, key string, want time.Duration) {
	t.Helper()

	if !mr.Exists(key) {
		t.Fatalf("expected key %q to exist", key)
	}
	if got := mr.TTL(key); got != want {
		t.Fatalf("expected ttl %v on %q, got %v", want, key, got)
	}
}
