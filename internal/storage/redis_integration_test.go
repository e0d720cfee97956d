package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
)

// Requires a reachable Redis:
//
//	CHAT_TEST_REDIS_ADDR=localhost:6379 go test ./internal/storage/
func testRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("CHAT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CHAT_TEST_REDIS_ADDR not set; skipping integration test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		t.Fatalf("redis ping: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisStoreRoundtrip(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()

	st, err := NewRedisStore(rdb)
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}

	key := testKey(t)
	t.Cleanup(func() { rdb.Del(context.Background(), key) })

	if _, err := st.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get before Set err = %v, want ErrNotFound", err)
	}

	if err := st.Set(ctx, key, []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := st.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte(`[{"id":"a"}]`)) {
		t.Fatalf("Get = %q, want stored snapshot", got)
	}
}

func TestRedisStoreTTL(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()

	st, err := NewRedisStore(rdb, WithTTL(time.Hour))
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}

	key := testKey(t)
	t.Cleanup(func() { rdb.Del(context.Background(), key) })

	if err := st.Set(ctx, key, []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	ttl, err := rdb.TTL(ctx, key).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Hour {
		t.Fatalf("ttl = %v, want within (0, 1h]", ttl)
	}
}
