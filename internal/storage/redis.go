package storage

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore is a SnapshotStore backed by Redis. Suited for deployments
// where chat history only needs to outlive app restarts, not the ride.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// RedisOption configures RedisStore behavior.
type RedisOption func(*RedisStore)

// WithTTL sets an expiry on written snapshots (default: none).
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewRedisStore constructs a Redis-backed SnapshotStore.
// The client is owned by the caller.
func NewRedisStore(rdb *redis.Client, opts ...RedisOption) (*RedisStore, error) {
	if rdb == nil {
		return nil, errors.New("storage: nil redis client")
	}
	st := &RedisStore{rdb: rdb}
	for _, opt := range opts {
		if opt != nil {
			opt(st)
		}
	}
	return st, nil
}

// Get reads the snapshot stored under key, or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.New("storage: empty key")
	}

	value, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set writes the snapshot under key, replacing any previous value.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("storage: empty key")
	}
	return s.rdb.Set(ctx, key, value, s.ttl).Err()
}
