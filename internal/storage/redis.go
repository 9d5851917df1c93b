package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "storefront:"

// RedisStore persists records in Redis. Useful when the client state should
// outlive the local filesystem (for example, a shared kiosk deployment).
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed record store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the record for key, or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get record %q: %w", key, err)
	}
	return data, nil
}

// Set writes the record for key. Records have no TTL; they are cleared
// explicitly by the owning store.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set record %q: %w", key, err)
	}
	return nil
}

// Delete removes the record for key. Missing records are ignored.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del record %q: %w", key, err)
	}
	return nil
}
