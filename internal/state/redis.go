package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore holds per-session state in Redis for server-rendered
// deployments, with expiry enforced by Redis TTLs.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore namespaces all keys under the given context id, the
// browser-context analogue for one visitor.
func NewRedisStore(client *redis.Client, contextID string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: fmt.Sprintf("storefront:%s:", contextID),
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
