package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/medikart/storefront/internal/port"
	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedis returns a KV store over a Redis client. Keys are scoped
// with prefix so multiple storefront instances can share one server.
func NewRedis(client *redis.Client, prefix string) port.KV {
	return &redisStore{client: client, prefix: prefix}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.scoped(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("client.Get: %w", err)
	}

	return value, true, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value string) error {
	if err := s.client.Set(ctx, s.scoped(key), value, 0).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.scoped(key)).Err(); err != nil {
		return fmt.Errorf("client.Del: %w", err)
	}

	return nil
}

func (s *redisStore) scoped(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}
