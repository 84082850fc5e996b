package flagstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trainhub/portal/internal/config"
)

func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// RedisStore keeps one redis hash per session namespace. The hash carries a
// TTL refreshed on every write so abandoned sessions age out on their own.
type RedisStore struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

func NewRedisStore(client *redis.Client, namespace string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		namespace: namespace,
		ttl:       ttl,
	}
}

func (s *RedisStore) key() string {
	return "portal:flags:" + s.namespace
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.HGet(ctx, s.key(), key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("hget %s: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.HSet(ctx, s.key(), key, value).Err(); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, s.key(), s.ttl).Err(); err != nil {
			return fmt.Errorf("expire: %w", err)
		}
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.HDel(ctx, s.key(), key).Err(); err != nil {
		return fmt.Errorf("hdel %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.client.HKeys(ctx, s.key()).Result()
	if err != nil {
		return nil, fmt.Errorf("hkeys: %w", err)
	}
	return keys, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("del: %w", err)
	}
	return nil
}
