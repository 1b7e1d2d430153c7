package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"exchange-rate-cache/pkg/logger"
)

// RedisStore keeps slots in Redis so several instances can share one seed.
type RedisStore struct {
	client *redis.Client
	prefix string
	log    *logger.Logger
}

func NewRedisStore(client *redis.Client, prefix string, log *logger.Logger) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, log: log}
}

// NewRedisStoreFromURL parses a redis:// URL and opens a client for it.
func NewRedisStoreFromURL(url, prefix string, log *logger.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisStore(redis.NewClient(opt), prefix, log), nil
}

func (r *RedisStore) key(key string) string {
	return r.prefix + key
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.log.Debug("Redis store miss", "key", key)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	r.log.Debug("Redis store hit", "key", key)
	return val, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	r.log.Debug("Redis store set", "key", key, "bytes", len(value))
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}

	r.log.Debug("Redis store delete", "key", key)
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
