package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"todoapi/internal/core/port"
)

type redisRepository struct {
	rdb *redis.Client
}

// NewRedisRepository connects to the redis server at url
// (redis://[:password@]host:port/db) and verifies it answers.
func NewRedisRepository(ctx context.Context, url string) (port.CacheRepository, error) {
	if url == "" {
		return nil, errors.New("REDIS_URL is not set")
	}

	opts, err := redis.ParseURL(url)

	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &redisRepository{rdb: rdb}, nil
}

func (c *redisRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *redisRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.rdb.Get(ctx, key).Bytes()

	if errors.Is(err, redis.Nil) {
		return nil, port.ErrCacheMiss
	}

	return value, err
}

func (c *redisRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	return c.rdb.Del(ctx, keys...).Err()
}

func (c *redisRepository) Close() error {
	return c.rdb.Close()
}
