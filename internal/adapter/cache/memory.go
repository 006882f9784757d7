package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"todoapi/internal/core/port"
)

type memoryRepository struct {
	store *gocache.Cache
}

// NewMemoryRepository keeps entries in process memory. Entries without a TTL
// fall back to defaultTTL.
func NewMemoryRepository(defaultTTL time.Duration) port.CacheRepository {
	return &memoryRepository{
		store: gocache.New(defaultTTL, 2*defaultTTL),
	}
}

func (c *memoryRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}

	c.store.Set(key, value, ttl)

	return nil
}

func (c *memoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, found := c.store.Get(key)

	if !found {
		return nil, port.ErrCacheMiss
	}

	return value.([]byte), nil
}

func (c *memoryRepository) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		c.store.Delete(key)
	}

	return nil
}

func (c *memoryRepository) Close() error {
	c.store.Flush()

	return nil
}
