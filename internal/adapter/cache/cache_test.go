package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoapi/internal/core/port"
)

func exerciseCache(t *testing.T, c port.CacheRepository) {
	ctx := context.Background()

	_, err := c.Get(ctx, "todo:1")
	assert.ErrorIs(t, err, port.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "todo:1", []byte(`{"id":1}`), time.Minute))
	require.NoError(t, c.Set(ctx, "todos:all", []byte(`[]`), time.Minute))

	value, err := c.Get(ctx, "todo:1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":1}`), value)

	require.NoError(t, c.Delete(ctx, "todo:1", "todos:all"))

	_, err = c.Get(ctx, "todo:1")
	assert.ErrorIs(t, err, port.ErrCacheMiss)

	_, err = c.Get(ctx, "todos:all")
	assert.ErrorIs(t, err, port.ErrCacheMiss)
}

func TestMemoryRepository(t *testing.T) {
	c := NewMemoryRepository(time.Minute)
	defer c.Close()

	exerciseCache(t, c)
}

func TestMemoryRepository_Expires(t *testing.T) {
	c := NewMemoryRepository(time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "todo:2", []byte("x"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := c.Get(ctx, "todo:2")
	assert.ErrorIs(t, err, port.ErrCacheMiss)
}

func TestRedisRepository(t *testing.T) {
	url := os.Getenv("REDIS_URL")

	if url == "" {
		t.Skip("REDIS_URL is not set")
	}

	c, err := NewRedisRepository(context.Background(), url)
	require.NoError(t, err)
	defer c.Close()

	exerciseCache(t, c)
}

func TestNewRedisRepository_InvalidURL(t *testing.T) {
	_, err := NewRedisRepository(context.Background(), "not a url")
	assert.Error(t, err)

	_, err = NewRedisRepository(context.Background(), "")
	assert.EqualError(t, err, "REDIS_URL is not set")
}
