package config

import (
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestGetDefaultConfig(t *testing.T) {
	RegisterTestingT(t)

	config := GetDefaultConfig()

	Expect(config.Addr()).To(Equal("0.0.0.0:3000"))
	Expect(config.LogLevel).To(Equal("info"))
	Expect(config.DatabaseBackend).To(Equal(BackendMemory))
	Expect(config.CacheBackend).To(Equal(CacheNone))
	Expect(config.RateLimitConfigs).To(HaveKey("default"))
	Expect(config.RateLimitConfigs).To(HaveKey("POST /todos"))
	Expect(config.RateLimitConfigs).NotTo(HaveKey("POST /users"))
}

func TestLoad_FromEnvironment(t *testing.T) {
	RegisterTestingT(t)

	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_BACKEND", BackendSQLite)
	t.Setenv("DATABASE_PATH", "/tmp/todos.db")
	t.Setenv("CACHE_BACKEND", CacheRedis)
	t.Setenv("CACHE_TTL", "5s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	config := Load()

	Expect(config.Addr()).To(Equal("127.0.0.1:8080"))
	Expect(config.LogLevel).To(Equal("debug"))
	Expect(config.DatabaseBackend).To(Equal(BackendSQLite))
	Expect(config.DatabasePath).To(Equal("/tmp/todos.db"))
	Expect(config.CacheBackend).To(Equal(CacheRedis))
	Expect(config.CacheTTL).To(Equal(5 * time.Second))
	Expect(config.RedisURL).To(Equal("redis://localhost:6379/0"))
	Expect(config.RateLimitEnabled).To(BeFalse())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("RATE_LIMIT_ENABLED", "maybe")

	config := Load()

	assert.Equal(t, 30*time.Second, config.CacheTTL)
	assert.True(t, config.RateLimitEnabled)
}

func TestLoad_ProductionEnforcesHTTPS(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	config := Load()

	assert.True(t, config.IsProduction())
	assert.True(t, config.EnforceHTTPS)
}

func TestNewLogger(t *testing.T) {
	t.Run("should accept a valid level", func(t *testing.T) {
		logger, err := NewLogger("todoapi", "debug")

		assert.NoError(t, err)
		assert.Equal(t, "debug", logger.Level.String())
	})

	t.Run("should fall back to info on an unknown level", func(t *testing.T) {
		logger, err := NewLogger("todoapi", "loud")

		assert.NoError(t, err)
		assert.Equal(t, zapcore.InfoLevel, logger.Level)
	})
}
