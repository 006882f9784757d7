package config

import (
	"net"
	"os"
	"strconv"
	"time"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"

	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// AppConfig is read once at startup and passed down explicitly.
type AppConfig struct {
	Host        string
	Port        string
	LogLevel    string
	Environment string

	// Storage
	DatabaseBackend string
	DatabasePath    string
	DatabaseURL     string

	// Todo read cache
	CacheBackend string
	CacheTTL     time.Duration
	RedisURL     string

	// Rate Limiting
	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	EnforceHTTPS bool

	Telemetry TelemetryConfig
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type TelemetryConfig struct {
	ServiceName    string
	ServiceVersion string
	MetricsPort    string
	OTLPEndpoint   string
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Host:             "0.0.0.0",
		Port:             "3000",
		LogLevel:         "info",
		Environment:      "development",
		DatabaseBackend:  BackendMemory,
		DatabasePath:     "todos.db",
		CacheBackend:     CacheNone,
		CacheTTL:         30 * time.Second,
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"POST /todos": {
				Requests: 100,
				Window:   time.Minute,
			},
			"PATCH /todos/:id": {
				Requests: 100,
				Window:   time.Minute,
			},
			"DELETE /todos/:id": {
				Requests: 100,
				Window:   time.Minute,
			},
			"default": {
				Requests: 600,
				Window:   time.Minute,
			},
		},
		EnforceHTTPS: false,
		Telemetry: TelemetryConfig{
			ServiceName:    "todoapi",
			ServiceVersion: "1.0.0",
			MetricsPort:    "9091",
		},
	}
}

// Load returns the default configuration overridden by environment variables.
func Load() *AppConfig {
	config := GetDefaultConfig()

	config.Host = envOrDefault("HOST", config.Host)
	config.Port = envOrDefault("PORT", config.Port)
	config.LogLevel = envOrDefault("LOG_LEVEL", config.LogLevel)
	config.Environment = envOrDefault("APP_ENV", config.Environment)

	config.DatabaseBackend = envOrDefault("DATABASE_BACKEND", config.DatabaseBackend)
	config.DatabasePath = envOrDefault("DATABASE_PATH", config.DatabasePath)
	config.DatabaseURL = envOrDefault("DATABASE_URL", config.DatabaseURL)

	config.CacheBackend = envOrDefault("CACHE_BACKEND", config.CacheBackend)
	config.CacheTTL = envOrDefaultDuration("CACHE_TTL", config.CacheTTL)
	config.RedisURL = envOrDefault("REDIS_URL", config.RedisURL)

	config.RateLimitEnabled = envOrDefaultBool("RATE_LIMIT_ENABLED", config.RateLimitEnabled)
	config.EnforceHTTPS = envOrDefaultBool("ENFORCE_HTTPS", config.EnforceHTTPS)

	if config.Environment == "production" {
		config.EnforceHTTPS = envOrDefaultBool("ENFORCE_HTTPS", true)
	}

	config.Telemetry.MetricsPort = envOrDefault("METRICS_PORT", config.Telemetry.MetricsPort)
	config.Telemetry.OTLPEndpoint = envOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", config.Telemetry.OTLPEndpoint)

	return config
}

func (c *AppConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func envOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return fallback
}

func envOrDefaultBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))

	if err != nil {
		return fallback
	}

	return v
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))

	if err != nil {
		return fallback
	}

	return v
}
