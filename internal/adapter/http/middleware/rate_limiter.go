package middleware

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"todoapi/internal/adapter/http/helper"
	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"
)

const limiterIdleTTL = 15 * time.Minute

// RateLimiter keeps one token bucket per client IP and route. Buckets refill
// at Requests per Window with a burst of Requests, and are dropped after they
// sit idle.
type RateLimiter struct {
	buckets *gocache.Cache
	config  map[string]config.RateLimitConfig
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
	mutex   sync.Mutex
}

func NewRateLimiter(configs map[string]config.RateLimitConfig, logger *zap.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, ok := configs["default"]; !ok {
		configs = withDefault(configs)
	}

	return &RateLimiter{
		buckets: gocache.New(limiterIdleTTL, 2*limiterIdleTTL),
		config:  configs,
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		methodPath := c.Request.Method + " " + path

		limit, exists := rl.config[methodPath]

		if !exists {
			limit = rl.config["default"]
		}

		key := fmt.Sprintf("rate_limit:%s:%s", methodPath, c.ClientIP())
		limiter := rl.limiter(key, limit)

		allowed := limiter.Allow()
		remaining := int(math.Max(0, math.Floor(limiter.Tokens())))

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), path, "ip")
			}

			retryAfter := retryAfterSeconds(limiter)

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.Int("limit", limit.Requests),
				zap.Duration("window", limit.Window),
				zap.Int("retry_after", retryAfter),
			)

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			helper.SendTooManyRequests(c, fmt.Sprintf("Too many requests. Limit: %d per %v", limit.Requests, limit.Window))
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), path, "ip")
		}

		c.Next()
	}
}

func (rl *RateLimiter) limiter(key string, limit config.RateLimitConfig) *rate.Limiter {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if cached, found := rl.buckets.Get(key); found {
		limiter := cached.(*rate.Limiter)
		// Touch the entry so active buckets are not expired.
		rl.buckets.SetDefault(key, limiter)

		return limiter
	}

	limiter := rate.NewLimiter(refillRate(limit), limit.Requests)
	rl.buckets.SetDefault(key, limiter)

	return limiter
}

func refillRate(limit config.RateLimitConfig) rate.Limit {
	if limit.Window <= 0 || limit.Requests <= 0 {
		return rate.Inf
	}

	return rate.Limit(float64(limit.Requests) / limit.Window.Seconds())
}

// retryAfterSeconds is how long until the bucket holds a whole token again.
func retryAfterSeconds(limiter *rate.Limiter) int {
	missing := 1 - limiter.Tokens()

	if missing <= 0 || limiter.Limit() <= 0 {
		return 1
	}

	return int(math.Max(1, math.Ceil(missing/float64(limiter.Limit()))))
}

func withDefault(configs map[string]config.RateLimitConfig) map[string]config.RateLimitConfig {
	merged := make(map[string]config.RateLimitConfig, len(configs)+1)

	for k, v := range configs {
		merged[k] = v
	}

	merged["default"] = config.GetDefaultConfig().RateLimitConfigs["default"]

	return merged
}
