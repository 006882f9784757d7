package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"
)

func SetupGinMiddlewareWithConfig(router *gin.Engine, metrics *telemetry.AppMetrics, logger *config.Logger, cfg *config.AppConfig) {
	httpsEnforcer := NewHTTPSEnforcer(cfg.EnforceHTTPS, logger.Zap())
	router.Use(httpsEnforcer.HTTPSMiddleware())

	router.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware(logger))

	if cfg.RateLimitEnabled {
		rateLimiter := NewRateLimiter(cfg.RateLimitConfigs, logger.Zap(), metrics)
		router.Use(rateLimiter.RateLimitMiddleware())
	}

	if metrics != nil {
		router.Use(MetricsMiddleware(metrics))
	}
}
