package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todoapi/pkg/config"
)

func LoggingMiddleware(logger *config.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		if raw != "" {
			path = path + "?" + raw
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.String("request_id", RequestIDFromContext(c.Request.Context())),
		}

		if c.Writer.Status() >= 500 {
			logger.ErrorWithTrace(c.Request.Context(), "HTTP Request", fields...)
			return
		}

		logger.InfoWithTrace(c.Request.Context(), "HTTP Request", fields...)
	}
}
