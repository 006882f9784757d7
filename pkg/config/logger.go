package config

import (
	"context"
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	Logger      *otelzap.Logger
	ServiceName string
	Level       zapcore.Level
}

// NewLogger builds a production zap logger. An unknown level falls back to
// info and is reported once the logger exists.
func NewLogger(serviceName, level string) (*Logger, error) {
	lvl, levelErr := zapcore.ParseLevel(level)

	if levelErr != nil {
		lvl = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build(zap.Fields(zap.String("service", serviceName)))

	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	if levelErr != nil {
		zapLogger.Warn("Unknown log level, using info",
			zap.String("log_level", level),
			zap.Error(levelErr),
		)
	}

	return &Logger{
		Logger:      otelzap.New(zapLogger),
		ServiceName: serviceName,
		Level:       lvl,
	}, nil
}

func NewNopLogger() *Logger {
	return &Logger{
		Logger:      otelzap.New(zap.NewNop()),
		ServiceName: "todoapi",
		Level:       zapcore.InfoLevel,
	}
}

func (l *Logger) Zap() *zap.Logger {
	return l.Logger.Logger
}

func (l *Logger) Sync() error {
	return l.Logger.Sync()
}

func (l *Logger) InfoWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Ctx(ctx).Info(msg, fields...)
}

func (l *Logger) ErrorWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Ctx(ctx).Error(msg, fields...)
}
