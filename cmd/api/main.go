package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	api "todoapi/internal/adapter/http"
	"todoapi/internal/adapter/telemetry"
	"todoapi/pkg/config"
)

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg.Telemetry.ServiceName, cfg.LogLevel)

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.NewContainer(ctx, cfg, logger.Zap())

	if err != nil {
		logger.Zap().Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Zap().Error("Failed to shut down telemetry", zap.Error(err))
		}
	}()

	tel.AppMetrics.StartSystemMetrics(ctx)

	if err := api.StartServerWithConfig(ctx, tel.AppMetrics, logger, cfg); err != nil {
		logger.Zap().Error("Server stopped with error", zap.Error(err))
		return
	}

	logger.Zap().Info("Shut down gracefully")
}
