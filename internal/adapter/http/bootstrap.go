package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"todoapi/internal/adapter/http/routes"
	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"
)

const shutdownTimeout = 10 * time.Second

// StartServerWithConfig serves the API until ctx is cancelled, then drains
// in-flight requests before returning.
func StartServerWithConfig(ctx context.Context, metrics *telemetry.AppMetrics, logger *config.Logger, cfg *config.AppConfig) error {
	container, err := NewContainer(ctx, cfg, logger, metrics)

	if err != nil {
		return err
	}

	defer container.Close()

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		RootHandler: container.RootHandler,
		UserHandler: container.UserHandler,
		TodoHandler: container.TodoHandler,
	}, metrics, logger, cfg)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	logger.Zap().Info("Server starting",
		zap.String("addr", cfg.Addr()),
		zap.String("environment", cfg.Environment),
		zap.String("database_backend", cfg.DatabaseBackend),
		zap.Bool("rate_limit_enabled", cfg.RateLimitEnabled),
		zap.Bool("https_enforced", cfg.EnforceHTTPS),
	)

	errCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Zap().Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return <-errCh
}
