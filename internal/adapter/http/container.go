package http

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"todoapi/internal/adapter/cache"
	"todoapi/internal/adapter/database/memory"
	"todoapi/internal/adapter/database/postgres"
	pgrepository "todoapi/internal/adapter/database/postgres/repository"
	"todoapi/internal/adapter/database/sqlite"
	sqliterepository "todoapi/internal/adapter/database/sqlite/repository"
	"todoapi/internal/adapter/http/handler"
	"todoapi/internal/core/port"
	"todoapi/internal/core/service"
	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"
)

type Container struct {
	TodoRepo port.TodoRepository
	Cache    port.CacheRepository

	TodoService port.TodoService
	UserService port.UserService

	RootHandler *handler.RootHandler
	UserHandler *handler.UserHandler
	TodoHandler *handler.TodoHandler

	closers []func() error
}

// NewContainer wires the backend and cache selected by cfg into the
// services and handlers.
func NewContainer(ctx context.Context, cfg *config.AppConfig, logger *config.Logger, metrics *telemetry.AppMetrics) (*Container, error) {
	c := &Container{}
	probe := telemetry.NewOTELProbe(logger.Zap(), metrics)

	todoRepo, err := c.newTodoRepository(ctx, cfg, probe)

	if err != nil {
		c.Close()
		return nil, err
	}

	todoCache, err := c.newCache(ctx, cfg)

	if err != nil {
		c.Close()
		return nil, err
	}

	opts := []service.TodoServiceOption{
		service.WithTelemetry(probe),
		service.WithMetrics(metrics),
		service.WithLogger(logger.Zap()),
	}

	if todoCache != nil {
		opts = append(opts, service.WithCache(todoCache, cfg.CacheTTL))
	}

	c.TodoRepo = todoRepo
	c.Cache = todoCache
	c.TodoService = service.NewTodoService(todoRepo, opts...)
	c.UserService = service.NewUserService(metrics)

	c.RootHandler = handler.NewRootHandler(logger.Zap())
	c.UserHandler = handler.NewUserHandler(c.UserService)
	c.TodoHandler = handler.NewTodoHandler(c.TodoService, logger)

	logger.Zap().Info("Container ready",
		zap.String("database_backend", cfg.DatabaseBackend),
		zap.String("cache_backend", cfg.CacheBackend),
	)

	return c, nil
}

func (c *Container) newTodoRepository(ctx context.Context, cfg *config.AppConfig, probe port.Telemetry) (port.TodoRepository, error) {
	switch cfg.DatabaseBackend {
	case config.BackendMemory, "":
		return memory.NewTodoRepository(), nil

	case config.BackendSQLite:
		db, err := sqlite.NewDB(cfg.DatabasePath, cfg.LogLevel)

		if err != nil {
			return nil, err
		}

		c.closers = append(c.closers, db.Close)

		return sqliterepository.NewTodoRepository(db, probe), nil

	case config.BackendPostgres:
		db, err := postgres.NewDB(ctx, cfg.DatabaseURL)

		if err != nil {
			return nil, err
		}

		c.closers = append(c.closers, func() error {
			db.Close()
			return nil
		})

		return pgrepository.NewTodoRepository(db, probe), nil
	}

	return nil, fmt.Errorf("unknown database backend %q", cfg.DatabaseBackend)
}

// newCache returns nil when caching is disabled.
func (c *Container) newCache(ctx context.Context, cfg *config.AppConfig) (port.CacheRepository, error) {
	switch cfg.CacheBackend {
	case config.CacheNone, "":
		return nil, nil

	case config.CacheMemory:
		todoCache := cache.NewMemoryRepository(cfg.CacheTTL)
		c.closers = append(c.closers, todoCache.Close)

		return todoCache, nil

	case config.CacheRedis:
		todoCache, err := cache.NewRedisRepository(ctx, cfg.RedisURL)

		if err != nil {
			return nil, err
		}

		c.closers = append(c.closers, todoCache.Close)

		return todoCache, nil
	}

	return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
}

// Close releases the database and cache connections in reverse order.
func (c *Container) Close() error {
	var errs []error

	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}

	c.closers = nil

	return errors.Join(errs...)
}
