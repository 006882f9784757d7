package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	"todoapi/internal/core/telemetry"
	"todoapi/internal/core/util"
)

const serviceName = "todo"

type TodoService struct {
	repo      port.TodoRepository
	cache     port.CacheRepository
	ttl       time.Duration
	telemetry port.Telemetry
	metrics   *telemetry.AppMetrics
	logger    *zap.Logger

	// generation moves forward after every committed write. A read only
	// populates the cache if no write landed while it was in flight.
	generation atomic.Uint64
}

type TodoServiceOption func(*TodoService)

// WithCache enables read-through caching of Find and All. Writes evict the
// affected keys.
func WithCache(cache port.CacheRepository, ttl time.Duration) TodoServiceOption {
	return func(ts *TodoService) {
		ts.cache = cache
		ts.ttl = ttl
	}
}

func WithTelemetry(probe port.Telemetry) TodoServiceOption {
	return func(ts *TodoService) { ts.telemetry = probe }
}

func WithMetrics(metrics *telemetry.AppMetrics) TodoServiceOption {
	return func(ts *TodoService) { ts.metrics = metrics }
}

func WithLogger(logger *zap.Logger) TodoServiceOption {
	return func(ts *TodoService) { ts.logger = logger }
}

func NewTodoService(repo port.TodoRepository, opts ...TodoServiceOption) *TodoService {
	ts := &TodoService{
		repo:      repo,
		telemetry: telemetry.NewNoOpProbe(),
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(ts)
	}

	return ts
}

func (ts *TodoService) Create(ctx context.Context, payload domain.CreateTodo) (todo domain.Todo, err error) {
	ctx, done := ts.observe(ctx, "create")
	defer func() { done(err) }()

	todo, err = ts.repo.Create(ctx, payload)

	if err != nil {
		return domain.Todo{}, err
	}

	ts.invalidate(ctx, util.TodosKey)

	return todo, nil
}

func (ts *TodoService) Find(ctx context.Context, id int) (todo domain.Todo, err error) {
	ctx, done := ts.observe(ctx, "find", attribute.Int("todo.id", id))
	defer func() { done(err) }()

	key := util.TodoKey(id)

	if cached, ok := readCache[domain.Todo](ctx, ts, key, "todo"); ok {
		return cached, nil
	}

	generation := ts.generation.Load()
	todo, err = ts.repo.Find(ctx, id)

	if err != nil {
		return domain.Todo{}, err
	}

	ts.store(ctx, key, todo, generation)

	return todo, nil
}

func (ts *TodoService) All(ctx context.Context) (todos []domain.Todo, err error) {
	ctx, done := ts.observe(ctx, "all")
	defer func() { done(err) }()

	if cached, ok := readCache[[]domain.Todo](ctx, ts, util.TodosKey, "todos"); ok {
		return cached, nil
	}

	generation := ts.generation.Load()
	todos, err = ts.repo.All(ctx)

	if err != nil {
		return nil, err
	}

	if todos == nil {
		todos = []domain.Todo{}
	}

	ts.store(ctx, util.TodosKey, todos, generation)

	return todos, nil
}

func (ts *TodoService) Update(ctx context.Context, id int, payload domain.UpdateTodo) (todo domain.Todo, err error) {
	ctx, done := ts.observe(ctx, "update", attribute.Int("todo.id", id))
	defer func() { done(err) }()

	todo, err = ts.repo.Update(ctx, id, payload)

	if err != nil {
		return domain.Todo{}, err
	}

	ts.invalidate(ctx, util.TodoKey(id), util.TodosKey)

	return todo, nil
}

func (ts *TodoService) Delete(ctx context.Context, id int) (err error) {
	ctx, done := ts.observe(ctx, "delete", attribute.Int("todo.id", id))
	defer func() { done(err) }()

	if err = ts.repo.Delete(ctx, id); err != nil {
		return err
	}

	ts.invalidate(ctx, util.TodoKey(id), util.TodosKey)

	return nil
}

func (ts *TodoService) observe(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, operation, attrs)
	startTime := time.Now()

	return ctx, func(err error) {
		ts.telemetry.RecordServiceOperation(ctx, serviceName, operation, time.Since(startTime), err)

		if ts.metrics != nil {
			ts.metrics.RecordTodoOperation(ctx, operation, err)
		}

		span.End()
	}
}

// Cache failures never fail the request; the repository stays the source of truth.
func readCache[T any](ctx context.Context, ts *TodoService, key string, keyType string) (T, bool) {
	var zero T

	if ts.cache == nil {
		return zero, false
	}

	data, err := ts.cache.Get(ctx, key)

	if err != nil {
		if !errors.Is(err, port.ErrCacheMiss) {
			ts.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}

		if ts.metrics != nil {
			ts.metrics.RecordCacheMiss(ctx, keyType)
		}

		return zero, false
	}

	value, err := util.Deserialize[T](data)

	if err != nil {
		ts.logger.Warn("Discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		ts.evict(ctx, key)

		return zero, false
	}

	if ts.metrics != nil {
		ts.metrics.RecordCacheHit(ctx, keyType)
	}

	return value, true
}

// store caches a value read at generation. If a write committed after that
// read, the value is dropped; if one commits while it is being written, the
// key is evicted again.
func (ts *TodoService) store(ctx context.Context, key string, value any, generation uint64) {
	if ts.cache == nil || ts.generation.Load() != generation {
		return
	}

	data, err := util.Serialize(value)

	if err != nil {
		ts.logger.Warn("Cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}

	if err := ts.cache.Set(ctx, key, data, ts.ttl); err != nil {
		ts.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		return
	}

	if ts.generation.Load() != generation {
		ts.evict(ctx, key)
	}
}

// invalidate must run after the repository write has committed.
func (ts *TodoService) invalidate(ctx context.Context, keys ...string) {
	ts.generation.Add(1)
	ts.evict(ctx, keys...)
}

func (ts *TodoService) evict(ctx context.Context, keys ...string) {
	if ts.cache == nil {
		return
	}

	if err := ts.cache.Delete(ctx, keys...); err != nil {
		ts.logger.Warn("Cache eviction failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
