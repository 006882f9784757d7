package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"

	"todoapi/internal/adapter/database/postgres"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	tel "todoapi/internal/core/telemetry"
)

const (
	entity    = "todo"
	returning = "RETURNING id, text, completed"
)

type TodoRepository struct {
	db        *postgres.DB
	telemetry port.Telemetry
}

func NewTodoRepository(db *postgres.DB, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (tr *TodoRepository) Create(ctx context.Context, payload domain.CreateTodo) (todo domain.Todo, err error) {
	ctx, done := tr.observe(ctx, "Create", attribute.String("db.operation", "INSERT"))
	defer func() { done(err) }()

	stmt, args, err := tr.db.QueryBuilder.Insert("todos").
		Columns("text", "completed").
		Values(payload.Text, false).
		Suffix(returning).
		ToSql()

	if err != nil {
		return domain.Todo{}, fmt.Errorf("failed to build insert: %w", err)
	}

	err = tr.db.QueryRow(ctx, stmt, args...).Scan(&todo.ID, &todo.Text, &todo.Completed)

	if err != nil {
		return domain.Todo{}, fmt.Errorf("failed to insert todo: %w", err)
	}

	return todo, nil
}

func (tr *TodoRepository) Find(ctx context.Context, id int) (todo domain.Todo, err error) {
	ctx, done := tr.observe(ctx, "Find", attribute.String("db.operation", "SELECT"), attribute.Int("todo.id", id))
	defer func() { done(err) }()

	if !storable(id) {
		return domain.Todo{}, domain.NewNotFoundError(id)
	}

	stmt, args, err := tr.db.QueryBuilder.Select("id", "text", "completed").
		From("todos").
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.Todo{}, fmt.Errorf("failed to build select: %w", err)
	}

	return tr.scanOne(ctx, id, stmt, args)
}

func (tr *TodoRepository) All(ctx context.Context) (todos []domain.Todo, err error) {
	ctx, done := tr.observe(ctx, "All", attribute.String("db.operation", "SELECT"))
	defer func() { done(err) }()

	stmt, args, err := tr.db.QueryBuilder.Select("id", "text", "completed").
		From("todos").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := tr.db.Query(ctx, stmt, args...)

	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	todos, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Todo, error) {
		var todo domain.Todo
		err := row.Scan(&todo.ID, &todo.Text, &todo.Completed)

		return todo, err
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan todos: %w", err)
	}

	if todos == nil {
		todos = []domain.Todo{}
	}

	return todos, nil
}

// Update merges the optional fields in a single statement; a NULL argument
// keeps the stored column.
func (tr *TodoRepository) Update(ctx context.Context, id int, payload domain.UpdateTodo) (todo domain.Todo, err error) {
	ctx, done := tr.observe(ctx, "Update",
		attribute.String("db.operation", "UPDATE"),
		attribute.Int("todo.id", id),
		attribute.Bool("update.text", payload.Text != nil),
		attribute.Bool("update.completed", payload.Completed != nil),
	)
	defer func() { done(err) }()

	if !storable(id) {
		return domain.Todo{}, domain.NewNotFoundError(id)
	}

	var text, completed interface{}

	if payload.Text != nil {
		text = *payload.Text
	}

	if payload.Completed != nil {
		completed = *payload.Completed
	}

	stmt, args, err := tr.db.QueryBuilder.Update("todos").
		Set("text", sq.Expr("COALESCE(?, text)", text)).
		Set("completed", sq.Expr("COALESCE(?, completed)", completed)).
		Where(sq.Eq{"id": id}).
		Suffix(returning).
		ToSql()

	if err != nil {
		return domain.Todo{}, fmt.Errorf("failed to build update: %w", err)
	}

	return tr.scanOne(ctx, id, stmt, args)
}

func (tr *TodoRepository) Delete(ctx context.Context, id int) (err error) {
	ctx, done := tr.observe(ctx, "Delete", attribute.String("db.operation", "DELETE"), attribute.Int("todo.id", id))
	defer func() { done(err) }()

	if !storable(id) {
		return domain.NewNotFoundError(id)
	}

	stmt, args, err := tr.db.QueryBuilder.Delete("todos").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	tag, err := tr.db.Exec(ctx, stmt, args...)

	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError(id)
	}

	return nil
}

func (tr *TodoRepository) scanOne(ctx context.Context, id int, stmt string, args []interface{}) (domain.Todo, error) {
	var todo domain.Todo

	err := tr.db.QueryRow(ctx, stmt, args...).Scan(&todo.ID, &todo.Text, &todo.Completed)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Todo{}, domain.NewNotFoundError(id)
	}

	if err != nil {
		return domain.Todo{}, fmt.Errorf("failed to query todo %d: %w", id, err)
	}

	return todo, nil
}

func (tr *TodoRepository) observe(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	attrs = append(attrs,
		attribute.String("db.system", "postgresql"),
		attribute.String("db.table", "todos"),
	)

	ctx, span := tr.telemetry.StartRepositorySpan(ctx, operation, entity, attrs)
	startTime := time.Now()

	return ctx, func(err error) {
		tr.telemetry.RecordRepositoryOperation(ctx, operation, entity, time.Since(startTime), err)
		span.End()
	}
}

// storable reports whether id fits the SERIAL (int4) column. Anything outside
// that range cannot name a stored row.
func storable(id int) bool {
	return id >= math.MinInt32 && id <= math.MaxInt32
}
