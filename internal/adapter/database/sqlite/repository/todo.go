package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/attribute"

	"todoapi/internal/adapter/database/sqlite"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	tel "todoapi/internal/core/telemetry"
)

const entity = "todo"

var columns = []string{"id", "text", "completed"}

type TodoRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewTodoRepository(db *sqlite.DB, telemetry port.Telemetry) port.TodoRepository {
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

	query, args, err := tr.db.QueryBuilder.Insert("todos").
		Columns("text", "completed").
		Values(payload.Text, false).
		ToSql()

	if err != nil {
		return domain.Todo{}, fmt.Errorf("failed to build insert: %w", err)
	}

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		return domain.Todo{}, fmt.Errorf("failed to insert todo: %w", err)
	}

	id, err := result.LastInsertId()

	if err != nil {
		return domain.Todo{}, fmt.Errorf("failed to read inserted id: %w", err)
	}

	return domain.NewTodo(int(id), payload.Text), nil
}

func (tr *TodoRepository) Find(ctx context.Context, id int) (todo domain.Todo, err error) {
	ctx, done := tr.observe(ctx, "Find", attribute.String("db.operation", "SELECT"), attribute.Int("todo.id", id))
	defer func() { done(err) }()

	return tr.find(ctx, id)
}

func (tr *TodoRepository) All(ctx context.Context) (todos []domain.Todo, err error) {
	ctx, done := tr.observe(ctx, "All", attribute.String("db.operation", "SELECT"))
	defer func() { done(err) }()

	query, args, err := tr.db.QueryBuilder.Select(columns...).
		From("todos").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := tr.db.QueryContext(ctx, query, args...)

	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	defer rows.Close()

	todos = []domain.Todo{}

	for rows.Next() {
		var todo domain.Todo

		if err := rows.Scan(&todo.ID, &todo.Text, &todo.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}

		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}

func (tr *TodoRepository) Update(ctx context.Context, id int, payload domain.UpdateTodo) (todo domain.Todo, err error) {
	ctx, done := tr.observe(ctx, "Update", attribute.String("db.operation", "UPDATE"), attribute.Int("todo.id", id))
	defer func() { done(err) }()

	query, args, err := tr.db.QueryBuilder.Update("todos").
		Set("text", sq.Expr("COALESCE(?, text)", nullable(payload.Text))).
		Set("completed", sq.Expr("COALESCE(?, completed)", nullable(payload.Completed))).
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return domain.Todo{}, fmt.Errorf("failed to build update: %w", err)
	}

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		return domain.Todo{}, fmt.Errorf("failed to update todo: %w", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.Todo{}, domain.NewNotFoundError(id)
	}

	return tr.find(ctx, id)
}

func (tr *TodoRepository) Delete(ctx context.Context, id int) (err error) {
	ctx, done := tr.observe(ctx, "Delete", attribute.String("db.operation", "DELETE"), attribute.Int("todo.id", id))
	defer func() { done(err) }()

	query, args, err := tr.db.QueryBuilder.Delete("todos").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return domain.NewNotFoundError(id)
	}

	return nil
}

func (tr *TodoRepository) find(ctx context.Context, id int) (domain.Todo, error) {
	query, args, err := tr.db.QueryBuilder.Select(columns...).
		From("todos").
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.Todo{}, fmt.Errorf("failed to build select: %w", err)
	}

	var todo domain.Todo

	err = tr.db.QueryRowContext(ctx, query, args...).Scan(&todo.ID, &todo.Text, &todo.Completed)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Todo{}, domain.NewNotFoundError(id)
	}

	if err != nil {
		return domain.Todo{}, fmt.Errorf("failed to find todo: %w", err)
	}

	return todo, nil
}

// observe opens a repository span and returns the func that closes it and
// records the outcome.
func (tr *TodoRepository) observe(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	attrs = append(attrs,
		attribute.String("db.system", "sqlite"),
		attribute.String("db.table", "todos"),
	)

	ctx, span := tr.telemetry.StartRepositorySpan(ctx, operation, entity, attrs)
	startTime := time.Now()

	return ctx, func(err error) {
		tr.telemetry.RecordRepositoryOperation(ctx, operation, entity, time.Since(startTime), err)
		span.End()
	}
}

func nullable[T any](value *T) interface{} {
	if value == nil {
		return nil
	}

	return *value
}
