package port

import (
	"context"

	"todoapi/internal/core/domain"
)

// TodoRepository is implemented by every storage backend. Find, Update and
// Delete return an error matching domain.ErrNotFound when id is absent.
type TodoRepository interface {
	Create(ctx context.Context, payload domain.CreateTodo) (domain.Todo, error)
	Find(ctx context.Context, id int) (domain.Todo, error)
	All(ctx context.Context) ([]domain.Todo, error)
	Update(ctx context.Context, id int, payload domain.UpdateTodo) (domain.Todo, error)
	Delete(ctx context.Context, id int) error
}

type TodoService interface {
	Create(ctx context.Context, payload domain.CreateTodo) (domain.Todo, error)
	Find(ctx context.Context, id int) (domain.Todo, error)
	All(ctx context.Context) ([]domain.Todo, error)
	Update(ctx context.Context, id int, payload domain.UpdateTodo) (domain.Todo, error)
	Delete(ctx context.Context, id int) error
}
