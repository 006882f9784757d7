package memory

import (
	"context"
	"sort"
	"sync"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
)

// TodoRepository keeps todos in a map owned by a single RWMutex. Readers take
// the read lock, writers the write lock, and no I/O happens while either is held.
type TodoRepository struct {
	mu     sync.RWMutex
	store  map[int]domain.Todo
	lastID int
}

func NewTodoRepository() port.TodoRepository {
	return newTodoRepository()
}

func newTodoRepository() *TodoRepository {
	return &TodoRepository{
		store: make(map[int]domain.Todo),
	}
}

// Create assigns ids from a monotonic counter, so an id is never handed out
// twice even after deletes.
func (r *TodoRepository) Create(ctx context.Context, payload domain.CreateTodo) (domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	todo := domain.NewTodo(r.lastID, payload.Text)
	r.store[todo.ID] = todo

	return todo, nil
}

func (r *TodoRepository) Find(ctx context.Context, id int) (domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todo, ok := r.store[id]

	if !ok {
		return domain.Todo{}, domain.NewNotFoundError(id)
	}

	return todo, nil
}

func (r *TodoRepository) All(ctx context.Context) ([]domain.Todo, error) {
	r.mu.RLock()
	todos := make([]domain.Todo, 0, len(r.store))

	for _, todo := range r.store {
		todos = append(todos, todo)
	}
	r.mu.RUnlock()

	sort.Slice(todos, func(i, j int) bool {
		return todos[i].ID < todos[j].ID
	})

	return todos, nil
}

func (r *TodoRepository) Update(ctx context.Context, id int, payload domain.UpdateTodo) (domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todo, ok := r.store[id]

	if !ok {
		return domain.Todo{}, domain.NewNotFoundError(id)
	}

	todo = todo.Merge(payload)
	r.store[id] = todo

	return todo, nil
}

func (r *TodoRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.NewNotFoundError(id)
	}

	delete(r.store, id)

	return nil
}
