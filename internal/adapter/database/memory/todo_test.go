package memory

import (
	"context"
	"sync"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"

	"todoapi/internal/core/domain"
	. "todoapi/pkg/test"
)

func TestTodoRepository_CreateFindUpdateDelete(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()
	repo := NewTodoRepository()

	todo, err := repo.Create(ctx, domain.CreateTodo{Text: "Buy milk"})

	Expect(err).To(BeNil())
	Expect(todo).To(Equal(domain.Todo{ID: 1, Text: "Buy milk", Completed: false}))

	found, err := repo.Find(ctx, todo.ID)

	Expect(err).To(BeNil())
	Expect(found).To(Equal(todo))

	updated, err := repo.Update(ctx, todo.ID, domain.UpdateTodo{Completed: BoolPtr(true)})

	Expect(err).To(BeNil())
	Expect(updated).To(Equal(domain.Todo{ID: 1, Text: "Buy milk", Completed: true}))

	found, _ = repo.Find(ctx, todo.ID)
	Expect(found).To(Equal(updated))

	Expect(repo.Delete(ctx, todo.ID)).To(Succeed())

	_, err = repo.Find(ctx, todo.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTodoRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewTodoRepository()

	_, err := repo.Find(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "NotFound, id is 7")

	_, err = repo.Update(ctx, 7, domain.UpdateTodo{Text: StringPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Delete(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTodoRepository_All(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()
	repo := NewTodoRepository()

	todos, err := repo.All(ctx)

	Expect(err).To(BeNil())
	Expect(todos).NotTo(BeNil())
	Expect(todos).To(BeEmpty())

	first, _ := repo.Create(ctx, domain.CreateTodo{Text: "first"})
	second, _ := repo.Create(ctx, domain.CreateTodo{Text: "second"})

	todos, _ = repo.All(ctx)

	Expect(todos).To(Equal([]domain.Todo{first, second}))
}

func TestTodoRepository_IDsAreNotReused(t *testing.T) {
	ctx := context.Background()
	repo := NewTodoRepository()

	first, _ := repo.Create(ctx, domain.CreateTodo{Text: "first"})
	second, _ := repo.Create(ctx, domain.CreateTodo{Text: "second"})

	assert.NoError(t, repo.Delete(ctx, first.ID))

	third, _ := repo.Create(ctx, domain.CreateTodo{Text: "third"})

	assert.Equal(t, 3, third.ID)
	assert.NotEqual(t, second.ID, third.ID)
}

func TestTodoRepository_ConcurrentCreates(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()
	repo := NewTodoRepository()

	const workers = 50

	var wg sync.WaitGroup
	ids := make(chan int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			todo, err := repo.Create(ctx, domain.CreateTodo{Text: "concurrent"})

			if err == nil {
				ids <- todo.ID
			}
		}()
	}

	wg.Wait()
	close(ids)

	seen := make(map[int]bool)

	for id := range ids {
		Expect(seen).NotTo(HaveKey(id))
		seen[id] = true
	}

	Expect(seen).To(HaveLen(workers))

	todos, _ := repo.All(ctx)
	Expect(todos).To(HaveLen(workers))
}
