package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

type Todo struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type CreateTodo struct {
	Text string `json:"text" validate:"min=1,max=100"`
}

// UpdateTodo is a partial update: nil fields keep the stored value.
type UpdateTodo struct {
	Text      *string `json:"text,omitempty" validate:"omitempty,min=1,max=100"`
	Completed *bool   `json:"completed,omitempty"`
}

func NewTodo(id int, text string) Todo {
	return Todo{
		ID:        id,
		Text:      text,
		Completed: false,
	}
}

func (t Todo) Merge(payload UpdateTodo) Todo {
	if payload.Text != nil {
		t.Text = *payload.Text
	}

	if payload.Completed != nil {
		t.Completed = *payload.Completed
	}

	return t
}

type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("NotFound, id is %d", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NewNotFoundError(id int) error {
	return &NotFoundError{ID: id}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
