package factory

import (
	fab "github.com/Goldziher/fabricator"
)

// NewTodo builds a T with fake field values, applying customData on top.
func NewTodo[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	return instance.Build(customData...)
}

// NewTodos builds n instances of T sharing the same overrides.
func NewTodos[T any](n int, customData ...map[string]any) []T {
	instance := fab.New(*new(T))
	items := make([]T, 0, n)

	for i := 0; i < n; i++ {
		items = append(items, instance.Build(customData...))
	}

	return items
}
