package service

import (
	"fmt"

	"todoTracker/internal/models/todo"
)

// TodoOption is one edit applied by UpdateTodo. Edits run on a copy, so a
// failing option leaves the stored todo untouched.
type TodoOption func(*todo.Todo) error

func WithText(text string) TodoOption {
	return func(t *todo.Todo) error {
		return t.SetText(text)
	}
}

func WithPriority(p todo.Priority) TodoOption {
	return func(t *todo.Todo) error {
		if !p.Valid() {
			return fmt.Errorf("%w: %q", todo.ErrBadPriority, p.Letter())
		}
		t.Priority = p
		return nil
	}
}

func WithDue(due todo.TodoDate) TodoOption {
	return func(t *todo.Todo) error {
		return t.SetDue(due)
	}
}

func WithMeta(key, value string) TodoOption {
	return func(t *todo.Todo) error {
		return t.SetMeta(key, value)
	}
}

func WithoutMeta(key string) TodoOption {
	return func(t *todo.Todo) error {
		return t.DeleteMeta(key)
	}
}

func WithTag(tag todo.Tag) TodoOption {
	return func(t *todo.Todo) error {
		return t.AddTag(tag)
	}
}
