package handlers

import (
	"context"

	"todoTracker/internal/models/todo"
	"todoTracker/internal/repository/todo/inmemory"
	"todoTracker/internal/service"
)

type TodoService interface {
	Name() string
	Today() todo.Date
	Columns(context.Context) ([]string, error)
	AddColumn(context.Context, string) error
	RemoveColumn(context.Context, string) ([]*todo.Todo, error)
	ListTodos(context.Context, string) ([]*todo.Todo, error)
	GetTodo(ctx context.Context, column, title string) (*todo.Todo, error)
	CreateTodo(ctx context.Context, column, line, due string) (*todo.Todo, error)
	UpdateTodo(ctx context.Context, column, title string, opts ...service.TodoOption) (*todo.Todo, error)
	CompleteTodo(ctx context.Context, column, title string) (*todo.Todo, error)
	ReopenTodo(ctx context.Context, column, title string) (*todo.Todo, error)
	MoveTodo(ctx context.Context, title, from, to string) error
	DeleteTodo(ctx context.Context, column, title string) error
	DueTodos(context.Context) ([]inmemory.DueEntry, error)
	ExportColumn(context.Context, string) (string, error)
}

var _ TodoService = (*service.TodoService)(nil)
