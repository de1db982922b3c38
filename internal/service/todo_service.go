package service

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"
	"todoTracker/internal/repository"
	"todoTracker/internal/repository/todo/file"
	"todoTracker/internal/repository/todo/inmemory"
)

// Persister stores the table after a successful change.
type Persister interface {
	Save(*inmemory.Table) error
}

type ServiceOption func(*TodoService)

func WithClock(clock func() todo.Date) ServiceOption {
	return func(s *TodoService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithPersister(p Persister) ServiceOption {
	return func(s *TodoService) {
		s.persister = p
	}
}

// TodoService guards one table with one mutex. Every todo it returns is a
// copy; edits go through the service.
type TodoService struct {
	mu        sync.Mutex
	table     *inmemory.Table
	clock     func() todo.Date
	persister Persister
}

func NewTodoService(table *inmemory.Table, opts ...ServiceOption) *TodoService {
	if table == nil {
		table = inmemory.NewTable("")
	}
	s := &TodoService{
		table: table,
		clock: todo.Today,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TodoService) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Name()
}

// Today returns the service clock's day.
func (s *TodoService) Today() todo.Date {
	return s.clock()
}

func (s *TodoService) Columns(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Columns(), nil
}

func (s *TodoService) AddColumn(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.table.AddColumn(name); err != nil {
		return toBusinessError(err, name, "")
	}
	logger.Info("Service: column added", zap.String("column", name))
	s.persist()
	return nil
}

// RemoveColumn drops a column together with its todos and returns them.
func (s *TodoService) RemoveColumn(ctx context.Context, name string) ([]*todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	todos, err := s.table.RemoveColumn(name)
	if err != nil {
		return nil, toBusinessError(err, name, "")
	}
	logger.Info("Service: column removed", zap.String("column", name), zap.Int("todos", len(todos)))
	s.persist()
	return todos, nil
}

func (s *TodoService) ListTodos(ctx context.Context, column string) ([]*todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	todos, err := s.table.Todos(column)
	if err != nil {
		return nil, toBusinessError(err, column, "")
	}
	return cloneAll(todos), nil
}

func (s *TodoService) GetTodo(ctx context.Context, column, title string) (*todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	td, err := s.lookup(column, title)
	if err != nil {
		return nil, err
	}
	return td.Clone(), nil
}

// CreateTodo parses line and appends it to column. A non-empty dueExpr
// overrides any due: tag on the line.
func (s *TodoService) CreateTodo(ctx context.Context, column, line, dueExpr string) (*todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	td, err := todo.Parse(line)
	if err != nil {
		return nil, wrapValidation("line", err)
	}
	if dueExpr != "" {
		due, err := ParseDueExpression(dueExpr, s.clock())
		if err != nil {
			return nil, wrapValidation("due", err)
		}
		if err := td.SetDue(due); err != nil {
			return nil, wrapValidation("due", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.table.AddTodo(td, column); err != nil {
		return nil, toBusinessError(err, column, td.Text())
	}
	logger.Info("Service: todo created", zap.String("column", column), zap.String("title", td.Text()))
	s.persist()
	return td, nil
}

// UpdateTodo applies opts to the first todo titled title. Either every
// option applies or none does.
func (s *TodoService) UpdateTodo(ctx context.Context, column, title string, opts ...TodoOption) (*todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.lookup(column, title)
	if err != nil {
		return nil, err
	}

	edited := stored.Clone()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(edited); err != nil {
			return nil, wrapValidation("todo", err)
		}
	}

	*stored = *edited
	logger.Info("Service: todo updated", zap.String("column", column), zap.String("title", title))
	s.persist()
	return stored.Clone(), nil
}

func (s *TodoService) CompleteTodo(ctx context.Context, column, title string) (*todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	td, err := s.lookup(column, title)
	if err != nil {
		return nil, err
	}
	if !td.Completed {
		td.CompleteOn(s.clock())
		s.persist()
	}
	return td.Clone(), nil
}

func (s *TodoService) ReopenTodo(ctx context.Context, column, title string) (*todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	td, err := s.lookup(column, title)
	if err != nil {
		return nil, err
	}
	if td.Completed {
		td.Reopen()
		s.persist()
	}
	return td.Clone(), nil
}

func (s *TodoService) MoveTodo(ctx context.Context, title, from, to string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.table.MoveTodo(title, from, to); err != nil {
		column := from
		if errors.Is(err, repository.ErrColumnNotFound) && s.table.HasColumn(from) {
			column = to
		}
		return toBusinessError(err, column, title)
	}
	logger.Info("Service: todo moved", zap.String("title", title), zap.String("from", from), zap.String("to", to))
	s.persist()
	return nil
}

func (s *TodoService) DeleteTodo(ctx context.Context, column, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.table.RemoveTodo(title, column); err != nil {
		return toBusinessError(err, column, title)
	}
	logger.Info("Service: todo deleted", zap.String("column", column), zap.String("title", title))
	s.persist()
	return nil
}

// DueTodos lists open todos due today or earlier across all columns.
func (s *TodoService) DueTodos(ctx context.Context) ([]inmemory.DueEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	due := s.table.DueTodos(s.clock())
	for i := range due {
		due[i].Todo = due[i].Todo.Clone()
	}
	return due, nil
}

// ExportColumn renders a column as todo.txt content.
func (s *TodoService) ExportColumn(ctx context.Context, column string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	todos, err := s.table.Todos(column)
	if err != nil {
		return "", toBusinessError(err, column, "")
	}
	var buf bytes.Buffer
	if err := file.WriteTodos(&buf, todos); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Snapshot runs fn with the table while holding the lock. fn must not keep
// the table or its todos.
func (s *TodoService) Snapshot(fn func(*inmemory.Table) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.table)
}

// Save hands the table to the persister, if any.
func (s *TodoService) Save() error {
	if s.persister == nil {
		return nil
	}
	return s.Snapshot(s.persister.Save)
}

func (s *TodoService) lookup(column, title string) (*todo.Todo, error) {
	if !s.table.HasColumn(column) {
		return nil, NewColumnNotFound(column, repository.ErrColumnNotFound)
	}
	td := s.table.GetTodo(title, column)
	if td == nil {
		logger.Info("Service: todo not found", zap.String("column", column), zap.String("title", title))
		return nil, NewNotFound(column, title, repository.ErrNotFound)
	}
	return td, nil
}

// persist must run under s.mu. A failed save is logged, the change stays.
func (s *TodoService) persist() {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(s.table); err != nil {
		logger.Error("Service: autosave failed", err, zap.String("table", s.table.Name()))
	}
}

func cloneAll(todos []*todo.Todo) []*todo.Todo {
	res := make([]*todo.Todo, len(todos))
	for i, td := range todos {
		res[i] = td.Clone()
	}
	return res
}
