package inmemory

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"todoTracker/internal/models/todo"
	repo "todoTracker/internal/repository"
)

// DefaultName is used when a table is created without a name.
const DefaultName = "Todos"

type column struct {
	name  string
	todos []*todo.Todo
}

// Table is an ordered set of named columns, each owning an ordered list of
// todos. A todo belongs to exactly one column; moving it transfers ownership.
//
// Table does no locking. Callers sharing a table between goroutines must
// serialize every call with one lock per table.
type Table struct {
	name    string
	columns map[string]*column
	order   []string
}

func NewTable(name string) *Table {
	if name == "" {
		name = DefaultName
	}
	return &Table{
		name:    name,
		columns: make(map[string]*column),
		order:   []string{},
	}
}

func (t *Table) Name() string {
	return t.name
}

// Columns returns column names in creation order.
func (t *Table) Columns() []string {
	return slices.Clone(t.order)
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// AddColumn appends an empty column. A name already in use fails with
// ErrDuplicateColumn and leaves the table unchanged. Names are also file
// names on disk, so blank names, path separators, control characters and a
// leading dot fail with ErrInvalidColumn.
func (t *Table) AddColumn(name string) error {
	if !ValidColumnName(name) {
		return fmt.Errorf("%w: %q", repo.ErrInvalidColumn, name)
	}
	if _, ok := t.columns[name]; ok {
		return fmt.Errorf("%w: %q", repo.ErrDuplicateColumn, name)
	}

	t.columns[name] = &column{name: name}
	t.order = append(t.order, name)
	return nil
}

// ValidColumnName reports whether name can be used as a column.
func ValidColumnName(name string) bool {
	if strings.TrimSpace(name) == "" || strings.HasPrefix(name, ".") {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return !strings.ContainsFunc(name, unicode.IsControl)
}

// RemoveColumn drops a column and hands its todos back to the caller.
func (t *Table) RemoveColumn(name string) ([]*todo.Todo, error) {
	col, err := t.column(name)
	if err != nil {
		return nil, err
	}

	delete(t.columns, name)
	t.order = slices.DeleteFunc(t.order, func(n string) bool { return n == name })
	return col.todos, nil
}

// AddTodo appends a copy of td to a column. The table owns the copy; use
// GetTodo to reach it.
func (t *Table) AddTodo(td *todo.Todo, col string) error {
	if td == nil {
		return fmt.Errorf("%w: nil", repo.ErrInvalidTodo)
	}
	c, err := t.column(col)
	if err != nil {
		return err
	}

	c.todos = append(c.todos, td.Clone())
	return nil
}

// GetTodo returns the first todo in col whose text equals title, or nil.
// A missing column is not an error here.
func (t *Table) GetTodo(title, col string) *todo.Todo {
	c, ok := t.columns[col]
	if !ok {
		return nil
	}
	if i := c.index(title); i >= 0 {
		return c.todos[i]
	}
	return nil
}

// Todos returns the todos of a column in order. The slice is a copy, the
// todos are the table's own.
func (t *Table) Todos(col string) ([]*todo.Todo, error) {
	c, err := t.column(col)
	if err != nil {
		return nil, err
	}
	return slices.Clone(c.todos), nil
}

// Len returns the number of todos in col, 0 for an unknown column.
func (t *Table) Len(col string) int {
	if c, ok := t.columns[col]; ok {
		return len(c.todos)
	}
	return 0
}

// MoveTodo removes the first todo titled title from one column and appends
// it to another. Both columns are checked before anything changes.
func (t *Table) MoveTodo(title, from, to string) error {
	src, err := t.column(from)
	if err != nil {
		return err
	}
	dst, err := t.column(to)
	if err != nil {
		return err
	}

	i := src.index(title)
	if i < 0 {
		return fmt.Errorf("%w: %q in column %q", repo.ErrNotFound, title, from)
	}

	td := src.todos[i]
	src.todos = slices.Delete(src.todos, i, i+1)
	dst.todos = append(dst.todos, td)
	return nil
}

// RemoveTodo removes and returns the first todo titled title in col.
func (t *Table) RemoveTodo(title, col string) (*todo.Todo, error) {
	c, err := t.column(col)
	if err != nil {
		return nil, err
	}

	i := c.index(title)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q in column %q", repo.ErrNotFound, title, col)
	}

	td := c.todos[i]
	c.todos = slices.Delete(c.todos, i, i+1)
	return td, nil
}

// FindByMeta returns the first todo in col carrying a key: tag.
func (t *Table) FindByMeta(col, key string) *todo.Todo {
	return t.find(col, func(td *todo.Todo) bool {
		_, ok := td.Meta(key)
		return ok
	})
}

// FindByMetaValue returns the first todo in col carrying key:value.
func (t *Table) FindByMetaValue(col, key, value string) *todo.Todo {
	return t.find(col, func(td *todo.Todo) bool {
		v, ok := td.Meta(key)
		return ok && v == value
	})
}

// ColumnDueOn reports whether any todo in col is due on today.
func (t *Table) ColumnDueOn(col string, today todo.Date) bool {
	return t.find(col, func(td *todo.Todo) bool { return td.DueOn(today) }) != nil
}

// DueOn reports whether any todo of the table is due on today.
func (t *Table) DueOn(today todo.Date) bool {
	for _, name := range t.order {
		if t.ColumnDueOn(name, today) {
			return true
		}
	}
	return false
}

// DueEntry is a due todo and the column holding it.
type DueEntry struct {
	Column string
	Todo   *todo.Todo
}

// DueTodos lists every todo due on today, in column then insertion order.
func (t *Table) DueTodos(today todo.Date) []DueEntry {
	var res []DueEntry
	for _, name := range t.order {
		for _, td := range t.columns[name].todos {
			if td.DueOn(today) {
				res = append(res, DueEntry{Column: name, Todo: td})
			}
		}
	}
	return res
}

func (t *Table) column(name string) (*column, error) {
	c, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", repo.ErrColumnNotFound, name)
	}
	return c, nil
}

func (t *Table) find(col string, match func(*todo.Todo) bool) *todo.Todo {
	c, ok := t.columns[col]
	if !ok {
		return nil
	}
	for _, td := range c.todos {
		if match(td) {
			return td
		}
	}
	return nil
}

func (c *column) index(title string) int {
	return slices.IndexFunc(c.todos, func(td *todo.Todo) bool { return td.Text() == title })
}
