package file

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"todoTracker/internal/models/todo"
	repo "todoTracker/internal/repository"
	"todoTracker/internal/repository/todo/inmemory"
)

const ext = ".txt"

// ReadTodos parses one todo per line. Blank lines are skipped and CRLF
// endings are accepted.
func ReadTodos(r io.Reader) ([]*todo.Todo, error) {
	var todos []*todo.Todo
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		td, err := todo.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		todos = append(todos, td)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read todos: %w", err)
	}
	return todos, nil
}

// WriteTodos renders todos one per line.
func WriteTodos(w io.Writer, todos []*todo.Todo) error {
	bw := bufio.NewWriter(w)
	for _, td := range todos {
		if _, err := bw.WriteString(td.String() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Loader keeps a table as a directory of <column>.txt files.
type Loader struct {
	fs  afero.Fs
	dir string
}

func NewLoader(fsys afero.Fs, dir string) *Loader {
	return &Loader{fs: fsys, dir: dir}
}

func (l *Loader) Dir() string {
	return l.dir
}

// Load builds a table with the given columns, filling each from its file.
// A missing file yields an empty column. Other .txt files in the directory
// become extra columns, in lexical order.
func (l *Loader) Load(name string, columns []string) (*inmemory.Table, error) {
	extra, err := l.discover(columns)
	if err != nil {
		return nil, err
	}

	table := inmemory.NewTable(name)
	for _, col := range append(slices.Clone(columns), extra...) {
		if err := table.AddColumn(col); err != nil {
			return nil, err
		}

		todos, err := l.readColumn(col)
		if err != nil {
			return nil, err
		}
		for _, td := range todos {
			if err := table.AddTodo(td, col); err != nil {
				return nil, err
			}
		}
	}
	return table, nil
}

// Save writes every column of the table to its file and removes the files
// of columns the table no longer has.
func (l *Loader) Save(table *inmemory.Table) error {
	if err := l.fs.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", l.dir, err)
	}
	columns := table.Columns()
	for _, col := range columns {
		todos, err := table.Todos(col)
		if err != nil {
			return err
		}
		if err := l.writeColumn(col, todos); err != nil {
			return err
		}
	}

	stale, err := l.discover(columns)
	if err != nil {
		return err
	}
	for _, col := range stale {
		if err := l.fs.Remove(l.path(col)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove column %q: %w", col, err)
		}
	}
	return nil
}

// discover lists the column files in the directory that are not in known.
func (l *Loader) discover(known []string) ([]string, error) {
	entries, err := afero.ReadDir(l.fs, l.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", l.dir, err)
	}

	var extra []string
	for _, e := range entries {
		col, ok := strings.CutSuffix(e.Name(), ext)
		if e.IsDir() || !ok || !inmemory.ValidColumnName(col) || slices.Contains(known, col) {
			continue
		}
		extra = append(extra, col)
	}
	return extra, nil
}

func (l *Loader) path(col string) string {
	return filepath.Join(l.dir, col+ext)
}

func (l *Loader) checkColumn(col string) error {
	if !inmemory.ValidColumnName(col) {
		return fmt.Errorf("%w: %q", repo.ErrInvalidColumn, col)
	}
	return nil
}

func (l *Loader) readColumn(col string) ([]*todo.Todo, error) {
	if err := l.checkColumn(col); err != nil {
		return nil, err
	}
	f, err := l.fs.Open(l.path(col))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open column %q: %w", col, err)
	}
	defer f.Close()

	todos, err := ReadTodos(f)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", col, err)
	}
	return todos, nil
}

// writeColumn replaces the column file through a temp file and rename.
func (l *Loader) writeColumn(col string, todos []*todo.Todo) error {
	if err := l.checkColumn(col); err != nil {
		return err
	}
	tmp := l.path(col) + ".tmp"
	f, err := l.fs.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if err := WriteTodos(f, todos); err != nil {
		f.Close()
		return fmt.Errorf("write column %q: %w", col, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := l.fs.Rename(tmp, l.path(col)); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
