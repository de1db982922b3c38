// Package render formats todos and boards for a terminal.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todoTracker/internal/models/todo"
	"todoTracker/internal/repository/todo/inmemory"
)

// Scheme holds one style per segment of a todo line. Completed todos are
// drawn entirely in Faded.
type Scheme struct {
	Faded lipgloss.Style

	Tick       lipgloss.Style
	Priority   lipgloss.Style
	Completion lipgloss.Style
	Creation   lipgloss.Style

	Description lipgloss.Style
	Context     lipgloss.Style
	Project     lipgloss.Style

	Due  lipgloss.Style
	Meta lipgloss.Style

	Header lipgloss.Style
}

const (
	red    = lipgloss.Color("1")
	green  = lipgloss.Color("2")
	yellow = lipgloss.Color("3")
	blue   = lipgloss.Color("4")
	purple = lipgloss.Color("5")
	cyan   = lipgloss.Color("6")
	gray   = lipgloss.Color("7")
)

// DefaultScheme colours segments for the default renderer.
func DefaultScheme() Scheme {
	return NewDefaultScheme(lipgloss.DefaultRenderer())
}

func NewDefaultScheme(r *lipgloss.Renderer) Scheme {
	return Scheme{
		Faded: r.NewStyle().Faint(true).Foreground(gray),

		Tick:       r.NewStyle(),
		Priority:   r.NewStyle().Bold(true).Foreground(cyan),
		Completion: r.NewStyle().Underline(true).Foreground(purple),
		Creation:   r.NewStyle().Underline(true).Foreground(yellow),

		Description: r.NewStyle(),
		Context:     r.NewStyle().Italic(true).Foreground(green),
		Project:     r.NewStyle().Italic(true).Foreground(yellow),

		Due:  r.NewStyle().Bold(true).Foreground(red),
		Meta: r.NewStyle().Italic(true).Foreground(blue),

		Header: r.NewStyle().Bold(true),
	}
}

// PlainScheme renders todos exactly as their todo.txt line.
func PlainScheme() Scheme {
	s := lipgloss.NewStyle()
	return Scheme{
		Faded: s, Tick: s, Priority: s, Completion: s, Creation: s,
		Description: s, Context: s, Project: s, Due: s, Meta: s, Header: s,
	}
}

// Line renders one todo. Whitespace is written as is, so stripping the
// styles gives back t.String().
func Line(t *todo.Todo, s Scheme) string {
	pick := func(st lipgloss.Style) lipgloss.Style {
		if t.Completed {
			return s.Faded
		}
		return st
	}

	var b strings.Builder
	writeHeader(&b, t, s, pick)

	text := t.Text()
	last := 0
	for _, w := range t.Words() {
		b.WriteString(text[last:w.Start])
		st := s.Description
		switch w.Kind {
		case todo.ProjectWord:
			st = s.Project
		case todo.ContextWord:
			st = s.Context
		case todo.DueWord:
			st = s.Due
		case todo.MetaWord:
			st = s.Meta
		}
		b.WriteString(pick(st).Render(w.Text))
		last = w.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// writeHeader styles the segments String puts before the description.
func writeHeader(b *strings.Builder, t *todo.Todo, s Scheme, pick func(lipgloss.Style) lipgloss.Style) {
	line := t.String()
	header := line[:len(line)-len(t.Text())]

	completionPending := t.Completed && t.CompletionDate != nil
	for _, word := range strings.Fields(header) {
		st := s.Creation
		switch {
		case word == "x":
			st = s.Tick
		case strings.HasPrefix(word, "("):
			st = s.Priority
		case completionPending:
			st = s.Completion
			completionPending = false
		}
		b.WriteString(pick(st).Render(word))
		b.WriteByte(' ')
	}
}

// Column renders a column title and its todos.
func Column(name string, todos []*todo.Todo, s Scheme) string {
	var b strings.Builder
	b.WriteString("| " + s.Header.Render(name) + " |\n")
	for _, t := range todos {
		b.WriteString("| " + Line(t, s) + "\n")
	}
	return b.String()
}

// Board renders the whole table, one blank line after each column.
func Board(table *inmemory.Table, s Scheme) string {
	var b strings.Builder
	b.WriteString("=== " + s.Header.Render(table.Name()) + " ===\n")
	for _, col := range table.Columns() {
		todos, err := table.Todos(col)
		if err != nil {
			continue
		}
		b.WriteString(Column(col, todos, s))
		b.WriteByte('\n')
	}
	return b.String()
}
