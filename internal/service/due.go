package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"todoTracker/internal/models/todo"
)

var dueParser = newDueParser()

func newDueParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseDueExpression reads a deadline given as YYYY-MM-DD, "never", "always",
// or plain English relative to today ("tomorrow", "next friday").
func ParseDueExpression(expr string, today todo.Date) (todo.TodoDate, error) {
	expr = strings.TrimSpace(expr)
	switch strings.ToLower(expr) {
	case "", "never", "none":
		return todo.Never, nil
	case "always":
		return todo.Always, nil
	case "today":
		return todo.On(today), nil
	}

	due, err := todo.ParseTodoDate(expr)
	if err == nil {
		return due, nil
	}
	if looksLikeDate(expr) {
		return todo.Never, err
	}

	// noon keeps day arithmetic clear of DST shifts
	base := today.Time(time.Local).Add(12 * time.Hour)
	r, err := dueParser.Parse(expr, base)
	if err != nil {
		return todo.Never, fmt.Errorf("%w: %q: %v", todo.ErrBadDate, expr, err)
	}
	if r == nil {
		return todo.Never, fmt.Errorf("%w: %q", todo.ErrBadDate, expr)
	}
	return todo.On(todo.DateOf(r.Time)), nil
}

func looksLikeDate(s string) bool {
	return len(s) == 10 && s[4] == '-' && s[7] == '-'
}
