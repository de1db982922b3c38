package todo

import (
	"errors"
	"fmt"
)

// ErrParse matches every *ParseError via errors.Is.
var ErrParse = errors.New("todo: parse error")

var (
	ErrEmpty       = errors.New("empty description")
	ErrBadDate     = errors.New("invalid date")
	ErrBadPriority = errors.New("invalid priority")
	ErrBadTag      = errors.New("invalid tag")
	ErrMultiline   = errors.New("description spans several lines")
)

// ParseError describes a todo.txt line that could not be turned into a Todo.
type ParseError struct {
	Line  string // input as given
	Token string // offending token, empty when the whole line is at fault
	Err   error  // one of the Err* causes above
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("parse %q: %v: %q", e.Line, e.Err, e.Token)
	}
	return fmt.Sprintf("parse %q: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func parseError(line, token string, err error) *ParseError {
	return &ParseError{Line: line, Token: token, Err: err}
}
