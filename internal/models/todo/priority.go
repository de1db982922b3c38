package todo

import "fmt"

// Priority is a todo.txt priority letter A-Z; the zero value means none.
type Priority byte

const PriorityNone Priority = 0

// NewPriority returns the priority for an uppercase letter.
func NewPriority(letter byte) (Priority, error) {
	if letter < 'A' || letter > 'Z' {
		return PriorityNone, fmt.Errorf("%w: %q", ErrBadPriority, letter)
	}
	return Priority(letter), nil
}

// ParsePriority parses the "(X)" form.
func ParsePriority(s string) (Priority, error) {
	if !isPriorityShape(s) || len(s) != 3 {
		return PriorityNone, fmt.Errorf("%w: %q", ErrBadPriority, s)
	}
	return NewPriority(s[1])
}

func (p Priority) IsSet() bool {
	return p != PriorityNone
}

func (p Priority) Valid() bool {
	return p == PriorityNone || (p >= 'A' && p <= 'Z')
}

// Letter returns "A".."Z", or "" for none.
func (p Priority) Letter() string {
	if !p.IsSet() {
		return ""
	}
	return string(rune(p))
}

// String returns the "(X)" form, or "" for none.
func (p Priority) String() string {
	if !p.IsSet() {
		return ""
	}
	return "(" + string(rune(p)) + ")"
}

// Higher reports whether p outranks q. A is the highest, none the lowest.
func (p Priority) Higher(q Priority) bool {
	switch {
	case !p.IsSet():
		return false
	case !q.IsSet():
		return true
	}
	return p < q
}

func isPriorityShape(s string) bool {
	return len(s) >= 3 && s[0] == '(' && s[len(s)-1] == ')'
}
