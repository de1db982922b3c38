package todo

import (
	"fmt"
	"strconv"
	"time"
)

// Date is a calendar day, rendered as YYYY-MM-DD.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date or ErrBadDate when it does not exist in the calendar.
func NewDate(year int, month time.Month, day int) (Date, error) {
	d := Date{Year: year, Month: month, Day: day}
	if !d.Valid() {
		return Date{}, fmt.Errorf("%w: %s", ErrBadDate, d)
	}
	return d, nil
}

// MustDate is NewDate for literals known to be valid.
func MustDate(year int, month time.Month, day int) Date {
	d, err := NewDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the local calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a zero-padded YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	if !isDateShape(s) {
		return Date{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	y, _ := strconv.Atoi(s[0:4])
	m, _ := strconv.Atoi(s[5:7])
	d, _ := strconv.Atoi(s[8:10])
	return NewDate(y, time.Month(m), d)
}

func (d Date) Valid() bool {
	if d.Year < 0 || d.Year > 9999 || d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return false
	}
	return d.Day <= daysIn(d.Year, d.Month)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) ptr() *Date {
	return &d
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// isDateShape reports whether s looks like NNNN-NN-NN, valid or not.
func isDateShape(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch i {
		case 4, 7:
			if s[i] != '-' {
				return false
			}
		default:
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
	}
	return true
}

// alwaysDue is the due: value of a todo that is due whatever the day.
const alwaysDue = "0000-00-00"

type dueKind uint8

const (
	dueNever dueKind = iota
	dueAlways
	dueDay
)

// TodoDate is a deadline: Never, Always or a concrete day.
type TodoDate struct {
	day  Date
	kind dueKind
}

// Never is the TodoDate of a todo without deadline.
var Never = TodoDate{}

// Always is due on every day. It is written as due:0000-00-00.
var Always = TodoDate{kind: dueAlways}

// On returns a deadline on day d.
func On(d Date) TodoDate {
	return TodoDate{day: d, kind: dueDay}
}

// ParseTodoDate parses a due: value, 0000-00-00 being Always.
func ParseTodoDate(s string) (TodoDate, error) {
	if s == alwaysDue {
		return Always, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return Never, err
	}
	return On(d), nil
}

func (d TodoDate) IsNever() bool {
	return d.kind == dueNever
}

func (d TodoDate) IsAlways() bool {
	return d.kind == dueAlways
}

// Day returns the deadline day; ok is false for Never and Always.
func (d TodoDate) Day() (day Date, ok bool) {
	return d.day, d.kind == dueDay
}

// DueOn reports whether the deadline is on or before today.
func (d TodoDate) DueOn(today Date) bool {
	switch d.kind {
	case dueAlways:
		return true
	case dueDay:
		return !d.day.After(today)
	}
	return false
}

func (d TodoDate) String() string {
	switch d.kind {
	case dueAlways:
		return alwaysDue
	case dueDay:
		return d.day.String()
	}
	return ""
}
