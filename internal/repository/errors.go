package repository

import "errors"

var (
	ErrNotFound        = errors.New("todo not found")
	ErrColumnNotFound  = errors.New("column not found")
	ErrDuplicateColumn = errors.New("column already exists")
	ErrInvalidColumn   = errors.New("invalid column name")
	ErrInvalidTodo     = errors.New("invalid todo")
)
