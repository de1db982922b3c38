package service

import (
	"errors"
	"fmt"

	"todoTracker/internal/models/todo"
	repo "todoTracker/internal/repository"
)

const (
	CodeNotFound        = "NOT_FOUND"
	CodeColumnNotFound  = "COLUMN_NOT_FOUND"
	CodeDuplicateColumn = "DUPLICATE_COLUMN"
	CodeValidation      = "VALIDATION_ERROR"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(column, title string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("todo %q not found in column %q", title, column),
		Details: map[string]any{
			"column": column,
			"title":  title,
		},
		Err: err,
	}
}

func NewColumnNotFound(column string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeColumnNotFound,
		Message: fmt.Sprintf("column %q not found", column),
		Details: map[string]any{"column": column},
		Err:     err,
	}
}

func NewDuplicateColumn(column string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeDuplicateColumn,
		Message: fmt.Sprintf("column %q already exists", column),
		Details: map[string]any{"column": column},
		Err:     err,
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("invalid value of field '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

// wrapValidation keeps err reachable for errors.Is.
func wrapValidation(field string, err error) *BusinessError {
	b := NewValidationError(field, err.Error())
	b.Err = err
	return b
}

// toBusinessError turns repository and parse failures into BusinessErrors.
// column and title only feed the message.
func toBusinessError(err error, column, title string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return NewNotFound(column, title, err)
	case errors.Is(err, repo.ErrColumnNotFound):
		return NewColumnNotFound(column, err)
	case errors.Is(err, repo.ErrDuplicateColumn):
		return NewDuplicateColumn(column, err)
	case errors.Is(err, repo.ErrInvalidColumn):
		return wrapValidation("column", err)
	case errors.Is(err, repo.ErrInvalidTodo), errors.Is(err, todo.ErrParse):
		return wrapValidation("todo", err)
	}
	return err
}
