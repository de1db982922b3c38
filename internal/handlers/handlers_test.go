package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"todoTracker/internal/handlers"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/models/todo"
	"todoTracker/internal/repository"
	"todoTracker/internal/repository/todo/inmemory"
	"todoTracker/internal/service"
)

// MockTodoService - service mock
type MockTodoService struct {
	mock.Mock
}

func (m *MockTodoService) Name() string {
	return "Board"
}

func (m *MockTodoService) Today() todo.Date {
	return todo.MustDate(2023, time.January, 10)
}

func (m *MockTodoService) Columns(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTodoService) AddColumn(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockTodoService) RemoveColumn(ctx context.Context, name string) ([]*todo.Todo, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*todo.Todo), args.Error(1)
}

func (m *MockTodoService) ListTodos(ctx context.Context, column string) ([]*todo.Todo, error) {
	args := m.Called(ctx, column)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*todo.Todo), args.Error(1)
}

func (m *MockTodoService) GetTodo(ctx context.Context, column, title string) (*todo.Todo, error) {
	args := m.Called(ctx, column, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoService) CreateTodo(ctx context.Context, column, line, due string) (*todo.Todo, error) {
	args := m.Called(ctx, column, line, due)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoService) UpdateTodo(ctx context.Context, column, title string, opts ...service.TodoOption) (*todo.Todo, error) {
	args := m.Called(ctx, column, title, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoService) CompleteTodo(ctx context.Context, column, title string) (*todo.Todo, error) {
	args := m.Called(ctx, column, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoService) ReopenTodo(ctx context.Context, column, title string) (*todo.Todo, error) {
	args := m.Called(ctx, column, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoService) MoveTodo(ctx context.Context, title, from, to string) error {
	args := m.Called(ctx, title, from, to)
	return args.Error(0)
}

func (m *MockTodoService) DeleteTodo(ctx context.Context, column, title string) error {
	args := m.Called(ctx, column, title)
	return args.Error(0)
}

func (m *MockTodoService) DueTodos(ctx context.Context) ([]inmemory.DueEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inmemory.DueEntry), args.Error(1)
}

func (m *MockTodoService) ExportColumn(ctx context.Context, column string) (string, error) {
	args := m.Called(ctx, column)
	return args.String(0), args.Error(1)
}

var _ handlers.TodoService = (*MockTodoService)(nil)

func mustParse(t *testing.T, line string) *todo.Todo {
	t.Helper()
	td, err := todo.Parse(line)
	require.NoError(t, err)
	return td
}

func serve(svc handlers.TodoService, method, target, contentType, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	handlers.NewTodoHandler(svc).Routes(r)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestTodoHandler_HealthCheck tests HealthCheck
func TestTodoHandler_HealthCheck(t *testing.T) {
	w := serve(new(MockTodoService), http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "todo-tracker")
	assert.Contains(t, w.Body.String(), "Board")
}

// TestTodoHandler_Columns tests column endpoints
func TestTodoHandler_Columns(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		target         string
		contentType    string
		body           string
		setupMock      func(*MockTodoService)
		expectedStatus int
	}{
		{
			name:   "success - list",
			method: http.MethodGet,
			target: "/columns",
			setupMock: func(m *MockTodoService) {
				m.On("Columns", mock.Anything).Return([]string{"Work", "Home"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "success - create",
			method:      http.MethodPost,
			target:      "/columns",
			contentType: "application/json",
			body:        `{"name": "Later"}`,
			setupMock: func(m *MockTodoService) {
				m.On("AddColumn", mock.Anything, "Later").Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "error - duplicate",
			method:      http.MethodPost,
			target:      "/columns",
			contentType: "application/json",
			body:        `{"name": "Work"}`,
			setupMock: func(m *MockTodoService) {
				m.On("AddColumn", mock.Anything, "Work").
					Return(service.NewDuplicateColumn("Work", repository.ErrDuplicateColumn))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "error - empty name",
			method:         http.MethodPost,
			target:         "/columns",
			contentType:    "application/json",
			body:           `{"name": " "}`,
			setupMock:      func(m *MockTodoService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - invalid content type",
			method:         http.MethodPost,
			target:         "/columns",
			contentType:    "text/plain",
			body:           `Later`,
			setupMock:      func(m *MockTodoService) {},
			expectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:   "success - delete",
			method: http.MethodDelete,
			target: "/columns/Work",
			setupMock: func(m *MockTodoService) {
				m.On("RemoveColumn", mock.Anything, "Work").Return([]*todo.Todo{}, nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:   "error - delete missing",
			method: http.MethodDelete,
			target: "/columns/Garden",
			setupMock: func(m *MockTodoService) {
				m.On("RemoveColumn", mock.Anything, "Garden").
					Return(nil, service.NewColumnNotFound("Garden", repository.ErrColumnNotFound))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTodoService)
			tt.setupMock(mockService)

			w := serve(mockService, tt.method, tt.target, tt.contentType, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

// TestTodoHandler_PostTodo tests todo creation
func TestTodoHandler_PostTodo(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		contentType    string
		body           string
		setupMock      func(*testing.T, *MockTodoService)
		expectedStatus int
	}{
		{
			name:        "success - json",
			target:      "/columns/Work/todos",
			contentType: "application/json",
			body:        `{"line": "(A) Call mom @phone", "due": "tomorrow"}`,
			setupMock: func(t *testing.T, m *MockTodoService) {
				m.On("CreateTodo", mock.Anything, "Work", "(A) Call mom @phone", "tomorrow").
					Return(mustParse(t, "(A) Call mom @phone due:2023-01-11"), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "success - plain text",
			target:      "/columns/Work/todos?due=2023-02-01",
			contentType: "text/plain",
			body:        "Pay rent\r\n",
			setupMock: func(t *testing.T, m *MockTodoService) {
				m.On("CreateTodo", mock.Anything, "Work", "Pay rent", "2023-02-01").
					Return(mustParse(t, "Pay rent due:2023-02-01"), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "error - empty line",
			target:         "/columns/Work/todos",
			contentType:    "application/json",
			body:           `{"line": ""}`,
			setupMock:      func(t *testing.T, m *MockTodoService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - invalid JSON",
			target:         "/columns/Work/todos",
			contentType:    "application/json",
			body:           `{invalid json}`,
			setupMock:      func(t *testing.T, m *MockTodoService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "error - parse failure",
			target:      "/columns/Work/todos",
			contentType: "application/json",
			body:        `{"line": "(a) bad"}`,
			setupMock: func(t *testing.T, m *MockTodoService) {
				m.On("CreateTodo", mock.Anything, "Work", "(a) bad", "").
					Return(nil, service.NewValidationError("line", "invalid priority"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "error - service error",
			target:      "/columns/Work/todos",
			contentType: "application/json",
			body:        `{"line": "Pay rent"}`,
			setupMock: func(t *testing.T, m *MockTodoService) {
				m.On("CreateTodo", mock.Anything, "Work", "Pay rent", "").
					Return(nil, errors.New("service error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTodoService)
			tt.setupMock(t, mockService)

			w := serve(mockService, http.MethodPost, tt.target, tt.contentType, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

// TestTodoHandler_GetTodo tests reading a todo by title
func TestTodoHandler_GetTodo(t *testing.T) {
	mockService := new(MockTodoService)
	mockService.On("GetTodo", mock.Anything, "Work", "Clean desk +office due:2023-01-09").
		Return(mustParse(t, "(B) 2023-01-07 Clean desk +office due:2023-01-09"), nil)

	w := serve(mockService, http.MethodGet, "/columns/Work/todos/Clean%20desk%20+office%20due:2023-01-09", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got dto.TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "(B) 2023-01-07 Clean desk +office due:2023-01-09", got.Line)
	assert.Equal(t, "B", got.Priority)
	assert.Equal(t, "2023-01-07", got.CreationDate)
	assert.Equal(t, "2023-01-09", got.Due)
	assert.Equal(t, []string{"office"}, got.Projects)
	assert.Empty(t, got.Contexts)
	assert.True(t, got.IsDue)
	mockService.AssertExpectations(t)
}

// TestTodoHandler_GetTodo_NotFound tests the 404 mapping
func TestTodoHandler_GetTodo_NotFound(t *testing.T) {
	mockService := new(MockTodoService)
	mockService.On("GetTodo", mock.Anything, "Work", "Paint").
		Return(nil, service.NewNotFound("Work", "Paint", repository.ErrNotFound))

	w := serve(mockService, http.MethodGet, "/columns/Work/todos/Paint", "", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), service.CodeNotFound)
	mockService.AssertExpectations(t)
}

// TestTodoHandler_PutTodo tests that the body becomes service options
func TestTodoHandler_PutTodo(t *testing.T) {
	mockService := new(MockTodoService)

	var applied *todo.Todo
	mockService.On("UpdateTodo", mock.Anything, "Work", "Review PR ticket:12", mock.Anything).
		Run(func(args mock.Arguments) {
			applied = mustParse(t, "Review PR ticket:12")
			for _, opt := range args.Get(3).([]service.TodoOption) {
				require.NoError(t, opt(applied))
			}
		}).
		Return(mustParse(t, "(C) Review PR ticket:34 +team due:2023-01-11"), nil)

	body := `{"priority": "C", "due": "tomorrow", "meta": {"ticket": "34"}, "projects": ["team"]}`
	w := serve(mockService, http.MethodPut, "/columns/Work/todos/Review%20PR%20ticket:12", "application/json", body)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, applied)
	assert.Equal(t, "(C) Review PR ticket:34 due:2023-01-11 +team", applied.String())
	mockService.AssertExpectations(t)
}

// TestTodoHandler_PutTodo_Invalid tests request validation
func TestTodoHandler_PutTodo_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "lowercase priority", body: `{"priority": "c"}`},
		{name: "bad due", body: `{"due": "soonish"}`},
		{name: "bad project", body: `{"projects": ["two words"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTodoService)

			w := serve(mockService, http.MethodPut, "/columns/Work/todos/Review", "application/json", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), service.CodeValidation)
			mockService.AssertNotCalled(t, "UpdateTodo")
		})
	}
}

// TestTodoHandler_CompleteAndReopen tests the state endpoints
func TestTodoHandler_CompleteAndReopen(t *testing.T) {
	mockService := new(MockTodoService)
	mockService.On("CompleteTodo", mock.Anything, "Work", "Clean desk").
		Return(mustParse(t, "x 2023-01-10 2023-01-07 Clean desk"), nil)
	mockService.On("ReopenTodo", mock.Anything, "Work", "Clean desk").
		Return(mustParse(t, "2023-01-07 Clean desk"), nil)

	w := serve(mockService, http.MethodPost, "/columns/Work/todos/Clean%20desk/complete", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got dto.TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Completed)
	assert.Equal(t, "2023-01-10", got.CompletionDate)

	w = serve(mockService, http.MethodPost, "/columns/Work/todos/Clean%20desk/reopen", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

// TestTodoHandler_MoveTodo tests moving between columns
func TestTodoHandler_MoveTodo(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockTodoService)
		expectedStatus int
	}{
		{
			name: "success",
			body: `{"to": "Home"}`,
			setupMock: func(m *MockTodoService) {
				m.On("MoveTodo", mock.Anything, "Clean desk", "Work", "Home").Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error - missing target column",
			body: `{"to": "Garden"}`,
			setupMock: func(m *MockTodoService) {
				m.On("MoveTodo", mock.Anything, "Clean desk", "Work", "Garden").
					Return(service.NewColumnNotFound("Garden", repository.ErrColumnNotFound))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "error - empty target",
			body:           `{"to": ""}`,
			setupMock:      func(m *MockTodoService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTodoService)
			tt.setupMock(mockService)

			w := serve(mockService, http.MethodPost, "/columns/Work/todos/Clean%20desk/move", "application/json", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

// TestTodoHandler_DeleteTodo tests deletion
func TestTodoHandler_DeleteTodo(t *testing.T) {
	mockService := new(MockTodoService)
	mockService.On("DeleteTodo", mock.Anything, "Work", "Clean desk").Return(nil)

	w := serve(mockService, http.MethodDelete, "/columns/Work/todos/Clean%20desk", "", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}

// TestTodoHandler_ExportAndDue tests the text export and the due listing
func TestTodoHandler_ExportAndDue(t *testing.T) {
	mockService := new(MockTodoService)
	mockService.On("ExportColumn", mock.Anything, "Work").Return("(A) Call mom\nPay rent\n", nil)
	mockService.On("DueTodos", mock.Anything).Return([]inmemory.DueEntry{
		{Column: "Home", Todo: mustParse(t, "Pay rent due:2023-01-10")},
	}, nil)

	w := serve(mockService, http.MethodGet, "/columns/Work/export", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "(A) Call mom\nPay rent\n", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	w = serve(mockService, http.MethodGet, "/due", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var due []dto.DueResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &due))
	require.Len(t, due, 1)
	assert.Equal(t, "Home", due[0].Column)
	assert.True(t, due[0].Todo.IsDue)
	mockService.AssertExpectations(t)
}
