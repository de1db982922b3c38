package handlers

import (
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"
	"todoTracker/internal/service"
)

const maxLineBody = 1 << 20

type TodoHandler struct {
	TodoService TodoService
}

func NewTodoHandler(todoService TodoService) *TodoHandler {
	return &TodoHandler{
		TodoService: todoService,
	}
}

// Routes mounts the board API on r.
func (h *TodoHandler) Routes(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Get("/due", h.GetDueTodos)

	r.Route("/columns", func(r chi.Router) {
		r.Get("/", h.GetColumns)
		r.Post("/", h.PostColumn)

		r.Route("/{column}", func(r chi.Router) {
			r.Delete("/", h.DeleteColumn)
			r.Get("/export", h.ExportColumn)

			r.Route("/todos", func(r chi.Router) {
				r.Get("/", h.GetTodos)
				r.Post("/", h.PostTodo)

				r.Route("/{title}", func(r chi.Router) {
					r.Get("/", h.GetTodo)
					r.Put("/", h.PutTodo)
					r.Delete("/", h.DeleteTodo)
					r.Post("/complete", h.CompleteTodo)
					r.Post("/reopen", h.ReopenTodo)
					r.Post("/move", h.MoveTodo)
				})
			})
		})
	})
}

func (h *TodoHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: health check")
	healthCheck(w, h.TodoService.Name())
}

func (h *TodoHandler) GetColumns(w http.ResponseWriter, r *http.Request) {
	columns, err := h.TodoService.Columns(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "list_columns")
		return
	}
	writeJSON(w, http.StatusOK, columns)
}

func (h *TodoHandler) PostColumn(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var request dto.CreateColumnRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	if strings.TrimSpace(request.Name) == "" {
		validationFailed(w, r, "name", "empty_field")
		return
	}

	if err := h.TodoService.AddColumn(r.Context(), request.Name); err != nil {
		handleServiceError(w, r, err, "create_column")
		return
	}

	logger.Info("HTTP_OUT: column created",
		zap.String("column", request.Name),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("name", request.Name))
}

func (h *TodoHandler) DeleteColumn(w http.ResponseWriter, r *http.Request) {
	column, ok := columnParam(w, r)
	if !ok {
		return
	}

	removed, err := h.TodoService.RemoveColumn(r.Context(), column)
	if err != nil {
		handleServiceError(w, r, err, "delete_column")
		return
	}
	logger.Info("HTTP_OUT: column deleted",
		zap.String("column", column),
		zap.Int("todos", len(removed)))

	w.WriteHeader(http.StatusNoContent)
}

func (h *TodoHandler) GetTodos(w http.ResponseWriter, r *http.Request) {
	column, ok := columnParam(w, r)
	if !ok {
		return
	}

	todos, err := h.TodoService.ListTodos(r.Context(), column)
	if err != nil {
		handleServiceError(w, r, err, "list_todos")
		return
	}
	writeJSON(w, http.StatusOK, dto.FromTodoList(todos, h.TodoService.Today()))
}

// PostTodo accepts either JSON or a text/plain todo.txt line with an
// optional ?due= parameter.
func (h *TodoHandler) PostTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	column, ok := columnParam(w, r)
	if !ok {
		return
	}

	var request dto.CreateTodoRequest
	switch {
	case checkContentType(r, "text/plain"):
		body, err := io.ReadAll(io.LimitReader(r.Body, maxLineBody))
		if err != nil {
			responseWithError(w, http.StatusBadRequest, "cannot read body: "+err.Error())
			return
		}
		request.Line = strings.TrimRight(string(body), "\r\n")
		request.Due = r.URL.Query().Get("due")
	default:
		if !decodeJSON(w, r, &request) {
			return
		}
	}

	if strings.TrimSpace(request.Line) == "" {
		validationFailed(w, r, "line", "empty_field")
		return
	}

	created, err := h.TodoService.CreateTodo(r.Context(), column, request.Line, request.Due)
	if err != nil {
		handleServiceError(w, r, err, "create_todo")
		return
	}

	logger.Info("HTTP_OUT: todo created",
		zap.String("column", column),
		zap.String("title", created.Text()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	writeJSON(w, http.StatusCreated, dto.FromTodo(created, h.TodoService.Today()))
}

func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	column, title, ok := todoParams(w, r)
	if !ok {
		return
	}

	found, err := h.TodoService.GetTodo(r.Context(), column, title)
	if err != nil {
		handleServiceError(w, r, err, "get_todo")
		return
	}
	writeJSON(w, http.StatusOK, dto.FromTodo(found, h.TodoService.Today()))
}

func (h *TodoHandler) PutTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	column, title, ok := todoParams(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTodoRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	opts, err := updateOptions(request, h.TodoService.Today())
	if err != nil {
		handleServiceError(w, r, err, "update_todo")
		return
	}

	updated, err := h.TodoService.UpdateTodo(r.Context(), column, title, opts...)
	if err != nil {
		handleServiceError(w, r, err, "update_todo")
		return
	}

	logger.Info("HTTP_OUT: todo updated",
		zap.String("column", column),
		zap.String("title", updated.Text()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromTodo(updated, h.TodoService.Today()))
}

func (h *TodoHandler) CompleteTodo(w http.ResponseWriter, r *http.Request) {
	column, title, ok := todoParams(w, r)
	if !ok {
		return
	}

	done, err := h.TodoService.CompleteTodo(r.Context(), column, title)
	if err != nil {
		handleServiceError(w, r, err, "complete_todo")
		return
	}
	writeJSON(w, http.StatusOK, dto.FromTodo(done, h.TodoService.Today()))
}

func (h *TodoHandler) ReopenTodo(w http.ResponseWriter, r *http.Request) {
	column, title, ok := todoParams(w, r)
	if !ok {
		return
	}

	open, err := h.TodoService.ReopenTodo(r.Context(), column, title)
	if err != nil {
		handleServiceError(w, r, err, "reopen_todo")
		return
	}
	writeJSON(w, http.StatusOK, dto.FromTodo(open, h.TodoService.Today()))
}

func (h *TodoHandler) MoveTodo(w http.ResponseWriter, r *http.Request) {
	column, title, ok := todoParams(w, r)
	if !ok {
		return
	}

	var request dto.MoveTodoRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	if strings.TrimSpace(request.To) == "" {
		validationFailed(w, r, "to", "empty_field")
		return
	}

	if err := h.TodoService.MoveTodo(r.Context(), title, column, request.To); err != nil {
		handleServiceError(w, r, err, "move_todo")
		return
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("title", title),
		toPayload("from", column),
		toPayload("to", request.To),
	)
}

func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	column, title, ok := todoParams(w, r)
	if !ok {
		return
	}

	if err := h.TodoService.DeleteTodo(r.Context(), column, title); err != nil {
		handleServiceError(w, r, err, "delete_todo")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportColumn answers with the column as a todo.txt file.
func (h *TodoHandler) ExportColumn(w http.ResponseWriter, r *http.Request) {
	column, ok := columnParam(w, r)
	if !ok {
		return
	}

	out, err := h.TodoService.ExportColumn(r.Context(), column)
	if err != nil {
		handleServiceError(w, r, err, "export_column")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, out)
}

func (h *TodoHandler) GetDueTodos(w http.ResponseWriter, r *http.Request) {
	due, err := h.TodoService.DueTodos(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "due_todos")
		return
	}
	writeJSON(w, http.StatusOK, dto.FromDueList(due, h.TodoService.Today()))
}

// updateOptions turns a PUT body into service edits, meta keys in sorted
// order.
func updateOptions(req dto.UpdateTodoRequest, today todo.Date) ([]service.TodoOption, error) {
	var opts []service.TodoOption

	if req.Text != nil {
		opts = append(opts, service.WithText(*req.Text))
	}
	if req.Priority != nil {
		p, err := parsePriority(*req.Priority)
		if err != nil {
			return nil, service.NewValidationError("priority", err.Error())
		}
		opts = append(opts, service.WithPriority(p))
	}
	if req.Due != nil {
		due, err := service.ParseDueExpression(*req.Due, today)
		if err != nil {
			return nil, service.NewValidationError("due", err.Error())
		}
		opts = append(opts, service.WithDue(due))
	}
	for _, key := range slices.Sorted(maps.Keys(req.Meta)) {
		if v := req.Meta[key]; v != nil {
			opts = append(opts, service.WithMeta(key, *v))
		} else {
			opts = append(opts, service.WithoutMeta(key))
		}
	}
	for _, name := range req.Projects {
		tag, err := todo.NewProjectTag(name)
		if err != nil {
			return nil, service.NewValidationError("projects", err.Error())
		}
		opts = append(opts, service.WithTag(tag))
	}
	for _, name := range req.Contexts {
		tag, err := todo.NewContextTag(name)
		if err != nil {
			return nil, service.NewValidationError("contexts", err.Error())
		}
		opts = append(opts, service.WithTag(tag))
	}
	return opts, nil
}

// parsePriority accepts "", "A" or "(A)".
func parsePriority(s string) (todo.Priority, error) {
	s = strings.TrimSpace(s)
	switch len(s) {
	case 0:
		return todo.PriorityNone, nil
	case 1:
		return todo.NewPriority(s[0])
	}
	return todo.ParsePriority(s)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: wrong content type",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}

	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Warn("HTTP: cannot decode JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func validationFailed(w http.ResponseWriter, r *http.Request, field, reason string) {
	logger.Warn("HTTP: validation error",
		zap.String("field", field),
		zap.String("error", reason),
		zap.String("client_ip", r.RemoteAddr))
	handleBusinessError(w, service.NewValidationError(field, reason))
}

func columnParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	column, ok := pathParam(r, "column")
	if !ok {
		validationFailed(w, r, "column", "empty_field")
	}
	return column, ok
}

func todoParams(w http.ResponseWriter, r *http.Request) (column, title string, ok bool) {
	if column, ok = columnParam(w, r); !ok {
		return "", "", false
	}
	if title, ok = pathParam(r, "title"); !ok {
		validationFailed(w, r, "title", "empty_field")
	}
	return column, title, ok
}
