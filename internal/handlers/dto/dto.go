package dto

import (
	"todoTracker/internal/models/todo"
	"todoTracker/internal/repository/todo/inmemory"
)

type CreateColumnRequest struct {
	Name string `json:"name"`
}

// CreateTodoRequest carries one todo.txt line. Due, when set, overrides the
// line's due: tag and may be plain English ("next friday").
type CreateTodoRequest struct {
	Line string `json:"line"`
	Due  string `json:"due,omitempty"`
}

// UpdateTodoRequest lists the edits to apply; nil fields are left alone.
// A null meta value removes the key.
type UpdateTodoRequest struct {
	Text     *string            `json:"text,omitempty"`
	Priority *string            `json:"priority,omitempty"`
	Due      *string            `json:"due,omitempty"`
	Meta     map[string]*string `json:"meta,omitempty"`
	Projects []string           `json:"projects,omitempty"`
	Contexts []string           `json:"contexts,omitempty"`
}

type MoveTodoRequest struct {
	To string `json:"to"`
}

type TodoResponse struct {
	Line           string            `json:"line"`
	Text           string            `json:"text"`
	Completed      bool              `json:"completed"`
	Priority       string            `json:"priority,omitempty"`
	CompletionDate string            `json:"completion_date,omitempty"`
	CreationDate   string            `json:"creation_date,omitempty"`
	Due            string            `json:"due,omitempty"`
	Projects       []string          `json:"projects"`
	Contexts       []string          `json:"contexts"`
	Meta           map[string]string `json:"meta"`
	IsDue          bool              `json:"is_due"`
}

type DueResponse struct {
	Column string       `json:"column"`
	Todo   TodoResponse `json:"todo"`
}

func FromTodo(t *todo.Todo, today todo.Date) TodoResponse {
	res := TodoResponse{
		Line:      t.String(),
		Text:      t.Text(),
		Completed: t.Completed,
		Priority:  t.Priority.Letter(),
		Due:       t.DueDate().String(),
		Projects:  nonNil(t.Projects()),
		Contexts:  nonNil(t.Contexts()),
		Meta:      make(map[string]string),
		IsDue:     t.DueOn(today),
	}
	if t.Completed && t.CompletionDate != nil {
		res.CompletionDate = t.CompletionDate.String()
	}
	if t.CreationDate != nil {
		res.CreationDate = t.CreationDate.String()
	}
	for _, m := range t.MetaList() {
		res.Meta[m.Key] = m.Value
	}
	return res
}

func FromTodoList(todos []*todo.Todo, today todo.Date) []TodoResponse {
	result := make([]TodoResponse, len(todos))
	for i, t := range todos {
		result[i] = FromTodo(t, today)
	}
	return result
}

func FromDueList(entries []inmemory.DueEntry, today todo.Date) []DueResponse {
	result := make([]DueResponse, len(entries))
	for i, e := range entries {
		result[i] = DueResponse{Column: e.Column, Todo: FromTodo(e.Todo, today)}
	}
	return result
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
