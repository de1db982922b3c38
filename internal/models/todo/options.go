package todo

// Option adjusts a todo built by New. A failing option makes New fail.
type Option func(*Todo) error

func WithCreationDate(d Date) Option {
	return func(t *Todo) error {
		if !d.Valid() {
			return parseError(t.text, d.String(), ErrBadDate)
		}
		t.CreationDate = d.ptr()
		return nil
	}
}

// WithCompletionDate marks the todo completed on d.
func WithCompletionDate(d Date) Option {
	return func(t *Todo) error {
		if !d.Valid() {
			return parseError(t.text, d.String(), ErrBadDate)
		}
		t.Completed = true
		t.CompletionDate = d.ptr()
		return nil
	}
}

func WithCompleted() Option {
	return func(t *Todo) error {
		t.Completed = true
		return nil
	}
}
