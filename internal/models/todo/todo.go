// Package todo models a single todo.txt task: parsing a line into a Todo,
// rendering it back byte for byte, and querying or editing its tags.
package todo

import (
	"slices"
	"strings"
	"unicode"
)

const dueKey = "due"

// Todo is one task. The description text is the source of truth for tags:
// projects, contexts, metadata and the due date are an index over it, and
// every tag edit rewrites the text.
type Todo struct {
	Completed      bool
	CompletionDate *Date // rendered only while Completed
	CreationDate   *Date
	Priority       Priority

	text     string
	projects []string
	contexts []string
	meta     []Meta
	due      TodoDate

	priorityAfterDates bool
}

// New builds a todo from a description. A due date other than Never is
// written into the text as a due: tag.
func New(text string, due TodoDate, priority Priority, opts ...Option) (*Todo, error) {
	if !priority.Valid() {
		return nil, parseError(text, string([]byte{byte(priority)}), ErrBadPriority)
	}
	t := &Todo{Priority: priority}
	if err := t.SetText(text); err != nil {
		return nil, err
	}
	if !due.IsNever() {
		if err := t.SetDue(due); err != nil {
			return nil, err
		}
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Text returns the description, tags included, exactly as written.
func (t *Todo) Text() string {
	return t.text
}

// SetText replaces the description and re-indexes its tags. On error the
// todo is left unchanged.
func (t *Todo) SetText(text string) error {
	if strings.TrimSpace(text) == "" {
		return parseError(text, "", ErrEmpty)
	}
	if strings.ContainsAny(text, "\r\n") {
		return parseError(text, "", ErrMultiline)
	}
	if err := t.setText(text); err != nil {
		return err
	}
	return nil
}

func (t *Todo) setText(text string) *ParseError {
	ix, err := indexText(text)
	if err != nil {
		return err
	}
	t.text = text
	t.projects = ix.projects
	t.contexts = ix.contexts
	t.meta = ix.meta
	t.due = ix.due
	return nil
}

// String renders the todo.txt line.
func (t *Todo) String() string {
	var b strings.Builder
	if t.Completed {
		b.WriteString("x ")
	}
	if t.Priority.IsSet() && !t.priorityAfterDates {
		b.WriteString(t.Priority.String())
		b.WriteByte(' ')
	}
	if t.Completed && t.CompletionDate != nil {
		b.WriteString(t.CompletionDate.String())
		b.WriteByte(' ')
	}
	if t.CreationDate != nil {
		b.WriteString(t.CreationDate.String())
		b.WriteByte(' ')
	}
	if t.Priority.IsSet() && t.priorityAfterDates {
		b.WriteString(t.Priority.String())
		b.WriteByte(' ')
	}
	b.WriteString(t.text)
	return b.String()
}

// Complete marks the todo done today. See CompleteOn.
func (t *Todo) Complete() {
	t.CompleteOn(Today())
}

// CompleteOn marks the todo done. When it carries a creation date and no
// completion date yet, today becomes the completion date. Completing a
// completed todo changes nothing.
func (t *Todo) CompleteOn(today Date) {
	if t.Completed {
		return
	}
	t.Completed = true
	if t.CreationDate != nil && t.CompletionDate == nil {
		t.CompletionDate = today.ptr()
	}
}

// Reopen clears completion. A completion date without a creation date
// becomes the creation date, so the line keeps its only date.
func (t *Todo) Reopen() {
	if t.CreationDate == nil && t.CompletionDate != nil {
		t.CreationDate = t.CompletionDate
	}
	t.Completed = false
	t.CompletionDate = nil
}

// IsDue reports whether the todo is open and its due date is today or earlier.
func (t *Todo) IsDue() bool {
	return t.DueOn(Today())
}

func (t *Todo) DueOn(today Date) bool {
	return !t.Completed && t.due.DueOn(today)
}

// DueDate returns the due: tag value, Never when absent.
func (t *Todo) DueDate() TodoDate {
	return t.due
}

// SetDue writes or replaces the due: tag; Never removes it.
func (t *Todo) SetDue(due TodoDate) error {
	if due.IsNever() {
		return t.DeleteMeta(dueKey)
	}
	return t.SetMeta(dueKey, due.String())
}

// Projects returns project names without the leading '+', in order of first appearance.
func (t *Todo) Projects() []string {
	return slices.Clone(t.projects)
}

// Contexts returns context names without the leading '@', in order of first appearance.
func (t *Todo) Contexts() []string {
	return slices.Clone(t.contexts)
}

func (t *Todo) HasProjectTag(name string) bool {
	return slices.Contains(t.projects, name)
}

func (t *Todo) HasContextTag(name string) bool {
	return slices.Contains(t.contexts, name)
}

func (t *Todo) HasTag(tag Tag) bool {
	switch tag.Kind {
	case ProjectTag:
		return t.HasProjectTag(tag.Name)
	case ContextTag:
		return t.HasContextTag(tag.Name)
	}
	return false
}

// Tags returns project and context tags in the order they appear in the text.
func (t *Todo) Tags() []Tag {
	var tags []Tag
	for _, tok := range tokenize(t.text) {
		var tag Tag
		switch tok.kind {
		case projectToken:
			tag = Tag{Kind: ProjectTag, Name: tok.value}
		case contextToken:
			tag = Tag{Kind: ContextTag, Name: tok.value}
		default:
			continue
		}
		if !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

// AddTag appends the tag to the text unless it is already present.
func (t *Todo) AddTag(tag Tag) error {
	if _, err := newTag(tag.Kind, tag.Name); err != nil || (tag.Kind != ProjectTag && tag.Kind != ContextTag) {
		return parseError(t.text, tag.String(), ErrBadTag)
	}
	if t.HasTag(tag) {
		return nil
	}
	return t.SetText(appendWord(t.text, tag.String()))
}

// Meta returns the value of a key:value tag other than due.
func (t *Todo) Meta(key string) (string, bool) {
	for _, m := range t.meta {
		if m.Key == key {
			return m.Value, true
		}
	}
	return "", false
}

// MetaList returns key:value tags other than due, in order of first appearance.
func (t *Todo) MetaList() []Meta {
	return slices.Clone(t.meta)
}

// SetMeta rewrites every key:value token for key in place, or appends one.
func (t *Todo) SetMeta(key, value string) error {
	kv := key + ":" + value
	if !validMetaPart(key) || !validMetaPart(value) || strings.ContainsAny(key[:1], "+@") {
		return parseError(t.text, kv, ErrBadTag)
	}
	if key == dueKey {
		if _, err := ParseTodoDate(value); err != nil {
			return parseError(t.text, kv, ErrBadDate)
		}
	}

	var b strings.Builder
	last, found := 0, false
	for _, tok := range tokenize(t.text) {
		if tok.kind != metaToken || tok.key != key {
			continue
		}
		b.WriteString(t.text[last:tok.start])
		b.WriteString(kv)
		last, found = tok.end, true
	}
	if !found {
		return t.SetText(appendWord(t.text, kv))
	}
	b.WriteString(t.text[last:])
	return t.SetText(b.String())
}

// DeleteMeta removes every key:value token for key along with one adjacent
// space. It fails with ErrEmpty when nothing else would be left.
func (t *Todo) DeleteMeta(key string) error {
	var b strings.Builder
	last, removed := 0, false
	for _, tok := range tokenize(t.text) {
		if tok.kind != metaToken || tok.key != key {
			continue
		}
		start, end := tok.start, tok.end
		if start > last && t.text[start-1] == ' ' {
			start--
		} else if end < len(t.text) && t.text[end] == ' ' {
			end++
		}
		b.WriteString(t.text[last:start])
		last, removed = end, true
	}
	if !removed {
		return nil
	}
	b.WriteString(t.text[last:])
	return t.SetText(b.String())
}

// Clone returns a deep copy.
func (t *Todo) Clone() *Todo {
	c := *t
	c.projects = slices.Clone(t.projects)
	c.contexts = slices.Clone(t.contexts)
	c.meta = slices.Clone(t.meta)
	if t.CompletionDate != nil {
		c.CompletionDate = t.CompletionDate.ptr()
	}
	if t.CreationDate != nil {
		c.CreationDate = t.CreationDate.ptr()
	}
	return &c
}

func appendWord(text, word string) string {
	r := []rune(text)
	if len(r) > 0 && unicode.IsSpace(r[len(r)-1]) {
		return text + word
	}
	return text + " " + word
}
