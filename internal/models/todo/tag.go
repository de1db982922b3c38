package todo

import (
	"fmt"
	"strings"
	"unicode"
)

type TagKind int

const (
	ProjectTag TagKind = iota + 1
	ContextTag
)

// Tag is a +project or @context marker.
type Tag struct {
	Kind TagKind
	Name string
}

func NewProjectTag(name string) (Tag, error) {
	return newTag(ProjectTag, name)
}

func NewContextTag(name string) (Tag, error) {
	return newTag(ContextTag, name)
}

func newTag(kind TagKind, name string) (Tag, error) {
	if name == "" || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return Tag{}, fmt.Errorf("%w: %q", ErrBadTag, name)
	}
	return Tag{Kind: kind, Name: name}, nil
}

func (t Tag) String() string {
	switch t.Kind {
	case ProjectTag:
		return "+" + t.Name
	case ContextTag:
		return "@" + t.Name
	}
	return t.Name
}

// Meta is one key:value pair from the description.
type Meta struct {
	Key   string
	Value string
}

func (m Meta) String() string {
	return m.Key + ":" + m.Value
}

func validMetaPart(s string) bool {
	return s != "" && !strings.ContainsRune(s, ':') && strings.IndexFunc(s, unicode.IsSpace) < 0
}
