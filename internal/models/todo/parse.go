package todo

import "strings"

// parseState tracks which header segments of a line have been seen.
type parseState int

const (
	atStart parseState = iota
	afterDone
	afterPriority
	afterFirstDate
	afterSecondDate
	afterTrailingPriority
)

type lineParser struct {
	line  string
	todo  *Todo
	dates []Date
	state parseState
}

// Parse reads one todo.txt line:
//
//	[x ][(A) ][completion-date ][creation-date ]description
//
// The priority may also follow the dates; the position is kept so String
// reproduces the line. Header segments are separated by exactly one space,
// anything else starts the description.
func Parse(line string) (*Todo, error) {
	if strings.TrimSpace(line) == "" {
		return nil, parseError(line, "", ErrEmpty)
	}
	if strings.ContainsAny(line, "\r\n") {
		return nil, parseError(line, "", ErrMultiline)
	}

	p := &lineParser{line: line, todo: &Todo{}}
	desc := 0
	for _, tok := range tokenize(line) {
		if tok.start != desc || (tok.end < len(line) && line[tok.end] != ' ') {
			break
		}
		ok, err := p.step(tok)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		desc = tok.end + 1
	}

	text := ""
	if desc < len(line) {
		text = line[desc:]
	}
	if strings.TrimSpace(text) == "" {
		return nil, parseError(line, "", ErrEmpty)
	}

	t := p.todo
	switch {
	case t.Completed && len(p.dates) > 0:
		t.CompletionDate = p.dates[0].ptr()
		if len(p.dates) > 1 {
			t.CreationDate = p.dates[1].ptr()
		}
	case len(p.dates) > 0:
		t.CreationDate = p.dates[0].ptr()
	}

	if err := t.setText(text); err != nil {
		err.Line = line
		return nil, err
	}
	return t, nil
}

// step consumes tok as a header segment. ok is false once tok belongs to the
// description.
func (p *lineParser) step(tok token) (ok bool, err error) {
	switch {
	case tok.kind == doneToken && p.state == atStart:
		p.todo.Completed = true
		p.state = afterDone

	case tok.kind == priorityToken && p.acceptsPriority():
		pr, err := ParsePriority(tok.text)
		if err != nil {
			if p.state >= afterFirstDate {
				// "(see)" after the dates is prose, not a malformed priority
				return false, nil
			}
			return false, parseError(p.line, tok.text, ErrBadPriority)
		}
		p.todo.Priority = pr
		if p.state >= afterFirstDate {
			p.todo.priorityAfterDates = true
			p.state = afterTrailingPriority
		} else {
			p.state = afterPriority
		}

	case tok.kind == dateToken && p.acceptsDate():
		d, err := ParseDate(tok.text)
		if err != nil {
			return false, parseError(p.line, tok.text, ErrBadDate)
		}
		p.dates = append(p.dates, d)
		if p.state == afterFirstDate {
			p.state = afterSecondDate
		} else {
			p.state = afterFirstDate
		}

	default:
		return false, nil
	}
	return true, nil
}

func (p *lineParser) acceptsPriority() bool {
	switch p.state {
	case atStart, afterDone, afterFirstDate, afterSecondDate:
		return !p.todo.Priority.IsSet()
	}
	return false
}

// a second date is only a creation date on completed lines
func (p *lineParser) acceptsDate() bool {
	switch p.state {
	case atStart, afterDone, afterPriority:
		return true
	case afterFirstDate:
		return p.todo.Completed
	}
	return false
}

// textIndex is the structured view of a description.
type textIndex struct {
	projects []string
	contexts []string
	meta     []Meta
	due      TodoDate
}

func indexText(text string) (textIndex, *ParseError) {
	var ix textIndex
	for _, tok := range tokenize(text) {
		switch tok.kind {
		case projectToken:
			ix.projects = appendUnique(ix.projects, tok.value)
		case contextToken:
			ix.contexts = appendUnique(ix.contexts, tok.value)
		case metaToken:
			if tok.key == dueKey {
				due, err := ParseTodoDate(tok.value)
				if err != nil {
					return textIndex{}, parseError(text, tok.text, ErrBadDate)
				}
				ix.due = due
				continue
			}
			ix.meta = putMeta(ix.meta, tok.key, tok.value)
		}
	}
	return ix, nil
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

// putMeta keeps the first position of a key and the last value written to it.
func putMeta(list []Meta, key, value string) []Meta {
	for i := range list {
		if list[i].Key == key {
			list[i].Value = value
			return list
		}
	}
	return append(list, Meta{Key: key, Value: value})
}
