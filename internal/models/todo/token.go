package todo

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	wordToken tokenKind = iota
	doneToken
	dateToken
	priorityToken
	projectToken
	contextToken
	metaToken
)

// token is one whitespace-delimited word of a line with its byte span.
type token struct {
	kind       tokenKind
	text       string
	start, end int
	key, value string // metaToken: key and value; project/context: value is the tag name
}

// tokenize splits s on unicode whitespace and classifies each word by shape
// alone. Whether a shape is meaningful at its position is the parser's call.
func tokenize(s string) []token {
	var toks []token
	i := 0
	for i < len(s) {
		r, n := utf8.DecodeRuneInString(s[i:])
		if unicode.IsSpace(r) {
			i += n
			continue
		}
		j := i
		for j < len(s) {
			r, n := utf8.DecodeRuneInString(s[j:])
			if unicode.IsSpace(r) {
				break
			}
			j += n
		}
		toks = append(toks, classify(s[i:j], i, j))
		i = j
	}
	return toks
}

func classify(word string, start, end int) token {
	tok := token{kind: wordToken, text: word, start: start, end: end}
	switch {
	case word == "x":
		tok.kind = doneToken
	case isDateShape(word):
		tok.kind = dateToken
	case isPriorityShape(word):
		tok.kind = priorityToken
	case len(word) > 1 && word[0] == '+':
		tok.kind, tok.value = projectToken, word[1:]
	case len(word) > 1 && word[0] == '@':
		tok.kind, tok.value = contextToken, word[1:]
	default:
		if key, value, ok := strings.Cut(word, ":"); ok && validMetaPart(key) && validMetaPart(value) {
			tok.kind, tok.key, tok.value = metaToken, key, value
		}
	}
	return tok
}
