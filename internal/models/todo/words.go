package todo

// WordKind classifies a word of the description.
type WordKind int

const (
	PlainWord WordKind = iota
	ProjectWord
	ContextWord
	DueWord
	MetaWord
)

// Word is one whitespace-delimited word of the description and its byte
// span in Text(). The bytes between spans are whitespace.
type Word struct {
	Kind       WordKind
	Text       string
	Start, End int
}

// Words splits the description for display.
func (t *Todo) Words() []Word {
	toks := tokenize(t.text)
	words := make([]Word, len(toks))
	for i, tok := range toks {
		w := Word{Kind: PlainWord, Text: tok.text, Start: tok.start, End: tok.end}
		switch tok.kind {
		case projectToken:
			w.Kind = ProjectWord
		case contextToken:
			w.Kind = ContextWord
		case metaToken:
			w.Kind = MetaWord
			if tok.key == dueKey {
				w.Kind = DueWord
			}
		}
		words[i] = w
	}
	return words
}
