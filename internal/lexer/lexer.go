// Package lexer splits a command line into atoms and the three control
// operators understood by the parser.
package lexer

// Lexer is a lazy token stream over a source string.
type Lexer struct {
	src    string
	pos    int
	peeked *Token
}

// New returns a lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: src}
}

// Peek returns the kind of the next token without consuming it.
func (l *Lexer) Peek() Kind {
	if l.peeked == nil {
		tok := l.scan()
		l.peeked = &tok
	}
	return l.peeked.Kind
}

// Next consumes and returns the next token.
func (l *Lexer) Next() Token {
	if l.peeked != nil {
		tok := *l.peeked
		l.peeked = nil
		return tok
	}
	return l.scan()
}

// All drains the lexer and returns every token including the final EOF.
func (l *Lexer) All() []Token {
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks
		}
	}
}

func (l *Lexer) scan() Token {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return Token{Kind: EOF, Span: Span{Start: len(l.src), End: len(l.src)}}
	}

	start := l.pos
	var kind Kind
	switch l.src[l.pos] {
	case '|':
		kind = Pipe
	case ';':
		kind = Semicolon
	case '&':
		kind = Ampersand
	default:
		l.scanAtom()
		return Token{Kind: Atom, Span: Span{Start: start, End: l.pos}}
	}
	l.pos++
	return Token{Kind: kind, Span: Span{Start: start, End: l.pos}}
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.pos++
		case '\\':
			// Line continuation.
			if n := continuation(l.src[l.pos+1:]); n > 0 {
				l.pos += 1 + n
				continue
			}
			return
		default:
			return
		}
	}
}

// scanAtom advances over one atom. Quotes and escapes are kept in the
// atom's span; they only suppress delimiters.
func (l *Lexer) scanAtom() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isDelimiter(c):
			return
		case c == '\\':
			if n := continuation(l.src[l.pos+1:]); n > 0 {
				return
			}
			l.pos += 2
			if l.pos > len(l.src) {
				l.pos = len(l.src)
			}
		case c == '\'':
			l.pos = closing(l.src, l.pos+1, '\'', false)
		case c == '"':
			l.pos = closing(l.src, l.pos+1, '"', true)
		default:
			l.pos++
		}
	}
}

// closing returns the offset just past the quote that closes a quoted
// region opened before from, or len(src) if it is unterminated.
func closing(src string, from int, quote byte, escapes bool) int {
	for i := from; i < len(src); i++ {
		switch src[i] {
		case '\\':
			if escapes {
				i++
			}
		case quote:
			return i + 1
		}
	}
	return len(src)
}

// continuation reports the length of a newline sequence at the start of s
// (after a backslash), or 0 if there is none.
func continuation(s string) int {
	switch {
	case len(s) >= 2 && s[0] == '\r' && s[1] == '\n':
		return 2
	case len(s) >= 1 && (s[0] == '\n' || s[0] == '\r'):
		return 1
	}
	return 0
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '|', ';', '&':
		return true
	}
	return false
}
