package lexer

import "fmt"

// Kind classifies a token.
type Kind int

const (
	EOF       Kind = iota // end of input; always the last token of a stream
	Atom                  // unbroken run of non-delimiter bytes
	Pipe                  // |
	Semicolon             // ;
	Ampersand             // &
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of input"
	case Atom:
		return "word"
	case Pipe:
		return "'|'"
	case Semicolon:
		return "';'"
	case Ampersand:
		return "'&'"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Span is a half-open byte range [Start, End) into a source buffer.
// Spans never own text; resolve them with Slice against the buffer they
// were produced from.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Slice returns the text covered by the span.
func (s Span) Slice(src string) string { return src[s.Start:s.End] }

func (s Span) String() string { return fmt.Sprintf("%d..%d", s.Start, s.End) }

// Token is a (kind, span) pair produced once by the lexer.
type Token struct {
	Kind Kind
	Span Span
}

// Stream is a finite token sequence with one token of lookahead.
// After the trailing EOF token, Next keeps returning EOF.
type Stream interface {
	Peek() Kind
	Next() Token
}
