package parser

import (
	"errors"
	"fmt"

	"github.com/marcelocantos/rush/internal/lexer"
)

// Parse failures. All are terminal for the current parse; no partial tree
// is returned.
var (
	ErrUnexpectedEOF   = errors.New("unexpected end of input")
	ErrExpectedCommand = errors.New("expected command")
	ErrUnexpectedToken = errors.New("unexpected token")
	// ErrEmptyCommand is reserved for a command with no words. The primary
	// rule always requires a program name, so Parse never returns it.
	ErrEmptyCommand = errors.New("empty command")
)

// Error is a parse failure at a specific token.
type Error struct {
	Err   error
	Token lexer.Kind
	Span  lexer.Span
}

func (e *Error) Error() string {
	switch e.Err {
	case ErrExpectedCommand:
		return fmt.Sprintf("expected command, found %s at %d", e.Token, e.Span.Start)
	case ErrUnexpectedToken:
		return fmt.Sprintf("unexpected token %s at %d", e.Token, e.Span.Start)
	default:
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }
