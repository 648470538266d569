// Package parser builds a command tree from a token stream with a
// precedence-climbing parser.
//
// Operators, loosest first:
//
//	;  sequence    infix   10
//	&  background  postfix 20
//	|  pipeline    infix   30
//
// All three are left-associative. Sequences and pipelines are flattened, so
// "a; b; c" is one three-element Sequence.
package parser

import (
	"github.com/marcelocantos/rush/internal/lexer"
)

type bindingPower int

const (
	bpMin        bindingPower = 0
	bpSequence   bindingPower = 10
	bpBackground bindingPower = 20
	bpPipeline   bindingPower = 30
)

func operatorPower(k lexer.Kind) (bindingPower, bool) {
	switch k {
	case lexer.Semicolon:
		return bpSequence, true
	case lexer.Ampersand:
		return bpBackground, true
	case lexer.Pipe:
		return bpPipeline, true
	default:
		return 0, false
	}
}

// Parse consumes one expression from ts and returns its root. Tokens after
// the expression (other than EOF) are left in the stream; ParseLine is the
// caller-side policy that consumes them.
func Parse(ts lexer.Stream) (Node, error) {
	return parseExpr(ts, bpMin)
}

// ParseLine parses every expression in ts up to EOF. Multiple expressions
// (as in "sleep 1 & echo hi") are joined into one flattened Sequence. An
// empty stream returns a nil Node and no error.
func ParseLine(ts lexer.Stream) (Node, error) {
	var root Node
	for ts.Peek() != lexer.EOF {
		n, err := Parse(ts)
		if err != nil {
			return nil, err
		}
		root = appendSequence(root, n)
	}
	return root, nil
}

func appendSequence(left, right Node) Node {
	switch l := left.(type) {
	case nil:
		return right
	case *Sequence:
		if r, ok := right.(*Sequence); ok {
			l.Items = append(l.Items, r.Items...)
		} else {
			l.Items = append(l.Items, right)
		}
		return l
	default:
		if r, ok := right.(*Sequence); ok {
			return &Sequence{Items: append([]Node{left}, r.Items...)}
		}
		return &Sequence{Items: []Node{left, right}}
	}
}

func parseExpr(ts lexer.Stream, min bindingPower) (Node, error) {
	left, err := parsePrimary(ts)
	if err != nil {
		return nil, err
	}

	for {
		bp, ok := operatorPower(ts.Peek())
		if !ok || bp <= min {
			break
		}
		op := ts.Next()

		switch op.Kind {
		case lexer.Semicolon:
			right, err := parseExpr(ts, bp)
			if err != nil {
				return nil, err
			}
			// Flatten into an existing sequence.
			if seq, ok := left.(*Sequence); ok {
				seq.Items = append(seq.Items, right)
			} else {
				left = &Sequence{Items: []Node{left, right}}
			}

		case lexer.Ampersand:
			// Postfix: no right operand.
			if _, ok := left.(*BackgroundJob); ok {
				return nil, &Error{Err: ErrUnexpectedToken, Token: op.Kind, Span: op.Span}
			}
			left = &BackgroundJob{Body: left}

		case lexer.Pipe:
			right, err := parseExpr(ts, bp)
			if err != nil {
				return nil, err
			}
			rightCmd, err := asCommand(right, op)
			if err != nil {
				return nil, err
			}
			if p, ok := left.(*Pipeline); ok {
				p.Commands = append(p.Commands, rightCmd)
				continue
			}
			leftCmd, err := asCommand(left, op)
			if err != nil {
				return nil, err
			}
			left = &Pipeline{Commands: []SimpleCommand{leftCmd, rightCmd}}

		default:
			return nil, &Error{Err: ErrUnexpectedToken, Token: op.Kind, Span: op.Span}
		}
	}

	return left, nil
}

func parsePrimary(ts lexer.Stream) (Node, error) {
	switch ts.Peek() {
	case lexer.Atom:
		return &Command{SimpleCommand: parseCommand(ts)}, nil
	case lexer.EOF:
		tok := ts.Next()
		return nil, &Error{Err: ErrUnexpectedEOF, Token: tok.Kind, Span: tok.Span}
	default:
		tok := ts.Next()
		return nil, &Error{Err: ErrExpectedCommand, Token: tok.Kind, Span: tok.Span}
	}
}

// parseCommand collects a program name and the atoms that follow it. The
// caller guarantees the next token is an atom.
func parseCommand(ts lexer.Stream) SimpleCommand {
	cmd := SimpleCommand{Program: ts.Next().Span}
	for ts.Peek() == lexer.Atom {
		cmd.Args = append(cmd.Args, ts.Next().Span)
	}
	return cmd
}
