package parser

import (
	"strings"

	"github.com/marcelocantos/rush/internal/lexer"
)

// Node is a command tree node: *Command, *Pipeline, *BackgroundJob or
// *Sequence. Trees are immutable once parsed and each subtree has exactly
// one parent.
type Node interface {
	// Render formats the node back into command-line text, resolving spans
	// against src.
	Render(src string) string
	node()
}

// SimpleCommand is a program name and its arguments.
type SimpleCommand struct {
	Program lexer.Span
	Args    []lexer.Span
}

// Argv resolves the command against src into an argument vector with
// quotes removed. Argv[0] is the program name.
func (c SimpleCommand) Argv(src string) []string {
	argv := make([]string, 0, len(c.Args)+1)
	argv = append(argv, lexer.Unquote(c.Program.Slice(src)))
	for _, a := range c.Args {
		argv = append(argv, lexer.Unquote(a.Slice(src)))
	}
	return argv
}

// Render joins the raw program and argument text with single spaces.
func (c SimpleCommand) Render(src string) string {
	var b strings.Builder
	b.WriteString(c.Program.Slice(src))
	for _, a := range c.Args {
		b.WriteByte(' ')
		b.WriteString(a.Slice(src))
	}
	return b.String()
}

// Command is a single simple command run in the foreground.
type Command struct {
	SimpleCommand
}

// Pipeline connects two or more commands stdout to stdin.
type Pipeline struct {
	Commands []SimpleCommand
}

// BackgroundJob runs Body asynchronously.
type BackgroundJob struct {
	Body Node
}

// Sequence runs each element in order.
type Sequence struct {
	Items []Node
}

func (*Command) node()       {}
func (*Pipeline) node()      {}
func (*BackgroundJob) node() {}
func (*Sequence) node()      {}

func (c *Command) Render(src string) string { return c.SimpleCommand.Render(src) }

func (p *Pipeline) Render(src string) string {
	parts := make([]string, len(p.Commands))
	for i, c := range p.Commands {
		parts[i] = c.Render(src)
	}
	return strings.Join(parts, " | ")
}

func (b *BackgroundJob) Render(src string) string {
	return b.Body.Render(src) + " &"
}

func (s *Sequence) Render(src string) string {
	parts := make([]string, len(s.Items))
	for i, n := range s.Items {
		parts[i] = n.Render(src)
	}
	return strings.Join(parts, "; ")
}

// asCommand reduces an operand of | to a simple command.
func asCommand(n Node, op lexer.Token) (SimpleCommand, error) {
	if c, ok := n.(*Command); ok {
		return c.SimpleCommand, nil
	}
	return SimpleCommand{}, &Error{Err: ErrExpectedCommand, Token: op.Kind, Span: op.Span}
}
