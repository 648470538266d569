package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// LineReader returns one physical line per call, without its newline.
// At end of input it returns io.EOF.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// ReadCommand reads physical lines from lr until they form a complete
// command, prompting with primary first and the continuation prompt after.
// Every physical line is kept with a trailing newline. End of input in the
// middle of a command returns the partial text and io.ErrUnexpectedEOF.
func ReadCommand(lr LineReader, primary string) (string, error) {
	var buf strings.Builder
	prompt := primary
	for {
		line, err := lr.ReadLine(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) && buf.Len() > 0 {
				return buf.String(), io.ErrUnexpectedEOF
			}
			return buf.String(), err
		}
		buf.WriteString(line)
		buf.WriteByte('\n')

		c := Check(buf.String())
		if c == Complete {
			return buf.String(), nil
		}
		prompt = c.Prompt()
	}
}

// Plain reads lines from a non-terminal source such as a pipe or file.
// Prompts are written to w when it is non-nil.
type Plain struct {
	r *bufio.Reader
	w io.Writer
}

func NewPlain(r io.Reader, w io.Writer) *Plain {
	return &Plain{r: bufio.NewReader(r), w: w}
}

func (p *Plain) ReadLine(prompt string) (string, error) {
	if p.w != nil && prompt != "" {
		fmt.Fprint(p.w, prompt)
	}
	line, err := p.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSuffix(line, "\r"), nil
		}
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// Terminal edits lines on an interactive terminal with history. The
// terminal is in raw mode only while a line is being read, so foreground
// jobs see it in its normal state. Keyboard signals stay enabled.
type Terminal struct {
	fd      int
	t       *term.Terminal
	history *ring
}

type stdio struct {
	io.Reader
	io.Writer
}

// NewTerminal reads from in, which must be a terminal, and echoes to out.
// At most limit lines of history are kept; zero disables history.
func NewTerminal(in *os.File, out io.Writer, limit int) *Terminal {
	t := &Terminal{
		fd: int(in.Fd()),
		t:  term.NewTerminal(stdio{in, out}, ""),
	}
	if limit > 0 {
		t.history = newRing(limit)
		t.t.History = t.history
	} else {
		t.t.History = noHistory{}
	}
	return t
}

func (t *Terminal) ReadLine(prompt string) (string, error) {
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return "", fmt.Errorf("raw mode: %w", err)
	}
	defer term.Restore(t.fd, state)
	if err := enableSignals(t.fd); err != nil {
		return "", fmt.Errorf("raw mode: %w", err)
	}
	if w, _, err := term.GetSize(t.fd); err == nil {
		_ = t.t.SetSize(w, 0)
	}

	t.t.SetPrompt(prompt)
	return t.t.ReadLine()
}

// History returns the lines available for recall, oldest first.
func (t *Terminal) History() []string {
	if t.history == nil {
		return nil
	}
	return t.history.lines()
}
