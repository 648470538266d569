// Package shell is the read-parse-execute loop.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/marcelocantos/rush/internal/audit"
	"github.com/marcelocantos/rush/internal/input"
	"github.com/marcelocantos/rush/internal/jobs"
	"github.com/marcelocantos/rush/internal/lexer"
	"github.com/marcelocantos/rush/internal/parser"
	"github.com/marcelocantos/rush/internal/runner"
)

// Options configures a shell session.
type Options struct {
	Prompt       string
	Color        bool
	HistoryLimit int
	// Audit receives one entry per line read. Nil disables auditing.
	Audit *audit.Logger
}

// Shell reads command lines and executes them one at a time.
type Shell struct {
	Runner *runner.Runner
	Reader input.LineReader
	Audit  *audit.Logger

	// Out receives the final newline at end of input; nil for none.
	Out    io.Writer
	Stderr io.Writer

	prefix string
	prompt string
}

// New returns a shell around r and lr.
func New(r *runner.Runner, lr input.LineReader, opts Options) *Shell {
	s := &Shell{
		Runner: r,
		Reader: lr,
		Audit:  opts.Audit,
		Stderr: r.Stderr,
		prefix: "rush:",
		prompt: opts.Prompt,
	}
	if opts.Color {
		red := color.New(color.FgRed, color.Bold)
		green := color.New(color.FgGreen)
		red.EnableColor()
		green.EnableColor()
		s.prefix = red.Sprint("rush:")
		s.prompt = green.Sprint(opts.Prompt)
	}
	return s
}

// Main runs an interactive session on the given descriptors and returns
// the exit status. When in is a terminal the shell takes control of it and
// runs pipelines as foreground jobs; failure to do so is fatal.
func Main(ctx context.Context, in, out, errOut *os.File, opts Options) (int, error) {
	term, err := runner.InitShell(in)
	if err != nil {
		return 1, fmt.Errorf("init: %w", err)
	}

	r := runner.New(jobs.NewTable())
	r.Stdin, r.Stdout, r.Stderr = in, out, errOut
	r.Notices = out
	r.Term = term

	stop := jobs.Watch(r.Changed())
	defer stop()

	var lr input.LineReader
	if term != nil {
		defer term.Close()
		lr = input.NewTerminal(in, out, opts.HistoryLimit)
	} else {
		lr = input.NewPlain(in, nil)
		opts.Color = false
	}

	s := New(r, lr, opts)
	if term != nil {
		s.Out = out
	}
	return s.Run(ctx), nil
}

// Run loops until end of input and returns the last exit status.
func (s *Shell) Run(ctx context.Context) int {
	for {
		if err := ctx.Err(); err != nil {
			return s.Runner.LastStatus
		}
		text, err := input.ReadCommand(s.Reader, s.prompt)
		switch {
		case errors.Is(err, io.ErrUnexpectedEOF):
			s.errorf("unexpected end of input")
			return 2
		case errors.Is(err, io.EOF):
			if s.Out != nil {
				fmt.Fprintln(s.Out)
			}
			return s.Runner.LastStatus
		case err != nil:
			s.errorf("%v", err)
			return 1
		}
		_ = s.Execute(ctx, text)
	}
}

// Execute reconciles background jobs, then parses and runs one complete
// command text. Errors are reported on Stderr and returned.
func (s *Shell) Execute(ctx context.Context, text string) error {
	s.Runner.Reconcile()

	tree, err := parser.ParseLine(lexer.New(text))
	if err != nil {
		s.errorf("parse error: %v", err)
		s.Runner.LastStatus = 2
		s.Runner.PipeStatus = nil
		s.log(text, nil, 0, err)
		return err
	}
	if tree == nil {
		return nil
	}

	before := lastJobID(s.Runner.Jobs)
	start := time.Now()
	err = s.Runner.Run(ctx, text, tree)
	elapsed := time.Since(start)
	if err != nil {
		s.errorf("%v", err)
		s.Runner.LastStatus = 1
	}

	var launched []uint32
	for _, j := range s.Runner.Jobs.List() {
		if j.ID > before {
			launched = append(launched, j.ID)
		}
	}
	s.log(text, launched, elapsed, err)
	return err
}

func (s *Shell) log(text string, launched []uint32, elapsed time.Duration, err error) {
	if s.Audit == nil {
		return
	}
	cwd, _ := os.Getwd()
	_ = s.Audit.Log(audit.Record{
		Line:           strings.TrimRight(text, "\n"),
		ExitCode:       s.Runner.LastStatus,
		PipeStatus:     s.Runner.PipeStatus,
		BackgroundJobs: launched,
		Err:            err,
		Duration:       elapsed,
		Cwd:            cwd,
	})
}

func (s *Shell) errorf(format string, args ...any) {
	fmt.Fprintf(s.Stderr, "%s %s\n", s.prefix, fmt.Sprintf(format, args...))
}

func lastJobID(t *jobs.Table) uint32 {
	list := t.List()
	if len(list) == 0 {
		return 0
	}
	return list[len(list)-1].ID
}
