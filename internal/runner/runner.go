// Package runner executes command trees as OS processes: single commands,
// pipelines in their own process group, and background jobs run by a
// re-executed subshell.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/marcelocantos/rush/internal/jobs"
	"github.com/marcelocantos/rush/internal/parser"
)

// Runner holds the state shared by everything executed from one shell.
// It is not safe for concurrent use; the shell runs one line at a time.
type Runner struct {
	Jobs *jobs.Table

	// Standard descriptors handed to children.
	Stdin, Stdout, Stderr *os.File

	// Notices receives "[id] pid" launch lines and job completion lines.
	Notices io.Writer

	// Env is the environment for children. Nil means os.Environ().
	Env []string

	// Term is non-nil when the shell owns a controlling terminal and runs
	// foreground pipelines in their own terminal process group.
	Term *Terminal

	// Pgid, when non-zero, is the process group every pipeline stage
	// joins instead of forming a new one. Subshells set it to their own
	// group so a background job stays one unit.
	Pgid int

	// Executable is the binary re-executed for background jobs. Empty
	// means os.Executable().
	Executable string

	// LastStatus is the exit status of the last foreground stage.
	LastStatus int
	// PipeStatus holds one status per stage of the last foreground
	// command or pipeline.
	PipeStatus []int

	changed jobs.Flag
}

// New returns a Runner wired to the process's standard descriptors.
func New(table *jobs.Table) *Runner {
	if table == nil {
		table = jobs.NewTable()
	}
	return &Runner{
		Jobs:    table,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Notices: os.Stdout,
	}
}

// Run executes n, whose spans refer to src. Launch failures set a 127
// status and are reported on Stderr; only OS failures in process or
// terminal management are returned.
func (r *Runner) Run(ctx context.Context, src string, n parser.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch n := n.(type) {
	case nil:
		return nil
	case *parser.Command:
		return r.runCommand(src, n.SimpleCommand)
	case *parser.Pipeline:
		return r.runPipeline(src, n.Commands)
	case *parser.BackgroundJob:
		return r.runBackground(src, n)
	case *parser.Sequence:
		for _, item := range n.Items {
			if err := r.Run(ctx, src, item); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported node %T", n)
	}
}

// Changed is the flag the SIGCHLD watcher sets for this runner.
func (r *Runner) Changed() *jobs.Flag { return &r.changed }

// Reconcile refreshes background job statuses and prints completion
// notices. It does nothing unless a child has changed state since the
// previous call.
func (r *Runner) Reconcile() []uint32 {
	return r.Jobs.Reconcile(&r.changed, WaitProber{}, r.Notices)
}

func (r *Runner) env() []string {
	if r.Env != nil {
		return r.Env
	}
	return os.Environ()
}

func (r *Runner) files(stdin, stdout uintptr) []uintptr {
	return []uintptr{stdin, stdout, r.Stderr.Fd()}
}

func (r *Runner) setStatus(statuses ...int) {
	r.PipeStatus = statuses
	if len(statuses) > 0 {
		r.LastStatus = statuses[len(statuses)-1]
	}
}

func (r *Runner) diag(format string, args ...any) {
	fmt.Fprintf(r.Stderr, "rush: "+format+"\n", args...)
}
