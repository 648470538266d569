package runner

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/marcelocantos/rush/internal/jobs"
	"github.com/marcelocantos/rush/internal/lexer"
	"github.com/marcelocantos/rush/internal/parser"
)

// SubshellEnv marks a process started to run a background job body.
const SubshellEnv = "RUSH_SUBSHELL"

// IsSubshell reports whether this process was started by runBackground.
func IsSubshell() bool {
	return os.Getenv(SubshellEnv) != ""
}

// SubshellMain runs "-c <text>" in a background job's process group and
// returns the exit status of the last stage it ran.
func SubshellMain(args []string) int {
	os.Unsetenv(SubshellEnv)
	if len(args) != 2 || args[0] != "-c" {
		fmt.Fprintln(os.Stderr, "rush: subshell: usage: -c <command>")
		return 2
	}

	r := New(jobs.NewTable())
	r.Pgid = unix.Getpgrp()
	status, err := r.RunSource(context.Background(), args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "rush: %v\n", err)
		return 1
	}
	return status
}

// RunSource parses and executes a whole line, returning the last status.
func (r *Runner) RunSource(ctx context.Context, src string) (int, error) {
	tree, err := parser.ParseLine(lexer.New(src))
	if err != nil {
		return 2, fmt.Errorf("parse: %w", err)
	}
	if err := r.Run(ctx, src, tree); err != nil {
		return 1, err
	}
	return r.LastStatus, nil
}
