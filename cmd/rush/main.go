package main

import (
	"context"
	"os"

	"github.com/marcelocantos/rush/internal/cli"
	"github.com/marcelocantos/rush/internal/runner"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Background jobs re-execute this binary to run their command tree.
	if runner.IsSubshell() {
		return runner.SubshellMain(os.Args[1:])
	}

	root := cli.NewRootCommand(version)
	return cli.ExitCode(os.Stderr, root.ExecuteContext(context.Background()))
}
