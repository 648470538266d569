// Package cli defines the rush command line.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/marcelocantos/rush/internal/audit"
	"github.com/marcelocantos/rush/internal/config"
	"github.com/marcelocantos/rush/internal/jobs"
	"github.com/marcelocantos/rush/internal/runner"
	"github.com/marcelocantos/rush/internal/shell"
)

type rootFlags struct {
	command string
	config  string
	noAudit bool
}

// NewRootCommand returns the rush command tree.
func NewRootCommand(version string) *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:   "rush",
		Short: "An interactive shell with pipelines and job control",
		Long: `rush reads command lines and runs them. Commands are joined with
"|" into pipelines, separated with ";" into sequences, and run in the
background with a trailing "&".`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.config)
			if err != nil {
				return err
			}

			opts := shell.Options{
				Prompt:       cfg.Prompt.Primary,
				Color:        cfg.Prompt.Color && term.IsTerminal(int(os.Stdout.Fd())),
				HistoryLimit: cfg.History.Limit,
			}
			if cfg.Audit.Enabled && !flags.noAudit {
				logger, err := audit.NewLogger(cfg.Audit.Path)
				if err != nil {
					// Continue without audit logging.
					fmt.Fprintf(cmd.ErrOrStderr(), "rush: audit: %v\n", err)
				} else {
					opts.Audit = logger
				}
			}
			if !opts.Color {
				color.NoColor = true
			}

			if cmd.Flags().Changed("command") {
				return runCommand(cmd, flags.command, opts)
			}
			status, err := shell.Main(cmd.Context(), os.Stdin, os.Stdout, os.Stderr, opts)
			if err != nil {
				return err
			}
			return exitStatus(status)
		},
	}

	root.Flags().StringVarP(&flags.command, "command", "c", "", "run `line` and exit with its status")
	root.Flags().BoolVar(&flags.noAudit, "no-audit", false, "do not write executed lines to the audit log")
	root.PersistentFlags().StringVar(&flags.config, "config", "", "config file (default ~/.config/rush/config.yaml)")

	root.AddCommand(newAuditCommand(&flags))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the rush version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rush %s\n", version)
		},
	})
	return root
}

// runCommand executes one line without a terminal or job control.
func runCommand(cmd *cobra.Command, line string, opts shell.Options) error {
	r := runner.New(jobs.NewTable())
	s := shell.New(r, nil, opts)
	s.Stderr = cmd.ErrOrStderr()
	// Execute has already reported any error and set the status.
	_ = s.Execute(cmd.Context(), line)
	return exitStatus(r.LastStatus)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}
