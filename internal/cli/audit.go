package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcelocantos/rush/internal/audit"
)

func newAuditCommand(flags *rootFlags) *cobra.Command {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the log of executed lines",
	}

	auditCmd.AddCommand(&cobra.Command{
		Use:   "verify",
		Short: "Check the audit log hash chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.config)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if err := audit.Verify(cfg.Audit.Path); err != nil {
				fmt.Fprintf(w, "audit verification FAILED: %v\n", err)
				return &ExitError{Code: 1}
			}
			fmt.Fprintln(w, "audit log integrity verified")
			return nil
		},
	})

	var n int
	show := &cobra.Command{
		Use:     "show",
		Aliases: []string{"tail"},
		Short:   "Print the most recent audit entries",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.config)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			entries, err := audit.Tail(cfg.Audit.Path, n)
			if err != nil {
				return fmt.Errorf("audit: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(w, "no audit entries")
				return nil
			}
			for _, e := range entries {
				data, _ := json.MarshalIndent(e, "", "  ")
				fmt.Fprintf(w, "%s\n", data)
			}
			return nil
		},
	}
	show.Flags().IntVarP(&n, "lines", "n", 20, "number of entries to show")
	auditCmd.AddCommand(show)

	return auditCmd
}
