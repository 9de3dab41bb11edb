package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for darkcti.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "darkcti",
		Short: "Dark web cyber threat intelligence search",
		Long: `darkcti searches sample dark web threat intelligence for a free-text query.

A search runs through the phases of a dark web investigation (Tor connection,
source queries, LLM analysis, IOC extraction), then reports the matching
indicators of compromise and threat actors with a risk assessment.

No dark web service is contacted and no LLM is called: results come from a
fixed sample dataset, which a .darkcti file can replace.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewConfigCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewQueriesCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
