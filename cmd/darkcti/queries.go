package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/darkcti/internal/dataset"
)

// NewQueriesCmd creates the queries command.
func NewQueriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queries",
		Short: "List sample queries",
		Long: `Queries prints the sample queries, one per line, so they can be piped
into 'darkcti search --list /dev/stdin'.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, q := range dataset.Default().SampleQueries() {
				fmt.Fprintln(cmd.OutOrStdout(), q)
			}
		},
	}
}
