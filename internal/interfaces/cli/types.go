package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func typesCmd(svc serviceFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the supported artifact types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME")
			for _, t := range svc().ArtifactTypes() {
				fmt.Fprintf(w, "%s\t%s\n", t.Code, t.DisplayName)
			}
			return w.Flush()
		},
	}
}
