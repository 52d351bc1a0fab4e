package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func renderCmd(svc serviceFunc) *cobra.Command {
	var flags recordFlags
	var out string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a record to a standalone HTML page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := flags.request(cmd)
			if err != nil {
				return err
			}
			preview, err := svc().Preview(cmd.Context(), req)
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), preview.HTML)
				return err
			}
			if err := os.WriteFile(out, []byte(preview.HTML), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d sections)\n", out, len(preview.Sections))
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&out, "out", "", "output HTML file; stdout when empty")
	return cmd
}
