package cli

import (
	"fmt"
	"strings"

	documentapp "github.com/lenses/backend/internal/application/document"
	"github.com/spf13/cobra"
)

type serviceFunc func() *documentapp.AssemblyService

// recordFlags are shared by the commands that read one record
type recordFlags struct {
	artifactType string
	file         string
	title        string
}

func (f *recordFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.artifactType, "type", "t", "", "artifact type, e.g. invoice or care-plan (required)")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "record file (.json, .yaml or .yml); - reads JSON or YAML from stdin (required)")
	cmd.Flags().StringVar(&f.title, "title", "", "document title; defaults to the type's display name")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("file")
}

func (f *recordFlags) request(cmd *cobra.Command) (documentapp.AssembleRequest, error) {
	rec, err := loadRecord(f.file, cmd.InOrStdin())
	if err != nil {
		return documentapp.AssembleRequest{}, err
	}
	return documentapp.AssembleRequest{ArtifactType: f.artifactType, Record: rec, Title: f.title}, nil
}

func assembleCmd(svc serviceFunc) *cobra.Command {
	var flags recordFlags
	var format string

	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Print the section sequence of a record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc, ok := encoders[strings.ToLower(format)]
			if !ok {
				return fmt.Errorf("unknown format %q (want json, yaml or text)", format)
			}

			req, err := flags.request(cmd)
			if err != nil {
				return err
			}
			doc, err := svc().Assemble(cmd.Context(), req)
			if err != nil {
				return err
			}
			return enc(cmd.OutOrStdout(), doc)
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVarP(&format, "format", "o", "json", "output format: json, yaml or text")
	return cmd
}
