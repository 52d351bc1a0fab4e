// Package cli implements the docasm command line tool, which assembles domain
// records from JSON or YAML files without running the HTTP service.
package cli

import (
	"os"

	documentapp "github.com/lenses/backend/internal/application/document"
	"github.com/lenses/backend/internal/domain/document/adapter"
	"github.com/lenses/backend/internal/infrastructure/logger"
	"github.com/spf13/cobra"
)

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the docasm command tree
func NewRootCmd() *cobra.Command {
	var debug bool
	var service *documentapp.AssemblyService

	cmd := &cobra.Command{
		Use:          "docasm",
		Short:        "Assemble domain records into printable documents",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := "warn"
			if debug {
				level = "debug"
			}
			log, err := logger.New(logger.Config{Level: level, Format: "console", Output: "stderr"})
			if err != nil {
				return err
			}
			service = documentapp.NewAssemblyService(adapter.NewRegistry(), nil, log)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "log assembly details to stderr")

	// set by PersistentPreRunE before any subcommand runs
	svc := func() *documentapp.AssemblyService { return service }

	cmd.AddCommand(
		typesCmd(svc),
		assembleCmd(svc),
		renderCmd(svc),
	)
	return cmd
}
