package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonguttman/psillyops-seal/pkg/seal/template"
)

// newTemplateCmd creates the template inspection command group.
func newTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect the embedded base template",
	}

	cmd.AddCommand(newTemplateChecksumCmd())
	cmd.AddCommand(newTemplateVerifyCmd())

	return cmd
}

// newTemplateChecksumCmd creates the "template checksum" subcommand, which
// prints the pinned and actual checksums without failing on a mismatch.
func newTemplateChecksumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checksum",
		Short: "Print the pinned and embedded template checksums",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("pinned:   %s\n", template.ExpectedChecksum)
			fmt.Printf("embedded: %s\n", template.RawChecksum())
			return nil
		},
	}
}

// newTemplateVerifyCmd creates the "template verify" subcommand. It exits
// non-zero when the embedded template fails integrity validation, which makes
// it usable as a release gate.
func newTemplateVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify the embedded template against its pinned checksum",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			if _, err := template.Load(); err != nil {
				logger.Error("base template failed validation",
					"pinned", template.ExpectedChecksum,
					"embedded", template.RawChecksum())
				return err
			}

			logger.Info("base template OK", "checksum", template.ExpectedChecksum)
			return nil
		},
	}
}
