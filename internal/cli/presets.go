package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonguttman/psillyops-seal/pkg/seal"
)

// newPresetsCmd creates the presets listing command.
func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in style presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := seal.PresetNames()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}
