package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with
// values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the sealgen CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (generate,
// template, presets, cache), configures logging based on the --verbose flag,
// and executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI under the given context, which the main package
// wires to SIGINT/SIGTERM so long generations can be cancelled cleanly.
func ExecuteContext(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "sealgen",
		Short:        "Generate deterministic tamper-evident seal artifacts",
		Long:         `sealgen turns product tokens into scannable, tamper-evident seal artifacts. The same token and seal version always produce byte-identical output, so a seal can be regenerated and compared at any time.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("sealgen %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newTemplateCmd())
	root.AddCommand(newPresetsCmd())
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}
