package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonguttman/psillyops-seal/pkg/cache"
)

// newCacheCmd creates the artifact cache management command group.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local artifact cache",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())

	return cmd
}

// newCacheClearCmd creates the "cache clear" subcommand.
func newCacheClearCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			if dir == "" {
				var err error
				dir, err = defaultCacheDir()
				if err != nil {
					return err
				}
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				logger.Info("cache is empty", "dir", dir)
				return nil
			}

			store, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			defer store.Close()

			fc, ok := store.(*cache.FileCache)
			if !ok {
				return fmt.Errorf("cache at %s does not support clearing", dir)
			}
			if err := fc.Clear(); err != nil {
				return err
			}

			logger.Info("cache cleared", "dir", dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "cache-dir", "", "artifact cache directory")
	return cmd
}

// newCachePathCmd creates the "cache path" subcommand.
func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the artifact cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := defaultCacheDir()
			if err != nil {
				return err
			}
			fmt.Println(dir)
			return nil
		},
	}
}
