package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// newCacheCmd creates the cache management command.
func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the pipeline stage cache",
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigFile, "run configuration file")

	cmd.AddCommand(newCacheClearCmd(&configPath))
	cmd.AddCommand(newCachePathCmd(&configPath))

	return cmd
}

// newCacheClearCmd creates the "cache clear" subcommand.
func newCacheClearCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached stage results",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveCacheDir(*configPath)
			if err != nil {
				return err
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			count := 0
			err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil || path == dir {
					return nil // Skip errors, continue walking
				}
				if !info.IsDir() {
					if err := os.Remove(path); err == nil {
						count++
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			// Clean up empty subdirectories
			_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil || path == dir {
					return nil
				}
				if info.IsDir() {
					os.Remove(path)
				}
				return nil
			})

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// newCachePathCmd creates the "cache path" subcommand.
func newCachePathCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveCacheDir(*configPath)
			if err != nil {
				return err
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// resolveCacheDir returns the configured file-cache directory, or the
// per-user default when the configuration is absent or does not set one.
func resolveCacheDir(configPath string) (string, error) {
	if _, err := os.Stat(configPath); err == nil {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return "", err
		}
		if cfg.Cache.Dir != "" {
			return cfg.resolve(cfg.Cache.Dir), nil
		}
	}
	return defaultCacheDir()
}
