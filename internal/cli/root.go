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

// Execute runs the coastmesh CLI and returns an error if any command fails.
//
// The function sets up the root command with all subcommands (build, geom,
// hfun, cache), configures logging based on the --verbose flag, and executes
// the command tree against ctx so a cancelled context aborts running stages.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "coastmesh",
		Short:        "coastmesh builds unstructured coastal meshes from rasters",
		Long:         `coastmesh is a CLI tool for generating gr3 finite-element meshes from bathymetric rasters: it reconstructs the wet domain boundary, grades a mesh size field along contours and line features, triangulates the domain, and classifies the mesh boundaries.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("coastmesh %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newBuildCmd())
	root.AddCommand(newGeomCmd())
	root.AddCommand(newHfunCmd())
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}
