package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/coastmesh/coastmesh/pkg/export"
	"github.com/coastmesh/coastmesh/pkg/pipeline"
)

// newHfunCmd creates the "hfun" command, which grades the size field
// against the configured constraints and reports its statistics.
func newHfunCmd() *cobra.Command {
	var (
		configPath string
		output     string
		refresh    bool
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:   "hfun",
		Short: "Grade the mesh size field and report its statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			src, err := cfg.openSource()
			if err != nil {
				return err
			}
			c, err := cfg.openCache(ctx)
			if err != nil {
				return err
			}

			opts := cfg.pipelineOptions()
			opts.Logger = logger
			opts.Refresh = refresh

			runner := pipeline.NewRunner(c, nil, logger)
			defer runner.Close()

			sp := newSpinner(ctx, "grading size field")
			sp.Start()
			sf, hit, err := runner.GradeFieldWithCacheInfo(ctx, src, opts)
			sp.Stop()
			if err != nil {
				return err
			}

			printSuccess("Graded size field")
			printStageStats(hit,
				fmt.Sprintf("%d x %d cells", len(sf.X), len(sf.Y)),
				fmt.Sprintf("bounds %g..%g", sf.HMin, sf.HMax),
				fmt.Sprintf("values %g..%g", floats.Min(sf.Values), floats.Max(sf.Values)))

			if output != "" {
				data, err := json.MarshalIndent(sf, "", "  ")
				if err != nil {
					return err
				}
				if err := export.WriteFile(output, data, overwrite); err != nil {
					return err
				}
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigFile, "run configuration file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "optional JSON output path for the graded field")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cached field")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite an existing output file")

	return cmd
}
