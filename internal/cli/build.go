package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coastmesh/coastmesh/pkg/pipeline"
)

// newBuildCmd creates the "build" command, which runs the full pipeline
// from the run configuration and writes the resulting gr3 mesh.
func newBuildCmd() *cobra.Command {
	var (
		configPath string
		output     string
		refresh    bool
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run the full pipeline and write a gr3 mesh",
		Long: `Build runs extraction, grading, meshing and boundary classification in
one go. The raster, constraints and output path come from the TOML run
configuration; --output overrides the configured path.`,
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
			if output != "" {
				opts.Output = output
			}
			if overwrite {
				opts.Overwrite = true
			}

			runner := pipeline.NewRunner(c, nil, logger)
			defer runner.Close()

			p := newProgress(logger)
			result, err := runner.Execute(ctx, src, opts)
			if err != nil {
				return err
			}
			p.done(fmt.Sprintf("Built mesh with %d elements", result.Stats.ElementCount))

			printNewline()
			printSuccess("Mesh built")
			printStageStats(result.CacheInfo.DomainHit, fmt.Sprintf("%d polygons", result.Stats.PolygonCount))
			if result.SizeFunction != nil {
				printStageStats(result.CacheInfo.FieldHit, fmt.Sprintf("size field %g..%g", result.SizeFunction.HMin, result.SizeFunction.HMax))
			} else {
				printWarning("no size constraints configured; mesh is ungraded")
			}
			printDetail("%d vertices, %d elements", result.Stats.VertexCount, result.Stats.ElementCount)
			for _, g := range result.Boundaries.Groups() {
				printDetail("%s boundary %q: %d nodes", g.Type, g.Name, len(g.Nodes)+2*len(g.FrontFace))
			}
			if opts.Output != "" {
				printFile(opts.Output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigFile, "run configuration file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "override the configured gr3 output path")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached stage results")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite an existing output file")

	return cmd
}
