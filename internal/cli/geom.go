package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coastmesh/coastmesh/pkg/export"
	"github.com/coastmesh/coastmesh/pkg/pipeline"
)

// newGeomCmd creates the "geom" command, which extracts the domain
// boundary and exports it as GeoJSON.
func newGeomCmd() *cobra.Command {
	var (
		configPath string
		output     string
		refresh    bool
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:   "geom",
		Short: "Extract the domain boundary and export it as GeoJSON",
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

			sp := newSpinner(ctx, "extracting domain boundary")
			sp.Start()
			mp, hit, err := runner.ExtractDomainWithCacheInfo(ctx, src, opts)
			sp.Stop()
			if err != nil {
				return err
			}

			data, err := export.MultiPolygon(mp)
			if err != nil {
				return err
			}
			if err := export.WriteFile(output, data, overwrite || opts.Overwrite); err != nil {
				return err
			}

			printSuccess("Extracted domain boundary")
			printStageStats(hit,
				fmt.Sprintf("%d polygons", len(mp)),
				fmt.Sprintf("%d rings", mp.RingCount()))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigFile, "run configuration file")
	cmd.Flags().StringVarP(&output, "output", "o", "domain.geojson", "GeoJSON output path")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cached boundary")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite an existing output file")

	return cmd
}
