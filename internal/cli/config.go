package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/coastmesh/coastmesh/pkg/cache"
	"github.com/coastmesh/coastmesh/pkg/pipeline"
	"github.com/coastmesh/coastmesh/pkg/raster"
)

// defaultConfigFile is the run configuration looked up when --config is
// not given.
const defaultConfigFile = "coastmesh.toml"

// Config is the TOML run configuration. Relative paths are resolved
// against the directory containing the configuration file.
type Config struct {
	Raster RasterConfig `toml:"raster"`
	Domain DomainConfig `toml:"domain"`
	Size   SizeConfig   `toml:"sizefield"`
	Engine EngineConfig `toml:"engine"`
	Output OutputConfig `toml:"output"`
	Cache  CacheConfig  `toml:"cache"`

	// dir is the directory of the loaded file, for path resolution.
	dir string `toml:"-"`
}

// RasterConfig locates the source raster and describes its frame.
type RasterConfig struct {
	Path       string `toml:"path"`
	Geodetic   bool   `toml:"geodetic"`
	Proj       string `toml:"proj"`
	Descriptor string `toml:"descriptor"`
}

// DomainConfig bounds the wet domain and tunes window iteration.
type DomainConfig struct {
	ZMin      *float64 `toml:"zmin"`
	ZMax      *float64 `toml:"zmax"`
	ChunkSize int      `toml:"chunk_size"`
	Overlap   int      `toml:"overlap"`
	Workers   int      `toml:"workers"`
}

// SizeConfig bounds the size field and lists its grading constraints.
type SizeConfig struct {
	HMin     *float64            `toml:"hmin"`
	HMax     *float64            `toml:"hmax"`
	Contours []ContourConfig     `toml:"contour"`
	Features []LineFeatureConfig `toml:"feature"`
}

// ContourConfig grades the field around a raster level slice.
type ContourConfig struct {
	Level         float64 `toml:"level"`
	TargetSize    float64 `toml:"target_size"`
	ExpansionRate float64 `toml:"expansion_rate"`
}

// LineFeatureConfig grades the field around GeoJSON line features.
type LineFeatureConfig struct {
	Path          string  `toml:"path"`
	TargetSize    float64 `toml:"target_size"`
	ExpansionRate float64 `toml:"expansion_rate"`
}

// EngineConfig tunes the mesh engine.
type EngineConfig struct {
	MinSize  float64 `toml:"min_size"`
	MaxSize  float64 `toml:"max_size"`
	Optimize bool    `toml:"optimize"`
}

// OutputConfig controls gr3 serialization.
type OutputConfig struct {
	Path        string `toml:"path"`
	Description string `toml:"description"`
	Overwrite   bool   `toml:"overwrite"`
}

// CacheConfig selects the stage cache backend: "file" (default), "redis"
// or "none".
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// loadConfig reads and decodes a TOML run configuration.
func loadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if cfg.Raster.Path == "" {
		return nil, fmt.Errorf("config %s: raster.path is required", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg.dir = filepath.Dir(abs)
	return &cfg, nil
}

// resolve makes a configured path absolute relative to the config file.
func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.dir, path)
}

// openSource reads the configured raster. Only Esri ASCII grids are
// supported for now.
func (c *Config) openSource() (*raster.Grid, error) {
	return raster.ReadASC(c.resolve(c.Raster.Path), raster.CRS{
		Geodetic:   c.Raster.Geodetic,
		Proj:       c.Raster.Proj,
		Descriptor: c.Raster.Descriptor,
	})
}

// openCache creates the configured cache backend.
func (c *Config) openCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case "", "file":
		dir := c.resolve(c.Cache.Dir)
		if dir == "" {
			var err error
			if dir, err = defaultCacheDir(); err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, c.Cache.Addr, c.Cache.Password, c.Cache.DB)
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
}

// pipelineOptions maps the configuration onto pipeline options. The
// source tag is the raster path so cache keys survive across runs.
func (c *Config) pipelineOptions() pipeline.Options {
	opts := pipeline.Options{
		SourceTag: c.Raster.Path,
		ZMin:      c.Domain.ZMin,
		ZMax:      c.Domain.ZMax,
		ChunkSize: c.Domain.ChunkSize,
		Overlap:   c.Domain.Overlap,
		Workers:   c.Domain.Workers,
		HMin:      c.Size.HMin,
		HMax:      c.Size.HMax,
		Engine: pipeline.EngineTuning{
			MinSize:  c.Engine.MinSize,
			MaxSize:  c.Engine.MaxSize,
			Optimize: c.Engine.Optimize,
		},
		Description: c.Output.Description,
		Output:      c.resolve(c.Output.Path),
		Overwrite:   c.Output.Overwrite,
	}
	for _, ct := range c.Size.Contours {
		opts.Contours = append(opts.Contours, pipeline.ContourConstraint{
			Level:         ct.Level,
			TargetSize:    ct.TargetSize,
			ExpansionRate: ct.ExpansionRate,
		})
	}
	for _, f := range c.Size.Features {
		opts.Features = append(opts.Features, pipeline.FeatureConstraint{
			Path:          c.resolve(f.Path),
			TargetSize:    f.TargetSize,
			ExpansionRate: f.ExpansionRate,
		})
	}
	return opts
}

// defaultCacheDir returns the per-user cache directory for coastmesh.
func defaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return filepath.Join(base, "coastmesh"), nil
}
