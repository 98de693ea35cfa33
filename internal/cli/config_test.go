package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
[raster]
path = "coast.asc"
geodetic = true
proj = "+proj=longlat +datum=WGS84"
descriptor = "EPSG:4326"

[domain]
zmax = 0.0
chunk_size = 512

[sizefield]
hmin = 50.0
hmax = 5000.0

[[sizefield.contour]]
level = 0.0
target_size = 50.0
expansion_rate = 0.01

[[sizefield.feature]]
path = "rivers.geojson"
target_size = 100.0
expansion_rate = 0.05

[output]
path = "coast.gr3"
description = "coastal mesh"

[cache]
backend = "file"
dir = "cachedir"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coastmesh.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Raster.Path != "coast.asc" || !cfg.Raster.Geodetic {
		t.Errorf("raster = %+v, want coast.asc geodetic", cfg.Raster)
	}
	if cfg.Domain.ZMax == nil || *cfg.Domain.ZMax != 0 {
		t.Errorf("zmax = %v, want 0", cfg.Domain.ZMax)
	}
	if cfg.Domain.ZMin != nil {
		t.Errorf("zmin = %v, want unset", cfg.Domain.ZMin)
	}
	if len(cfg.Size.Contours) != 1 || cfg.Size.Contours[0].TargetSize != 50 {
		t.Errorf("contours = %+v, want one with target size 50", cfg.Size.Contours)
	}
	if len(cfg.Size.Features) != 1 || cfg.Size.Features[0].Path != "rivers.geojson" {
		t.Errorf("features = %+v, want one rivers.geojson", cfg.Size.Features)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("loadConfig() should fail for a missing file")
	}
}

func TestLoadConfig_NoRasterPath(t *testing.T) {
	path := writeConfig(t, "[output]\npath = \"out.gr3\"\n")
	if _, err := loadConfig(path); err == nil {
		t.Error("loadConfig() should require raster.path")
	}
}

func TestPipelineOptions_Mapping(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	opts := cfg.pipelineOptions()
	if opts.SourceTag != "coast.asc" {
		t.Errorf("source tag = %q, want raster path", opts.SourceTag)
	}
	if opts.HMin == nil || *opts.HMin != 50 || opts.HMax == nil || *opts.HMax != 5000 {
		t.Errorf("bounds = %v..%v, want 50..5000", opts.HMin, opts.HMax)
	}
	if len(opts.Contours) != 1 || opts.Contours[0].Level != 0 {
		t.Errorf("contours = %+v, want one at level 0", opts.Contours)
	}

	// Relative paths resolve against the config directory.
	wantFeature := filepath.Join(filepath.Dir(path), "rivers.geojson")
	if len(opts.Features) != 1 || opts.Features[0].Path != wantFeature {
		t.Errorf("feature path = %q, want %q", opts.Features[0].Path, wantFeature)
	}
	if opts.Output != filepath.Join(filepath.Dir(path), "coast.gr3") {
		t.Errorf("output = %q, want resolved against config dir", opts.Output)
	}
}

func TestOpenCache_Backends(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{dir: dir}

	cfg.Cache.Backend = "none"
	if c, err := cfg.openCache(context.Background()); err != nil || c == nil {
		t.Errorf("openCache(none) = %v, %v, want null cache", c, err)
	}

	cfg.Cache.Backend = "file"
	cfg.Cache.Dir = "stages"
	c, err := cfg.openCache(context.Background())
	if err != nil {
		t.Fatalf("openCache(file) error = %v", err)
	}
	defer c.Close()
	if _, err := os.Stat(filepath.Join(dir, "stages")); err != nil {
		t.Errorf("file backend should create the configured directory: %v", err)
	}

	cfg.Cache.Backend = "bogus"
	if _, err := cfg.openCache(context.Background()); err == nil {
		t.Error("openCache(bogus) should fail")
	}
}

func TestShippedExampleConfig(t *testing.T) {
	cfg, err := loadConfig(filepath.Join("..", "..", "examples", "coastmesh.toml"))
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	opts := cfg.pipelineOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if len(opts.Contours) == 0 {
		t.Error("example should grade at least one contour constraint")
	}
	// Graded runs finalize the size field, which needs a single window.
	if opts.ChunkSize != 0 {
		t.Errorf("chunk size = %d, want 0 while the example grades a size field", opts.ChunkSize)
	}
}

func TestResolveCacheDir(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	dir, err := resolveCacheDir(path)
	if err != nil {
		t.Fatalf("resolveCacheDir() error = %v", err)
	}
	if dir != filepath.Join(filepath.Dir(path), "cachedir") {
		t.Errorf("dir = %q, want configured cachedir", dir)
	}

	fallback, err := resolveCacheDir(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("resolveCacheDir() fallback error = %v", err)
	}
	if fallback == "" || filepath.Base(fallback) != "coastmesh" {
		t.Errorf("fallback = %q, want per-user coastmesh dir", fallback)
	}
}
