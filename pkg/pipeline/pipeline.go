// Package pipeline runs the complete meshing pipeline: extract the
// domain boundary from a raster, grade the size field, generate the
// triangular mesh, derive its boundary groups, and serialize the result.
//
// The stages can run independently or together through a [Runner], which
// caches the expensive raster-bound stages (extraction and grading) so
// repeated runs with the same source and parameters skip the raster
// entirely.
//
//	runner := pipeline.NewRunner(fileCache, nil, logger)
//	result, err := runner.Execute(ctx, src, pipeline.Options{
//	    SourceTag: "coast.asc",
//	    ZMax:      ptr(0.0),
//	    HMin:      ptr(50.0),
//	    HMax:      ptr(5000.0),
//	    Contours:  []pipeline.ContourConstraint{{Level: 0, TargetSize: 50, ExpansionRate: 0.01}},
//	    Output:    "coast.gr3",
//	})
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/coastmesh/coastmesh/pkg/errors"
	"github.com/coastmesh/coastmesh/pkg/geo"
	"github.com/coastmesh/coastmesh/pkg/hfun"
	"github.com/coastmesh/coastmesh/pkg/mesh"
)

// Cache TTLs per stage. Raster-bound results are deterministic in their
// key, so the TTL only bounds disk usage.
const (
	TTLDomain = 7 * 24 * time.Hour
	TTLField  = 7 * 24 * time.Hour
)

// ContourConstraint grades the size field around a raster level slice.
type ContourConstraint struct {
	Level         float64 `json:"level"`
	TargetSize    float64 `json:"target_size"`
	ExpansionRate float64 `json:"expansion_rate"`
}

// FeatureConstraint grades the size field around line features read from
// a GeoJSON file.
type FeatureConstraint struct {
	Path          string  `json:"path"`
	TargetSize    float64 `json:"target_size"`
	ExpansionRate float64 `json:"expansion_rate"`
}

// Options configures a pipeline run.
type Options struct {
	// SourceTag identifies the raster in cache keys, typically its path.
	// Empty disables caching for the run.
	SourceTag string `json:"source_tag,omitempty"`

	// Domain extraction bounds and window iteration.
	ZMin      *float64 `json:"zmin,omitempty"`
	ZMax      *float64 `json:"zmax,omitempty"`
	ChunkSize int      `json:"chunk_size,omitempty"`
	Overlap   int      `json:"overlap,omitempty"`
	Workers   int      `json:"workers,omitempty"`

	// Size field bounds and constraints.
	HMin     *float64            `json:"hmin,omitempty"`
	HMax     *float64            `json:"hmax,omitempty"`
	Contours []ContourConstraint `json:"contours,omitempty"`
	Features []FeatureConstraint `json:"features,omitempty"`

	// Engine options.
	Engine EngineTuning `json:"engine,omitempty"`

	// Output. Empty Output skips serialization.
	Description string `json:"description,omitempty"`
	Output      string `json:"output,omitempty"`
	Overwrite   bool   `json:"overwrite,omitempty"`

	// Refresh bypasses cached stage results and rebuilds them.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool `json:"-"`
}

// EngineTuning carries the mesh engine knobs from the run configuration.
type EngineTuning struct {
	MinSize  float64 `json:"min_size,omitempty"`
	MaxSize  float64 `json:"max_size,omitempty"`
	Optimize bool    `json:"optimize,omitempty"`
}

// ValidateAndSetDefaults checks the options and fills defaults in place.
// Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.HMin != nil && *o.HMin <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "hmin must be positive, got %v", *o.HMin)
	}
	if o.HMin != nil && o.HMax != nil && *o.HMax < *o.HMin {
		return errors.New(errors.ErrCodeInvalidConfig, "hmax %v is below hmin %v", *o.HMax, *o.HMin)
	}
	if o.ZMin != nil && o.ZMax != nil && *o.ZMax < *o.ZMin {
		return errors.New(errors.ErrCodeInvalidConfig, "zmax %v is below zmin %v", *o.ZMax, *o.ZMin)
	}
	for i, c := range o.Contours {
		if c.ExpansionRate < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "contour %d: negative expansion rate", i)
		}
	}
	for i, f := range o.Features {
		if f.Path == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "feature %d: path is required", i)
		}
		if f.TargetSize <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "feature %d: target size must be positive", i)
		}
	}
	if o.Overlap == 0 {
		o.Overlap = 2
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	o.validated = true
	return nil
}

// hasConstraints reports whether the run grades a size field at all.
func (o *Options) hasConstraints() bool {
	return len(o.Contours) > 0 || len(o.Features) > 0
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Domain is the extracted boundary.
	Domain geo.MultiPolygon

	// SizeFunction is the graded field handed to the engine; nil when the
	// run has no constraints.
	SizeFunction *hfun.SizeFunction

	// Mesh is the generated mesh with its boundary groups.
	Mesh       *mesh.Mesh
	Boundaries *mesh.Boundaries

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PolygonCount int
	VertexCount  int
	ElementCount int

	ExtractTime time.Duration
	GradeTime   time.Duration
	MeshTime    time.Duration
	WriteTime   time.Duration
}

// CacheInfo tracks cache hits for the raster-bound stages.
type CacheInfo struct {
	DomainHit bool
	FieldHit  bool
}
