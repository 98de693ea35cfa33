package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ctessum/geom"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/coastmesh/coastmesh/pkg/cache"
	"github.com/coastmesh/coastmesh/pkg/domain"
	"github.com/coastmesh/coastmesh/pkg/errors"
	"github.com/coastmesh/coastmesh/pkg/geo"
	"github.com/coastmesh/coastmesh/pkg/hfun"
	"github.com/coastmesh/coastmesh/pkg/httputil"
	"github.com/coastmesh/coastmesh/pkg/mesh"
	"github.com/coastmesh/coastmesh/pkg/observability"
	"github.com/coastmesh/coastmesh/pkg/raster"
)

// Runner executes pipeline stages with caching. It is stateless apart
// from the cache, engine and logger, so one Runner can serve several
// runs with different options.
type Runner struct {
	Cache  cache.Cache
	Engine mesh.Engine
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil engine
// picks the built-in tessellation engine.
func NewRunner(c cache.Cache, engine mesh.Engine, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	if engine == nil {
		engine = &mesh.TessEngine{Logger: logger}
	}
	return &Runner{Cache: c, Engine: engine, Logger: logger}
}

// Execute runs extract → grade → mesh → boundaries → write.
func (r *Runner) Execute(ctx context.Context, src raster.Source, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	result := &Result{}

	extractStart := time.Now()
	observability.Stages().OnStageStart(ctx, "extract")
	mp, domainHit, err := r.ExtractDomainWithCacheInfo(ctx, src, opts)
	observability.Stages().OnStageComplete(ctx, "extract", time.Since(extractStart), err)
	if err != nil {
		return nil, err
	}
	result.Domain = mp
	result.Stats.ExtractTime = time.Since(extractStart)
	result.Stats.PolygonCount = len(mp)
	result.CacheInfo.DomainHit = domainHit
	r.Logger.Info("extracted domain",
		"polygons", len(mp),
		"rings", mp.RingCount(),
		"cached", domainHit,
		"duration", result.Stats.ExtractTime)

	if opts.hasConstraints() {
		gradeStart := time.Now()
		observability.Stages().OnStageStart(ctx, "grade")
		sf, fieldHit, err := r.GradeFieldWithCacheInfo(ctx, src, opts)
		observability.Stages().OnStageComplete(ctx, "grade", time.Since(gradeStart), err)
		if err != nil {
			return nil, err
		}
		result.SizeFunction = sf
		result.Stats.GradeTime = time.Since(gradeStart)
		result.CacheInfo.FieldHit = fieldHit
		r.Logger.Info("graded size field",
			"hmin", sf.HMin,
			"hmax", sf.HMax,
			"cached", fieldHit,
			"duration", result.Stats.GradeTime)
	}

	meshStart := time.Now()
	observability.Stages().OnStageStart(ctx, "mesh")
	m, err := r.generateMesh(ctx, src, result.Domain, result.SizeFunction, opts)
	observability.Stages().OnStageComplete(ctx, "mesh", time.Since(meshStart), err)
	if err != nil {
		return nil, err
	}
	result.Mesh = m
	result.Stats.MeshTime = time.Since(meshStart)
	result.Stats.VertexCount = m.NumVertices()
	result.Stats.ElementCount = m.NumElements()
	r.Logger.Info("generated mesh",
		"vertices", m.NumVertices(),
		"elements", m.NumElements(),
		"duration", result.Stats.MeshTime)

	b, err := DeriveBoundaries(m)
	if err != nil {
		return nil, err
	}
	result.Boundaries = b

	if opts.Output != "" {
		writeStart := time.Now()
		observability.Stages().OnStageStart(ctx, "write")
		g := &mesh.Gr3{Description: opts.Description, Mesh: m, Boundaries: b}
		err := g.Write(opts.Output, opts.Overwrite)
		observability.Stages().OnStageComplete(ctx, "write", time.Since(writeStart), err)
		if err != nil {
			return nil, err
		}
		result.Stats.WriteTime = time.Since(writeStart)
		r.Logger.Info("wrote mesh", "path", opts.Output, "duration", result.Stats.WriteTime)
	}

	return result, nil
}

// generateMesh triangulates the domain and fills the node values from
// the source raster.
func (r *Runner) generateMesh(ctx context.Context, src raster.Source, boundary geo.MultiPolygon, sf *hfun.SizeFunction, opts Options) (*mesh.Mesh, error) {
	m, err := r.Engine.Generate(ctx, boundary, sf, mesh.EngineOptions{
		MinSize:  opts.Engine.MinSize,
		MaxSize:  opts.Engine.MaxSize,
		Optimize: opts.Engine.Optimize,
	})
	if err != nil {
		return nil, err
	}
	if err := m.Interpolate(src); err != nil {
		return nil, err
	}
	if err := m.FixInvalid(); err != nil {
		return nil, err
	}
	return m, nil
}

// ExtractDomainWithCacheInfo extracts the domain boundary with caching
// and reports whether the result came from the cache.
func (r *Runner) ExtractDomainWithCacheInfo(ctx context.Context, src raster.Source, opts Options) (geo.MultiPolygon, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	key := ""
	if opts.SourceTag != "" {
		key = cache.DomainKey(opts.SourceTag, opts.ZMin, opts.ZMax, opts.ChunkSize, opts.Overlap)
	}

	if key != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var mp geo.MultiPolygon
			if err := json.Unmarshal(data, &mp); err == nil {
				observability.Cache().OnCacheHit(ctx, "domain")
				return mp, true, nil
			}
			// Corrupt entry, fall through to recompute.
		}
		observability.Cache().OnCacheMiss(ctx, "domain")
	}

	ex, err := domain.NewExtractor(domain.RasterSource(src), domain.Options{
		ZMin:      opts.ZMin,
		ZMax:      opts.ZMax,
		ChunkSize: opts.ChunkSize,
		Overlap:   opts.Overlap,
		Logger:    opts.Logger,
	})
	if err != nil {
		return nil, false, err
	}
	mp, err := ex.MultiPolygon(ctx)
	if err != nil {
		return nil, false, err
	}

	if key != "" {
		if data, err := json.Marshal(mp); err == nil {
			_ = r.Cache.Set(ctx, key, data, TTLDomain)
			observability.Cache().OnCacheSet(ctx, "domain", len(data))
		}
	}
	return mp, false, nil
}

// ExtractDomain extracts the domain boundary, discarding cache info.
func (r *Runner) ExtractDomain(ctx context.Context, src raster.Source, opts Options) (geo.MultiPolygon, error) {
	mp, _, err := r.ExtractDomainWithCacheInfo(ctx, src, opts)
	return mp, err
}

// GradeFieldWithCacheInfo grades the size field against the configured
// constraints and finalizes it, with caching.
func (r *Runner) GradeFieldWithCacheInfo(ctx context.Context, src raster.Source, opts Options) (*hfun.SizeFunction, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	key := ""
	if opts.SourceTag != "" {
		parts := make([]any, 0, len(opts.Contours)+len(opts.Features))
		for _, c := range opts.Contours {
			parts = append(parts, c)
		}
		for _, f := range opts.Features {
			parts = append(parts, f)
		}
		key = cache.FieldKey(opts.SourceTag, opts.HMin, opts.HMax, parts...)
	}

	if key != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var sf hfun.SizeFunction
			if err := json.Unmarshal(data, &sf); err == nil {
				observability.Cache().OnCacheHit(ctx, "hfun")
				return &sf, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "hfun")
	}

	g, err := hfun.NewGrader(src, hfun.Options{
		HMin:      opts.HMin,
		HMax:      opts.HMax,
		ChunkSize: opts.ChunkSize,
		Overlap:   opts.Overlap,
		Workers:   opts.Workers,
		Logger:    opts.Logger,
	})
	if err != nil {
		return nil, false, err
	}
	for _, c := range opts.Contours {
		if err := g.AddContour(ctx, c.Level, c.TargetSize, c.ExpansionRate); err != nil {
			return nil, false, err
		}
	}
	for _, f := range opts.Features {
		lines, err := LoadFeatureLines(ctx, f.Path)
		if err != nil {
			return nil, false, err
		}
		if err := g.AddFeature(ctx, lines, f.TargetSize, f.ExpansionRate); err != nil {
			return nil, false, err
		}
	}

	sf, err := g.SizeFunction()
	if err != nil {
		return nil, false, err
	}

	if key != "" {
		if data, err := json.Marshal(sf); err == nil {
			_ = r.Cache.Set(ctx, key, data, TTLField)
			observability.Cache().OnCacheSet(ctx, "hfun", len(data))
		}
	}
	return sf, false, nil
}

// GradeField grades the size field, discarding cache info.
func (r *Runner) GradeField(ctx context.Context, src raster.Source, opts Options) (*hfun.SizeFunction, error) {
	sf, _, err := r.GradeFieldWithCacheInfo(ctx, src, opts)
	return sf, err
}

// DeriveBoundaries classifies the mesh's boundary loops into groups: the
// outer loop becomes the ocean boundary and every inner loop an island
// (inner, ibtype 1).
func DeriveBoundaries(m *mesh.Mesh) (*mesh.Boundaries, error) {
	loops, err := m.BoundaryLoops()
	if err != nil {
		return nil, err
	}

	b := mesh.NewBoundaries()
	if err := b.Add(mesh.BoundaryGroup{
		Name:  "1",
		Type:  mesh.BoundaryOcean,
		Nodes: loops.Outer,
	}); err != nil {
		return nil, err
	}
	for i, loop := range loops.Inner {
		if err := b.Add(mesh.BoundaryGroup{
			Name:   "inner_" + strconv.Itoa(i+1),
			Type:   mesh.BoundaryInner,
			IBType: 1,
			Nodes:  loop,
		}); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// LoadFeatureLines reads the line geometries of a GeoJSON feature
// collection from a local path or an http(s) URL. Non-line geometries
// are ignored.
func LoadFeatureLines(ctx context.Context, path string) ([]geom.LineString, error) {
	var data []byte
	var err error
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		data, err = httputil.Fetch(ctx, path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "fetch %s", path)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
			}
			return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
		}
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}

	var lines []geom.LineString
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.LineString:
			lines = append(lines, lineString(g))
		case orb.MultiLineString:
			for _, ls := range g {
				lines = append(lines, lineString(ls))
			}
		}
	}
	if len(lines) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s contains no line features", path)
	}
	return lines, nil
}

func lineString(ls orb.LineString) geom.LineString {
	out := make(geom.LineString, len(ls))
	for i, p := range ls {
		out[i] = geom.Point{X: p[0], Y: p[1]}
	}
	return out
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
