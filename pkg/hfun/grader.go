package hfun

import (
	"context"
	"math"

	"github.com/charmbracelet/log"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/quadtree"

	"github.com/coastmesh/coastmesh/internal/pool"
	"github.com/coastmesh/coastmesh/pkg/errors"
	"github.com/coastmesh/coastmesh/pkg/raster"
)

// invalidSubstitute replaces nodata cells before level slicing so the
// slice never threads through undefined data.
const invalidSubstitute = 1e30

// Options configures a Grader.
type Options struct {
	// HMin/HMax clamp per-cell candidate sizes. Nil leaves that side
	// open; finalization then derives the bound from the graded values.
	HMin *float64
	HMax *float64

	// ChunkSize and Overlap control window iteration, matching the
	// extraction side. Overlap defaults to 2 cells.
	ChunkSize int
	Overlap   int

	// Workers bounds grading parallelism; non-positive uses the CPU count.
	Workers int

	Logger *log.Logger
}

// ValidateAndSetDefaults checks the options and fills defaults in place.
func (o *Options) ValidateAndSetDefaults() error {
	if o.HMin != nil && *o.HMin <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "hmin must be positive, got %v", *o.HMin)
	}
	if o.HMax != nil && o.HMin != nil && *o.HMax < *o.HMin {
		return errors.New(errors.ErrCodeInvalidInput, "hmax %v is below hmin %v", *o.HMax, *o.HMin)
	}
	if o.Overlap == 0 {
		o.Overlap = 2
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return nil
}

// Grader accumulates size constraints over a raster's cells. Constraints
// commute: each one grades its own per-window tiles in parallel, and the
// tiles are merged into the field with an elementwise minimum only after
// every window of the constraint has succeeded, so a failed constraint
// leaves the field untouched.
type Grader struct {
	src     raster.Source
	opts    Options
	windows []raster.Window
	field   *Field
}

// NewGrader creates a grader whose field covers the raster's full extent.
func NewGrader(src raster.Source, opts Options) (*Grader, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, errors.New(errors.ErrCodeTypeMismatch, "size field needs a raster source")
	}

	windows := src.IterWindows(opts.ChunkSize, opts.Overlap)
	width, height := 0, 0
	for _, w := range windows {
		width = max(width, w.Col+w.Width)
		height = max(height, w.Row+w.Height)
	}
	return &Grader{
		src:     src,
		opts:    opts,
		windows: windows,
		field:   newField(width, height),
	}, nil
}

// Field exposes the graded field. Cells no constraint has reached hold
// the unconstrained sentinel until SizeFunction finalizes them.
func (g *Grader) Field() *Field { return g.field }

// AddFeature grades the field against polyline features. Each line is
// resampled at the target size, and every cell receives the distance-based
// candidate clamped into the configured bounds.
func (g *Grader) AddFeature(ctx context.Context, lines []geom.LineString, targetSize, expansionRate float64) error {
	if targetSize <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "target size must be positive, got %v", targetSize)
	}
	if expansionRate < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "expansion rate must not be negative, got %v", expansionRate)
	}

	samples, err := g.resampleAll(ctx, lines, targetSize)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		g.opts.Logger.Info("feature constraint has no geometry, skipping")
		return nil
	}
	g.opts.Logger.Debug("grading feature constraint",
		"samples", len(samples), "size", targetSize, "rate", expansionRate)

	tasks := make([]pool.Task[[]float64], len(g.windows))
	for i, w := range g.windows {
		tasks[i] = func(ctx context.Context) ([]float64, error) {
			return g.gradeWindow(w, samples, targetSize, expansionRate)
		}
	}
	tiles, err := pool.Run(ctx, g.opts.Workers, tasks)
	if err != nil {
		return err
	}

	for i, w := range g.windows {
		g.field.mergeMin(w.Col, w.Row, w.Width, tiles[i])
	}
	return nil
}

// AddContour slices the raster at level and grades the field against the
// resulting lines. A zero target size falls back to the configured hmin.
// A level absent from the data is a logged no-op.
func (g *Grader) AddContour(ctx context.Context, level, targetSize, expansionRate float64) error {
	if targetSize == 0 {
		if g.opts.HMin == nil {
			return errors.New(errors.ErrCodeInvalidInput, "contour constraint needs a target size or a configured hmin")
		}
		targetSize = *g.opts.HMin
	}
	if targetSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "target size must be positive, got %v", targetSize)
	}
	if expansionRate < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "expansion rate must not be negative, got %v", expansionRate)
	}

	var lines []geom.LineString
	for i, w := range g.windows {
		if err := ctx.Err(); err != nil {
			return err
		}
		values, valid, err := g.src.Values(w, 1)
		if err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "read window %+v", w)
		}
		for j, v := range values {
			if !valid[j] || math.IsNaN(v) || math.IsInf(v, 0) {
				values[j] = invalidSubstitute
			}
		}
		found := raster.LevelLines(g.src.X(w), g.src.Y(w), values, level)
		g.opts.Logger.Debug("sliced window", "window", i+1, "total", len(g.windows), "lines", len(found))
		lines = append(lines, found...)
	}

	if len(lines) == 0 {
		g.opts.Logger.Info("level is absent from the raster, skipping", "level", level)
		return nil
	}
	return g.AddFeature(ctx, lines, targetSize, expansionRate)
}

// resampleAll resamples every line at the given step, in parallel, and
// concatenates the sample points.
func (g *Grader) resampleAll(ctx context.Context, lines []geom.LineString, step float64) ([]geom.Point, error) {
	tasks := make([]pool.Task[[]geom.Point], len(lines))
	for i, line := range lines {
		tasks[i] = func(context.Context) ([]geom.Point, error) {
			return resampleLine(line, step), nil
		}
	}
	parts, err := pool.Run(ctx, g.opts.Workers, tasks)
	if err != nil {
		return nil, err
	}

	var samples []geom.Point
	for _, p := range parts {
		samples = append(samples, p...)
	}
	return samples, nil
}

// gradeWindow computes the constraint's candidate tile for one window.
// Geodetic frames are projected into the UTM zone of the window centroid
// so distances come out in meters.
func (g *Grader) gradeWindow(w raster.Window, samples []geom.Point, size, rate float64) ([]float64, error) {
	xs, ys := g.src.X(w), g.src.Y(w)
	if len(xs) == 0 || len(ys) == 0 {
		return make([]float64, w.Cells()), nil
	}

	pts := samples
	var transform proj.Transformer
	if g.src.CRS().Geodetic {
		lon := (xs[0] + xs[len(xs)-1]) / 2
		lat := (ys[0] + ys[len(ys)-1]) / 2
		t, err := newUTMTransform(g.src.CRS().Proj, lon, lat)
		if err != nil {
			return nil, err
		}
		transform = t

		pts = make([]geom.Point, len(samples))
		for i, p := range samples {
			x, y, err := t(p.X, p.Y)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeProjection, err, "project feature sample")
			}
			pts[i] = geom.Point{X: x, Y: y}
		}
	}

	qt := quadtree.New(pointBound(pts))
	for _, p := range pts {
		if err := qt.Add(orb.Point{p.X, p.Y}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "index feature sample")
		}
	}

	tile := make([]float64, w.Cells())
	for r, y := range ys {
		for c, x := range xs {
			cx, cy := x, y
			if transform != nil {
				px, py, err := transform(x, y)
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeProjection, err, "project cell center")
				}
				cx, cy = px, py
			}
			cell := orb.Point{cx, cy}
			dist := planar.Distance(cell, qt.Find(cell).Point())
			tile[r*w.Width+c] = g.clamp(rate*size*dist + size)
		}
	}
	return tile, nil
}

// clamp bounds a candidate size into [hmin, hmax] where configured.
func (g *Grader) clamp(v float64) float64 {
	if g.opts.HMin != nil && v < *g.opts.HMin {
		v = *g.opts.HMin
	}
	if g.opts.HMax != nil && v > *g.opts.HMax {
		v = *g.opts.HMax
	}
	return v
}

// pointBound computes the bounding box of a non-empty point set.
func pointBound(pts []geom.Point) orb.Bound {
	first := orb.Point{pts[0].X, pts[0].Y}
	b := orb.Bound{Min: first, Max: first}
	for _, p := range pts[1:] {
		b = b.Extend(orb.Point{p.X, p.Y})
	}
	return b
}
