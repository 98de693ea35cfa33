package domain

import (
	"context"
	"math"

	"github.com/charmbracelet/log"
	"github.com/ctessum/geom"

	"github.com/coastmesh/coastmesh/pkg/errors"
	"github.com/coastmesh/coastmesh/pkg/geo"
	"github.com/coastmesh/coastmesh/pkg/raster"
)

// SourceKind tags the supported domain source variants.
type SourceKind int

// Supported source kinds. Each kind carries only the fields it needs;
// adding a source kind means adding a variant here.
const (
	SourceUnknown SourceKind = iota
	SourceRaster
)

// Source is a tagged union over domain source kinds.
type Source struct {
	Kind   SourceKind
	Raster raster.Source
}

// RasterSource wraps a windowed raster as a domain source.
func RasterSource(src raster.Source) Source {
	return Source{Kind: SourceRaster, Raster: src}
}

// Options configures domain extraction.
type Options struct {
	// ZMin/ZMax bound the values considered inside the domain. Nil means
	// unbounded on that side.
	ZMin *float64
	ZMax *float64

	// ChunkSize and Overlap control window iteration. Overlap defaults to
	// 2 cells, enough to keep contours continuous across seams.
	ChunkSize int
	Overlap   int

	// Ellipsoid selects spherical/ellipsoidal meshing. Not implemented;
	// any non-empty value is rejected.
	Ellipsoid string

	Logger *log.Logger
}

// ValidateAndSetDefaults checks the options and fills defaults in place.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Ellipsoid != "" {
		return errors.New(errors.ErrCodeUnsupported, "ellipsoidal mesh domains are not supported")
	}
	if o.Overlap == 0 {
		o.Overlap = 2
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return nil
}

// Extractor derives the meshing domain boundary from a source.
type Extractor struct {
	src  raster.Source
	opts Options
}

// NewExtractor creates an extractor for the given source. A source of an
// unknown kind, or a raster variant without a raster, fails immediately
// with a type-mismatch error and creates no state.
func NewExtractor(src Source, opts Options) (*Extractor, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	switch src.Kind {
	case SourceRaster:
		if src.Raster == nil {
			return nil, errors.New(errors.ErrCodeTypeMismatch, "raster source carries no raster")
		}
	default:
		return nil, errors.New(errors.ErrCodeTypeMismatch, "source kind %d is not supported", src.Kind)
	}
	return &Extractor{src: src.Raster, opts: opts}, nil
}

// MultiPolygon extracts the domain boundary: per window, it builds the
// inside/outside mask, contours it, nests the rings into polygons, and
// finally dissolves all window polygons into one multipolygon.
func (e *Extractor) MultiPolygon(ctx context.Context) (geo.MultiPolygon, error) {
	windows := e.src.IterWindows(e.opts.ChunkSize, e.opts.Overlap)
	logger := e.opts.Logger

	var collected []geo.Polygon
	for i, w := range windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Debug("extracting window", "window", i+1, "total", len(windows))

		values, valid, err := e.src.Values(w, 1)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "read window %+v", w)
		}

		mask, ok := e.mask(values, valid)
		if !ok {
			logger.Info("window has non-finite values, skipping", "window", i+1)
			continue
		}
		if allOutside(mask) {
			continue
		}

		rings := raster.MaskRings(e.src.X(w), e.src.Y(w), mask)
		collected = append(collected, Assemble(rings)...)
	}

	logger.Debug("dissolving window polygons", "count", len(collected))
	return dissolve(collected), nil
}

// mask classifies each cell as inside (+1) or outside (-1). Cells marked
// invalid by the source are outside; finite values are compared against
// the zmin/zmax bounds. Returns ok=false when a comparison cannot be
// evaluated because the data contains non-finite values.
func (e *Extractor) mask(values []float64, valid []bool) ([]float64, bool) {
	mask := make([]float64, len(values))
	for i, v := range values {
		if !valid[i] {
			mask[i] = -1
			continue
		}
		if math.IsInf(v, 0) {
			return nil, false
		}
		mask[i] = 1
		if e.opts.ZMin != nil && v < *e.opts.ZMin {
			mask[i] = -1
		}
		if e.opts.ZMax != nil && v > *e.opts.ZMax {
			mask[i] = -1
		}
	}
	return mask, true
}

func allOutside(mask []float64) bool {
	for _, v := range mask {
		if v > 0 {
			return false
		}
	}
	return true
}

// dissolve unions per-window polygons into one multipolygon. The union
// output is a flat ring set, so hole nesting is re-derived with Assemble.
func dissolve(polys []geo.Polygon) geo.MultiPolygon {
	switch len(polys) {
	case 0:
		return nil
	case 1:
		return geo.MultiPolygon{polys[0]}
	}

	var acc geom.Polygonal = polys[0].Geom()
	for _, p := range polys[1:] {
		acc = acc.Union(p.Geom())
	}

	var rings []geo.Ring
	for _, poly := range acc.Polygons() {
		for _, contour := range poly {
			rings = append(rings, openRing(contour))
		}
	}
	return Assemble(rings)
}

// openRing converts a closed contour to implicit-closure ring form.
func openRing(contour []geom.Point) geo.Ring {
	if len(contour) > 1 && contour[0] == contour[len(contour)-1] {
		contour = contour[:len(contour)-1]
	}
	return geo.Ring(contour)
}
