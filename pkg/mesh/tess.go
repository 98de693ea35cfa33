package mesh

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/ctessum/geom"
	libtess2 "github.com/hajimehoshi/go-libtess2"

	"github.com/coastmesh/coastmesh/pkg/errors"
	"github.com/coastmesh/coastmesh/pkg/geo"
	"github.com/coastmesh/coastmesh/pkg/hfun"
	"github.com/coastmesh/coastmesh/pkg/raster"
)

// TessEngine is the built-in Engine. It tessellates the domain polygons
// with an odd-winding sweep, so holes fall out of the ring nesting
// without explicit markers. It honors the boundary shape only; the size
// field controls nothing here and tessellated coordinates carry single
// precision, so meshes meant for production runs should come from a
// grading engine instead.
type TessEngine struct {
	Logger *log.Logger
}

// Generate tessellates the boundary into a triangular mesh.
func (e *TessEngine) Generate(ctx context.Context, boundary geo.MultiPolygon, size *hfun.SizeFunction, opts EngineOptions) (*Mesh, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(boundary) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "domain boundary is empty")
	}

	logger := e.Logger
	if logger == nil {
		logger = log.Default()
	}
	if size != nil {
		logger.Debug("tessellation ignores the size field", "cells", len(size.Values))
	}

	var contours []libtess2.Contour
	for _, p := range boundary {
		for _, ring := range p.Rings() {
			contours = append(contours, tessContour(ring))
		}
	}
	logger.Debug("tessellating domain", "polygons", len(boundary), "contours", len(contours))

	elements, vertices, err := libtess2.Tesselate(contours, libtess2.WindingRuleOdd)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "tessellate domain")
	}

	points := make([]geom.Point, len(vertices))
	for i, v := range vertices {
		points[i] = geom.Point{X: float64(v.X), Y: float64(v.Y)}
	}
	tris := make([][3]int, len(elements)/3)
	for i := range tris {
		tris[i] = [3]int{elements[3*i], elements[3*i+1], elements[3*i+2]}
	}

	var crs raster.CRS
	if size != nil {
		crs = size.CRS
	}
	return New(points, tris, crs)
}

func tessContour(ring geo.Ring) libtess2.Contour {
	out := make(libtess2.Contour, len(ring))
	for i, p := range ring {
		out[i] = libtess2.Vertex{X: float32(p.X), Y: float32(p.Y)}
	}
	return out
}
