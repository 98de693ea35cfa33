package mesh

import (
	"context"

	"github.com/coastmesh/coastmesh/pkg/geo"
	"github.com/coastmesh/coastmesh/pkg/hfun"
)

// EngineOptions tune mesh generation. Zero MinSize/MaxSize defer to the
// size field's bounds.
type EngineOptions struct {
	MinSize  float64
	MaxSize  float64
	Dims     int
	Optimize bool
}

// Engine turns a domain boundary and a size field into a triangular
// mesh. The size field may be nil for engines that do not grade.
type Engine interface {
	Generate(ctx context.Context, boundary geo.MultiPolygon, size *hfun.SizeFunction, opts EngineOptions) (*Mesh, error)
}
