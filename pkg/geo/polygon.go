package geo

import (
	"github.com/ctessum/geom"

	"github.com/coastmesh/coastmesh/pkg/errors"
)

// Polygon is one outer ring plus zero or more hole rings. Values are
// immutable after construction.
type Polygon struct {
	Outer Ring
	Holes []Ring
}

// NewPolygon builds a polygon from an outer ring and optional holes.
// Every hole's representative point must lie strictly inside the outer
// ring. Holes are not checked against each other.
func NewPolygon(outer Ring, holes ...Ring) (Polygon, error) {
	if !outer.Valid() {
		return Polygon{}, errors.New(errors.ErrCodeInvalidGeometry,
			"outer ring has %d points, need at least %d", len(outer), MinRingPoints)
	}
	for i, h := range holes {
		if !h.Valid() {
			return Polygon{}, errors.New(errors.ErrCodeInvalidGeometry,
				"hole %d has %d points, need at least %d", i, len(h), MinRingPoints)
		}
		if !outer.Contains(h.First()) {
			return Polygon{}, errors.New(errors.ErrCodeInvalidGeometry,
				"hole %d representative point %v lies outside the outer ring", i, h.First())
		}
	}
	return Polygon{Outer: outer, Holes: holes}, nil
}

// Area returns the outer ring area. Hole areas are not subtracted; the
// caller decides whether net area is meaningful for its use.
func (p Polygon) Area() float64 {
	return p.Outer.Area()
}

// Rings returns the outer ring followed by the holes.
func (p Polygon) Rings() []Ring {
	out := make([]Ring, 0, 1+len(p.Holes))
	out = append(out, p.Outer)
	out = append(out, p.Holes...)
	return out
}

// Geom converts the polygon to its ctessum/geom representation with
// closed rings.
func (p Polygon) Geom() geom.Polygon {
	out := make(geom.Polygon, 0, 1+len(p.Holes))
	out = append(out, p.Outer.Closed())
	for _, h := range p.Holes {
		out = append(out, h.Closed())
	}
	return out
}

// MultiPolygon is a set of polygons with pairwise non-overlapping outer
// rings. Disjointness is guaranteed by construction from disjoint
// sublevel-set regions and is not re-verified here.
type MultiPolygon []Polygon

// Geom converts the multipolygon to its ctessum/geom representation.
func (mp MultiPolygon) Geom() geom.MultiPolygon {
	out := make(geom.MultiPolygon, len(mp))
	for i, p := range mp {
		out[i] = p.Geom()
	}
	return out
}

// RingCount returns the total number of rings, outers and holes.
func (mp MultiPolygon) RingCount() int {
	n := 0
	for _, p := range mp {
		n += 1 + len(p.Holes)
	}
	return n
}
