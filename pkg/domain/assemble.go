package domain

import (
	"sort"

	"github.com/coastmesh/coastmesh/pkg/geo"
)

// Assemble turns an unordered collection of closed rings into a nested
// polygon set.
//
// Degenerate rings are discarded. The remaining rings are sorted by
// enclosed area, descending (stable, so extraction order breaks ties).
// The largest ring becomes a polygon's outer boundary and every
// remaining ring whose first point lies inside it becomes one of its
// holes; the process repeats on the rings left over, so disjoint regions
// become separate polygons. Hole rings are tested against the outer ring
// only; mutual hole disjointness is not verified.
func Assemble(rings []geo.Ring) geo.MultiPolygon {
	pool := make([]geo.Ring, 0, len(rings))
	for _, r := range rings {
		if r.Valid() {
			pool = append(pool, r)
		}
	}
	if len(pool) == 0 {
		return nil
	}

	// Common case: a single coherent region needs no containment tests.
	if len(pool) == 1 {
		return geo.MultiPolygon{{Outer: pool[0]}}
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Area() > pool[j].Area()
	})

	var out geo.MultiPolygon
	for len(pool) > 0 {
		outer := pool[0]
		pool = pool[1:]

		var holes []geo.Ring
		rest := pool[:0]
		for _, r := range pool {
			if outer.Contains(r.First()) {
				holes = append(holes, r)
			} else {
				rest = append(rest, r)
			}
		}
		pool = rest

		out = append(out, geo.Polygon{Outer: outer, Holes: holes})
	}
	return out
}
