package geo

import (
	"math"

	"github.com/ctessum/geom"
)

// MinRingPoints is the smallest number of points that can bound a region
// when the closing edge is implicit.
const MinRingPoints = 4

// Ring is a closed polyline bounding a simple region. The closing edge
// from the last point back to the first is implicit; the first point is
// not required to be stored twice.
type Ring []geom.Point

// Valid reports whether the ring has enough points to bound a region.
func (r Ring) Valid() bool {
	return len(r) >= MinRingPoints
}

// SignedArea returns the shoelace area of the ring: positive for
// counter-clockwise winding, negative for clockwise.
func (r Ring) SignedArea() float64 {
	if len(r) < 3 {
		return 0
	}
	var sum float64
	for i, p := range r {
		q := r[(i+1)%len(r)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// Area returns the absolute enclosed area of the ring.
func (r Ring) Area() float64 {
	return math.Abs(r.SignedArea())
}

// Perimeter returns the total edge length of the ring, including the
// implicit closing edge.
func (r Ring) Perimeter() float64 {
	if len(r) < 2 {
		return 0
	}
	var sum float64
	for i, p := range r {
		q := r[(i+1)%len(r)]
		sum += math.Hypot(q.X-p.X, q.Y-p.Y)
	}
	return sum
}

// Contains reports whether pt lies strictly inside the ring, using the
// even-odd rule.
func (r Ring) Contains(pt geom.Point) bool {
	return pt.Within(r.polygon()) == geom.Inside
}

// First returns the ring's first point. The first point is the
// representative point used for hole-nesting tests.
func (r Ring) First() geom.Point {
	return r[0]
}

// Closed returns the ring's points with the first point repeated at the
// end, the form most external geometry libraries expect.
func (r Ring) Closed() []geom.Point {
	out := make([]geom.Point, 0, len(r)+1)
	out = append(out, r...)
	out = append(out, r[0])
	return out
}

func (r Ring) polygon() geom.Polygon {
	return geom.Polygon{[]geom.Point(r)}
}
