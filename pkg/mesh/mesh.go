package mesh

import (
	"math"
	"sort"

	"github.com/ctessum/geom"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"

	"github.com/coastmesh/coastmesh/pkg/errors"
	"github.com/coastmesh/coastmesh/pkg/raster"
)

// Mesh is an unstructured triangular mesh. Vertex and element identity
// is insertion order; ids become 1-based only at serialization. Values
// are per-vertex scalars (typically bathymetric depth) and default to
// NaN until set or interpolated.
type Mesh struct {
	vertices   []geom.Point
	elements   [][3]int
	values     []float64
	attributes map[string][]float64
	crs        raster.CRS
}

// New creates a mesh and validates the element table against the vertex
// count. Elements must reference three distinct existing vertices.
func New(vertices []geom.Point, elements [][3]int, crs raster.CRS) (*Mesh, error) {
	for i, e := range elements {
		for _, v := range e {
			if v < 0 || v >= len(vertices) {
				return nil, errors.New(errors.ErrCodeInvalidInput,
					"element %d references vertex %d, mesh has %d vertices", i, v, len(vertices))
			}
		}
		if e[0] == e[1] || e[1] == e[2] || e[0] == e[2] {
			return nil, errors.New(errors.ErrCodeInvalidGeometry,
				"element %d is degenerate: %v", i, e)
		}
	}

	values := make([]float64, len(vertices))
	for i := range values {
		values[i] = math.NaN()
	}
	return &Mesh{vertices: vertices, elements: elements, values: values, crs: crs}, nil
}

// Vertices returns the vertex coordinates in insertion order.
func (m *Mesh) Vertices() []geom.Point { return m.vertices }

// Elements returns the 3-node element table.
func (m *Mesh) Elements() [][3]int { return m.elements }

// Values returns the per-vertex values. Unset entries are NaN.
func (m *Mesh) Values() []float64 { return m.values }

// CRS reports the mesh's coordinate frame.
func (m *Mesh) CRS() raster.CRS { return m.crs }

// NumVertices returns the vertex count.
func (m *Mesh) NumVertices() int { return len(m.vertices) }

// NumElements returns the element count.
func (m *Mesh) NumElements() int { return len(m.elements) }

// SetValues replaces the per-vertex values. The slice must match the
// vertex count exactly.
func (m *Mesh) SetValues(values []float64) error {
	if len(values) != len(m.vertices) {
		return errors.New(errors.ErrCodeInvalidInput,
			"got %d values for %d vertices", len(values), len(m.vertices))
	}
	m.values = values
	return nil
}

// HasInvalid reports whether any vertex value is NaN.
func (m *Mesh) HasInvalid() bool {
	for _, v := range m.values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// FixInvalid fills NaN vertex values from the nearest vertex that has a
// valid one. Fails when the mesh has no valid values at all.
func (m *Mesh) FixInvalid() error {
	if !m.HasInvalid() {
		return nil
	}

	var valid []int
	for i, v := range m.values {
		if !math.IsNaN(v) {
			valid = append(valid, i)
		}
	}
	if len(valid) == 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"mesh has no valid values to fill from")
	}

	qt := quadtree.New(vertexBound(m.vertices, valid))
	for _, i := range valid {
		if err := qt.Add(vertexRef{pt: orb.Point{m.vertices[i].X, m.vertices[i].Y}, idx: i}); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "index vertex %d", i)
		}
	}

	for i, v := range m.values {
		if !math.IsNaN(v) {
			continue
		}
		nearest := qt.Find(orb.Point{m.vertices[i].X, m.vertices[i].Y})
		m.values[i] = m.values[nearest.(vertexRef).idx]
	}
	return nil
}

// Interpolate samples the raster's first band at every vertex inside the
// raster extent, nearest cell wins. Vertices outside the extent keep
// their current value.
func (m *Mesh) Interpolate(src raster.Source) error {
	windows := src.IterWindows(0, 0)
	if len(windows) != 1 {
		return errors.New(errors.ErrCodeInternal, "full-extent iteration produced %d windows", len(windows))
	}
	w := windows[0]

	values, valid, err := src.Values(w, 1)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "read raster for interpolation")
	}
	xs, ys := src.X(w), src.Y(w)
	if len(xs) == 0 || len(ys) == 0 {
		return nil
	}

	for i, p := range m.vertices {
		col, ok := nearestIndex(xs, p.X)
		if !ok {
			continue
		}
		row, ok := nearestIndex(ys, p.Y)
		if !ok {
			continue
		}
		if j := row*w.Width + col; valid[j] {
			m.values[i] = values[j]
		}
	}
	return nil
}

// nearestIndex locates the cell-center index closest to v. Coordinate
// arrays may ascend or descend; v more than one cell outside the extent
// reports no index.
func nearestIndex(coords []float64, v float64) (int, bool) {
	n := len(coords)
	asc := coords[0] <= coords[n-1]
	pos := sort.Search(n, func(i int) bool {
		if asc {
			return coords[i] >= v
		}
		return coords[i] <= v
	})

	best, bestDist := -1, math.Inf(1)
	for _, i := range []int{pos - 1, pos} {
		if i < 0 || i >= n {
			continue
		}
		if d := math.Abs(coords[i] - v); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return 0, false
	}

	// Reject vertices farther than one cell pitch from the grid.
	if n > 1 {
		pitch := math.Abs(coords[1] - coords[0])
		if bestDist > pitch {
			return 0, false
		}
	}
	return best, true
}

// vertexRef points a spatial index entry back at its vertex.
type vertexRef struct {
	pt  orb.Point
	idx int
}

func (v vertexRef) Point() orb.Point { return v.pt }

func vertexBound(vertices []geom.Point, idxs []int) orb.Bound {
	first := orb.Point{vertices[idxs[0]].X, vertices[idxs[0]].Y}
	b := orb.Bound{Min: first, Max: first}
	for _, i := range idxs[1:] {
		b = b.Extend(orb.Point{vertices[i].X, vertices[i].Y})
	}
	return b
}
