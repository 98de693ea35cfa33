package raster

import (
	"math"

	"github.com/ctessum/geom"
	"github.com/fogleman/contourmap"

	"github.com/coastmesh/coastmesh/pkg/geo"
)

// MaskRings extracts the closed contour rings of an inside/outside mask
// at level zero. mask holds +1 for inside and -1 for outside cells, in
// row-major window order. The mask is padded with an outside border
// before contouring so every region closes, including those touching the
// window edge. Vertices are mapped into world coordinates through the
// window's cell-center arrays; rings that end up degenerate are dropped.
func MaskRings(xs, ys, mask []float64) []geo.Ring {
	w, h := len(xs), len(ys)
	if w == 0 || h == 0 || len(mask) != w*h {
		return nil
	}

	padded := pad(mask, w, h, -1)
	m := contourmap.FromFloat64s(w+2, h+2, padded)

	var rings []geo.Ring
	for _, c := range m.Contours(0) {
		ring := make(geo.Ring, 0, len(c))
		for _, p := range c {
			// Undo the one-cell pad before interpolating.
			ring = append(ring, geom.Point{
				X: interpCoord(xs, p.X-1),
				Y: interpCoord(ys, p.Y-1),
			})
		}
		ring = dropClosingPoint(ring)
		if ring.Valid() {
			rings = append(rings, ring)
		}
	}
	return rings
}

// LevelLines slices the window's values at level, returning polylines in
// world coordinates. Lines are open in general; a level absent from the
// data yields no lines. Invalid cells must be substituted by the caller
// before the slice (NaN input produces no stable contour).
func LevelLines(xs, ys, values []float64, level float64) []geom.LineString {
	w, h := len(xs), len(ys)
	if w == 0 || h == 0 || len(values) != w*h {
		return nil
	}

	m := contourmap.FromFloat64s(w, h, values)

	var lines []geom.LineString
	for _, c := range m.Contours(level) {
		if len(c) < 2 {
			continue
		}
		line := make(geom.LineString, 0, len(c))
		for _, p := range c {
			line = append(line, geom.Point{
				X: interpCoord(xs, p.X),
				Y: interpCoord(ys, p.Y),
			})
		}
		lines = append(lines, line)
	}
	return lines
}

// pad surrounds a w×h row-major field with a one-cell border of fill.
func pad(field []float64, w, h int, fill float64) []float64 {
	pw, ph := w+2, h+2
	out := make([]float64, pw*ph)
	for i := range out {
		out[i] = fill
	}
	for row := 0; row < h; row++ {
		copy(out[(row+1)*pw+1:(row+1)*pw+1+w], field[row*w:(row+1)*w])
	}
	return out
}

// interpCoord maps a fractional grid index into world coordinates by
// linear interpolation between adjacent cell centers, clamped to the
// window extent.
func interpCoord(coords []float64, t float64) float64 {
	if t <= 0 {
		return coords[0]
	}
	last := float64(len(coords) - 1)
	if t >= last {
		return coords[len(coords)-1]
	}
	i := int(math.Floor(t))
	frac := t - float64(i)
	return coords[i] + frac*(coords[i+1]-coords[i])
}

// dropClosingPoint removes a duplicated terminal point so rings store the
// implicit-closure form.
func dropClosingPoint(r geo.Ring) geo.Ring {
	if len(r) > 1 && r[0] == r[len(r)-1] {
		return r[:len(r)-1]
	}
	return r
}
