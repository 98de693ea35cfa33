package raster

import (
	"math"

	"github.com/coastmesh/coastmesh/pkg/errors"
)

// Grid is an in-memory single-band raster. Nodata cells are NaN.
// It implements [Source] and is the working representation for tests and
// for callers that already hold their elevation data.
type Grid struct {
	width  int
	height int
	xs     []float64 // cell-center x per column
	ys     []float64 // cell-center y per row, row 0 first
	values []float64 // row-major
	crs    CRS
}

// NewGrid creates a grid from explicit cell-center coordinate arrays and
// row-major values. len(xs)*len(ys) must equal len(values).
func NewGrid(xs, ys, values []float64, crs CRS) (*Grid, error) {
	if len(xs) == 0 || len(ys) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty coordinate axes")
	}
	if len(xs)*len(ys) != len(values) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"have %d values for a %d x %d grid", len(values), len(xs), len(ys))
	}
	return &Grid{
		width:  len(xs),
		height: len(ys),
		xs:     xs,
		ys:     ys,
		values: values,
		crs:    crs,
	}, nil
}

// UniformGrid creates a width×height grid with regular cell spacing.
// (x0, y0) is the center of the top-left cell; dy is applied downward,
// matching row-major storage with the top row first. Values start as NaN.
func UniformGrid(x0, y0, dx, dy float64, width, height int, crs CRS) *Grid {
	xs := make([]float64, width)
	for i := range xs {
		xs[i] = x0 + float64(i)*dx
	}
	ys := make([]float64, height)
	for j := range ys {
		ys[j] = y0 - float64(j)*dy
	}
	values := make([]float64, width*height)
	for i := range values {
		values[i] = math.NaN()
	}
	return &Grid{width: width, height: height, xs: xs, ys: ys, values: values, crs: crs}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Set assigns the value of the cell at (col, row).
func (g *Grid) Set(col, row int, v float64) {
	g.values[row*g.width+col] = v
}

// At returns the value of the cell at (col, row).
func (g *Grid) At(col, row int) float64 {
	return g.values[row*g.width+col]
}

// Fill assigns v to every cell.
func (g *Grid) Fill(v float64) {
	for i := range g.values {
		g.values[i] = v
	}
}

// IterWindows implements [Source].
func (g *Grid) IterWindows(chunkSize, overlap int) []Window {
	return iterWindows(g.width, g.height, chunkSize, overlap)
}

// Values implements [Source]. The only band is band 1.
func (g *Grid) Values(w Window, band int) ([]float64, []bool, error) {
	if band != 1 {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "grid has a single band, got band %d", band)
	}
	if w.Col < 0 || w.Row < 0 || w.Col+w.Width > g.width || w.Row+w.Height > g.height {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "window %+v outside %dx%d grid", w, g.width, g.height)
	}
	values := make([]float64, 0, w.Cells())
	valid := make([]bool, 0, w.Cells())
	for row := w.Row; row < w.Row+w.Height; row++ {
		base := row * g.width
		for col := w.Col; col < w.Col+w.Width; col++ {
			v := g.values[base+col]
			values = append(values, v)
			valid = append(valid, !math.IsNaN(v))
		}
	}
	return values, valid, nil
}

// X implements [Source].
func (g *Grid) X(w Window) []float64 {
	out := make([]float64, w.Width)
	copy(out, g.xs[w.Col:w.Col+w.Width])
	return out
}

// Y implements [Source].
func (g *Grid) Y(w Window) []float64 {
	out := make([]float64, w.Height)
	copy(out, g.ys[w.Row:w.Row+w.Height])
	return out
}

// CRS implements [Source].
func (g *Grid) CRS() CRS { return g.crs }

var _ Source = (*Grid)(nil)
