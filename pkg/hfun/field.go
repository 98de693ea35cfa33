package hfun

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Field is a grid of maximum allowed local edge lengths, aligned
// one-to-one with the cells of the raster it was created for. Cells
// start at the unconstrained sentinel (+Inf) and are only ever lowered.
type Field struct {
	width  int
	height int
	values []float64
}

// newField creates an unconstrained field.
func newField(width, height int) *Field {
	values := make([]float64, width*height)
	for i := range values {
		values[i] = math.Inf(1)
	}
	return &Field{width: width, height: height, values: values}
}

// Width returns the number of columns.
func (f *Field) Width() int { return f.width }

// Height returns the number of rows.
func (f *Field) Height() int { return f.height }

// At returns the value of the cell at (col, row).
func (f *Field) At(col, row int) float64 {
	return f.values[row*f.width+col]
}

// Values returns the backing row-major values. The slice is shared, not
// copied; treat it as read-only.
func (f *Field) Values() []float64 { return f.values }

// Min returns the smallest cell value.
func (f *Field) Min() float64 { return floats.Min(f.values) }

// Max returns the largest cell value.
func (f *Field) Max() float64 { return floats.Max(f.values) }

// mergeMin lowers the cells covered by the window to the elementwise
// minimum of their current value and the tile's. The tile is row-major
// with the window's shape.
func (f *Field) mergeMin(col, row, width int, tile []float64) {
	rows := len(tile) / width
	for r := 0; r < rows; r++ {
		base := (row+r)*f.width + col
		trow := tile[r*width : (r+1)*width]
		for c, v := range trow {
			if v < f.values[base+c] {
				f.values[base+c] = v
			}
		}
	}
}
