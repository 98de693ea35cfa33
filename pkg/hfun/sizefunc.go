package hfun

import (
	"math"

	"github.com/coastmesh/coastmesh/pkg/errors"
	"github.com/coastmesh/coastmesh/pkg/raster"
)

// SizeFunction is a finalized size field in the layout mesh engines
// consume: ascending x and y cell-center coordinates with the row-major
// values flipped to match the ascending y axis.
type SizeFunction struct {
	X      []float64
	Y      []float64
	Values []float64
	HMin   float64
	HMax   float64
	CRS    raster.CRS
}

// At returns the value of the cell at (col, row) in the ascending-y frame.
func (s *SizeFunction) At(col, row int) float64 {
	return s.Values[row*len(s.X)+col]
}

// SizeFunction finalizes the graded field. Cells no constraint reached
// are filled with the upper bound, taken from the options or from the
// largest graded value. Windowed graders cannot be finalized because the
// overlapping tiles have no single coordinate array.
func (g *Grader) SizeFunction() (*SizeFunction, error) {
	if len(g.windows) != 1 {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"windowed size fields cannot be finalized, grade with chunking disabled")
	}

	hmin, hmax, ok := g.finalBounds()
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"size field has no constraints and no explicit bounds")
	}

	w := g.windows[0]
	xs, ys := g.src.X(w), g.src.Y(w)
	width, height := g.field.Width(), g.field.Height()

	// Raster rows run top to bottom; flip into ascending y.
	x := make([]float64, len(xs))
	copy(x, xs)
	y := make([]float64, len(ys))
	for i, v := range ys {
		y[len(ys)-1-i] = v
	}

	values := make([]float64, width*height)
	for r := 0; r < height; r++ {
		copy(values[(height-1-r)*width:(height-r)*width], g.field.Values()[r*width:(r+1)*width])
	}
	for i, v := range values {
		if math.IsInf(v, 1) {
			values[i] = hmax
		}
	}

	return &SizeFunction{
		X:      x,
		Y:      y,
		Values: values,
		HMin:   hmin,
		HMax:   hmax,
		CRS:    g.src.CRS(),
	}, nil
}

// finalBounds resolves hmin/hmax, deriving missing sides from the graded
// values. ok is false when a side has neither an option nor a finite
// graded value to derive it from.
func (g *Grader) finalBounds() (hmin, hmax float64, ok bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range g.field.Values() {
		if math.IsInf(v, 1) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	hmin, hmax = lo, hi
	if g.opts.HMin != nil {
		hmin = *g.opts.HMin
	}
	if g.opts.HMax != nil {
		hmax = *g.opts.HMax
	}
	if math.IsInf(hmin, 0) || math.IsInf(hmax, 0) {
		return 0, 0, false
	}
	return hmin, hmax, true
}
