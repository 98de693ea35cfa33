package raster

// Window is an axis-aligned sub-region of a raster grid, in cell units.
// Col/Row locate the window origin in the full grid; Width/Height count
// cells. Windows produced with an overlap margin extend past their
// nominal chunk on every side that is not a raster edge.
type Window struct {
	Col    int
	Row    int
	Width  int
	Height int
}

// Cells returns the number of cells covered by the window.
func (w Window) Cells() int { return w.Width * w.Height }

// CRS describes the coordinate frame of a raster.
type CRS struct {
	// Geodetic is true when coordinates are longitude/latitude degrees.
	// Geodetic frames require a local metric projection before distances
	// are meaningful.
	Geodetic bool

	// Proj is the proj-style definition of the frame, e.g.
	// "+proj=longlat +datum=WGS84".
	Proj string

	// Descriptor is the spatial-reference string written verbatim as the
	// trailing record of mesh files.
	Descriptor string
}

// Source is the windowed raster capability set consumed by the core:
// window iteration, per-window values with a validity mask, per-window
// cell-center coordinates, and the coordinate frame. Storage, retrieval
// and reprojection concerns live behind this interface.
type Source interface {
	// IterWindows partitions the raster into chunkSize×chunkSize windows,
	// each extended by overlap cells on every interior side. A
	// non-positive chunkSize yields a single full-extent window.
	IterWindows(chunkSize, overlap int) []Window

	// Values returns the window's cell values in row-major order together
	// with a validity mask (false marks nodata cells). band is 1-based.
	Values(w Window, band int) (values []float64, valid []bool, err error)

	// X returns the cell-center x coordinates of the window's columns.
	X(w Window) []float64

	// Y returns the cell-center y coordinates of the window's rows.
	Y(w Window) []float64

	// CRS reports the raster's coordinate frame.
	CRS() CRS
}

// iterWindows implements the shared chunking logic for sources that know
// their full extent.
func iterWindows(width, height, chunkSize, overlap int) []Window {
	if chunkSize <= 0 {
		return []Window{{Col: 0, Row: 0, Width: width, Height: height}}
	}
	var out []Window
	for row := 0; row < height; row += chunkSize {
		for col := 0; col < width; col += chunkSize {
			c0 := max(col-overlap, 0)
			r0 := max(row-overlap, 0)
			c1 := min(col+chunkSize+overlap, width)
			r1 := min(row+chunkSize+overlap, height)
			out = append(out, Window{Col: c0, Row: r0, Width: c1 - c0, Height: r1 - r0})
		}
	}
	return out
}
