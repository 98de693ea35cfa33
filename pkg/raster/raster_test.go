package raster

import (
	"math"
	"strings"
	"testing"
)

func TestIterWindows_SingleWindow(t *testing.T) {
	g := UniformGrid(0, 9, 1, 1, 10, 10, CRS{})

	ws := g.IterWindows(0, 2)
	if len(ws) != 1 {
		t.Fatalf("len(windows) = %d, want 1", len(ws))
	}
	if ws[0].Width != 10 || ws[0].Height != 10 {
		t.Errorf("window = %+v, want full extent", ws[0])
	}
}

func TestIterWindows_ChunkedWithOverlap(t *testing.T) {
	g := UniformGrid(0, 9, 1, 1, 10, 10, CRS{})

	ws := g.IterWindows(5, 2)
	if len(ws) != 4 {
		t.Fatalf("len(windows) = %d, want 4", len(ws))
	}

	// Interior sides extend by the overlap, raster edges clamp.
	first := ws[0]
	if first.Col != 0 || first.Row != 0 || first.Width != 7 || first.Height != 7 {
		t.Errorf("first window = %+v, want {0 0 7 7}", first)
	}
	last := ws[3]
	if last.Col != 3 || last.Row != 3 || last.Width != 7 || last.Height != 7 {
		t.Errorf("last window = %+v, want {3 3 7 7}", last)
	}
}

func TestGridValues_Mask(t *testing.T) {
	g := UniformGrid(0, 2, 1, 1, 3, 3, CRS{})
	g.Fill(5)
	g.Set(1, 1, math.NaN())

	values, valid, err := g.Values(Window{Col: 0, Row: 0, Width: 3, Height: 3}, 1)
	if err != nil {
		t.Fatalf("Values() error = %v", err)
	}
	if len(values) != 9 {
		t.Fatalf("len(values) = %d, want 9", len(values))
	}
	if valid[4] {
		t.Error("NaN cell should be masked invalid")
	}
	if !valid[0] || !valid[8] {
		t.Error("finite cells should be valid")
	}
}

func TestGridValues_BadBand(t *testing.T) {
	g := UniformGrid(0, 0, 1, 1, 2, 2, CRS{})
	if _, _, err := g.Values(Window{Width: 2, Height: 2}, 2); err == nil {
		t.Error("Values() with band 2 should fail")
	}
}

func TestGridCoordinates(t *testing.T) {
	g := UniformGrid(100, 50, 2, 1, 4, 3, CRS{})

	xs := g.X(Window{Col: 1, Row: 0, Width: 2, Height: 3})
	if xs[0] != 102 || xs[1] != 104 {
		t.Errorf("X() = %v, want [102 104]", xs)
	}
	ys := g.Y(Window{Col: 0, Row: 1, Width: 4, Height: 2})
	if ys[0] != 49 || ys[1] != 48 {
		t.Errorf("Y() = %v, want [49 48]", ys)
	}
}

func TestReadASC(t *testing.T) {
	const data = `ncols 3
nrows 2
xllcorner 0.0
yllcorner 0.0
cellsize 1.0
nodata_value -9999
1 2 3
4 -9999 6
`
	g, err := readASC(strings.NewReader(data), CRS{Descriptor: "local"})
	if err != nil {
		t.Fatalf("readASC() error = %v", err)
	}
	if g.Width() != 3 || g.Height() != 2 {
		t.Fatalf("shape = %dx%d, want 3x2", g.Width(), g.Height())
	}
	// Top row first.
	if g.At(0, 0) != 1 || g.At(2, 1) != 6 {
		t.Errorf("values misordered: %v %v", g.At(0, 0), g.At(2, 1))
	}
	if !math.IsNaN(g.At(1, 1)) {
		t.Error("nodata cell should be NaN")
	}
	// Cell centers: llcorner 0 + cellsize/2, top row y = 1.5.
	if got := g.X(Window{Width: 3, Height: 2})[0]; got != 0.5 {
		t.Errorf("x[0] = %v, want 0.5", got)
	}
	if got := g.Y(Window{Width: 3, Height: 2})[0]; got != 1.5 {
		t.Errorf("y[0] = %v, want 1.5", got)
	}
}

func TestReadASC_ShortData(t *testing.T) {
	const data = `ncols 2
nrows 2
xllcorner 0
yllcorner 0
cellsize 1
1 2 3
`
	if _, err := readASC(strings.NewReader(data), CRS{}); err == nil {
		t.Error("readASC() with missing values should fail")
	}
}

func TestMaskRings_FullWindow(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{3, 2, 1, 0}
	mask := make([]float64, 16)
	for i := range mask {
		mask[i] = 1
	}

	rings := MaskRings(xs, ys, mask)
	if len(rings) != 1 {
		t.Fatalf("len(rings) = %d, want 1", len(rings))
	}
	if !rings[0].Valid() {
		t.Error("full-window ring should be valid")
	}
	if rings[0].Area() == 0 {
		t.Error("full-window ring should enclose area")
	}
}

func TestMaskRings_AllOutside(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{2, 1, 0}
	mask := make([]float64, 9)
	for i := range mask {
		mask[i] = -1
	}

	if rings := MaskRings(xs, ys, mask); len(rings) != 0 {
		t.Errorf("len(rings) = %d, want 0", len(rings))
	}
}

func TestLevelLines_FlatField(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{2, 1, 0}
	values := make([]float64, 9)
	for i := range values {
		values[i] = 5
	}

	// Level not present in the data is a no-op.
	if lines := LevelLines(xs, ys, values, 10); len(lines) != 0 {
		t.Errorf("len(lines) = %d, want 0", len(lines))
	}
}

func TestLevelLines_Gradient(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{3, 2, 1, 0}
	values := make([]float64, 16)
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			values[row*4+col] = float64(col)
		}
	}

	lines := LevelLines(xs, ys, values, 1.5)
	if len(lines) == 0 {
		t.Fatal("expected at least one contour line")
	}
	for _, line := range lines {
		for _, p := range line {
			if math.Abs(p.X-1.5) > 1e-9 {
				t.Fatalf("contour point x = %v, want 1.5", p.X)
			}
		}
	}
}
