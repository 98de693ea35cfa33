package hfun

import (
	"math"
	"testing"

	"github.com/ctessum/geom"
)

func TestResampleLine_GapsNeverExceedStep(t *testing.T) {
	line := geom.LineString{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 10, Y: 7},
		{X: 3, Y: 7},
	}
	const step = 2.0

	samples := resampleLine(line, step)
	if len(samples) < 2 {
		t.Fatalf("len(samples) = %d, want >= 2", len(samples))
	}
	for i := 1; i < len(samples); i++ {
		gap := math.Hypot(samples[i].X-samples[i-1].X, samples[i].Y-samples[i-1].Y)
		if gap > step+1e-9 {
			t.Errorf("gap %d = %v, want <= %v", i, gap, step)
		}
	}
}

func TestResampleLine_IncludesExactEndpoints(t *testing.T) {
	line := geom.LineString{{X: 0, Y: 0}, {X: 5.3, Y: 1.1}}
	samples := resampleLine(line, 2)

	if samples[0] != line[0] {
		t.Errorf("first sample = %v, want %v", samples[0], line[0])
	}
	if samples[len(samples)-1] != line[1] {
		t.Errorf("last sample = %v, want %v", samples[len(samples)-1], line[1])
	}
}

func TestResampleLine_StepLongerThanLine(t *testing.T) {
	line := geom.LineString{{X: 0, Y: 0}, {X: 1, Y: 0}}
	samples := resampleLine(line, 100)

	if len(samples) != 2 {
		t.Fatalf("len(samples) = %d, want 2", len(samples))
	}
}

func TestResampleLine_Degenerate(t *testing.T) {
	if got := resampleLine(nil, 1); got != nil {
		t.Errorf("resampleLine(nil) = %v, want nil", got)
	}
	got := resampleLine(geom.LineString{{X: 2, Y: 3}}, 1)
	if len(got) != 1 || got[0] != (geom.Point{X: 2, Y: 3}) {
		t.Errorf("single-vertex line = %v, want the vertex itself", got)
	}
}

func TestUTMZone(t *testing.T) {
	tests := []struct {
		lon  float64
		want int
	}{
		{-180, 1},
		{-77, 18}, // Chesapeake Bay
		{0, 31},
		{179.9, 60},
	}
	for _, tt := range tests {
		if got := utmZone(tt.lon); got != tt.want {
			t.Errorf("utmZone(%v) = %d, want %d", tt.lon, got, tt.want)
		}
	}
}

func TestUTMProj_SouthernHemisphere(t *testing.T) {
	def := utmProj(151, -33) // Sydney
	if want := "+proj=utm +zone=56 +datum=WGS84 +units=m +no_defs +south"; def != want {
		t.Errorf("utmProj() = %q, want %q", def, want)
	}
}
