package hfun

import (
	"math"

	"github.com/ctessum/geom"
)

// resampleLine walks the polyline by arc length and emits a sample every
// step, starting at the first vertex. The exact terminal vertex is always
// included so short trailing segments still constrain the field. No two
// consecutive samples are farther apart than step.
func resampleLine(line geom.LineString, step float64) []geom.Point {
	if len(line) == 0 {
		return nil
	}
	if len(line) == 1 || step <= 0 {
		return []geom.Point{line[0]}
	}

	samples := []geom.Point{line[0]}
	remaining := step
	for i := 1; i < len(line); i++ {
		a, b := line[i-1], line[i]
		seg := math.Hypot(b.X-a.X, b.Y-a.Y)
		pos := 0.0
		for seg-pos >= remaining {
			pos += remaining
			t := pos / seg
			samples = append(samples, geom.Point{
				X: a.X + t*(b.X-a.X),
				Y: a.Y + t*(b.Y-a.Y),
			})
			remaining = step
		}
		remaining -= seg - pos
	}

	last := line[len(line)-1]
	if samples[len(samples)-1] != last {
		samples = append(samples, last)
	}
	return samples
}
