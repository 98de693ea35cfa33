package geo_test

import (
	"fmt"

	"github.com/ctessum/geom"

	"github.com/coastmesh/coastmesh/pkg/geo"
)

func ExampleRing() {
	r := geo.Ring{
		{X: 0, Y: 0},
		{X: 4, Y: 0},
		{X: 4, Y: 4},
		{X: 0, Y: 4},
	}
	fmt.Println(r.Area())
	fmt.Println(r.Perimeter())
	fmt.Println(r.Contains(geom.Point{X: 2, Y: 2}))
	// Output:
	// 16
	// 16
	// true
}
