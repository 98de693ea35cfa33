package domain

import (
	"testing"

	"github.com/ctessum/geom"

	"github.com/coastmesh/coastmesh/pkg/geo"
)

func square(x0, y0, side float64) geo.Ring {
	return geo.Ring{
		{X: x0, Y: y0},
		{X: x0 + side, Y: y0},
		{X: x0 + side, Y: y0 + side},
		{X: x0, Y: y0 + side},
	}
}

func TestAssemble_SingleRing(t *testing.T) {
	mp := Assemble([]geo.Ring{square(0, 0, 10)})

	if len(mp) != 1 {
		t.Fatalf("len(polygons) = %d, want 1", len(mp))
	}
	if len(mp[0].Holes) != 0 {
		t.Errorf("len(holes) = %d, want 0", len(mp[0].Holes))
	}
}

func TestAssemble_OuterWithHole(t *testing.T) {
	outer := square(0, 0, 10)
	hole := square(4, 4, 2)

	// Deliberately pass the hole first; area ordering must fix it.
	mp := Assemble([]geo.Ring{hole, outer})

	if len(mp) != 1 {
		t.Fatalf("len(polygons) = %d, want 1", len(mp))
	}
	p := mp[0]
	if p.Outer.Area() != outer.Area() {
		t.Errorf("outer area = %v, want %v", p.Outer.Area(), outer.Area())
	}
	if len(p.Holes) != 1 {
		t.Fatalf("len(holes) = %d, want 1", len(p.Holes))
	}
	if !p.Outer.Contains(p.Holes[0].First()) {
		t.Error("hole representative point should be inside the outer ring")
	}
}

func TestAssemble_DisjointRegions(t *testing.T) {
	a := square(0, 0, 5)
	b := square(100, 100, 3)

	mp := Assemble([]geo.Ring{b, a})

	if len(mp) != 2 {
		t.Fatalf("len(polygons) = %d, want 2", len(mp))
	}
	// Largest area first.
	if mp[0].Outer.Area() < mp[1].Outer.Area() {
		t.Error("polygons should be emitted largest-first")
	}
	for i, p := range mp {
		if len(p.Holes) != 0 {
			t.Errorf("polygon %d has %d holes, want 0", i, len(p.Holes))
		}
	}
}

func TestAssemble_NestedIslandInLake(t *testing.T) {
	// Outer land, lake hole, island inside the lake. The island ring is
	// inside the outer ring too, so with pure first-point containment it
	// attaches to the largest ring, matching the reference behavior.
	outer := square(0, 0, 100)
	lake := square(20, 20, 40)
	island := square(30, 30, 10)

	mp := Assemble([]geo.Ring{island, outer, lake})

	if len(mp) != 1 {
		t.Fatalf("len(polygons) = %d, want 1", len(mp))
	}
	if len(mp[0].Holes) != 2 {
		t.Errorf("len(holes) = %d, want 2", len(mp[0].Holes))
	}
}

func TestAssemble_DropsDegenerateRings(t *testing.T) {
	degenerate := geo.Ring{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}

	mp := Assemble([]geo.Ring{degenerate, square(0, 0, 4)})

	if len(mp) != 1 {
		t.Fatalf("len(polygons) = %d, want 1", len(mp))
	}
	if mp == nil {
		t.Fatal("valid ring should survive")
	}
}

func TestAssemble_Empty(t *testing.T) {
	if mp := Assemble(nil); mp != nil {
		t.Errorf("Assemble(nil) = %v, want nil", mp)
	}
}

func TestAssemble_Idempotence(t *testing.T) {
	// Reconstructing from a known polygon's own rings yields the same
	// topology: one outer, one correctly nested hole.
	p, err := geo.NewPolygon(square(0, 0, 10), square(4, 4, 2))
	if err != nil {
		t.Fatalf("NewPolygon() error = %v", err)
	}

	mp := Assemble(p.Rings())

	if len(mp) != 1 {
		t.Fatalf("len(polygons) = %d, want 1", len(mp))
	}
	got := mp[0]
	if got.Outer.Area() != p.Outer.Area() || len(got.Holes) != 1 {
		t.Errorf("reconstructed polygon = outer %v / %d holes, want outer %v / 1 hole",
			got.Outer.Area(), len(got.Holes), p.Outer.Area())
	}
	if got.Holes[0].Area() != p.Holes[0].Area() {
		t.Errorf("hole area = %v, want %v", got.Holes[0].Area(), p.Holes[0].Area())
	}
}

func TestOpenRing(t *testing.T) {
	closed := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}}
	r := openRing(closed)
	if len(r) != 4 {
		t.Errorf("len(ring) = %d, want 4", len(r))
	}
}
