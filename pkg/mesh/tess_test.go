package mesh

import (
	"context"
	"testing"

	"github.com/coastmesh/coastmesh/pkg/errors"
	"github.com/coastmesh/coastmesh/pkg/geo"
)

func TestTessEngine_EmptyBoundary(t *testing.T) {
	var e TessEngine
	_, err := e.Generate(context.Background(), nil, nil, EngineOptions{})
	if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("Generate() error = %v, want INVALID_GEOMETRY", err)
	}
}

func TestTessEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var e TessEngine
	if _, err := e.Generate(ctx, geo.MultiPolygon{}, nil, EngineOptions{}); err == nil {
		t.Error("Generate() with cancelled context should fail")
	}
}

func TestTessEngine_Square(t *testing.T) {
	boundary := geo.MultiPolygon{{
		Outer: geo.Ring{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 8, Y: 8}, {X: 0, Y: 8}},
	}}

	var e TessEngine
	m, err := e.Generate(context.Background(), boundary, nil, EngineOptions{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if m.NumElements() == 0 {
		t.Fatal("Generate() produced no elements")
	}
	for _, p := range m.Vertices() {
		if p.X < 0 || p.X > 8 || p.Y < 0 || p.Y > 8 {
			t.Errorf("vertex %v escapes the boundary box", p)
		}
	}

	// The tessellated square must have a single closed outer loop.
	loops, err := m.BoundaryLoops()
	if err != nil {
		t.Fatalf("BoundaryLoops() error = %v", err)
	}
	if len(loops.Inner) != 0 {
		t.Errorf("len(inner) = %d, want 0", len(loops.Inner))
	}
}

func TestTessEngine_HolePreserved(t *testing.T) {
	boundary := geo.MultiPolygon{{
		Outer: geo.Ring{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
		Holes: []geo.Ring{{{X: 4, Y: 4}, {X: 6, Y: 4}, {X: 6, Y: 6}, {X: 4, Y: 6}}},
	}}

	var e TessEngine
	m, err := e.Generate(context.Background(), boundary, nil, EngineOptions{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	loops, err := m.BoundaryLoops()
	if err != nil {
		t.Fatalf("BoundaryLoops() error = %v", err)
	}
	if len(loops.Inner) != 1 {
		t.Errorf("len(inner) = %d, want 1 (the hole)", len(loops.Inner))
	}
}
