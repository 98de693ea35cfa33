package mesh

import (
	"testing"

	"github.com/ctessum/geom"

	"github.com/coastmesh/coastmesh/pkg/errors"
	"github.com/coastmesh/coastmesh/pkg/raster"
)

func attrMesh(t *testing.T) *Mesh {
	t.Helper()
	m, err := New(
		[]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}},
		[][3]int{{0, 1, 2}},
		raster.CRS{},
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestAttributes_RoundTrip(t *testing.T) {
	m := attrMesh(t)

	if err := m.SetAttribute("friction", []float64{0.02, 0.03, 0.04}); err != nil {
		t.Fatalf("SetAttribute() error = %v", err)
	}
	got, err := m.Attribute("friction")
	if err != nil {
		t.Fatalf("Attribute() error = %v", err)
	}
	if len(got) != 3 || got[1] != 0.03 {
		t.Errorf("Attribute() = %v, want the stored values", got)
	}

	// Same name replaces.
	if err := m.SetAttribute("friction", []float64{1, 2, 3}); err != nil {
		t.Fatalf("SetAttribute() error = %v", err)
	}
	if got, _ := m.Attribute("friction"); got[0] != 1 {
		t.Errorf("Attribute() after replace = %v, want updated values", got)
	}

	if err := m.RemoveAttribute("friction"); err != nil {
		t.Fatalf("RemoveAttribute() error = %v", err)
	}
	if _, err := m.Attribute("friction"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Attribute() after remove error = %v, want NOT_FOUND", err)
	}
}

func TestAttributes_Validation(t *testing.T) {
	m := attrMesh(t)

	if err := m.SetAttribute("", []float64{1, 2, 3}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("SetAttribute(no name) error = %v, want INVALID_INPUT", err)
	}
	if err := m.SetAttribute("w", []float64{1}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("SetAttribute(short) error = %v, want INVALID_INPUT", err)
	}
	if err := m.RemoveAttribute("missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("RemoveAttribute(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestAttributeNames_Sorted(t *testing.T) {
	m := attrMesh(t)
	vals := []float64{1, 2, 3}
	for _, name := range []string{"weights", "friction", "mask"} {
		if err := m.SetAttribute(name, vals); err != nil {
			t.Fatalf("SetAttribute(%q) error = %v", name, err)
		}
	}

	names := m.AttributeNames()
	want := []string{"friction", "mask", "weights"}
	if len(names) != len(want) {
		t.Fatalf("AttributeNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("AttributeNames()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
