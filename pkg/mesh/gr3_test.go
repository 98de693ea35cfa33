package mesh

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ctessum/geom"

	"github.com/coastmesh/coastmesh/pkg/errors"
	"github.com/coastmesh/coastmesh/pkg/raster"
)

func sampleGr3(t *testing.T) *Gr3 {
	t.Helper()
	m, err := New(
		[]geom.Point{{X: 0, Y: 0}, {X: 10.5, Y: 0}, {X: 10, Y: 9.25}, {X: 0, Y: 10}},
		[][3]int{{0, 1, 2}, {0, 2, 3}},
		raster.CRS{Descriptor: "EPSG:4326"},
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := m.SetValues([]float64{1.5, -2.25, 3, 0.125}); err != nil {
		t.Fatalf("SetValues() error = %v", err)
	}

	b := NewBoundaries()
	if err := b.Add(BoundaryGroup{Name: "1", Type: BoundaryOcean, Nodes: []int{0, 1}}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := b.Add(BoundaryGroup{Name: "1", Type: BoundaryLand, Nodes: []int{2, 3}, IBType: 20}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	return &Gr3{Description: "sample", Mesh: m, Boundaries: b}
}

func TestGr3_RoundTrip(t *testing.T) {
	want := sampleGr3(t)

	var buf bytes.Buffer
	if err := want.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := DecodeGr3(&buf)
	if err != nil {
		t.Fatalf("DecodeGr3() error = %v", err)
	}

	if got.Description != "sample" {
		t.Errorf("description = %q, want %q", got.Description, "sample")
	}
	if got.Mesh.NumVertices() != want.Mesh.NumVertices() {
		t.Fatalf("vertices = %d, want %d", got.Mesh.NumVertices(), want.Mesh.NumVertices())
	}
	if got.Mesh.NumElements() != want.Mesh.NumElements() {
		t.Fatalf("elements = %d, want %d", got.Mesh.NumElements(), want.Mesh.NumElements())
	}
	for i, p := range got.Mesh.Vertices() {
		if p != want.Mesh.Vertices()[i] {
			t.Errorf("vertex %d = %v, want %v", i, p, want.Mesh.Vertices()[i])
		}
	}
	for i, v := range got.Mesh.Values() {
		if v != want.Mesh.Values()[i] {
			t.Errorf("value %d = %v, want %v", i, v, want.Mesh.Values()[i])
		}
	}
	for i, e := range got.Mesh.Elements() {
		if e != want.Mesh.Elements()[i] {
			t.Errorf("element %d = %v, want %v", i, e, want.Mesh.Elements()[i])
		}
	}
	if got.Mesh.CRS().Descriptor != "EPSG:4326" {
		t.Errorf("descriptor = %q, want %q", got.Mesh.CRS().Descriptor, "EPSG:4326")
	}

	ocean := got.Boundaries.OfType(BoundaryOcean)
	if len(ocean) != 1 || len(ocean[0].Nodes) != 2 || ocean[0].Nodes[0] != 0 {
		t.Errorf("ocean boundaries = %+v, want one group with nodes [0 1]", ocean)
	}
	land := got.Boundaries.OfType(BoundaryLand)
	if len(land) != 1 || land[0].IBType != 20 {
		t.Errorf("land boundaries = %+v, want one group with ibtype 20", land)
	}
}

func TestGr3_Layout(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleGr3(t).Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	lines := strings.Split(buf.String(), "\n")

	if lines[0] != "sample" {
		t.Errorf("line 0 = %q, want description", lines[0])
	}
	if lines[1] != "2  4" {
		t.Errorf("line 1 = %q, want %q", lines[1], "2  4")
	}
	// Node values are negated, ids are 1-based.
	if !strings.HasPrefix(lines[2], "1 ") || !strings.Contains(lines[2], "-1.5") {
		t.Errorf("line 2 = %q, want node 1 with negated value", lines[2])
	}
	if lines[6] != "1 3 1 2 3" {
		t.Errorf("line 6 = %q, want %q", lines[6], "1 3 1 2 3")
	}
	if lines[8] != "1 ! total number of ocean boundaries" {
		t.Errorf("line 8 = %q, want the ocean boundary count", lines[8])
	}
	if lines[len(lines)-2] != "EPSG:4326" {
		t.Errorf("trailing record = %q, want the spatial reference", lines[len(lines)-2])
	}
}

func TestGr3_DefaultDescription(t *testing.T) {
	g := sampleGr3(t)
	g.Description = ""

	var buf bytes.Buffer
	if err := g.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	first, _, _ := strings.Cut(buf.String(), "\n")
	if len(first) != 8 {
		t.Errorf("default description = %q, want an 8-character tag", first)
	}
}

func TestGr3_OverwriteGuard(t *testing.T) {
	g := sampleGr3(t)
	path := filepath.Join(t.TempDir(), "mesh.gr3")

	if err := g.Write(path, false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := g.Write(path, false); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("second Write() error = %v, want INVALID_INPUT", err)
	}
	if err := g.Write(path, true); err != nil {
		t.Errorf("Write(overwrite) error = %v", err)
	}

	got, err := ReadGr3(path)
	if err != nil {
		t.Fatalf("ReadGr3() error = %v", err)
	}
	if got.Mesh.NumVertices() != 4 {
		t.Errorf("vertices = %d, want 4", got.Mesh.NumVertices())
	}
}

func TestReadGr3_Missing(t *testing.T) {
	_, err := ReadGr3(filepath.Join(t.TempDir(), "nope.gr3"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadGr3() error = %v, want FILE_NOT_FOUND", err)
	}
}
