package mesh

import (
	"github.com/coastmesh/coastmesh/pkg/errors"
)

// BoundaryType enumerates the gr3 boundary categories.
type BoundaryType int

const (
	BoundaryOcean BoundaryType = iota
	BoundaryLand
	BoundaryInner
	BoundaryInflow
	BoundaryOutflow
	BoundaryWeir
	BoundaryCulvert
)

// String returns the category name used in file annotations.
func (t BoundaryType) String() string {
	switch t {
	case BoundaryOcean:
		return "ocean"
	case BoundaryLand:
		return "land"
	case BoundaryInner:
		return "inner"
	case BoundaryInflow:
		return "inflow"
	case BoundaryOutflow:
		return "outflow"
	case BoundaryWeir:
		return "weir"
	case BoundaryCulvert:
		return "culvert"
	default:
		return "unknown"
	}
}

// paired reports whether the category carries front/back face pairs
// instead of a plain node list.
func (t BoundaryType) paired() bool {
	return t == BoundaryWeir || t == BoundaryCulvert
}

// Barrier holds the hydraulic parameters of one barrier node (outflow)
// or node pair (weir, culvert). The pipe fields apply to culverts only.
type Barrier struct {
	Height             float64
	SubcriticalCoeff   float64
	SupercriticalCoeff float64
	PipeHeight         float64
	PipeCoeff          float64
	PipeDiameter       float64
}

// BoundaryGroup is one named run of boundary nodes of a single category.
// Nodes are 0-based mesh vertex indices in loop-traversal order; the
// order is preserved verbatim through serialization. Paired categories
// use FrontFace/BackFace instead of Nodes, with one Barrier per pair.
// Outflow groups carry one Barrier per node.
type BoundaryGroup struct {
	Name   string
	Type   BoundaryType
	IBType int

	Nodes []int

	FrontFace []int
	BackFace  []int
	Barriers  []Barrier
}

func (g BoundaryGroup) validate() error {
	if g.Name == "" {
		return errors.New(errors.ErrCodeInvalidBoundary, "boundary group needs a name")
	}

	if g.Type.paired() {
		if len(g.FrontFace) == 0 {
			return errors.New(errors.ErrCodeInvalidBoundary,
				"%s boundary %q has no face pairs", g.Type, g.Name)
		}
		if len(g.BackFace) != len(g.FrontFace) || len(g.Barriers) != len(g.FrontFace) {
			return errors.New(errors.ErrCodeInvalidBoundary,
				"%s boundary %q: front %d, back %d and barriers %d must match",
				g.Type, g.Name, len(g.FrontFace), len(g.BackFace), len(g.Barriers))
		}
		if len(g.Nodes) != 0 {
			return errors.New(errors.ErrCodeInvalidBoundary,
				"%s boundary %q must not carry a plain node list", g.Type, g.Name)
		}
		return nil
	}

	if len(g.Nodes) == 0 {
		return errors.New(errors.ErrCodeInvalidBoundary,
			"%s boundary %q has no nodes", g.Type, g.Name)
	}
	if len(g.FrontFace) != 0 || len(g.BackFace) != 0 {
		return errors.New(errors.ErrCodeInvalidBoundary,
			"%s boundary %q must not carry face pairs", g.Type, g.Name)
	}
	if g.Type == BoundaryOutflow {
		if len(g.Barriers) != len(g.Nodes) {
			return errors.New(errors.ErrCodeInvalidBoundary,
				"outflow boundary %q: nodes %d and barriers %d must match",
				g.Name, len(g.Nodes), len(g.Barriers))
		}
	} else if len(g.Barriers) != 0 {
		return errors.New(errors.ErrCodeInvalidBoundary,
			"%s boundary %q must not carry barriers", g.Type, g.Name)
	}
	return nil
}

// nodeCount returns the number of boundary nodes the group contributes.
func (g BoundaryGroup) nodeCount() int {
	if g.Type.paired() {
		return 2 * len(g.FrontFace)
	}
	return len(g.Nodes)
}

// Boundaries is an ordered collection of boundary groups. Insertion
// order is preserved within each category and group names are unique
// across the whole collection.
type Boundaries struct {
	groups []BoundaryGroup
	names  map[string]struct{}
}

// NewBoundaries creates an empty collection.
func NewBoundaries() *Boundaries {
	return &Boundaries{names: make(map[string]struct{})}
}

// Add validates the group and appends it. Duplicate names are rejected.
func (b *Boundaries) Add(g BoundaryGroup) error {
	if err := g.validate(); err != nil {
		return err
	}
	if _, dup := b.names[g.Name]; dup {
		return errors.New(errors.ErrCodeInvalidBoundary,
			"boundary group %q already exists", g.Name)
	}
	b.names[g.Name] = struct{}{}
	b.groups = append(b.groups, g)
	return nil
}

// Groups returns all groups in insertion order.
func (b *Boundaries) Groups() []BoundaryGroup { return b.groups }

// OfType returns the groups of one category in insertion order.
func (b *Boundaries) OfType(t BoundaryType) []BoundaryGroup {
	var out []BoundaryGroup
	for _, g := range b.groups {
		if g.Type == t {
			out = append(out, g)
		}
	}
	return out
}

// nodeCount sums the boundary nodes across the given categories.
func (b *Boundaries) nodeCount(types ...BoundaryType) int {
	n := 0
	for _, t := range types {
		for _, g := range b.OfType(t) {
			n += g.nodeCount()
		}
	}
	return n
}
