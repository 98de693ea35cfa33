package mesh

import (
	"github.com/coastmesh/coastmesh/pkg/errors"
	"github.com/coastmesh/coastmesh/pkg/geo"
)

// Adjacency computes the triangle neighbor table: for each element, the
// element sharing local edge j (from node j to node (j+1)%3), or -1 when
// the edge lies on the mesh boundary. Edges shared by more than two
// elements make the mesh non-manifold and fail.
func (m *Mesh) Adjacency() ([][3]int, error) {
	type incidence struct {
		elem  int
		local int
	}
	shared := make(map[[2]int][]incidence, 3*len(m.elements)/2)
	for i, e := range m.elements {
		for j := 0; j < 3; j++ {
			a, b := e[j], e[(j+1)%3]
			if a > b {
				a, b = b, a
			}
			shared[[2]int{a, b}] = append(shared[[2]int{a, b}], incidence{elem: i, local: j})
		}
	}

	adj := make([][3]int, len(m.elements))
	for i := range adj {
		adj[i] = [3]int{-1, -1, -1}
	}
	for edge, inc := range shared {
		switch len(inc) {
		case 1:
			// boundary edge
		case 2:
			adj[inc[0].elem][inc[0].local] = inc[1].elem
			adj[inc[1].elem][inc[1].local] = inc[0].elem
		default:
			return nil, errors.New(errors.ErrCodeInvalidGeometry,
				"edge %v is shared by %d elements", edge, len(inc))
		}
	}
	return adj, nil
}

// BoundaryLoops holds the mesh's closed boundary loops as vertex index
// sequences in traversal order, split into the single outer loop and the
// inner (hole) loops. Meshes with several disjoint exterior components
// still report one outer loop, chosen by perimeter; the rest land in
// Inner.
type BoundaryLoops struct {
	Outer []int
	Inner [][]int
}

// BoundaryLoops chains the mesh's boundary edges into closed loops and
// classifies the loop with the largest perimeter as the outer one.
func (m *Mesh) BoundaryLoops() (*BoundaryLoops, error) {
	edges, err := m.boundaryEdges()
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidBoundary, "mesh has no boundary edges")
	}

	loops, err := chainLoops(edges)
	if err != nil {
		return nil, err
	}

	outer, best := 0, -1.0
	for i, loop := range loops {
		if p := m.loopRing(loop).Perimeter(); p > best {
			outer, best = i, p
		}
	}

	out := &BoundaryLoops{Outer: loops[outer]}
	for i, loop := range loops {
		if i != outer {
			out.Inner = append(out.Inner, loop)
		}
	}
	return out, nil
}

// PSLG is the planar straight line graph of the mesh boundary: the loop
// coordinates as rings plus the original vertex indices they came from.
type PSLG struct {
	Outer      geo.Ring
	Inner      []geo.Ring
	OuterNodes []int
	InnerNodes [][]int
}

// PSLG derives the planar straight line graph from the boundary loops.
func (m *Mesh) PSLG() (*PSLG, error) {
	loops, err := m.BoundaryLoops()
	if err != nil {
		return nil, err
	}

	p := &PSLG{
		Outer:      m.loopRing(loops.Outer),
		OuterNodes: loops.Outer,
		InnerNodes: loops.Inner,
	}
	for _, loop := range loops.Inner {
		p.Inner = append(p.Inner, m.loopRing(loop))
	}
	return p, nil
}

// boundaryEdges returns the directed edges incident to exactly one
// element, in element winding order.
func (m *Mesh) boundaryEdges() ([][2]int, error) {
	adj, err := m.Adjacency()
	if err != nil {
		return nil, err
	}

	var edges [][2]int
	for i, e := range m.elements {
		for j := 0; j < 3; j++ {
			if adj[i][j] == -1 {
				edges = append(edges, [2]int{e[j], e[(j+1)%3]})
			}
		}
	}
	return edges, nil
}

// chainLoops greedily links directed edges head to tail into closed
// loops. Every edge must be consumed and every chain must return to its
// start, otherwise the boundary is broken.
func chainLoops(edges [][2]int) ([][]int, error) {
	next := make(map[int][]int, len(edges))
	for _, e := range edges {
		next[e[0]] = append(next[e[0]], e[1])
	}
	pop := func(from int) (int, bool) {
		out := next[from]
		if len(out) == 0 {
			return 0, false
		}
		to := out[len(out)-1]
		next[from] = out[:len(out)-1]
		return to, true
	}

	var loops [][]int
	for _, e := range edges {
		if len(next[e[0]]) == 0 {
			continue
		}
		start, _ := pop(e[0])
		loop := []int{e[0], start}
		for loop[len(loop)-1] != e[0] {
			to, ok := pop(loop[len(loop)-1])
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidBoundary,
					"boundary does not close at vertex %d", loop[len(loop)-1])
			}
			loop = append(loop, to)
		}
		loops = append(loops, loop[:len(loop)-1])
	}
	return loops, nil
}

// loopRing materializes a vertex index loop as a coordinate ring.
func (m *Mesh) loopRing(loop []int) geo.Ring {
	ring := make(geo.Ring, len(loop))
	for i, idx := range loop {
		ring[i] = m.vertices[idx]
	}
	return ring
}
