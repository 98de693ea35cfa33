// Package mesh models unstructured triangular meshes and their boundary
// topology.
//
// A [Mesh] holds vertices, 3-node elements and optional per-vertex
// values; identity is insertion order, with ids becoming 1-based only at
// serialization. From the element table the package derives triangle
// adjacency, extracts the closed boundary loops and classifies them into
// one outer loop and the inner loops, and builds a planar straight line
// graph for downstream mesh generators.
//
// [Boundaries] groups boundary nodes into the typed categories of
// gr3-style hydrodynamic model inputs (ocean, land, inner, inflow,
// outflow, weir, culvert), and [Gr3] serializes a mesh together with its
// boundary groups.
//
// [Engine] abstracts mesh generation from a domain boundary and a size
// field; [TessEngine] is the built-in implementation.
package mesh
