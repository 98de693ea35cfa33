// Package geo provides the planar geometry value types used throughout
// coastmesh: closed rings, polygons with holes, and multipolygons.
//
// # Overview
//
// The types here are thin value wrappers around [github.com/ctessum/geom]
// primitives. A [Ring] is an ordered point sequence that is implicitly
// closed (the first point is not stored twice). A [Polygon] is one outer
// ring plus zero or more hole rings, and a [MultiPolygon] is a set of
// polygons with pairwise non-overlapping outers.
//
// # Coordinate Frames
//
// All types are frame-agnostic: coordinates are interpreted in whatever
// frame the caller supplies (a raw CRS or a locally projected metric
// frame). Nothing in this package reprojects.
//
// # Validity
//
// Rings with fewer than four points are degenerate and rejected by
// [Ring.Valid]; higher-level constructors drop them silently. Hole rings
// of a polygon are checked for point-in-outer containment only; mutual
// disjointness between holes is not independently verified.
package geo
