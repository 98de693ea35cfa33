// Package domain reconstructs the planar meshing domain from gridded
// elevation/bathymetry rasters.
//
// # Overview
//
// The domain boundary is a nested polygon set: outer shorelines with
// island holes. It is recovered window by window from a binary
// inside/outside mask (cells between zmin and zmax are inside), by
// contouring the mask, sorting the resulting closed rings by enclosed
// area, and nesting smaller rings into larger ones. Per-window polygons
// are then dissolved into one [geo.MultiPolygon] with a polygon-set
// union; the window overlap margin guarantees mask continuity across
// seams.
//
// # Sources
//
// [Extractor] consumes a tagged [Source] union. Raster-backed sources are
// the only supported kind today; a new source kind is an explicit new
// variant, not an open-ended type switch.
package domain
