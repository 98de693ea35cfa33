// Package hfun builds spatially graded target-edge-length fields ("size
// functions") that control local mesh resolution.
//
// # Overview
//
// A [Grader] owns a scalar [Field] aligned one-to-one with the cells of
// a raster source. Every cell starts at the unconstrained sentinel
// (+Inf) and only ever decreases: each constraint produces a per-cell
// candidate size and is merged with an elementwise minimum. Because the
// minimum is commutative and associative, the order in which constraints
// are applied never changes the final field (up to floating-point
// reassociation), which is also what makes per-window parallel grading
// safe.
//
// # Constraints
//
// [Grader.AddFeature] grades the field against polyline features: lines
// are resampled at the target size, a nearest-neighbor index is built
// over the samples, and each cell receives
//
//	candidate = expansionRate * targetSize * distance + targetSize
//
// clamped into [hmin, hmax] when those bounds are configured.
// [Grader.AddContour] derives the lines by slicing the raster at a given
// level first.
//
// # Geodetic rasters
//
// When the raster frame is geodetic, distances in degrees would be
// meaningless. Each window is assigned a UTM zone by its centroid and
// both the feature samples and the window's cell centers are projected
// into that metric frame before distance queries.
package hfun
