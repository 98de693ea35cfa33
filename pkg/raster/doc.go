// Package raster defines the windowed raster contract consumed by the
// geometry and size-field packages, plus two concrete sources: an
// in-memory grid and an ESRI ASCII grid reader.
//
// # Overview
//
// Core algorithms never hold a whole raster in memory. They iterate
// axis-aligned [Window] chunks produced by [Source.IterWindows], read
// values and cell-center coordinates per window, and merge per-window
// results in the coordinator. An overlap margin around each window keeps
// contour extraction and distance queries seam-free: features just
// outside a window are still visible to it.
//
// # Sources
//
// [Grid] is the in-memory implementation used by tests and library
// callers that already hold their data. [ReadASC] loads the trivial ESRI
// ASCII grid text format for CLI usage. Storage-backed sources (GeoTIFF
// and friends) are external collaborators that implement [Source].
//
// # Contours
//
// [MaskRings] and [LevelLines] wrap the marching-squares contouring
// primitive (github.com/fogleman/contourmap), translating grid-space
// contour vertices into world coordinates via the window's cell-center
// arrays.
package raster
