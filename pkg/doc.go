// Package pkg provides the core libraries for coastmesh mesh generation.
//
// # Overview
//
// coastmesh turns bathymetric rasters into unstructured triangular meshes
// in the gr3 format used by coastal circulation models. The pkg directory
// is organized into the following areas:
//
//  1. [raster] - Raster sources, windows and contour extraction
//  2. [geo] - Planar geometry primitives (rings, polygons)
//  3. [domain] - Wet domain boundary reconstruction
//  4. [hfun] - Mesh size field grading
//  5. [mesh] - Mesh types, topology, boundaries and gr3 serialization
//  6. [pipeline] - Orchestration (extract → grade → mesh → write)
//
// # Architecture
//
// The typical data flow through coastmesh:
//
//	Bathymetric raster (Esri ASCII grid)
//	         ↓
//	    [domain] package (reconstruct the wet boundary)
//	         ↓
//	    [hfun] package (grade the mesh size field)
//	         ↓
//	    [mesh] package (triangulate, classify boundaries)
//	         ↓
//	    gr3 mesh file
//
// # Quick Start
//
// Run the whole pipeline against a raster:
//
//	import (
//	    "context"
//	    "github.com/coastmesh/coastmesh/pkg/pipeline"
//	    "github.com/coastmesh/coastmesh/pkg/raster"
//	)
//
//	src, _ := raster.ReadASC("coast.asc", raster.CRS{Geodetic: true})
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), src, pipeline.Options{
//	    ZMax:     ptr(0.0),
//	    HMin:     ptr(50.0),
//	    HMax:     ptr(5000.0),
//	    Contours: []pipeline.ContourConstraint{{Level: 0, TargetSize: 50, ExpansionRate: 0.01}},
//	    Output:   "coast.gr3",
//	})
//
// # Supporting Packages
//
//   - [cache] - Stage result caching (file, Redis, null backends)
//   - [errors] - Structured error codes
//   - [export] - GeoJSON export of boundaries and planar graphs
//   - [httputil] - Retrying HTTP fetches of remote constraint files
//   - [observability] - Optional hooks for metrics and tracing
//   - [buildinfo] - Build-time version information
package pkg
