// Package export serializes domain geometry and boundary graphs to
// GeoJSON for inspection in GIS tooling.
package export

import (
	"encoding/json"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/coastmesh/coastmesh/pkg/errors"
	"github.com/coastmesh/coastmesh/pkg/geo"
	"github.com/coastmesh/coastmesh/pkg/mesh"
)

// MultiPolygon encodes a domain boundary as a single-feature GeoJSON
// collection.
func MultiPolygon(mp geo.MultiPolygon) ([]byte, error) {
	var omp orb.MultiPolygon
	for _, p := range mp {
		poly := orb.Polygon{orbRing(p.Outer)}
		for _, h := range p.Holes {
			poly = append(poly, orbRing(h))
		}
		omp = append(omp, poly)
	}

	fc := geojson.NewFeatureCollection()
	f := geojson.NewFeature(omp)
	f.Properties["polygons"] = len(mp)
	fc.Append(f)
	return marshal(fc)
}

// PSLG encodes a mesh boundary graph: one line feature per loop, tagged
// outer or inner.
func PSLG(p *mesh.PSLG) ([]byte, error) {
	if p == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to export, graph is nil")
	}

	fc := geojson.NewFeatureCollection()
	outer := geojson.NewFeature(orbLoop(p.Outer))
	outer.Properties["role"] = "outer"
	fc.Append(outer)

	for i, ring := range p.Inner {
		f := geojson.NewFeature(orbLoop(ring))
		f.Properties["role"] = "inner"
		f.Properties["loop"] = i
		fc.Append(f)
	}
	return marshal(fc)
}

// WriteFile writes encoded GeoJSON, refusing to clobber an existing file
// unless overwrite is set.
func WriteFile(path string, data []byte, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return errors.New(errors.ErrCodeInvalidInput,
			"%s exists, pass overwrite to replace it", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

func marshal(fc *geojson.FeatureCollection) ([]byte, error) {
	data, err := json.Marshal(fc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode geojson")
	}
	return data, nil
}

// orbRing converts an implicitly closed ring to orb's explicit closure.
func orbRing(r geo.Ring) orb.Ring {
	out := make(orb.Ring, 0, len(r)+1)
	for _, p := range r {
		out = append(out, orb.Point{p.X, p.Y})
	}
	if len(out) > 0 {
		out = append(out, out[0])
	}
	return out
}

// orbLoop converts a closed loop to a line string, repeating the start
// so the loop renders closed.
func orbLoop(r geo.Ring) orb.LineString {
	return orb.LineString(orbRing(r))
}
