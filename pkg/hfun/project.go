package hfun

import (
	"fmt"

	"github.com/ctessum/geom/proj"

	"github.com/coastmesh/coastmesh/pkg/errors"
)

// geodeticProj is the assumed frame of geodetic rasters that do not
// declare their own proj definition.
const geodeticProj = "+proj=longlat +datum=WGS84"

// utmZone returns the UTM zone number containing the given longitude.
func utmZone(lon float64) int {
	zone := int((lon+180)/6) + 1
	if zone < 1 {
		zone = 1
	}
	if zone > 60 {
		zone = 60
	}
	return zone
}

// utmProj builds the proj definition of the UTM frame local to (lon, lat).
func utmProj(lon, lat float64) string {
	def := fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", utmZone(lon))
	if lat < 0 {
		def += " +south"
	}
	return def
}

// newUTMTransform builds a transform from srcDef into the UTM frame
// local to (lon, lat). An empty srcDef means plain geodetic coordinates.
func newUTMTransform(srcDef string, lon, lat float64) (proj.Transformer, error) {
	if srcDef == "" {
		srcDef = geodeticProj
	}
	src, err := proj.Parse(srcDef)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeProjection, err, "parse source frame %q", srcDef)
	}
	dst, err := proj.Parse(utmProj(lon, lat))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeProjection, err, "parse utm frame for zone %d", utmZone(lon))
	}
	t, err := src.NewTransform(dst)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeProjection, err, "build utm transform")
	}
	return t, nil
}
