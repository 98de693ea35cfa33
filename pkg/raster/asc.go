package raster

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/coastmesh/coastmesh/pkg/errors"
)

// ReadASC loads an ESRI ASCII grid file. The header keys ncols, nrows,
// cellsize and either xllcorner/yllcorner or xllcenter/yllcenter are
// required; nodata_value is optional. Rows in the file run top to bottom,
// matching the grid's row-major layout.
func ReadASC(path string, crs CRS) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	g, err := readASC(f, crs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "parse %s", path)
	}
	return g, nil
}

func readASC(r io.Reader, crs CRS) (*Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	header := map[string]float64{}
	var firstDataLine string
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) == 2 {
			if v, err := strconv.ParseFloat(fields[1], 64); err == nil && !isNumeric(fields[0]) {
				header[strings.ToLower(fields[0])] = v
				continue
			}
		}
		firstDataLine = sc.Text()
		break
	}

	ncols, ok := header["ncols"]
	if !ok {
		return nil, fmt.Errorf("missing ncols header")
	}
	nrows, ok := header["nrows"]
	if !ok {
		return nil, fmt.Errorf("missing nrows header")
	}
	cell, ok := header["cellsize"]
	if !ok {
		return nil, fmt.Errorf("missing cellsize header")
	}
	width, height := int(ncols), int(nrows)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid grid shape %dx%d", width, height)
	}

	// Corner keys reference the lower-left cell edge; center keys the
	// lower-left cell center.
	x0, y0 := header["xllcenter"], header["yllcenter"]
	if v, ok := header["xllcorner"]; ok {
		x0 = v + cell/2
	}
	if v, ok := header["yllcorner"]; ok {
		y0 = v + cell/2
	}
	nodata, hasNodata := header["nodata_value"]

	values := make([]float64, 0, width*height)
	parseLine := func(line string) error {
		for _, tok := range strings.Fields(line) {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return fmt.Errorf("bad value %q: %w", tok, err)
			}
			if hasNodata && v == nodata {
				v = math.NaN()
			}
			values = append(values, v)
		}
		return nil
	}
	if firstDataLine != "" {
		if err := parseLine(firstDataLine); err != nil {
			return nil, err
		}
	}
	for sc.Scan() {
		if err := parseLine(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(values) != width*height {
		return nil, fmt.Errorf("have %d values, want %d", len(values), width*height)
	}

	// y0 is the bottom row center; grid rows store the top row first.
	top := y0 + float64(height-1)*cell
	g := UniformGrid(x0, top, cell, cell, width, height, crs)
	copy(g.values, values)
	return g, nil
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
