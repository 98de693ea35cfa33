package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/google/uuid"

	"github.com/coastmesh/coastmesh/pkg/errors"
	"github.com/coastmesh/coastmesh/pkg/raster"
)

// Gr3 serializes a mesh with its boundary groups in the gr3/fort.14
// layout: description, counts, nodes with negated values, elements, the
// ocean boundary section, the combined non-ocean section, and the
// spatial reference descriptor as the trailing record.
type Gr3 struct {
	// Description is the first file record. Empty picks a random
	// 8-character tag.
	Description string

	Mesh       *Mesh
	Boundaries *Boundaries
}

// Write serializes to path. An existing file is refused unless overwrite
// is set.
func (g *Gr3) Write(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return errors.New(errors.ErrCodeInvalidInput,
			"%s exists, pass overwrite to replace it", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := g.Encode(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

// Encode writes the gr3 records to w.
func (g *Gr3) Encode(w io.Writer) error {
	if g.Mesh == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nothing to serialize, mesh is nil")
	}
	m := g.Mesh
	b := g.Boundaries
	if b == nil {
		b = NewBoundaries()
	}

	desc := g.Description
	if desc == "" {
		desc = fmt.Sprintf("%x", uuid.New())[:8]
	}

	ew := &errWriter{w: w}
	ew.printf("%s\n", desc)
	ew.printf("%d  %d\n", m.NumElements(), m.NumVertices())

	for i, p := range m.Vertices() {
		ew.printf("%d %.16E  %.16E %.16E\n", i+1, p.X, p.Y, -m.values[i])
	}
	for i, e := range m.Elements() {
		ew.printf("%d 3 %d %d %d\n", i+1, e[0]+1, e[1]+1, e[2]+1)
	}

	ocean := b.OfType(BoundaryOcean)
	ew.printf("%d ! total number of ocean boundaries\n", len(ocean))
	ew.printf("%d ! total number of ocean boundary nodes\n", b.nodeCount(BoundaryOcean))
	for _, grp := range ocean {
		ew.printf("%d ! number of nodes for ocean_boundary_%s\n", len(grp.Nodes), grp.Name)
		for _, idx := range grp.Nodes {
			ew.printf("%d\n", idx+1)
		}
	}

	nonOcean := []BoundaryType{
		BoundaryLand, BoundaryInner, BoundaryInflow,
		BoundaryOutflow, BoundaryWeir, BoundaryCulvert,
	}
	groupTotal := 0
	for _, t := range nonOcean {
		groupTotal += len(b.OfType(t))
	}
	ew.printf("%d ! total number of non-ocean boundaries\n", groupTotal)
	ew.printf("%d ! total number of non-ocean boundary nodes\n", b.nodeCount(nonOcean...))

	for _, t := range []BoundaryType{BoundaryLand, BoundaryInner, BoundaryInflow} {
		for _, grp := range b.OfType(t) {
			ew.printf("%d %d ! number of nodes and ibtype for %s_boundary_%s\n",
				len(grp.Nodes), grp.IBType, t, grp.Name)
			for _, idx := range grp.Nodes {
				ew.printf("%d\n", idx+1)
			}
		}
	}
	for _, grp := range b.OfType(BoundaryOutflow) {
		ew.printf("%d %d ! number of nodes and ibtype for outflow_boundary_%s\n",
			len(grp.Nodes), grp.IBType, grp.Name)
		for i, idx := range grp.Nodes {
			bar := grp.Barriers[i]
			ew.printf("%d %.16E %.16E\n", idx+1, bar.Height, bar.SubcriticalCoeff)
		}
	}
	for _, grp := range b.OfType(BoundaryWeir) {
		ew.printf("%d %d ! number of nodes and ibtype for weir_boundary_%s\n",
			len(grp.FrontFace), grp.IBType, grp.Name)
		for i := range grp.FrontFace {
			bar := grp.Barriers[i]
			ew.printf("%d %d %.16E %.16E %.16E\n",
				grp.FrontFace[i]+1, grp.BackFace[i]+1,
				bar.Height, bar.SubcriticalCoeff, bar.SupercriticalCoeff)
		}
	}
	for _, grp := range b.OfType(BoundaryCulvert) {
		ew.printf("%d %d ! number of nodes and ibtype for culvert_boundary_%s\n",
			len(grp.FrontFace), grp.IBType, grp.Name)
		for i := range grp.FrontFace {
			bar := grp.Barriers[i]
			ew.printf("%d %d %.16E %.16E %.16E %.16E %.16E %.16E\n",
				grp.FrontFace[i]+1, grp.BackFace[i]+1,
				bar.Height, bar.SubcriticalCoeff, bar.SupercriticalCoeff,
				bar.PipeHeight, bar.PipeCoeff, bar.PipeDiameter)
		}
	}

	ew.printf("%s\n", m.CRS().Descriptor)
	return ew.err
}

// ReadGr3 parses a gr3 file. Boundary sections are optional; non-ocean
// groups come back as land groups holding the leading node column of
// each record, which loses barrier parameters but preserves topology.
func ReadGr3(path string) (*Gr3, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return DecodeGr3(f)
}

// DecodeGr3 parses gr3 records from r.
func DecodeGr3(r io.Reader) (*Gr3, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line, ok := scanLine(sc)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty gr3 stream")
	}
	description := strings.TrimSpace(line)

	ne, np, err := readCounts(sc)
	if err != nil {
		return nil, err
	}

	vertices := make([]geom.Point, np)
	values := make([]float64, np)
	for i := 0; i < np; i++ {
		fields, err := readFields(sc, 4, "node record")
		if err != nil {
			return nil, err
		}
		x, errX := strconv.ParseFloat(fields[1], 64)
		y, errY := strconv.ParseFloat(fields[2], 64)
		v, errV := strconv.ParseFloat(fields[3], 64)
		if errX != nil || errY != nil || errV != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "malformed node record %q", fields)
		}
		vertices[i] = geom.Point{X: x, Y: y}
		values[i] = -v
	}

	elements := make([][3]int, ne)
	for i := 0; i < ne; i++ {
		fields, err := readFields(sc, 5, "element record")
		if err != nil {
			return nil, err
		}
		for j := 0; j < 3; j++ {
			v, err := strconv.Atoi(fields[2+j])
			if err != nil {
				return nil, errors.New(errors.ErrCodeInvalidInput, "malformed element record %q", fields)
			}
			elements[i][j] = v - 1
		}
	}

	m, err := New(vertices, elements, raster.CRS{})
	if err != nil {
		return nil, err
	}
	if err := m.SetValues(values); err != nil {
		return nil, err
	}

	b := NewBoundaries()
	if err := decodeBoundaries(sc, m, b); err != nil {
		return nil, err
	}

	return &Gr3{Description: description, Mesh: m, Boundaries: b}, nil
}

// decodeBoundaries parses the optional boundary sections and the trailing
// descriptor. A stream ending right after the elements is fine.
func decodeBoundaries(sc *bufio.Scanner, m *Mesh, b *Boundaries) error {
	nOcean, ok, err := readCount(sc)
	if err != nil || !ok {
		return err
	}
	if _, _, err := readCount(sc); err != nil { // ocean node total
		return err
	}
	for i := 0; i < nOcean; i++ {
		grp := BoundaryGroup{Name: fmt.Sprintf("ocean_%d", i+1), Type: BoundaryOcean}
		if grp.Nodes, err = readNodeRun(sc); err != nil {
			return err
		}
		if err := b.Add(grp); err != nil {
			return err
		}
	}

	nOther, ok, err := readCount(sc)
	if err != nil || !ok {
		return err
	}
	if _, _, err := readCount(sc); err != nil { // non-ocean node total
		return err
	}
	for i := 0; i < nOther; i++ {
		fields, err := readFields(sc, 2, "boundary group header")
		if err != nil {
			return err
		}
		n, errN := strconv.Atoi(fields[0])
		ibtype, errT := strconv.Atoi(fields[1])
		if errN != nil || errT != nil {
			return errors.New(errors.ErrCodeInvalidInput, "malformed boundary header %q", fields)
		}
		grp := BoundaryGroup{
			Name:   fmt.Sprintf("land_%d", i+1),
			Type:   BoundaryLand,
			IBType: ibtype,
		}
		for j := 0; j < n; j++ {
			row, err := readFields(sc, 1, "boundary node record")
			if err != nil {
				return err
			}
			idx, err := strconv.Atoi(row[0])
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "malformed boundary node %q", row[0])
			}
			grp.Nodes = append(grp.Nodes, idx-1)
		}
		if err := b.Add(grp); err != nil {
			return err
		}
	}

	if line, ok := scanLine(sc); ok {
		m.crs.Descriptor = strings.TrimSpace(line)
	}
	return nil
}

func readNodeRun(sc *bufio.Scanner) ([]int, error) {
	fields, err := readFields(sc, 1, "boundary group header")
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "malformed boundary header %q", fields[0])
	}
	nodes := make([]int, n)
	for i := range nodes {
		row, err := readFields(sc, 1, "boundary node record")
		if err != nil {
			return nil, err
		}
		idx, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "malformed boundary node %q", row[0])
		}
		nodes[i] = idx - 1
	}
	return nodes, nil
}

func readCounts(sc *bufio.Scanner) (ne, np int, err error) {
	fields, err := readFields(sc, 2, "count record")
	if err != nil {
		return 0, 0, err
	}
	ne, errE := strconv.Atoi(fields[0])
	np, errP := strconv.Atoi(fields[1])
	if errE != nil || errP != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "malformed count record %q", fields)
	}
	return ne, np, nil
}

// readCount reads one leading integer, tolerating a missing line (the
// boundary sections are optional).
func readCount(sc *bufio.Scanner) (int, bool, error) {
	line, ok := scanLine(sc)
	if !ok {
		return 0, false, nil
	}
	fields := strings.Fields(stripComment(line))
	if len(fields) == 0 {
		return 0, false, nil
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false, errors.New(errors.ErrCodeInvalidInput, "malformed count %q", fields[0])
	}
	return n, true, nil
}

func readFields(sc *bufio.Scanner, minFields int, what string) ([]string, error) {
	line, ok := scanLine(sc)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unexpected end of stream reading %s", what)
	}
	fields := strings.Fields(stripComment(line))
	if len(fields) < minFields {
		return nil, errors.New(errors.ErrCodeInvalidInput, "short %s %q", what, line)
	}
	return fields, nil
}

// scanLine returns the next non-blank line.
func scanLine(sc *bufio.Scanner) (string, bool) {
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			return sc.Text(), true
		}
	}
	return "", false
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '!'); i >= 0 {
		return line[:i]
	}
	return line
}

// errWriter folds fmt errors so Encode stays readable.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	if _, err := fmt.Fprintf(ew.w, format, args...); err != nil {
		ew.err = errors.Wrap(errors.ErrCodeIO, err, "write gr3 record")
	}
}
