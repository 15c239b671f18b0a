package vtk

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/philipparndt/meshmetric/pkg/geometry"
	"github.com/philipparndt/meshmetric/pkg/mesh"
)

// maxCount bounds every count read from a header.
const maxCount = 1 << 28

// preallocate caps the capacity reserved from a header count.
const preallocate = 1 << 16

var (
	// ErrCount is returned for negative or oversized counts.
	ErrCount = errors.New("invalid count")
	// ErrCellSize is returned when cells exceed the size in their header.
	ErrCellSize = errors.New("cells exceed declared size")
)

// ReadFile reads a legacy ASCII polydata file.
func ReadFile(filename string) (*mesh.PolyData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	m, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(filename), err)
	}
	return m, nil
}

// Read decodes a legacy ASCII polydata stream. Supported sections are
// POINTS, POLYGONS, TRIANGLE_STRIPS and single-component POINT_DATA
// SCALARS and FIELD arrays. VERTICES, LINES and NORMALS are skipped.
func Read(r io.Reader) (*mesh.PolyData, error) {
	br := bufio.NewReader(r)

	version, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if !strings.HasPrefix(version, "# vtk DataFile") {
		return nil, fmt.Errorf("not a vtk file")
	}
	title, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read title: %w", err)
	}

	tr := newTokenReader(br)
	format, err := tr.next()
	if err != nil {
		return nil, err
	}
	if format != "ASCII" {
		return nil, fmt.Errorf("unsupported format %q (only ASCII)", format)
	}
	if err := tr.expect("DATASET"); err != nil {
		return nil, err
	}
	if err := tr.expect("POLYDATA"); err != nil {
		return nil, err
	}

	m := mesh.New(strings.TrimSpace(title))
	for {
		keyword, err := tr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch strings.ToUpper(keyword) {
		case "POINTS":
			if err := readPoints(tr, m); err != nil {
				return nil, err
			}
		case "POLYGONS":
			if err := readCells(tr, func(c mesh.Cell) { m.Polys = append(m.Polys, c) }); err != nil {
				return nil, err
			}
		case "TRIANGLE_STRIPS":
			if err := readCells(tr, func(c mesh.Cell) { m.Polys = append(m.Polys, stripToTriangles(c)...) }); err != nil {
				return nil, err
			}
		case "VERTICES", "LINES":
			if err := readCells(tr, func(mesh.Cell) {}); err != nil {
				return nil, err
			}
		case "POINT_DATA":
			n, err := tr.count()
			if err != nil {
				return nil, err
			}
			if n != len(m.Points) {
				return nil, fmt.Errorf("POINT_DATA %d does not match %d points", n, len(m.Points))
			}
		case "SCALARS":
			if err := readScalars(tr, m); err != nil {
				return nil, err
			}
		case "FIELD":
			if err := readField(tr, m); err != nil {
				return nil, err
			}
		case "NORMALS":
			if _, err := tr.next(); err != nil {
				return nil, err
			}
			if _, err := tr.next(); err != nil {
				return nil, err
			}
			if err := tr.skip(3 * len(m.Points)); err != nil {
				return nil, err
			}
		case "METADATA":
			if err := skipMetadata(tr); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unsupported section %q", keyword)
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func readPoints(tr *tokenReader, m *mesh.PolyData) error {
	n, err := tr.count()
	if err != nil {
		return fmt.Errorf("POINTS: %w", err)
	}
	if _, err := tr.next(); err != nil { // data type
		return err
	}
	m.Points = make([]geometry.Vector3, 0, min(n, preallocate))
	for i := 0; i < n; i++ {
		var xyz [3]float64
		for j := range xyz {
			if xyz[j], err = tr.number(); err != nil {
				return fmt.Errorf("point %d: %w", i, err)
			}
		}
		m.Points = append(m.Points, geometry.NewVector3(xyz[0], xyz[1], xyz[2]))
	}
	return nil
}

func readCells(tr *tokenReader, add func(mesh.Cell)) error {
	n, err := tr.count()
	if err != nil {
		return err
	}
	total, err := tr.count()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		size, err := tr.count()
		if err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
		if total -= size + 1; total < 0 {
			return fmt.Errorf("cell %d: %w", i, ErrCellSize)
		}
		c := make(mesh.Cell, 0, min(size, preallocate))
		for j := 0; j < size; j++ {
			id, err := tr.integer()
			if err != nil {
				return fmt.Errorf("cell %d: %w", i, err)
			}
			c = append(c, id)
		}
		add(c)
	}
	return nil
}

func stripToTriangles(strip mesh.Cell) []mesh.Cell {
	var tris []mesh.Cell
	for i := 0; i+2 < len(strip); i++ {
		if i%2 == 0 {
			tris = append(tris, mesh.Cell{strip[i], strip[i+1], strip[i+2]})
		} else {
			tris = append(tris, mesh.Cell{strip[i+1], strip[i], strip[i+2]})
		}
	}
	return tris
}

func readScalars(tr *tokenReader, m *mesh.PolyData) error {
	tok, err := tr.next()
	if err != nil {
		return err
	}
	name := decodeName(tok)
	if _, err := tr.next(); err != nil { // data type
		return err
	}
	components := 1
	tok, err = tr.next()
	if err != nil {
		return err
	}
	if tok != "LOOKUP_TABLE" {
		if components, err = strconv.Atoi(tok); err != nil {
			return fmt.Errorf("scalars %q: bad component count %q", name, tok)
		}
		if err := tr.expect("LOOKUP_TABLE"); err != nil {
			return err
		}
	}
	if _, err := tr.next(); err != nil { // table name
		return err
	}
	if components != 1 {
		return fmt.Errorf("scalars %q: %d components not supported", name, components)
	}
	values, err := tr.floats(len(m.Points))
	if err != nil {
		return fmt.Errorf("scalars %q: %w", name, err)
	}
	m.PointData.AddArray(mesh.NewDataArray(name, values))
	if m.PointData.ActiveScalarsName() == "" {
		m.PointData.SetActiveScalars(name)
	}
	return nil
}

func readField(tr *tokenReader, m *mesh.PolyData) error {
	if _, err := tr.next(); err != nil { // field name
		return err
	}
	count, err := tr.count()
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		tok, err := tr.next()
		if err != nil {
			return err
		}
		name := decodeName(tok)
		components, err := tr.count()
		if err != nil {
			return fmt.Errorf("field array %q: %w", name, err)
		}
		tuples, err := tr.count()
		if err != nil {
			return fmt.Errorf("field array %q: %w", name, err)
		}
		if tuples > 0 && components > maxCount/tuples {
			return fmt.Errorf("field array %q: %w", name, ErrCount)
		}
		if _, err := tr.next(); err != nil { // data type
			return err
		}
		values, err := tr.floats(components * tuples)
		if err != nil {
			return fmt.Errorf("field array %q: %w", name, err)
		}
		if components == 1 && tuples == len(m.Points) {
			m.PointData.AddArray(mesh.NewDataArray(name, values))
		}
	}
	return nil
}

func skipMetadata(tr *tokenReader) error {
	if err := tr.expect("INFORMATION"); err != nil {
		return err
	}
	n, err := tr.integer()
	if err != nil {
		return err
	}
	if n != 0 {
		return fmt.Errorf("metadata with %d information entries not supported", n)
	}
	return nil
}

type tokenReader struct {
	scanner *bufio.Scanner
}

func newTokenReader(r io.Reader) *tokenReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	s.Split(bufio.ScanWords)
	return &tokenReader{scanner: s}
}

func (t *tokenReader) next() (string, error) {
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return "", fmt.Errorf("error reading vtk: %w", err)
		}
		return "", io.EOF
	}
	return t.scanner.Text(), nil
}

func (t *tokenReader) expect(keyword string) error {
	tok, err := t.next()
	if err != nil {
		return fmt.Errorf("expected %s: %w", keyword, err)
	}
	if !strings.EqualFold(tok, keyword) {
		return fmt.Errorf("expected %s, got %q", keyword, tok)
	}
	return nil
}

func (t *tokenReader) integer() (int, error) {
	tok, err := t.next()
	if err != nil {
		return 0, unexpected(err)
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("expected integer, got %q", tok)
	}
	return v, nil
}

// count reads a section or cell size.
func (t *tokenReader) count() (int, error) {
	v, err := t.integer()
	if err != nil {
		return 0, err
	}
	if v < 0 || v > maxCount {
		return 0, fmt.Errorf("%w: %d", ErrCount, v)
	}
	return v, nil
}

func (t *tokenReader) number() (float64, error) {
	tok, err := t.next()
	if err != nil {
		return 0, unexpected(err)
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("expected number, got %q", tok)
	}
	return v, nil
}

func (t *tokenReader) floats(n int) ([]float64, error) {
	values := make([]float64, 0, min(n, preallocate))
	for i := 0; i < n; i++ {
		v, err := t.number()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func (t *tokenReader) skip(n int) error {
	for i := 0; i < n; i++ {
		if _, err := t.next(); err != nil {
			return unexpected(err)
		}
	}
	return nil
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
