// Package vtk reads and writes legacy ASCII VTK polydata files.
package vtk

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/philipparndt/meshmetric/pkg/mesh"
)

const header = "# vtk DataFile Version 3.0"

// WriteFile writes the mesh to filename.
func WriteFile(filename string, m *mesh.PolyData) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Write(file, m); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filename, err)
	}
	return nil
}

// Write encodes the mesh. Point arrays are written as SCALARS sections
// in array order, the active array first.
func Write(w io.Writer, m *mesh.PolyData) error {
	bw := bufio.NewWriter(w)

	title := m.Name
	if title == "" {
		title = "meshmetric"
	}
	fmt.Fprintln(bw, header)
	fmt.Fprintln(bw, title)
	fmt.Fprintln(bw, "ASCII")
	fmt.Fprintln(bw, "DATASET POLYDATA")

	fmt.Fprintf(bw, "POINTS %d double\n", len(m.Points))
	for _, p := range m.Points {
		fmt.Fprintf(bw, "%s %s %s\n", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
	}

	if len(m.Polys) > 0 {
		size := 0
		for _, c := range m.Polys {
			size += len(c) + 1
		}
		fmt.Fprintf(bw, "POLYGONS %d %d\n", len(m.Polys), size)
		for _, c := range m.Polys {
			bw.WriteString(strconv.Itoa(len(c)))
			for _, id := range c {
				bw.WriteByte(' ')
				bw.WriteString(strconv.Itoa(id))
			}
			bw.WriteByte('\n')
		}
	}

	arrays := m.PointData.Arrays()
	if len(arrays) > 0 {
		fmt.Fprintf(bw, "POINT_DATA %d\n", len(m.Points))
		for _, a := range orderedArrays(m.PointData) {
			if a.Len() != len(m.Points) {
				return fmt.Errorf("array %q has %d values, mesh has %d points", a.Name, a.Len(), len(m.Points))
			}
			fmt.Fprintf(bw, "SCALARS %s double 1\n", encodeName(a.Name))
			fmt.Fprintln(bw, "LOOKUP_TABLE default")
			for _, v := range a.Values {
				bw.WriteString(formatFloat(v))
				bw.WriteByte('\n')
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write polydata: %w", err)
	}
	return nil
}

// orderedArrays moves the active array to the front, since readers
// treat the first SCALARS section as active.
func orderedArrays(pd *mesh.PointData) []*mesh.DataArray {
	arrays := pd.Arrays()
	active := pd.ActiveScalars()
	if active == nil {
		return arrays
	}
	out := make([]*mesh.DataArray, 0, len(arrays))
	out = append(out, active)
	for _, a := range arrays {
		if a != active {
			out = append(out, a)
		}
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
