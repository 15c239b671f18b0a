// Package mesh holds the polygonal mesh model shared by all processing
// stages: points, polygon cells and named per-point scalar arrays.
package mesh

import (
	"fmt"

	"github.com/philipparndt/meshmetric/pkg/geometry"
)

// Cell is a polygon given as indices into the point list.
type Cell []int

// PolyData is a polygonal mesh with point attributes.
type PolyData struct {
	Name      string
	Points    []geometry.Vector3
	Polys     []Cell
	PointData *PointData
}

// New returns an empty mesh.
func New(name string) *PolyData {
	return &PolyData{
		Name:      name,
		PointData: NewPointData(),
	}
}

// AddPoint appends a point and returns its index.
func (m *PolyData) AddPoint(p geometry.Vector3) int {
	m.Points = append(m.Points, p)
	return len(m.Points) - 1
}

// AddTriangle appends a triangle cell.
func (m *PolyData) AddTriangle(a, b, c int) {
	m.Polys = append(m.Polys, Cell{a, b, c})
}

// NumberOfPoints returns the number of points.
func (m *PolyData) NumberOfPoints() int {
	if m == nil {
		return 0
	}
	return len(m.Points)
}

// NumberOfCells returns the number of polygon cells.
func (m *PolyData) NumberOfCells() int {
	if m == nil {
		return 0
	}
	return len(m.Polys)
}

// IsEmpty reports whether the mesh has no points.
func (m *PolyData) IsEmpty() bool {
	return m.NumberOfPoints() == 0
}

// Triangle returns cell i as a triangle. Cells with more than three
// points return their first three.
func (m *PolyData) Triangle(i int) geometry.Triangle {
	c := m.Polys[i]
	return geometry.NewTriangle(m.Points[c[0]], m.Points[c[1]], m.Points[c[2]])
}

// Triangles returns all triangle cells. Cells with fewer than three
// points are skipped and larger polygons are fanned.
func (m *PolyData) Triangles() []geometry.Triangle {
	tris := make([]geometry.Triangle, 0, len(m.Polys))
	for _, c := range m.Polys {
		for k := 1; k+1 < len(c); k++ {
			tris = append(tris, geometry.NewTriangle(m.Points[c[0]], m.Points[c[k]], m.Points[c[k+1]]))
		}
	}
	return tris
}

// BoundingBox calculates the bounding box of all points
func (m *PolyData) BoundingBox() geometry.BoundingBox {
	return geometry.BoundingBoxOf(m.Points)
}

// Validate checks that every cell index refers to an existing point and
// every array has one value per point.
func (m *PolyData) Validate() error {
	n := len(m.Points)
	for i, c := range m.Polys {
		for _, id := range c {
			if id < 0 || id >= n {
				return fmt.Errorf("cell %d references point %d, mesh has %d points", i, id, n)
			}
		}
	}
	for _, a := range m.PointData.Arrays() {
		if a.Len() != n {
			return fmt.Errorf("array %q has %d values, mesh has %d points", a.Name, a.Len(), n)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (m *PolyData) Clone() *PolyData {
	out := &PolyData{
		Name:      m.Name,
		Points:    append([]geometry.Vector3(nil), m.Points...),
		Polys:     make([]Cell, len(m.Polys)),
		PointData: m.PointData.Clone(),
	}
	for i, c := range m.Polys {
		out.Polys[i] = append(Cell(nil), c...)
	}
	return out
}

// Neighbors returns, for every point, the sorted-by-insertion list of
// points sharing an edge with it.
func (m *PolyData) Neighbors() [][]int {
	neighbors := make([][]int, len(m.Points))
	seen := make([]map[int]struct{}, len(m.Points))
	link := func(a, b int) {
		if seen[a] == nil {
			seen[a] = make(map[int]struct{})
		}
		if _, ok := seen[a][b]; ok {
			return
		}
		seen[a][b] = struct{}{}
		neighbors[a] = append(neighbors[a], b)
	}
	for _, c := range m.Polys {
		for k := range c {
			a, b := c[k], c[(k+1)%len(c)]
			if a == b {
				continue
			}
			link(a, b)
			link(b, a)
		}
	}
	return neighbors
}
