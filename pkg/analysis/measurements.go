package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/meshmetric/pkg/geometry"
	"github.com/philipparndt/meshmetric/pkg/mesh"
)

// EdgeInfo contains information about an edge in the mesh
type EdgeInfo struct {
	Start  int
	End    int
	Length float64
}

// MeasurementResult contains various measurements of a mesh
type MeasurementResult struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	SurfaceArea   float64
	PointCount    int
	CellCount     int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	Arrays        []ArrayInfo
	AllEdges      []EdgeInfo
}

// ArrayInfo summarizes one point array
type ArrayInfo struct {
	Name     string
	Min, Max float64
	Active   bool
}

// AnalyzeMesh performs comprehensive analysis on a mesh. Shared edges
// are counted once.
func AnalyzeMesh(m *mesh.PolyData) *MeasurementResult {
	result := &MeasurementResult{
		BoundingBox: m.BoundingBox(),
		PointCount:  m.NumberOfPoints(),
		CellCount:   m.NumberOfCells(),
		AllEdges:    make([]EdgeInfo, 0),
	}
	result.Dimensions = result.BoundingBox.Size()

	for _, tri := range m.Triangles() {
		result.SurfaceArea += tri.Area()
	}

	seen := make(map[[2]int]bool)
	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	for _, cell := range m.Polys {
		for k := range cell {
			a, b := cell[k], cell[(k+1)%len(cell)]
			key := [2]int{a, b}
			if a > b {
				key = [2]int{b, a}
			}
			if a == b || seen[key] {
				continue
			}
			seen[key] = true

			length := m.Points[a].Distance(m.Points[b])
			result.AllEdges = append(result.AllEdges, EdgeInfo{Start: key[0], End: key[1], Length: length})

			totalLength += length
			if length < minLength {
				minLength = length
			}
			if length > maxLength {
				maxLength = length
			}
		}
	}

	result.EdgeCount = len(result.AllEdges)
	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	active := m.PointData.ActiveScalarsName()
	for _, a := range m.PointData.Arrays() {
		lo, hi := a.Range()
		result.Arrays = append(result.Arrays, ArrayInfo{Name: a.Name, Min: lo, Max: hi, Active: a.Name == active})
	}

	return result
}

// FindLongestEdges returns the N longest edges in the mesh
func FindLongestEdges(result *MeasurementResult, count int) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.Slice(edges, func(i, j int) bool {
		return edges[i].Length > edges[j].Length
	})

	if count > len(edges) {
		count = len(edges)
	}

	return edges[:count]
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
