package filter

import (
	"errors"
	"sort"

	"github.com/philipparndt/meshmetric/pkg/mesh"
	"github.com/unixpickle/model3d/model3d"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrCorrespondence is returned when the output of model3d cannot be
// mapped back onto the points of the input mesh.
var ErrCorrespondence = errors.New("filtered vertices do not match the input points")

func less(a, b model3d.Coord3D) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

// faceKey identifies a triangle by its corners, rotated so the smallest
// corner comes first. The winding is kept.
type faceKey [3]model3d.Coord3D

func newFaceKey(a, b, c model3d.Coord3D) faceKey {
	switch {
	case less(b, a) && !less(c, b):
		return faceKey{b, c, a}
	case less(c, a) && less(c, b):
		return faceKey{c, a, b}
	}
	return faceKey{a, b, c}
}

// edgeKey is an undirected edge.
type edgeKey [2]model3d.Coord3D

func newEdgeKey(a, b model3d.Coord3D) edgeKey {
	if less(b, a) {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// edgeUse counts the triangles on every edge.
func edgeUse(tris []*model3d.Triangle) map[edgeKey]int {
	use := make(map[edgeKey]int, len(tris)*3/2)
	for _, t := range tris {
		for k := 0; k < 3; k++ {
			use[newEdgeKey(t[k], t[(k+1)%3])]++
		}
	}
	return use
}

// closed reports whether every edge is shared by exactly two triangles
// running in opposite directions.
func closed(tris []*model3d.Triangle) bool {
	if len(tris) == 0 {
		return false
	}
	directed := make(map[[2]model3d.Coord3D]bool, len(tris)*3)
	for _, t := range tris {
		for k := 0; k < 3; k++ {
			e := [2]model3d.Coord3D{t[k], t[(k+1)%3]}
			if directed[e] {
				return false
			}
			directed[e] = true
		}
	}
	for e := range directed {
		if !directed[[2]model3d.Coord3D{e[1], e[0]}] {
			return false
		}
	}
	return true
}

// euler returns V - E + F.
func euler(tris []*model3d.Triangle) int {
	verts := make(map[model3d.Coord3D]bool)
	for _, t := range tris {
		for _, c := range t {
			verts[c] = true
		}
	}
	return len(verts) - len(edgeUse(tris)) + len(tris)
}

// vertex is a kd-tree entry for a mesh vertex.
type vertex struct {
	P  r3.Vec
	ID int
}

func (v *vertex) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(*vertex)
	switch d {
	case 0:
		return v.P.X - q.P.X
	case 1:
		return v.P.Y - q.P.Y
	case 2:
		return v.P.Z - q.P.Z
	}
	panic("unreachable")
}

func (v *vertex) Dims() int { return 3 }

func (v *vertex) Distance(c kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(v.P, c.(*vertex).P))
}

type vertices []vertex

func (s vertices) Index(i int) kdtree.Comparable { return &s[i] }

func (s vertices) Len() int { return len(s) }

func (s vertices) Pivot(d kdtree.Dim) int {
	p := vertexPlane{dim: d, vertices: s}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

func (s vertices) Slice(start, end int) kdtree.Interface { return s[start:end] }

type vertexPlane struct {
	dim      kdtree.Dim
	vertices vertices
}

func (p vertexPlane) Less(i, j int) bool {
	return p.vertices[i].Compare(&p.vertices[j], p.dim) < 0
}

func (p vertexPlane) Swap(i, j int) {
	p.vertices[i], p.vertices[j] = p.vertices[j], p.vertices[i]
}

func (p vertexPlane) Len() int { return len(p.vertices) }

func (p vertexPlane) Slice(start, end int) kdtree.SortSlicer {
	p.vertices = p.vertices[start:end]
	return p
}

func toR3(c model3d.Coord3D) r3.Vec {
	return r3.Vec{X: c.X, Y: c.Y, Z: c.Z}
}

// match pairs every coordinate of from with its nearest coordinate in
// to. The pairing must be one to one.
func match(from, to []model3d.Coord3D) (map[model3d.Coord3D]model3d.Coord3D, error) {
	if len(from) != len(to) {
		return nil, ErrCorrespondence
	}
	if len(to) == 0 {
		return map[model3d.Coord3D]model3d.Coord3D{}, nil
	}
	pts := make(vertices, len(to))
	for i, c := range to {
		pts[i] = vertex{P: toR3(c), ID: i}
	}
	tree := kdtree.New(pts, false)

	out := make(map[model3d.Coord3D]model3d.Coord3D, len(from))
	taken := make([]bool, len(to))
	for _, c := range from {
		got, _ := tree.Nearest(&vertex{P: toR3(c)})
		id := got.(*vertex).ID
		if taken[id] {
			return nil, ErrCorrespondence
		}
		taken[id] = true
		out[c] = to[id]
	}
	return out, nil
}

// fromModel3D rebuilds a mesh from model3d triangles whose corners are
// points of src. Points keep their order in src and point arrays
// follow them.
func fromModel3D(src *mesh.PolyData, tris []*model3d.Triangle) (*mesh.PolyData, error) {
	first := make(map[model3d.Coord3D]int, len(src.Points))
	for i := len(src.Points) - 1; i >= 0; i-- {
		first[src.Points[i].Coord3D()] = i
	}

	cells := make([][3]int, 0, len(tris))
	used := make(map[int]bool)
	for _, t := range tris {
		var c [3]int
		for k, p := range t {
			id, ok := first[p]
			if !ok {
				return nil, ErrCorrespondence
			}
			c[k] = id
			used[id] = true
		}
		cells = append(cells, c)
	}

	kept := make([]int, 0, len(used))
	for id := range used {
		kept = append(kept, id)
	}
	sort.Ints(kept)
	remap := make(map[int]int, len(kept))
	out := mesh.New(src.Name)
	for _, id := range kept {
		remap[id] = out.AddPoint(src.Points[id])
	}

	for i, c := range cells {
		c = [3]int{remap[c[0]], remap[c[1]], remap[c[2]]}
		for c[0] > c[1] || c[0] > c[2] {
			c = [3]int{c[1], c[2], c[0]}
		}
		cells[i] = c
	}
	sort.Slice(cells, func(i, j int) bool {
		a, b := cells[i], cells[j]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		if a[1] != b[1] {
			return a[1] < b[1]
		}
		return a[2] < b[2]
	})
	for _, c := range cells {
		out.AddTriangle(c[0], c[1], c[2])
	}
	out.PointData = src.PointData.Select(kept)
	return out, nil
}
