package filter

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/meshmetric/pkg/geometry"
	"github.com/philipparndt/meshmetric/pkg/mesh"
	"github.com/unixpickle/model3d/model3d"
)

// featureAngle is the dihedral angle above which an edge is kept as a
// feature while preserving topology.
const featureAngle = math.Pi / 6

// Decimate removes the requested fraction of triangles. Closed manifold
// meshes go through model3d's Decimator, which removes the flattest
// vertices and retriangulates their holes without moving any geometry.
// Other meshes fall back to shortest-edge collapse. With
// preserveTopology the genus is kept and feature edges survive. Points
// no longer referenced are removed and point arrays follow the
// surviving points.
func (f *Laplacian) Decimate(m *mesh.PolyData, reduction float64, preserveTopology bool) (*mesh.PolyData, error) {
	if reduction < 0 || reduction >= 1 || math.IsNaN(reduction) {
		return nil, fmt.Errorf("decimate: %w (got %g)", ErrReductionRange, reduction)
	}
	if reduction == 0 {
		return m.Clone(), nil
	}

	mm := m.ToModel3D()
	tris := mm.TriangleSlice()
	if len(tris) != len(m.Triangles()) || !closed(tris) {
		return collapseEdges(m, reduction, preserveTopology), nil
	}

	target := int(math.Ceil(float64(len(tris)) * (1 - reduction)))
	res := decimateClosed(mm, target, preserveTopology, m.BoundingBox().Diagonal())
	out, err := fromModel3D(m, res.TriangleSlice())
	if err != nil {
		return nil, fmt.Errorf("decimate: %w", err)
	}
	return out, nil
}

// decimateClosed searches for the smallest number of removable vertices,
// flattest first, that brings the mesh down to target triangles. When
// the target cannot be reached the smallest acceptable result is used.
func decimateClosed(mm *model3d.Mesh, target int, preserveTopology bool, diagonal float64) *model3d.Mesh {
	order := flattest(mm)
	base := euler(mm.TriangleSlice())

	run := func(k int) (*model3d.Mesh, bool) {
		allowed := make(map[model3d.Coord3D]bool, k)
		for _, c := range order[:k] {
			allowed[c] = true
		}
		d := &model3d.Decimator{
			PlaneDistance:    diagonal,
			BoundaryDistance: diagonal * 1e-6,
			FeatureAngle:     featureAngle,
			FilterFunc: func(c model3d.Coord3D) bool {
				return allowed[c]
			},
		}
		if !preserveTopology {
			d.EliminateCorners = true
			d.NoEdgePreservation = true
		}
		res := d.Decimate(mm)
		tris := res.TriangleSlice()
		if len(tris) == 0 {
			return res, false
		}
		if preserveTopology && (euler(tris) != base || !manifold(tris)) {
			return res, false
		}
		return res, true
	}

	best, bestCount, reached := mm, len(mm.TriangleSlice()), false
	lo, hi := 1, len(order)
	for lo <= hi {
		k := (lo + hi) / 2
		res, ok := run(k)
		n := len(res.TriangleSlice())
		switch {
		case ok && n <= target:
			best, bestCount, reached = res, n, true
			hi = k - 1
		case ok && !reached && n < bestCount:
			best, bestCount = res, n
			lo = k + 1
		default:
			lo = k + 1
		}
	}
	return best
}

// manifold reports whether no edge has more than two triangles and no
// two triangles share all their corners.
func manifold(tris []*model3d.Triangle) bool {
	for _, n := range edgeUse(tris) {
		if n > 2 {
			return false
		}
	}
	seen := make(map[[3]model3d.Coord3D]bool, len(tris))
	for _, t := range tris {
		c := [3]model3d.Coord3D{t[0], t[1], t[2]}
		sort.Slice(c[:], func(i, j int) bool { return less(c[i], c[j]) })
		if seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}

// flattest orders the vertices by their distance to the plane through
// the centers of the surrounding triangles.
func flattest(mm *model3d.Mesh) []model3d.Coord3D {
	type ring struct {
		normal geometry.Vector3
		center geometry.Vector3
		count  int
	}
	rings := make(map[model3d.Coord3D]*ring)
	for _, t := range mm.TriangleSlice() {
		tri := geometry.NewTriangle(geometry.FromCoord3D(t[0]), geometry.FromCoord3D(t[1]), geometry.FromCoord3D(t[2]))
		n := tri.Normal().Mul(tri.Area())
		for _, c := range t {
			r := rings[c]
			if r == nil {
				r = &ring{}
				rings[c] = r
			}
			r.normal = r.normal.Add(n)
			r.center = r.center.Add(tri.Center())
			r.count++
		}
	}

	order := make([]model3d.Coord3D, 0, len(rings))
	height := make(map[model3d.Coord3D]float64, len(rings))
	for c, r := range rings {
		center := r.center.Mul(1 / float64(r.count))
		height[c] = math.Abs(geometry.FromCoord3D(c).Sub(center).Dot(r.normal.Normalize()))
		order = append(order, c)
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if height[a] != height[b] {
			return height[a] < height[b]
		}
		return less(a, b)
	})
	return order
}
