package filter

import (
	"math"
	"sort"

	"github.com/philipparndt/meshmetric/pkg/geometry"
	"github.com/philipparndt/meshmetric/pkg/mesh"
)

// collapseEdges removes triangles by collapsing the shortest edges first
// until at most target remain. A collapse moves no geometry: the second
// point of the edge is merged into the first. With preserveTopology a
// collapse is only performed when it keeps the surface manifold and
// flips no triangle. It stops early once no legal collapse remains.
// Points no longer referenced are removed and point arrays follow the
// surviving points.
func collapseEdges(m *mesh.PolyData, reduction float64, preserveTopology bool) *mesh.PolyData {
	d := newDecimator(m, preserveTopology)
	target := int(math.Ceil(float64(len(d.tris)) * (1 - reduction)))
	for d.alive > target {
		if !d.pass(target) {
			break
		}
	}
	return d.result(m)
}

type edge struct {
	u, v   int
	length float64
}

type decimator struct {
	mesh             *mesh.PolyData
	tris             [][3]int
	dead             []bool
	alive            int
	incident         [][]int
	preserveTopology bool
}

func newDecimator(m *mesh.PolyData, preserveTopology bool) *decimator {
	d := &decimator{
		mesh:             m,
		incident:         make([][]int, m.NumberOfPoints()),
		preserveTopology: preserveTopology,
	}
	for _, c := range m.Polys {
		for k := 1; k+1 < len(c); k++ {
			tri := [3]int{c[0], c[k], c[k+1]}
			if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
				continue
			}
			id := len(d.tris)
			d.tris = append(d.tris, tri)
			for _, p := range tri {
				d.incident[p] = append(d.incident[p], id)
			}
		}
	}
	d.dead = make([]bool, len(d.tris))
	d.alive = len(d.tris)
	return d
}

// pass collapses a batch of independent edges and reports whether any
// collapse happened.
func (d *decimator) pass(target int) bool {
	edges := d.edges()
	sort.Slice(edges, func(i, j int) bool { return edges[i].length < edges[j].length })

	locked := make(map[int]bool)
	collapsed := false
	for _, e := range edges {
		if d.alive <= target {
			break
		}
		if locked[e.u] || locked[e.v] {
			continue
		}
		if !d.canCollapse(e.u, e.v) {
			continue
		}
		d.collapse(e.u, e.v)
		collapsed = true
		locked[e.u] = true
		locked[e.v] = true
		for _, n := range d.neighbors(e.u) {
			locked[n] = true
		}
	}
	return collapsed
}

func (d *decimator) edges() []edge {
	seen := make(map[[2]int]bool)
	var edges []edge
	for id, tri := range d.tris {
		if d.dead[id] {
			continue
		}
		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			key := [2]int{a, b}
			if a > b {
				key = [2]int{b, a}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			edges = append(edges, edge{u: key[0], v: key[1], length: d.mesh.Points[a].Distance(d.mesh.Points[b])})
		}
	}
	return edges
}

func (d *decimator) aliveIncident(p int) []int {
	var out []int
	for _, id := range d.incident[p] {
		if !d.dead[id] {
			out = append(out, id)
		}
	}
	return out
}

func (d *decimator) neighbors(p int) []int {
	set := make(map[int]bool)
	var out []int
	for _, id := range d.aliveIncident(p) {
		for _, q := range d.tris[id] {
			if q != p && !set[q] {
				set[q] = true
				out = append(out, q)
			}
		}
	}
	return out
}

func contains(tri [3]int, p int) bool {
	return tri[0] == p || tri[1] == p || tri[2] == p
}

// isBoundary reports whether p lies on an edge used by a single triangle.
func (d *decimator) isBoundary(p int) bool {
	count := make(map[int]int)
	for _, id := range d.aliveIncident(p) {
		for _, q := range d.tris[id] {
			if q != p {
				count[q]++
			}
		}
	}
	for _, c := range count {
		if c == 1 {
			return true
		}
	}
	return false
}

func (d *decimator) canCollapse(u, v int) bool {
	var shared []int
	for _, id := range d.aliveIncident(v) {
		if contains(d.tris[id], u) {
			shared = append(shared, id)
		}
	}
	if len(shared) == 0 {
		return false
	}
	if d.alive-len(shared) < 1 {
		return false
	}
	if !d.preserveTopology {
		return true
	}
	if len(shared) > 2 {
		return false
	}
	if len(shared) == 2 && d.isBoundary(u) && d.isBoundary(v) {
		return false
	}

	// link condition: common neighbors are exactly the apexes of the
	// triangles sharing the edge
	apex := make(map[int]bool)
	for _, id := range shared {
		for _, q := range d.tris[id] {
			if q != u && q != v {
				apex[q] = true
			}
		}
	}
	nu := make(map[int]bool)
	for _, q := range d.neighbors(u) {
		nu[q] = true
	}
	common := 0
	for _, q := range d.neighbors(v) {
		if nu[q] {
			if !apex[q] {
				return false
			}
			common++
		}
	}
	if common != len(apex) {
		return false
	}

	// no triangle may flip or fold onto another one
	faces := make(map[[3]int]bool)
	for _, id := range d.aliveIncident(u) {
		if !contains(d.tris[id], v) {
			faces[sortedTri(d.tris[id])] = true
		}
	}
	for _, id := range d.aliveIncident(v) {
		tri := d.tris[id]
		if contains(tri, u) {
			continue
		}
		before := d.normal(tri)
		moved := replace(tri, v, u)
		after := d.normal(moved)
		if after.LengthSquared() == 0 || before.Dot(after) <= 0 {
			return false
		}
		key := sortedTri(moved)
		if faces[key] {
			return false
		}
		faces[key] = true
	}
	return true
}

func (d *decimator) collapse(u, v int) {
	for _, id := range d.aliveIncident(v) {
		if contains(d.tris[id], u) {
			d.dead[id] = true
			d.alive--
			continue
		}
		d.tris[id] = replace(d.tris[id], v, u)
		d.incident[u] = append(d.incident[u], id)
	}
	d.incident[v] = nil
}

func (d *decimator) normal(tri [3]int) geometry.Vector3 {
	a, b, c := d.mesh.Points[tri[0]], d.mesh.Points[tri[1]], d.mesh.Points[tri[2]]
	return b.Sub(a).Cross(c.Sub(a))
}

func replace(tri [3]int, from, to int) [3]int {
	for k := range tri {
		if tri[k] == from {
			tri[k] = to
		}
	}
	return tri
}

func sortedTri(tri [3]int) [3]int {
	s := tri[:]
	sort.Ints(s)
	return [3]int{s[0], s[1], s[2]}
}

// result builds the decimated mesh, keeping referenced points in their
// original order.
func (d *decimator) result(src *mesh.PolyData) *mesh.PolyData {
	used := make([]bool, src.NumberOfPoints())
	for id, tri := range d.tris {
		if d.dead[id] {
			continue
		}
		for _, p := range tri {
			used[p] = true
		}
	}

	remap := make([]int, len(used))
	var kept []int
	out := mesh.New(src.Name)
	for p, ok := range used {
		if !ok {
			continue
		}
		remap[p] = len(kept)
		kept = append(kept, p)
		out.AddPoint(src.Points[p])
	}
	for id, tri := range d.tris {
		if d.dead[id] {
			continue
		}
		out.AddTriangle(remap[tri[0]], remap[tri[1]], remap[tri[2]])
	}
	out.PointData = src.PointData.Select(kept)
	return out
}
