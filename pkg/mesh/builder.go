package mesh

import "github.com/philipparndt/meshmetric/pkg/geometry"

// Builder assembles a mesh from triangle soup, merging equal vertices
// into shared points so the result has connectivity.
type Builder struct {
	mesh  *PolyData
	index map[geometry.Vector3]int
}

// NewBuilder starts an empty mesh.
func NewBuilder(name string) *Builder {
	return &Builder{
		mesh:  New(name),
		index: make(map[geometry.Vector3]int),
	}
}

func (b *Builder) point(v geometry.Vector3) int {
	if id, ok := b.index[v]; ok {
		return id
	}
	id := b.mesh.AddPoint(v)
	b.index[v] = id
	return id
}

// AddFacet adds a triangle. Facets collapsing to fewer than three
// distinct points are dropped.
func (b *Builder) AddFacet(v1, v2, v3 geometry.Vector3) {
	if v1 == v2 || v2 == v3 || v1 == v3 {
		return
	}
	b.mesh.AddTriangle(b.point(v1), b.point(v2), b.point(v3))
}

// SetName renames the mesh being built.
func (b *Builder) SetName(name string) {
	b.mesh.Name = name
}

// Mesh returns the mesh built so far.
func (b *Builder) Mesh() *PolyData {
	return b.mesh
}
