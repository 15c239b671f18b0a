package mesh

import (
	"github.com/philipparndt/meshmetric/pkg/geometry"
	"github.com/unixpickle/model3d/model3d"
)

// ToModel3D fans the polygons into a model3d mesh. Triangles without
// area are skipped.
func (m *PolyData) ToModel3D() *model3d.Mesh {
	out := model3d.NewMesh()
	for _, t := range m.Triangles() {
		if t.Area() == 0 {
			continue
		}
		out.Add(Model3DTriangle(t))
	}
	return out
}

// Model3DTriangle converts a triangle keeping its winding.
func Model3DTriangle(t geometry.Triangle) *model3d.Triangle {
	return &model3d.Triangle{t.V1.Coord3D(), t.V2.Coord3D(), t.V3.Coord3D()}
}
