package dataset

import (
	"github.com/philipparndt/meshmetric/pkg/lut"
	"github.com/philipparndt/meshmetric/pkg/mesh"
)

// Mapper is a snapshot of what is displayed for a dataset.
type Mapper struct {
	Input      *mesh.PolyData
	Lut        *lut.ColorTransferFunction
	ScalarName string
	// Generation increases every time the mapper is refreshed.
	Generation int
}

// PointColor returns the display color of point i. Without scalars or
// a color map every point is gray.
func (m Mapper) PointColor(i int) lut.RGB {
	if m.Input == nil || m.Lut == nil || m.ScalarName == "" {
		return lut.Gray
	}
	a := m.Input.PointData.ArrayByName(m.ScalarName)
	if a == nil || i < 0 || i >= a.Len() {
		return lut.Gray
	}
	return m.Lut.Color(a.Values[i])
}
