package viewer

import (
	"math"

	"github.com/philipparndt/meshmetric/pkg/dataset"
	"github.com/philipparndt/meshmetric/pkg/geometry"
)

// PickRadius is the largest screen distance, in pixels, at which a
// point is picked.
const PickRadius = 20.0

// PickResult is a point of the displayed mesh found under the cursor.
type PickResult struct {
	Index    int
	Point    geometry.Vector3
	Value    float64
	HasValue bool
}

// Pick finds the point projected closest to (x, y) within PickRadius.
func Pick(m dataset.Mapper, cam *Camera, x, y, width, height float64) (PickResult, bool) {
	if m.Input == nil {
		return PickResult{}, false
	}

	best := -1
	minDist := math.MaxFloat64
	for i, p := range m.Input.Points {
		sx, sy, z := cam.Project(p, width, height)
		if z <= nearPlane {
			continue
		}
		if d := math.Hypot(sx-x, sy-y); d < minDist {
			minDist = d
			best = i
		}
	}
	if best < 0 || minDist > PickRadius {
		return PickResult{}, false
	}

	res := PickResult{Index: best, Point: m.Input.Points[best]}
	if a := m.Input.PointData.ArrayByName(m.ScalarName); a != nil && best < a.Len() {
		res.Value = a.Values[best]
		res.HasValue = true
	}
	return res, true
}
