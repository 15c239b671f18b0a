package filter

import (
	"fmt"

	"github.com/philipparndt/meshmetric/pkg/geometry"
	"github.com/philipparndt/meshmetric/pkg/mesh"
	"github.com/unixpickle/model3d/model3d"
)

// Smooth applies Laplacian smoothing with model3d's MeshSmoother. Each
// iteration moves every vertex by RelaxationFactor times the sum of its
// edge vectors. Points are identified by position, so coincident points
// move together. Points on no triangle stay put. The output has the
// same points, cells and arrays as the input.
func (f *Laplacian) Smooth(m *mesh.PolyData, iterations int) (*mesh.PolyData, error) {
	if iterations < 0 {
		return nil, fmt.Errorf("smooth: %w (got %d)", ErrNegativeIterations, iterations)
	}

	out := m.Clone()
	if iterations == 0 || out.NumberOfCells() == 0 {
		return out, nil
	}

	smoother := &model3d.MeshSmoother{StepSize: f.RelaxationFactor, Iterations: 1}
	for it := 0; it < iterations; it++ {
		moved, err := smoothStep(smoother, out.ToModel3D())
		if err != nil {
			return nil, fmt.Errorf("smooth: iteration %d: %w", it, err)
		}
		for i, p := range out.Points {
			if q, ok := moved[p.Coord3D()]; ok {
				out.Points[i] = geometry.FromCoord3D(q)
			}
		}
	}
	return out, nil
}

// smoothStep runs the smoother once and maps every input vertex to its
// new position. Each input triangle must reappear under the mapping.
func smoothStep(s *model3d.MeshSmoother, in *model3d.Mesh) (map[model3d.Coord3D]model3d.Coord3D, error) {
	res := s.Smooth(in)
	moved, err := match(in.VertexSlice(), res.VertexSlice())
	if err != nil {
		return nil, err
	}

	faces := make(map[faceKey]bool)
	for _, t := range res.TriangleSlice() {
		faces[newFaceKey(t[0], t[1], t[2])] = true
	}
	for _, t := range in.TriangleSlice() {
		if !faces[newFaceKey(moved[t[0]], moved[t[1]], moved[t[2]])] {
			return nil, ErrCorrespondence
		}
	}
	return moved, nil
}
