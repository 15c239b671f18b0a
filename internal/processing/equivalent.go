package processing

import (
	"fmt"

	"github.com/philipparndt/meshmetric/pkg/mesh"
)

// Equivalent checks that out has the same points, in the same order,
// and the same cells as in. Cells are compared index by index over the
// length of the input cell; a cell size mismatch is only tolerated when
// the input cell is a triangle. A nil error means the meshes match.
func Equivalent(in, out *mesh.PolyData) error {
	if in.NumberOfPoints() != out.NumberOfPoints() {
		return fmt.Errorf("%w: number of points %d != %d", ErrNotEquivalent, in.NumberOfPoints(), out.NumberOfPoints())
	}
	if in.NumberOfCells() != out.NumberOfCells() {
		return fmt.Errorf("%w: number of cells %d != %d", ErrNotEquivalent, in.NumberOfCells(), out.NumberOfCells())
	}

	for i, p := range in.Points {
		if p != out.Points[i] {
			return fmt.Errorf("%w: point %d differs", ErrNotEquivalent, i)
		}
	}

	for id, inCell := range in.Polys {
		outCell := out.Polys[id]
		if len(inCell) != len(outCell) && len(inCell) != 3 {
			return fmt.Errorf("%w: cell %d has %d points instead of %d", ErrNotEquivalent, id, len(outCell), len(inCell))
		}
		for k, idx := range inCell {
			if k >= len(outCell) || outCell[k] != idx {
				return fmt.Errorf("%w: cell %d differs at position %d", ErrNotEquivalent, id, k)
			}
		}
	}
	return nil
}
