// Package filter provides the mesh filters used by the processing layer:
// Laplacian smoothing and topology-preserving decimation, both run by
// model3d. The filters sit behind the Filter interface so the processing
// layer can swap them out.
package filter

import (
	"errors"

	"github.com/philipparndt/meshmetric/pkg/mesh"
)

// Filter smooths and decimates meshes. Implementations never modify
// their input.
type Filter interface {
	// Smooth relaxes point positions for the given number of iterations.
	Smooth(m *mesh.PolyData, iterations int) (*mesh.PolyData, error)

	// Decimate removes the given fraction of triangles.
	Decimate(m *mesh.PolyData, reduction float64, preserveTopology bool) (*mesh.PolyData, error)
}

// DefaultRelaxationFactor is the smoothing step size.
const DefaultRelaxationFactor = 0.01

var (
	// ErrNegativeIterations is returned by Smooth for iterations < 0.
	ErrNegativeIterations = errors.New("number of iterations must not be negative")
	// ErrReductionRange is returned by Decimate for reductions outside [0,1).
	ErrReductionRange = errors.New("target reduction must be in [0, 1)")
)

// Compile-time interface check.
var _ Filter = (*Laplacian)(nil)

// Laplacian implements Filter with model3d's MeshSmoother and
// Decimator.
type Laplacian struct {
	RelaxationFactor float64
}

// New returns a filter with the default relaxation factor.
func New() *Laplacian {
	return &Laplacian{RelaxationFactor: DefaultRelaxationFactor}
}

// NewWithRelaxation returns a filter with the given relaxation factor.
// Non-positive values fall back to DefaultRelaxationFactor.
func NewWithRelaxation(factor float64) *Laplacian {
	if factor <= 0 {
		factor = DefaultRelaxationFactor
	}
	return &Laplacian{RelaxationFactor: factor}
}
