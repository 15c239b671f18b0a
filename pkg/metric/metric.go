// Package metric computes the per-point distance from one mesh to
// another and builds the color maps used to display it.
package metric

import (
	"errors"

	"github.com/philipparndt/meshmetric/pkg/analysis"
	"github.com/philipparndt/meshmetric/pkg/lut"
	"github.com/philipparndt/meshmetric/pkg/mesh"
)

// Engine measures the distance between two meshes.
type Engine interface {
	// Compute returns a copy of a carrying the distance from every point
	// of a to the surface of b.
	Compute(a, b *mesh.PolyData, p Params) (*Result, error)

	// CreateLut builds the color transfer function for a distance range.
	CreateLut(p LutParams) *lut.ColorTransferFunction
}

// Params controls a distance computation.
type Params struct {
	// SignedDistance keeps the side of the surface a point lies on.
	SignedDistance bool
	// SamplingStep is the sample spacing on b as a fraction of the
	// diagonal of its bounding box.
	SamplingStep float64
	// MinSampleFrequency is the minimum number of subdivisions per
	// triangle edge.
	MinSampleFrequency int
}

// DefaultParams returns the parameters used when nothing is configured.
func DefaultParams() Params {
	return Params{
		SignedDistance:     true,
		SamplingStep:       0.5,
		MinSampleFrequency: 2,
	}
}

// LutParams describes a distance color map.
type LutParams struct {
	Min, Max       float64
	Center, Delta  float64
	SignedDistance bool
}

// Result of a distance computation.
type Result struct {
	// Data is a copy of the first mesh with the ArrayOriginal array and
	// the active ArraySigned or ArrayAbsolute array.
	Data *mesh.PolyData
	Lut  *lut.ColorTransferFunction
	Min  float64
	Max  float64
	// Stats are computed over the signed distances.
	Stats analysis.DistanceStats
}

var (
	ErrEmptyMesh          = errors.New("mesh has no data")
	ErrNoSurface          = errors.New("target mesh has no triangles")
	ErrSamplingStep       = errors.New("sampling step must be positive")
	ErrMinSampleFrequency = errors.New("minimum sample frequency must be at least 1")
)

// Validate checks the parameters.
func (p Params) Validate() error {
	if !(p.SamplingStep > 0) {
		return ErrSamplingStep
	}
	if p.MinSampleFrequency < 1 {
		return ErrMinSampleFrequency
	}
	return nil
}
