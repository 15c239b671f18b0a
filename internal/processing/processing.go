// Package processing sequences the mesh operations a user can trigger:
// smoothing, decimation, distance computation, recoloring, saving and
// reloading. Each operation calls a single collaborator, checks its
// result and reports failures as errors.
package processing

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/philipparndt/meshmetric/internal/loader"
	"github.com/philipparndt/meshmetric/pkg/dataset"
	"github.com/philipparndt/meshmetric/pkg/filter"
	"github.com/philipparndt/meshmetric/pkg/mesh"
	"github.com/philipparndt/meshmetric/pkg/metric"
)

// User-facing failures.
var (
	ErrSmoothing        = errors.New("error: processing smoothing")
	ErrNoDataToDecimate = errors.New("error: no data to decimate")
	ErrDownSampling     = errors.New("error: processing down sampling")
	ErrInvalidExtension = errors.New("please enter a name with a valid extension (.vtk)")
	ErrNotEquivalent    = errors.New("meshes are not equivalent")
	ErrEmptyFileName    = errors.New("please enter a file name")
)

// Processor runs mesh operations against its collaborators.
type Processor struct {
	Filter filter.Filter
	Engine metric.Engine
	// Load reads a mesh file, used by Reload.
	Load   func(path string) (*mesh.PolyData, error)
	Logger *log.Logger
}

// New creates a processor using the given collaborators.
func New(f filter.Filter, e metric.Engine) *Processor {
	return &Processor{
		Filter: f,
		Engine: e,
		Load:   loader.Load,
		Logger: log.New(os.Stderr, "[meshmetric] ", log.LstdFlags),
	}
}

// Default creates a processor with the built-in filter and engine.
func Default() *Processor {
	return New(filter.New(), metric.NewMeshValmet())
}

// Smooth smooths m. If the filter fails or changes the number of
// points, m itself is returned together with ErrSmoothing.
func (p *Processor) Smooth(m *mesh.PolyData, iterations int) (*mesh.PolyData, error) {
	out, err := p.Filter.Smooth(m, iterations)
	if err != nil {
		p.Logger.Printf("smoothing failed: %v", err)
		return m, fmt.Errorf("%w: %w", ErrSmoothing, err)
	}
	if out.NumberOfPoints() != m.NumberOfPoints() {
		p.Logger.Printf("smoothing changed the number of points from %d to %d", m.NumberOfPoints(), out.NumberOfPoints())
		return m, ErrSmoothing
	}
	return out, nil
}

// Decimate removes the given fraction of triangles while preserving
// topology. An empty input fails with ErrNoDataToDecimate before the
// filter runs; an empty result fails with ErrDownSampling. On failure
// m itself is returned.
func (p *Processor) Decimate(m *mesh.PolyData, reduction float64) (*mesh.PolyData, error) {
	if m.NumberOfPoints() == 0 {
		p.Logger.Printf("nothing to decimate")
		return m, ErrNoDataToDecimate
	}

	out, err := p.Filter.Decimate(m, reduction, true)
	if err != nil {
		p.Logger.Printf("decimation failed: %v", err)
		return m, fmt.Errorf("%w: %w", ErrDownSampling, err)
	}
	if out.NumberOfPoints() == 0 {
		p.Logger.Printf("decimation removed every point")
		return m, ErrDownSampling
	}
	return out, nil
}

// ComputeError measures the distance from a to b with a's distance
// settings. On success a takes over the resulting mesh, color map and
// range and its mapper is refreshed. On failure a is unchanged.
func (p *Processor) ComputeError(a, b *dataset.Dataset) (*metric.Result, error) {
	params := metric.Params{
		SignedDistance:     a.SignedDistance,
		SamplingStep:       a.SamplingStep,
		MinSampleFrequency: a.MinSamplingFrequency,
	}

	res, err := p.Engine.Compute(a.PolyData(), b.PolyData(), params)
	if err != nil {
		p.Logger.Printf("distance from %s to %s failed: %v", a.Name, b.Name, err)
		return nil, fmt.Errorf("computing distance from %s to %s: %w", a.Name, b.Name, err)
	}

	a.SetPolyData(res.Data)
	a.SetLut(res.Lut)
	a.Min = res.Min
	a.Max = res.Max
	a.RefreshMapper()
	return res, nil
}

// UpdateColor rebuilds the color map of ds for the given range and
// green band and makes the matching distance array active.
func (p *Processor) UpdateColor(lo, hi, center, delta float64, ds *dataset.Dataset) {
	f := p.Engine.CreateLut(metric.LutParams{
		Min:            lo,
		Max:            hi,
		Center:         center,
		Delta:          delta,
		SignedDistance: ds.SignedDistance,
	})
	ds.Min, ds.Max = lo, hi
	ds.Center, ds.Delta = center, delta
	ds.SetLut(f)
	ds.ChangeActiveScalar()
}

// Reload reads ds.FileName again, replaces the mesh and restores the
// distance settings stored in its arrays.
func (p *Processor) Reload(ds *dataset.Dataset) (Classification, error) {
	m, err := p.Load(ds.FileName)
	if err != nil {
		p.Logger.Printf("reloading %s failed: %v", ds.FileName, err)
		return Classification{}, fmt.Errorf("reloading %s: %w", ds.FileName, err)
	}

	ds.SetPolyData(m)
	c := p.CheckPreviousError(ds)
	if c.Status.Valid() {
		p.UpdateColor(ds.Min, ds.Max, ds.Center, ds.Delta, ds)
	} else {
		ds.RefreshMapper()
	}
	return c, nil
}
