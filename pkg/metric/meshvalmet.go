package metric

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/philipparndt/meshmetric/pkg/analysis"
	"github.com/philipparndt/meshmetric/pkg/geometry"
	"github.com/philipparndt/meshmetric/pkg/lut"
	"github.com/philipparndt/meshmetric/pkg/mesh"
)

// Compile-time interface check.
var _ Engine = (*MeshValmet)(nil)

// MeshValmet measures every point of the source mesh against the exact
// closest point of the target surface. Statistics are taken over a
// sampling of the source triangles.
type MeshValmet struct {
	// Workers is the number of goroutines used per computation. Zero
	// uses one per CPU.
	Workers int
}

// NewMeshValmet returns an engine using all CPUs.
func NewMeshValmet() *MeshValmet {
	return &MeshValmet{}
}

// Compute implements Engine.
func (e *MeshValmet) Compute(a, b *mesh.PolyData, p Params) (*Result, error) {
	if a.IsEmpty() {
		return nil, fmt.Errorf("source: %w", ErrEmptyMesh)
	}
	if b.NumberOfCells() == 0 {
		return nil, ErrNoSurface
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s, err := newSurface(b)
	if err != nil {
		return nil, err
	}
	dist := e.distances(s, a.Points)
	sampled := dist
	if pts := samplePoints(a, p); len(pts) > 0 {
		sampled = e.distances(s, pts)
	}

	data := a.Clone()
	for _, name := range []string{mesh.ArrayOriginal, mesh.ArraySigned, mesh.ArrayAbsolute} {
		data.PointData.RemoveArray(name)
	}
	data.PointData.AddArray(mesh.NewDataArray(mesh.ArrayOriginal, dist))

	marker := mesh.ArraySigned
	values := append([]float64(nil), dist...)
	if !p.SignedDistance {
		marker = mesh.ArrayAbsolute
		for i, v := range values {
			values[i] = math.Abs(v)
		}
	}
	data.PointData.AddArray(mesh.NewDataArray(marker, values))
	data.PointData.SetActiveScalars(marker)

	res := &Result{Data: data, Stats: analysis.DistanceStatistics(sampled)}
	res.Min, res.Max = data.PointData.ActiveScalars().Range()
	if !p.SignedDistance {
		res.Min = 0
	}
	res.Lut = e.CreateLut(LutParams{Min: res.Min, Max: res.Max, SignedDistance: p.SignedDistance})
	return res, nil
}

func (e *MeshValmet) distances(s *surface, points []geometry.Vector3) []float64 {
	out := make([]float64, len(points))
	workers := e.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	chunk := (len(points) + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < len(points); start += chunk {
		end := min(start+chunk, len(points))
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i] = s.signedDistance(points[i])
			}
		}(start, end)
	}
	wg.Wait()
	return out
}

// CreateLut implements Engine. Signed maps run blue, cyan, green,
// yellow, red with green covering Center±Delta. Absolute maps start
// green at zero, stay green up to Delta and end red at Max.
func (e *MeshValmet) CreateLut(p LutParams) *lut.ColorTransferFunction {
	f := lut.New()
	if !p.SignedDistance {
		f.AddRGBPoint(0, lut.Green)
		f.AddRGBPoint(p.Delta, lut.Green)
		if p.Max > p.Delta {
			f.AddRGBPoint((p.Delta+p.Max)/2, lut.Yellow)
			f.AddRGBPoint(p.Max, lut.Red)
		}
		return f
	}

	lo, hi := p.Center-p.Delta, p.Center+p.Delta
	if p.Min < lo {
		f.AddRGBPoint(p.Min, lut.Blue)
		f.AddRGBPoint((p.Min+lo)/2, lut.Cyan)
	}
	f.AddRGBPoint(lo, lut.Green)
	f.AddRGBPoint(hi, lut.Green)
	if p.Max > hi {
		f.AddRGBPoint((hi+p.Max)/2, lut.Yellow)
		f.AddRGBPoint(p.Max, lut.Red)
	}
	return f
}
