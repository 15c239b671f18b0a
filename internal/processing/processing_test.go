package processing

import (
	"errors"
	"io"
	"log"
	"os"
	"testing"

	"github.com/philipparndt/meshmetric/pkg/dataset"
	"github.com/philipparndt/meshmetric/pkg/filter"
	"github.com/philipparndt/meshmetric/pkg/geometry"
	"github.com/philipparndt/meshmetric/pkg/lut"
	"github.com/philipparndt/meshmetric/pkg/mesh"
	"github.com/philipparndt/meshmetric/pkg/metric"
	"github.com/philipparndt/meshmetric/pkg/vtk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFilter returns canned results and counts calls.
type fakeFilter struct {
	smoothed    *mesh.PolyData
	decimated   *mesh.PolyData
	err         error
	smoothCalls int
	decimations int
	preserved   bool
}

func (f *fakeFilter) Smooth(m *mesh.PolyData, iterations int) (*mesh.PolyData, error) {
	f.smoothCalls++
	return f.smoothed, f.err
}

func (f *fakeFilter) Decimate(m *mesh.PolyData, reduction float64, preserveTopology bool) (*mesh.PolyData, error) {
	f.decimations++
	f.preserved = preserveTopology
	return f.decimated, f.err
}

// fakeEngine records the parameters it was called with.
type fakeEngine struct {
	result    *metric.Result
	err       error
	params    metric.Params
	lutParams metric.LutParams
}

func (e *fakeEngine) Compute(a, b *mesh.PolyData, p metric.Params) (*metric.Result, error) {
	e.params = p
	return e.result, e.err
}

func (e *fakeEngine) CreateLut(p metric.LutParams) *lut.ColorTransferFunction {
	e.lutParams = p
	f := lut.New()
	f.AddRGBPoint(p.Min, lut.Blue)
	f.AddRGBPoint(p.Max, lut.Red)
	return f
}

func quiet(p *Processor) *Processor {
	p.Logger = log.New(io.Discard, "", 0)
	return p
}

func triangle() *mesh.PolyData {
	m := mesh.New("tri")
	m.AddPoint(geometry.NewVector3(0, 0, 0))
	m.AddPoint(geometry.NewVector3(1, 0, 0))
	m.AddPoint(geometry.NewVector3(0, 1, 0))
	m.AddTriangle(0, 1, 2)
	return m
}

func withArrays(names map[string][]float64, order ...string) *mesh.PolyData {
	m := triangle()
	for _, name := range order {
		m.PointData.AddArray(mesh.NewDataArray(name, names[name]))
	}
	return m
}

func TestSmoothZeroIterationsKeepsPointCount(t *testing.T) {
	p := quiet(New(filter.New(), &fakeEngine{}))
	in := triangle()

	out, err := p.Smooth(in, 0)
	require.NoError(t, err)
	assert.Equal(t, in.NumberOfPoints(), out.NumberOfPoints())
}

func TestSmoothPointCountMismatch(t *testing.T) {
	lost := triangle()
	lost.Points = lost.Points[:2]
	f := &fakeFilter{smoothed: lost}
	p := quiet(New(f, &fakeEngine{}))
	in := triangle()

	out, err := p.Smooth(in, 5)
	assert.ErrorIs(t, err, ErrSmoothing)
	assert.Same(t, in, out)
}

func TestSmoothFilterError(t *testing.T) {
	boom := errors.New("boom")
	p := quiet(New(&fakeFilter{err: boom}, &fakeEngine{}))
	in := triangle()

	out, err := p.Smooth(in, 5)
	assert.ErrorIs(t, err, ErrSmoothing)
	assert.ErrorIs(t, err, boom)
	assert.Same(t, in, out)
}

func TestDecimateEmptyMeshSkipsFilter(t *testing.T) {
	f := &fakeFilter{decimated: triangle()}
	p := quiet(New(f, &fakeEngine{}))
	in := mesh.New("empty")

	out, err := p.Decimate(in, 0.5)
	assert.ErrorIs(t, err, ErrNoDataToDecimate)
	assert.Same(t, in, out)
	assert.Zero(t, f.decimations)
}

func TestDecimateEmptyResult(t *testing.T) {
	f := &fakeFilter{decimated: mesh.New("nothing")}
	p := quiet(New(f, &fakeEngine{}))
	in := triangle()

	out, err := p.Decimate(in, 0.5)
	assert.ErrorIs(t, err, ErrDownSampling)
	assert.Same(t, in, out)
	assert.Equal(t, 3, in.NumberOfPoints())
	assert.Equal(t, 1, f.decimations)
}

func TestDecimatePreservesTopology(t *testing.T) {
	reduced := triangle()
	f := &fakeFilter{decimated: reduced}
	p := quiet(New(f, &fakeEngine{}))

	out, err := p.Decimate(triangle(), 0.5)
	require.NoError(t, err)
	assert.Same(t, reduced, out)
	assert.True(t, f.preserved)
}

func TestDecimateFilterError(t *testing.T) {
	p := quiet(New(filter.New(), &fakeEngine{}))
	in := triangle()

	out, err := p.Decimate(in, 1.5)
	assert.ErrorIs(t, err, ErrDownSampling)
	assert.ErrorIs(t, err, filter.ErrReductionRange)
	assert.Same(t, in, out)
}

func TestComputeErrorUpdatesDataset(t *testing.T) {
	result := withArrays(map[string][]float64{
		mesh.ArrayOriginal: {-1, 0, 2},
		mesh.ArraySigned:   {-1, 0, 2},
	}, mesh.ArrayOriginal, mesh.ArraySigned)
	table := lut.New()
	e := &fakeEngine{result: &metric.Result{Data: result, Lut: table, Min: -1, Max: 2}}
	p := quiet(New(&fakeFilter{}, e))

	a := dataset.New("a.vtk", triangle())
	a.SamplingStep = 0.25
	a.MinSamplingFrequency = 3
	a.SignedDistance = false
	b := dataset.New("b.vtk", triangle())
	generation := a.Mapper().Generation

	_, err := p.ComputeError(a, b)
	require.NoError(t, err)

	assert.Equal(t, metric.Params{SignedDistance: false, SamplingStep: 0.25, MinSampleFrequency: 3}, e.params)
	assert.Same(t, result, a.PolyData())
	assert.Same(t, table, a.Lut())
	assert.Equal(t, -1.0, a.Min)
	assert.Equal(t, 2.0, a.Max)
	assert.Equal(t, generation+1, a.Mapper().Generation)
	assert.Same(t, result, a.Mapper().Input)
}

func TestComputeErrorFailureLeavesDataset(t *testing.T) {
	e := &fakeEngine{err: metric.ErrNoSurface}
	p := quiet(New(&fakeFilter{}, e))
	original := triangle()
	a := dataset.New("a.vtk", original)
	b := dataset.New("b.vtk", mesh.New("empty"))

	_, err := p.ComputeError(a, b)
	assert.ErrorIs(t, err, metric.ErrNoSurface)
	assert.Same(t, original, a.PolyData())
	assert.Nil(t, a.Lut())
	assert.Equal(t, 1, a.Mapper().Generation)
}

func TestComputeErrorWithEngine(t *testing.T) {
	p := quiet(Default())
	a := dataset.New("a.vtk", triangle())
	moved := triangle()
	for i := range moved.Points {
		moved.Points[i].Z = 0.5
	}
	b := dataset.New("b.vtk", moved)

	_, err := p.ComputeError(a, b)
	require.NoError(t, err)

	c := ClassifyAttributes(a.PolyData())
	assert.Equal(t, StatusValidSigned, c.Status)
	assert.InDelta(t, -0.5, a.Min, 1e-9)
	assert.InDelta(t, -0.5, a.Max, 1e-9)
}

func TestClassifyAttributes(t *testing.T) {
	tests := []struct {
		name   string
		arrays []string
		status Status
		code   int
	}{
		{"empty", nil, StatusEmpty, -1},
		{"unclassified", []string{"Normals", "curvature"}, StatusUnclassified, 0},
		{"error without original", []string{mesh.ArraySigned}, StatusErrorWithoutOriginal, 1},
		{"original without error", []string{"Normals", mesh.ArrayOriginal}, StatusOriginalWithoutError, 2},
		{"valid signed", []string{mesh.ArrayOriginal, mesh.ArraySigned}, StatusValidSigned, 31},
		{"valid absolute", []string{mesh.ArrayAbsolute, "x", mesh.ArrayOriginal}, StatusValidAbsolute, 32},
		{"two markers", []string{mesh.ArraySigned, mesh.ArrayAbsolute, mesh.ArrayOriginal}, StatusUnspecified, 4},
		{"two originals", []string{mesh.ArrayOriginal, mesh.ArrayOriginal}, StatusUnspecified, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := triangle()
			for _, name := range tt.arrays {
				m.PointData.AddArray(mesh.NewDataArray(name, []float64{1, 2, 3}))
			}

			c := ClassifyAttributes(m)
			assert.Equal(t, tt.status, c.Status)
			assert.Equal(t, tt.code, c.Status.Code())
		})
	}
}

func TestClassifyLastMarkerWins(t *testing.T) {
	m := triangle()
	m.PointData.AddArray(mesh.NewDataArray(mesh.ArraySigned, []float64{-1, 0, 1}))
	m.PointData.AddArray(mesh.NewDataArray(mesh.ArrayAbsolute, []float64{1, 0, 7}))

	c := ClassifyAttributes(m)
	assert.Equal(t, mesh.ArrayAbsolute, c.Marker)
	assert.Equal(t, 7.0, c.Max)
}

func TestCheckPreviousErrorValidSigned(t *testing.T) {
	m := withArrays(map[string][]float64{
		mesh.ArrayOriginal: {1, 1, 1},
		mesh.ArraySigned:   {-2, 0, 5},
	}, mesh.ArrayOriginal, mesh.ArraySigned)
	ds := dataset.New("a.vtk", m)
	ds.SignedDistance = false

	c := quiet(Default()).CheckPreviousError(ds)

	assert.Equal(t, StatusValidSigned, c.Status)
	assert.Equal(t, -2.0, ds.Min)
	assert.Equal(t, 5.0, ds.Max)
	assert.True(t, ds.SignedDistance)
	assert.Equal(t, mesh.ArraySigned, m.PointData.ActiveScalarsName())
}

func TestCheckPreviousErrorValidAbsolute(t *testing.T) {
	m := withArrays(map[string][]float64{
		mesh.ArrayOriginal: {1, 1, 1},
		mesh.ArrayAbsolute: {0.3, 1, 5},
	}, mesh.ArrayOriginal, mesh.ArrayAbsolute)
	ds := dataset.New("a.vtk", m)

	c := quiet(Default()).CheckPreviousError(ds)

	assert.Equal(t, StatusValidAbsolute, c.Status)
	assert.Equal(t, 0.3, c.Min)
	assert.Equal(t, 0.0, ds.Min)
	assert.Equal(t, 5.0, ds.Max)
	assert.False(t, ds.SignedDistance)
}

func TestCheckPreviousErrorEmpty(t *testing.T) {
	ds := dataset.New("a.vtk", triangle())
	ds.Min, ds.Max = 4, 9

	c := quiet(Default()).CheckPreviousError(ds)

	assert.Equal(t, StatusEmpty, c.Status)
	assert.NotEqual(t, StatusUnclassified, c.Status)
	assert.Equal(t, -1, c.Status.Code())
	assert.Equal(t, 4.0, ds.Min)
	assert.Equal(t, 9.0, ds.Max)
}

func TestApplyLeavesInconsistentDataset(t *testing.T) {
	ds := dataset.New("a.vtk", triangle())
	ds.Min, ds.Max, ds.SignedDistance = 1, 2, true

	changed := Classification{Status: StatusErrorWithoutOriginal, Marker: mesh.ArrayAbsolute, Max: 10}.Apply(ds)

	assert.False(t, changed)
	assert.Equal(t, 1.0, ds.Min)
	assert.Equal(t, 2.0, ds.Max)
	assert.True(t, ds.SignedDistance)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "valid signed", StatusValidSigned.String())
	assert.Equal(t, "unknown", Status(42).String())
	assert.True(t, StatusUnspecifiedPair.Problem())
	assert.False(t, StatusUnclassified.Problem())
}

func TestValidateFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		invalid bool
		empty   bool
	}{
		{in: "result", want: "result.vtk"},
		{in: "result.vtk", want: "result.vtk"},
		{in: "a.b.vtk", want: "a.b.vtk"},
		{in: ".vtk", want: ".vtk"},
		{in: "dir/result", want: "dir/result.vtk"},
		{in: "result.obj", invalid: true},
		{in: "result.VTK", invalid: true},
		{in: "result.vtkx", invalid: true},
		{in: "result.", invalid: true},
		{in: "a.vtk.b", invalid: true},
		{in: "", empty: true},
		{in: "dir/", empty: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ValidateFileName(tt.in)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidExtension)
				return
			}
			if tt.empty {
				assert.ErrorIs(t, err, ErrEmptyFileName)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSaveFileAppendsExtension(t *testing.T) {
	t.Chdir(t.TempDir())
	p := quiet(Default())

	name, err := p.SaveFile("result", dataset.New("", triangle()))
	require.NoError(t, err)
	assert.Equal(t, "result.vtk", name)

	m, err := vtk.ReadFile("result.vtk")
	require.NoError(t, err)
	assert.NoError(t, Equivalent(triangle(), m))
}

func TestSaveFileInvalidExtensionWritesNothing(t *testing.T) {
	t.Chdir(t.TempDir())
	p := quiet(Default())

	_, err := p.SaveFile("result.obj", dataset.New("", triangle()))
	assert.ErrorIs(t, err, ErrInvalidExtension)

	entries, err := os.ReadDir(".")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveFileEmptyNameWritesNothing(t *testing.T) {
	t.Chdir(t.TempDir())
	p := quiet(Default())

	_, err := p.SaveFile("", dataset.New("", triangle()))
	assert.ErrorIs(t, err, ErrEmptyFileName)

	entries, err := os.ReadDir(".")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveFileMultipleDots(t *testing.T) {
	t.Chdir(t.TempDir())
	p := quiet(Default())

	name, err := p.SaveFile("a.b.vtk", dataset.New("", triangle()))
	require.NoError(t, err)
	assert.Equal(t, "a.b.vtk", name)
	assert.FileExists(t, "a.b.vtk")
}

func TestEquivalent(t *testing.T) {
	assert.NoError(t, Equivalent(triangle(), triangle()))

	moved := triangle()
	moved.Points[1].Y = 1e-9
	assert.ErrorIs(t, Equivalent(triangle(), moved), ErrNotEquivalent)

	reindexed := triangle()
	reindexed.Polys[0] = mesh.Cell{0, 2, 1}
	assert.ErrorIs(t, Equivalent(triangle(), reindexed), ErrNotEquivalent)

	extra := triangle()
	extra.AddPoint(geometry.NewVector3(5, 5, 5))
	assert.ErrorIs(t, Equivalent(triangle(), extra), ErrNotEquivalent)

	twoCells := triangle()
	twoCells.AddTriangle(0, 1, 2)
	assert.ErrorIs(t, Equivalent(triangle(), twoCells), ErrNotEquivalent)
}

func TestEquivalentCellSizes(t *testing.T) {
	quad := func(cell mesh.Cell) *mesh.PolyData {
		m := triangle()
		m.AddPoint(geometry.NewVector3(1, 1, 0))
		m.Polys[0] = cell
		return m
	}

	// a triangle compared against a longer cell only checks its own length
	assert.NoError(t, Equivalent(quad(mesh.Cell{0, 1, 2}), quad(mesh.Cell{0, 1, 2, 3})))
	assert.ErrorIs(t, Equivalent(quad(mesh.Cell{0, 1, 2, 3}), quad(mesh.Cell{0, 1, 2})), ErrNotEquivalent)
	assert.ErrorIs(t, Equivalent(quad(mesh.Cell{0, 1, 2}), quad(mesh.Cell{0, 1})), ErrNotEquivalent)
}

func TestUpdateColor(t *testing.T) {
	e := &fakeEngine{}
	p := quiet(New(&fakeFilter{}, e))
	m := withArrays(map[string][]float64{
		mesh.ArrayOriginal: {-1, 0, 1},
		mesh.ArrayAbsolute: {1, 0, 1},
	}, mesh.ArrayOriginal, mesh.ArrayAbsolute)
	ds := dataset.New("a.vtk", m)
	ds.SignedDistance = false
	generation := ds.Mapper().Generation

	p.UpdateColor(0, 3, 0.5, 0.25, ds)

	assert.Equal(t, metric.LutParams{Min: 0, Max: 3, Center: 0.5, Delta: 0.25, SignedDistance: false}, e.lutParams)
	assert.Equal(t, 0.5, ds.Center)
	assert.Equal(t, 0.25, ds.Delta)
	assert.NotNil(t, ds.Lut())
	assert.Same(t, ds.Lut(), ds.Mapper().Lut)
	assert.Equal(t, mesh.ArrayAbsolute, ds.Mapper().ScalarName)
	assert.Equal(t, generation+1, ds.Mapper().Generation)
}

func TestReload(t *testing.T) {
	reloaded := withArrays(map[string][]float64{
		mesh.ArrayOriginal: {1, 2, 3},
		mesh.ArraySigned:   {-3, 0, 4},
	}, mesh.ArrayOriginal, mesh.ArraySigned)
	e := &fakeEngine{}
	p := quiet(New(&fakeFilter{}, e))
	p.Load = func(path string) (*mesh.PolyData, error) {
		assert.Equal(t, "a.vtk", path)
		return reloaded, nil
	}
	ds := dataset.New("a.vtk", triangle())

	c, err := p.Reload(ds)
	require.NoError(t, err)

	assert.Equal(t, StatusValidSigned, c.Status)
	assert.Same(t, reloaded, ds.Mapper().Input)
	assert.Equal(t, -3.0, ds.Min)
	assert.Equal(t, 4.0, ds.Max)
	assert.NotNil(t, ds.Lut())
	assert.Equal(t, -3.0, e.lutParams.Min)
}

func TestReloadFailure(t *testing.T) {
	p := quiet(Default())
	original := triangle()
	ds := dataset.New("missing.vtk", original)
	p.Load = func(string) (*mesh.PolyData, error) { return nil, os.ErrNotExist }

	_, err := p.Reload(ds)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Same(t, original, ds.PolyData())
}
