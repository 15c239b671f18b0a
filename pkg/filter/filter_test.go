package filter

import (
	"math"
	"testing"

	"github.com/philipparndt/meshmetric/pkg/geometry"
	"github.com/philipparndt/meshmetric/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// grid builds an n x n planar grid of squares split into triangles,
// with a point array holding each point's X coordinate.
func grid(n int) *mesh.PolyData {
	m := mesh.New("grid")
	var xs []float64
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			m.AddPoint(geometry.NewVector3(float64(i), float64(j), 0))
			xs = append(xs, float64(i))
		}
	}
	id := func(i, j int) int { return j*(n+1) + i }
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			m.AddTriangle(id(i, j), id(i+1, j), id(i+1, j+1))
			m.AddTriangle(id(i, j), id(i+1, j+1), id(i, j+1))
		}
	}
	m.PointData.AddArray(mesh.NewDataArray("x", xs))
	return m
}

func tetrahedron() *mesh.PolyData {
	m := mesh.New("tetra")
	m.AddPoint(geometry.NewVector3(0, 0, 0))
	m.AddPoint(geometry.NewVector3(1, 0, 0))
	m.AddPoint(geometry.NewVector3(0, 1, 0))
	m.AddPoint(geometry.NewVector3(0, 0, 1))
	m.AddTriangle(0, 2, 1)
	m.AddTriangle(0, 1, 3)
	m.AddTriangle(0, 3, 2)
	m.AddTriangle(1, 2, 3)
	return m
}

func TestSmoothZeroIterationsKeepsPoints(t *testing.T) {
	in := grid(4)
	out, err := New().Smooth(in, 0)
	require.NoError(t, err)

	assert.Equal(t, in.Points, out.Points)
	assert.NotSame(t, in, out)
}

func TestSmoothPreservesCountsAndArrays(t *testing.T) {
	in := tetrahedron()
	in.PointData.AddArray(mesh.NewDataArray(mesh.ArrayOriginal, []float64{1, 2, 3, 4}))

	out, err := NewWithRelaxation(0.05).Smooth(in, 10)
	require.NoError(t, err)

	assert.Equal(t, in.NumberOfPoints(), out.NumberOfPoints())
	assert.Equal(t, in.Polys, out.Polys)
	assert.Equal(t, []float64{1, 2, 3, 4}, out.PointData.ArrayByName(mesh.ArrayOriginal).Values)
	assert.NotEqual(t, in.Points, out.Points, "points should move")
	assert.Equal(t, geometry.NewVector3(0, 0, 0), in.Points[0], "input must not be modified")
}

func TestSmoothShrinksTowardCentroid(t *testing.T) {
	in := tetrahedron()
	var center geometry.Vector3
	for _, p := range in.Points {
		center = center.Add(p.Mul(0.25))
	}

	out, err := NewWithRelaxation(0.05).Smooth(in, 5)
	require.NoError(t, err)

	for i := range in.Points {
		assert.Less(t, out.Points[i].Distance(center), in.Points[i].Distance(center))
		// every point of a tetrahedron neighbors all others, so it moves
		// straight at the centroid
		step := out.Points[i].Sub(in.Points[i])
		assert.InDelta(t, 0, step.Cross(center.Sub(in.Points[i])).Length(), 1e-9)
	}
}

func TestSmoothKeepsPlanarGridFlat(t *testing.T) {
	in := grid(4)
	out, err := NewWithRelaxation(0.05).Smooth(in, 3)
	require.NoError(t, err)

	assert.Equal(t, in.Polys, out.Polys)
	assert.NotEqual(t, in.Points, out.Points)
	for _, p := range out.Points {
		assert.Equal(t, 0.0, p.Z)
	}
}

func TestSmoothIsolatedPointStays(t *testing.T) {
	in := tetrahedron()
	lonely := in.AddPoint(geometry.NewVector3(5, 5, 5))

	out, err := New().Smooth(in, 3)
	require.NoError(t, err)
	assert.Equal(t, in.Points[lonely], out.Points[lonely])
}

func TestSmoothNegativeIterations(t *testing.T) {
	_, err := New().Smooth(grid(1), -1)
	assert.ErrorIs(t, err, ErrNegativeIterations)
}

func TestNewWithRelaxationFallsBack(t *testing.T) {
	assert.Equal(t, DefaultRelaxationFactor, NewWithRelaxation(0).RelaxationFactor)
}

// sphere builds a closed UV sphere of radius 1 with outward facing
// triangles and a point array holding each point's Z coordinate.
func sphere(lon, lat int) *mesh.PolyData {
	m := mesh.New("sphere")
	top := m.AddPoint(geometry.NewVector3(0, 0, 1))
	for i := 1; i < lat; i++ {
		theta := math.Pi * float64(i) / float64(lat)
		for j := 0; j < lon; j++ {
			phi := 2 * math.Pi * float64(j) / float64(lon)
			m.AddPoint(geometry.NewVector3(math.Sin(theta)*math.Cos(phi), math.Sin(theta)*math.Sin(phi), math.Cos(theta)))
		}
	}
	bottom := m.AddPoint(geometry.NewVector3(0, 0, -1))
	id := func(i, j int) int { return 1 + (i-1)*lon + j%lon }

	for j := 0; j < lon; j++ {
		m.AddTriangle(top, id(1, j), id(1, j+1))
		for i := 1; i+1 < lat; i++ {
			m.AddTriangle(id(i, j), id(i+1, j), id(i+1, j+1))
			m.AddTriangle(id(i, j), id(i+1, j+1), id(i, j+1))
		}
		m.AddTriangle(bottom, id(lat-1, j+1), id(lat-1, j))
	}

	zs := make([]float64, len(m.Points))
	for i, p := range m.Points {
		zs[i] = p.Z
	}
	m.PointData.AddArray(mesh.NewDataArray("z", zs))
	return m
}

// eulerCharacteristic returns V - E + F of a triangle mesh.
func eulerCharacteristic(m *mesh.PolyData) int {
	edges := make(map[[2]int]bool)
	for _, c := range m.Polys {
		for k := range c {
			a, b := c[k], c[(k+1)%len(c)]
			if a > b {
				a, b = b, a
			}
			edges[[2]int{a, b}] = true
		}
	}
	return m.NumberOfPoints() - len(edges) + m.NumberOfCells()
}

func TestDecimateClosedSurface(t *testing.T) {
	in := sphere(24, 12)
	require.Equal(t, 2, eulerCharacteristic(in))

	out, err := New().Decimate(in, 0.5, true)
	require.NoError(t, err)
	require.NoError(t, out.Validate())

	assert.Less(t, out.NumberOfCells(), in.NumberOfCells())
	assert.Greater(t, out.NumberOfCells(), 0)
	assert.Equal(t, 2, eulerCharacteristic(out))

	zs := out.PointData.ArrayByName("z")
	require.NotNil(t, zs)
	for i, p := range out.Points {
		assert.Contains(t, in.Points, p, "decimation must not move points")
		assert.Equal(t, p.Z, zs.Values[i], "array value must follow its point")
	}

	for i := range out.Polys {
		tri := out.Triangle(i)
		assert.Greater(t, tri.Normal().Dot(tri.Center()), 0.0, "triangle %d faces inward", i)
	}
}

func TestDecimateClosedSurfaceWithoutTopology(t *testing.T) {
	in := sphere(24, 12)
	out, err := New().Decimate(in, 0.5, false)
	require.NoError(t, err)
	require.NoError(t, out.Validate())

	assert.Less(t, out.NumberOfCells(), in.NumberOfCells())
	for _, p := range out.Points {
		assert.Contains(t, in.Points, p)
	}
}

func TestDecimateReducesGrid(t *testing.T) {
	in := grid(8)
	out, err := New().Decimate(in, 0.5, true)
	require.NoError(t, err)
	require.NoError(t, out.Validate())

	assert.Less(t, out.NumberOfCells(), in.NumberOfCells())
	assert.Greater(t, out.NumberOfCells(), 0)
	assert.Less(t, out.NumberOfPoints(), in.NumberOfPoints())

	xs := out.PointData.ArrayByName("x")
	require.NotNil(t, xs)
	for i, p := range out.Points {
		assert.Equal(t, p.X, xs.Values[i], "array value must follow its point")
	}

	for i := range out.Polys {
		n := out.Triangle(i).Normal()
		assert.InDelta(t, 1.0, n.Z, 1e-9, "triangle %d flipped", i)
	}
}

func TestDecimateZeroReductionKeepsMesh(t *testing.T) {
	for _, in := range []*mesh.PolyData{grid(3), sphere(8, 4)} {
		out, err := New().Decimate(in, 0, true)
		require.NoError(t, err)

		assert.Equal(t, in.Points, out.Points)
		assert.Equal(t, in.Polys, out.Polys)
		assert.NotSame(t, in, out)
	}
}

func TestDecimateTetrahedronCannotCollapse(t *testing.T) {
	in := tetrahedron()
	out, err := New().Decimate(in, 0.9, true)
	require.NoError(t, err)

	assert.Equal(t, 4, out.NumberOfCells())
	assert.Equal(t, 4, out.NumberOfPoints())
}

func TestDecimateWithoutTopology(t *testing.T) {
	in := grid(4)
	free, err := New().Decimate(in, 0.9, false)
	require.NoError(t, err)

	require.NoError(t, free.Validate())
	assert.Less(t, free.NumberOfCells(), in.NumberOfCells()/2)
}

func TestDecimateNoCellsGivesEmptyMesh(t *testing.T) {
	in := mesh.New("cloud")
	in.AddPoint(geometry.NewVector3(1, 2, 3))

	out, err := New().Decimate(in, 0.5, true)
	require.NoError(t, err)
	assert.Equal(t, 0, out.NumberOfPoints())
}

func TestDecimateReductionRange(t *testing.T) {
	for _, r := range []float64{-0.1, 1, 2, math.NaN()} {
		_, err := New().Decimate(grid(1), r, true)
		assert.ErrorIs(t, err, ErrReductionRange, "reduction %v", r)
	}
}
