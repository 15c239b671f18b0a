package filter

import (
	"testing"

	"github.com/philipparndt/meshmetric/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model3d"
)

func TestFaceKeyKeepsWinding(t *testing.T) {
	a := model3d.XYZ(0, 0, 0)
	b := model3d.XYZ(1, 0, 0)
	c := model3d.XYZ(0, 1, 0)

	key := newFaceKey(a, b, c)
	assert.Equal(t, key, newFaceKey(b, c, a))
	assert.Equal(t, key, newFaceKey(c, a, b))
	assert.NotEqual(t, key, newFaceKey(a, c, b))
}

func TestClosed(t *testing.T) {
	assert.True(t, closed(tetrahedron().ToModel3D().TriangleSlice()))
	assert.False(t, closed(grid(2).ToModel3D().TriangleSlice()))
	assert.False(t, closed(nil))

	flipped := tetrahedron()
	flipped.Polys[0] = []int{0, 1, 2}
	assert.False(t, closed(flipped.ToModel3D().TriangleSlice()))
}

func TestEuler(t *testing.T) {
	assert.Equal(t, 2, euler(tetrahedron().ToModel3D().TriangleSlice()))
	assert.Equal(t, 1, euler(grid(3).ToModel3D().TriangleSlice()))
}

func TestMatchPairsNearest(t *testing.T) {
	from := []model3d.Coord3D{model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0)}
	to := []model3d.Coord3D{model3d.XYZ(1.1, 0, 0), model3d.XYZ(0.1, 0, 0)}

	got, err := match(from, to)
	require.NoError(t, err)
	assert.Equal(t, to[1], got[from[0]])
	assert.Equal(t, to[0], got[from[1]])
}

func TestMatchRejectsSharedTarget(t *testing.T) {
	from := []model3d.Coord3D{model3d.XYZ(0, 0, 0), model3d.XYZ(0.1, 0, 0)}
	to := []model3d.Coord3D{model3d.XYZ(0.05, 0, 0), model3d.XYZ(5, 0, 0)}

	_, err := match(from, to)
	assert.ErrorIs(t, err, ErrCorrespondence)

	_, err = match(from, to[:1])
	assert.ErrorIs(t, err, ErrCorrespondence)
}

func TestFromModel3DFollowsPoints(t *testing.T) {
	in := grid(1)
	tris := []*model3d.Triangle{{in.Points[3].Coord3D(), in.Points[0].Coord3D(), in.Points[1].Coord3D()}}

	out, err := fromModel3D(in, tris)
	require.NoError(t, err)
	assert.Equal(t, []geometry.Vector3{in.Points[0], in.Points[1], in.Points[3]}, out.Points)
	assert.Equal(t, []float64{0, 1, 1}, out.PointData.ArrayByName("x").Values)
	require.Len(t, out.Polys, 1)
	assert.Equal(t, []int{0, 1, 2}, []int(out.Polys[0]))

	stray := []*model3d.Triangle{{model3d.XYZ(9, 9, 9), in.Points[0].Coord3D(), in.Points[1].Coord3D()}}
	_, err = fromModel3D(in, stray)
	assert.ErrorIs(t, err, ErrCorrespondence)
}
