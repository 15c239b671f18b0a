package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/meshmetric/pkg/geometry"
	"github.com/philipparndt/meshmetric/pkg/mesh"
	"github.com/philipparndt/meshmetric/pkg/vtk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asciiSTL = `solid tri
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 1 0 0
    vertex 0 1 0
  endloop
endfacet
endsolid tri
`

func TestLoadVTK(t *testing.T) {
	m := mesh.New("tri")
	m.AddPoint(geometry.NewVector3(0, 0, 0))
	m.AddPoint(geometry.NewVector3(1, 0, 0))
	m.AddPoint(geometry.NewVector3(0, 1, 0))
	m.AddTriangle(0, 1, 2)

	path := filepath.Join(t.TempDir(), "tri.vtk")
	require.NoError(t, vtk.WriteFile(path, m))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.NumberOfPoints())
	assert.Equal(t, 1, loaded.NumberOfCells())
}

func TestLoadSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Part.STL")
	require.NoError(t, os.WriteFile(path, []byte(asciiSTL), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.NumberOfPoints())
	assert.Equal(t, 1, loaded.NumberOfCells())
	assert.NotEmpty(t, loaded.Name)
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load("model.obj")
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.vtk"))
	assert.Error(t, err)
}

func TestDependencies(t *testing.T) {
	deps, err := Dependencies("model.stl")
	require.NoError(t, err)
	assert.Equal(t, []string{"model.stl"}, deps)

	dir := t.TempDir()
	main := filepath.Join(dir, "main.scad")
	require.NoError(t, os.WriteFile(main, []byte("include <part.scad>\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "part.scad"), []byte("cube(1);\n"), 0o644))

	deps, err = Dependencies(main)
	require.NoError(t, err)
	assert.Equal(t, []string{main, filepath.Join(dir, "part.scad")}, deps)
}
