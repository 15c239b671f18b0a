// Package loader reads meshes from the file types the tool understands.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/philipparndt/meshmetric/pkg/mesh"
	"github.com/philipparndt/meshmetric/pkg/openscad"
	"github.com/philipparndt/meshmetric/pkg/stl"
	"github.com/philipparndt/meshmetric/pkg/vtk"
)

// Supported file extensions.
const (
	ExtVTK  = ".vtk"
	ExtSTL  = ".stl"
	ExtSCAD = ".scad"
)

// Load reads a mesh from a .vtk, .stl or .scad file.
func Load(path string) (*mesh.PolyData, error) {
	return LoadContext(context.Background(), path)
}

// LoadContext is Load with a context bounding OpenSCAD rendering.
func LoadContext(ctx context.Context, path string) (*mesh.PolyData, error) {
	var (
		m   *mesh.PolyData
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ExtVTK:
		m, err = vtk.ReadFile(path)
	case ExtSTL:
		m, err = stl.Parse(path)
	case ExtSCAD:
		m, err = openscad.NewRenderer(filepath.Dir(path)).Render(ctx, path)
	default:
		return nil, fmt.Errorf("unsupported file type: %q (expected .vtk, .stl or .scad)", ext)
	}
	if err != nil {
		return nil, err
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// Dependencies returns the files whose changes affect the mesh loaded
// from path: the file itself and, for OpenSCAD models, everything it
// uses or includes.
func Dependencies(path string) ([]string, error) {
	if strings.ToLower(filepath.Ext(path)) != ExtSCAD {
		return []string{path}, nil
	}
	return openscad.NewRenderer(filepath.Dir(path)).ResolveDependencies(path)
}
