// Package primitive generates closed test meshes from signed distance
// functions using the sdfx marching cubes renderer.
package primitive

import (
	"errors"
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/philipparndt/meshmetric/pkg/geometry"
	"github.com/philipparndt/meshmetric/pkg/mesh"
)

// Kind names a primitive shape.
type Kind string

const (
	Sphere   Kind = "sphere"
	Box      Kind = "box"
	Cylinder Kind = "cylinder"
)

// Kinds lists the supported shapes.
var Kinds = []Kind{Sphere, Box, Cylinder}

// DefaultCells is the marching cubes resolution along the longest side.
const DefaultCells = 64

// ErrUnknownKind is returned for unsupported shapes.
var ErrUnknownKind = errors.New("unknown primitive")

// Options describe the generated shape.
type Options struct {
	// Size is the extent along every axis: the diameter of a sphere,
	// the edge of a box, the height and diameter of a cylinder.
	Size float64
	// Cells is the marching cubes resolution.
	Cells int
	// Offset moves the shape away from the origin.
	Offset geometry.Vector3
	// Round is the edge rounding radius of boxes and cylinders.
	Round float64
}

func (k Kind) solid(o Options) (sdf.SDF3, error) {
	switch k {
	case Sphere:
		return sdf.Sphere3D(o.Size / 2)
	case Box:
		return sdf.Box3D(v3.Vec{X: o.Size, Y: o.Size, Z: o.Size}, o.Round)
	case Cylinder:
		return sdf.Cylinder3D(o.Size, o.Size/2, o.Round)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
}

// Generate meshes the shape. Vertices shared between triangles are
// merged.
func Generate(k Kind, o Options) (*mesh.PolyData, error) {
	if o.Size <= 0 {
		return nil, fmt.Errorf("%s: size must be positive, got %g", k, o.Size)
	}
	if o.Cells <= 0 {
		o.Cells = DefaultCells
	}

	s, err := k.solid(o)
	if err != nil {
		return nil, err
	}
	if o.Offset != (geometry.Vector3{}) {
		s = sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: o.Offset.X, Y: o.Offset.Y, Z: o.Offset.Z}))
	}

	b := mesh.NewBuilder(string(k))
	for _, tri := range render.ToTriangles(s, render.NewMarchingCubesUniform(o.Cells)) {
		b.AddFacet(vector(tri[0]), vector(tri[1]), vector(tri[2]))
	}
	return b.Mesh(), nil
}

func vector(v v3.Vec) geometry.Vector3 {
	return geometry.NewVector3(v.X, v.Y, v.Z)
}
