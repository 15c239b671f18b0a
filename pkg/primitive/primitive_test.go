package primitive

import (
	"math"
	"testing"

	"github.com/philipparndt/meshmetric/pkg/geometry"
)

func TestSphere(t *testing.T) {
	m, err := Generate(Sphere, Options{Size: 2, Cells: 24})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if m.NumberOfCells() == 0 {
		t.Fatal("expected triangles")
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("invalid mesh: %v", err)
	}
	for i, p := range m.Points {
		if r := p.Length(); math.Abs(r-1) > 0.1 {
			t.Fatalf("point %d at radius %v, expected about 1", i, r)
		}
	}
}

func TestBoxWithOffset(t *testing.T) {
	offset := geometry.NewVector3(10, 0, 0)
	m, err := Generate(Box, Options{Size: 2, Cells: 16, Offset: offset})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	bbox := m.BoundingBox()
	center := bbox.Center()
	if center.Distance(offset) > 0.1 {
		t.Errorf("box centered at %v, expected %v", center, offset)
	}
	size := bbox.Size()
	if math.Abs(size.X-2) > 0.2 || math.Abs(size.Z-2) > 0.2 {
		t.Errorf("box size %v, expected about 2", size)
	}
}

func TestCylinder(t *testing.T) {
	m, err := Generate(Cylinder, Options{Size: 4, Cells: 16})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if m.NumberOfCells() == 0 {
		t.Fatal("expected triangles")
	}
	if m.Name != "cylinder" {
		t.Errorf("name = %q", m.Name)
	}
}

func TestGenerateErrors(t *testing.T) {
	if _, err := Generate("torus", Options{Size: 1}); err == nil {
		t.Error("expected error for unknown kind")
	}
	if _, err := Generate(Sphere, Options{Size: 0}); err == nil {
		t.Error("expected error for zero size")
	}
}
