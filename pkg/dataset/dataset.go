// Package dataset wraps a loaded mesh together with the display state
// derived from it: the color map, the scalar range and the distance
// settings used the next time it is compared against another mesh.
package dataset

import (
	"path/filepath"
	"strings"

	"github.com/philipparndt/meshmetric/pkg/lut"
	"github.com/philipparndt/meshmetric/pkg/mesh"
)

// Defaults for a freshly loaded mesh.
const (
	DefaultSamplingStep         = 0.5
	DefaultMinSamplingFrequency = 2
)

// Dataset is one loaded mesh and its display state.
type Dataset struct {
	Name     string
	FileName string

	// Distance settings, copied into the metric engine parameters.
	SignedDistance       bool
	SamplingStep         float64
	MinSamplingFrequency int

	// Scalar range and color map settings.
	Min, Max      float64
	Center, Delta float64

	polyData *mesh.PolyData
	lut      *lut.ColorTransferFunction
	mapper   Mapper
}

// New wraps a mesh with default settings.
func New(fileName string, m *mesh.PolyData) *Dataset {
	name := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	if fileName == "" && m != nil {
		name = m.Name
	}
	d := &Dataset{
		Name:                 name,
		FileName:             fileName,
		SignedDistance:       true,
		SamplingStep:         DefaultSamplingStep,
		MinSamplingFrequency: DefaultMinSamplingFrequency,
		polyData:             m,
	}
	d.RefreshMapper()
	return d
}

// PolyData returns the current mesh.
func (d *Dataset) PolyData() *mesh.PolyData {
	return d.polyData
}

// SetPolyData replaces the mesh. The mapper keeps showing the previous
// mesh until RefreshMapper is called.
func (d *Dataset) SetPolyData(m *mesh.PolyData) {
	d.polyData = m
}

// Lut returns the current color map, nil before any was set.
func (d *Dataset) Lut() *lut.ColorTransferFunction {
	return d.lut
}

// SetLut replaces the color map.
func (d *Dataset) SetLut(f *lut.ColorTransferFunction) {
	d.lut = f
}

// Mapper returns what the viewer should currently display.
func (d *Dataset) Mapper() Mapper {
	return d.mapper
}

// RefreshMapper points the mapper at the current mesh, color map and
// active scalars.
func (d *Dataset) RefreshMapper() {
	d.mapper = Mapper{
		Input:      d.polyData,
		Lut:        d.lut,
		ScalarName: d.activeScalarsName(),
		Generation: d.mapper.Generation + 1,
	}
}

// ChangeActiveScalar makes the distance array matching SignedDistance
// the active scalars, when present, and refreshes the mapper.
func (d *Dataset) ChangeActiveScalar() {
	if d.polyData != nil {
		name := mesh.ArrayAbsolute
		if d.SignedDistance {
			name = mesh.ArraySigned
		}
		if d.polyData.PointData.ArrayByName(name) != nil {
			d.polyData.PointData.SetActiveScalars(name)
		}
	}
	d.RefreshMapper()
}

// HasDistance reports whether the mesh carries a distance array.
func (d *Dataset) HasDistance() bool {
	if d.polyData == nil {
		return false
	}
	pd := d.polyData.PointData
	return pd.ArrayByName(mesh.ArraySigned) != nil || pd.ArrayByName(mesh.ArrayAbsolute) != nil
}

func (d *Dataset) activeScalarsName() string {
	if d.polyData == nil {
		return ""
	}
	return d.polyData.PointData.ActiveScalarsName()
}
