package mesh

import "math"

// Recognized point array names.
const (
	ArrayOriginal = "Original"
	ArraySigned   = "Signed"
	ArrayAbsolute = "Absolute"
)

// DataArray is a named scalar value per point.
type DataArray struct {
	Name   string
	Values []float64
}

// NewDataArray creates an array.
func NewDataArray(name string, values []float64) *DataArray {
	return &DataArray{Name: name, Values: values}
}

// Len returns the number of values.
func (a *DataArray) Len() int {
	return len(a.Values)
}

// Range returns the minimum and maximum value. An empty array
// returns (0, 0).
func (a *DataArray) Range() (float64, float64) {
	if len(a.Values) == 0 {
		return 0, 0
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range a.Values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// PointData is the ordered collection of point arrays of a mesh.
// Array order is insertion order, names are not required to be unique.
type PointData struct {
	arrays []*DataArray
	active string
}

// NewPointData returns an empty collection.
func NewPointData() *PointData {
	return &PointData{}
}

// NumberOfArrays returns the number of arrays.
func (pd *PointData) NumberOfArrays() int {
	if pd == nil {
		return 0
	}
	return len(pd.arrays)
}

// Arrays returns the arrays in order.
func (pd *PointData) Arrays() []*DataArray {
	if pd == nil {
		return nil
	}
	return pd.arrays
}

// ArrayName returns the name of array i.
func (pd *PointData) ArrayName(i int) string {
	return pd.arrays[i].Name
}

// Array returns array i.
func (pd *PointData) Array(i int) *DataArray {
	return pd.arrays[i]
}

// ArrayByName returns the first array with the given name.
func (pd *PointData) ArrayByName(name string) *DataArray {
	for _, a := range pd.Arrays() {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// AddArray appends an array.
func (pd *PointData) AddArray(a *DataArray) {
	pd.arrays = append(pd.arrays, a)
}

// SetArray replaces the first array with the same name or appends it.
func (pd *PointData) SetArray(a *DataArray) {
	for i, existing := range pd.arrays {
		if existing.Name == a.Name {
			pd.arrays[i] = a
			return
		}
	}
	pd.AddArray(a)
}

// RemoveArray removes every array with the given name.
func (pd *PointData) RemoveArray(name string) {
	kept := pd.arrays[:0]
	for _, a := range pd.arrays {
		if a.Name != name {
			kept = append(kept, a)
		}
	}
	pd.arrays = kept
	if pd.active == name {
		pd.active = ""
	}
}

// SetActiveScalars selects the array used for coloring.
func (pd *PointData) SetActiveScalars(name string) {
	pd.active = name
}

// ActiveScalars returns the array used for coloring, or nil.
func (pd *PointData) ActiveScalars() *DataArray {
	if pd == nil || pd.active == "" {
		return nil
	}
	return pd.ArrayByName(pd.active)
}

// ActiveScalarsName returns the name of the active array.
func (pd *PointData) ActiveScalarsName() string {
	if pd == nil {
		return ""
	}
	return pd.active
}

// Clone returns a deep copy.
func (pd *PointData) Clone() *PointData {
	out := NewPointData()
	if pd == nil {
		return out
	}
	out.active = pd.active
	for _, a := range pd.arrays {
		out.arrays = append(out.arrays, NewDataArray(a.Name, append([]float64(nil), a.Values...)))
	}
	return out
}

// Select returns a copy where every array keeps only the values at
// the given point indices, in that order.
func (pd *PointData) Select(indices []int) *PointData {
	out := NewPointData()
	if pd == nil {
		return out
	}
	out.active = pd.active
	for _, a := range pd.arrays {
		values := make([]float64, len(indices))
		for i, idx := range indices {
			values[i] = a.Values[idx]
		}
		out.arrays = append(out.arrays, NewDataArray(a.Name, values))
	}
	return out
}
