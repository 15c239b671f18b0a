package processing

import (
	"github.com/philipparndt/meshmetric/pkg/dataset"
	"github.com/philipparndt/meshmetric/pkg/mesh"
)

// Status is the outcome of inspecting the point arrays of a mesh.
type Status int

const (
	// StatusEmpty means the mesh has no point arrays.
	StatusEmpty Status = iota
	// StatusUnclassified means there are arrays but none of the
	// recognized names.
	StatusUnclassified
	// StatusErrorWithoutOriginal means a distance array without the
	// Original array.
	StatusErrorWithoutOriginal
	// StatusOriginalWithoutError means an Original array without a
	// distance array.
	StatusOriginalWithoutError
	StatusValidSigned
	StatusValidAbsolute
	// StatusUnspecifiedPair means both arrays are present but the
	// distance array has an unknown name.
	StatusUnspecifiedPair
	// StatusUnspecified means more arrays were recognized than a
	// distance computation produces.
	StatusUnspecified
)

var statusCodes = map[Status]int{
	StatusEmpty:                -1,
	StatusUnclassified:         0,
	StatusErrorWithoutOriginal: 1,
	StatusOriginalWithoutError: 2,
	StatusValidSigned:          31,
	StatusValidAbsolute:        32,
	StatusUnspecifiedPair:      3,
	StatusUnspecified:          4,
}

var statusNames = map[Status]string{
	StatusEmpty:                "empty",
	StatusUnclassified:         "unclassified",
	StatusErrorWithoutOriginal: "error without original",
	StatusOriginalWithoutError: "original without error",
	StatusValidSigned:          "valid signed",
	StatusValidAbsolute:        "valid absolute",
	StatusUnspecifiedPair:      "unspecified pair",
	StatusUnspecified:          "unspecified",
}

// Code returns the numeric status code used in saved sessions and
// scripts.
func (s Status) Code() int {
	return statusCodes[s]
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether the mesh carries a complete distance result.
func (s Status) Valid() bool {
	return s == StatusValidSigned || s == StatusValidAbsolute
}

// Problem reports whether the arrays are in an inconsistent state.
func (s Status) Problem() bool {
	switch s {
	case StatusErrorWithoutOriginal, StatusOriginalWithoutError, StatusUnspecifiedPair, StatusUnspecified:
		return true
	}
	return false
}

// Classification describes the distance arrays found on a mesh.
type Classification struct {
	Status Status
	// Marker is the name of the distance array, empty if none.
	Marker string
	// Min and Max are the range of the marker array.
	Min, Max float64
}

// ClassifyAttributes inspects the point arrays of m. Every Signed or
// Absolute array scores 1 and becomes the marker, the last one
// winning; every Original array scores 2.
func ClassifyAttributes(m *mesh.PolyData) Classification {
	pd := m.PointData
	if pd.NumberOfArrays() == 0 {
		return Classification{Status: StatusEmpty}
	}

	score := 0
	var marker *mesh.DataArray
	for _, a := range pd.Arrays() {
		switch a.Name {
		case mesh.ArraySigned, mesh.ArrayAbsolute:
			score++
			marker = a
		case mesh.ArrayOriginal:
			score += 2
		}
	}

	c := Classification{}
	if marker != nil {
		c.Marker = marker.Name
		c.Min, c.Max = marker.Range()
	}

	switch score {
	case 0:
		c.Status = StatusUnclassified
	case 1:
		c.Status = StatusErrorWithoutOriginal
	case 2:
		c.Status = StatusOriginalWithoutError
	case 3:
		switch c.Marker {
		case mesh.ArraySigned:
			c.Status = StatusValidSigned
		case mesh.ArrayAbsolute:
			c.Status = StatusValidAbsolute
		default:
			c.Status = StatusUnspecifiedPair
		}
	default:
		c.Status = StatusUnspecified
	}
	return c
}

// Apply stores a valid classification in ds: the marker range (with the
// minimum forced to zero for absolute distances), the distance mode,
// and the marker as active scalars. Other outcomes leave ds untouched.
// Apply reports whether ds changed.
func (c Classification) Apply(ds *dataset.Dataset) bool {
	switch c.Status {
	case StatusValidSigned:
		ds.Min, ds.Max = c.Min, c.Max
		ds.SignedDistance = true
	case StatusValidAbsolute:
		ds.Min, ds.Max = 0, c.Max
		ds.SignedDistance = false
	default:
		return false
	}
	ds.PolyData().PointData.SetActiveScalars(c.Marker)
	return true
}

// CheckPreviousError classifies the arrays of ds and applies the result.
func (p *Processor) CheckPreviousError(ds *dataset.Dataset) Classification {
	c := ClassifyAttributes(ds.PolyData())
	if c.Status.Problem() {
		p.Logger.Printf("%s: inconsistent distance arrays (%s)", ds.Name, c.Status)
	}
	c.Apply(ds)
	return c
}
