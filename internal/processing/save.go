package processing

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/philipparndt/meshmetric/pkg/dataset"
	"github.com/philipparndt/meshmetric/pkg/vtk"
)

const vtkExtension = ".vtk"

// ValidateFileName returns the file name a mesh is saved under. Every
// '.' after the first byte is checked in order; the name is accepted as
// soon as one is followed by exactly "vtk" at the end. A name with such
// dots that never matches fails with ErrInvalidExtension. A name without
// them gets ".vtk" appended unless it already ends with it. An empty
// name, or one naming a directory, fails with ErrEmptyFileName.
func ValidateFileName(name string) (string, error) {
	if name == "" || strings.HasSuffix(name, "/") || strings.HasSuffix(name, string(filepath.Separator)) {
		return "", fmt.Errorf("%q: %w", name, ErrEmptyFileName)
	}
	dotted := false
	for i := 1; i < len(name); i++ {
		if name[i] != '.' {
			continue
		}
		dotted = true
		if i+3 == len(name)-1 && name[i+1] == 'v' && name[i+2] == 't' && name[i+3] == 'k' {
			return name, nil
		}
	}
	if dotted {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidExtension)
	}

	if !strings.HasSuffix(name, vtkExtension) {
		name += vtkExtension
	}
	return name, nil
}

// SaveFile writes the mesh of ds as a legacy VTK file and returns the
// name it was written to. Invalid names are rejected before anything
// is written.
func (p *Processor) SaveFile(name string, ds *dataset.Dataset) (string, error) {
	fileName, err := ValidateFileName(name)
	if err != nil {
		p.Logger.Printf("not saving: %v", err)
		return "", err
	}

	if err := vtk.WriteFile(fileName, ds.PolyData()); err != nil {
		return "", fmt.Errorf("saving %s: %w", fileName, err)
	}
	return fileName, nil
}
