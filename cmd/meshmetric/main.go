package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/meshmetric/internal/config"
	"github.com/philipparndt/meshmetric/internal/loader"
	"github.com/philipparndt/meshmetric/internal/processing"
	"github.com/philipparndt/meshmetric/pkg/dataset"
	"github.com/philipparndt/meshmetric/pkg/filter"
	"github.com/philipparndt/meshmetric/pkg/metric"
	"github.com/philipparndt/meshmetric/version"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "meshmetric",
	Short: "Measure the distance between two triangle meshes",
	Long: `meshmetric compares two triangle meshes. It computes the distance from
every point of one mesh to the surface of the other, stores the result as
point data in a legacy VTK file and renders it through a color map.

Meshes can be read from .vtk, .stl and .scad files. Smoothing and decimation
are available to prepare meshes before comparing them.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $HOME/"+config.FileName+")")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file named by --config, or the one in the
// home directory.
func loadConfig() config.Config {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Default()
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newProcessor creates a processor using the configured relaxation
// factor.
func newProcessor(cfg config.Config) *processing.Processor {
	return processing.New(filter.NewWithRelaxation(cfg.Smoothing.RelaxationFactor), metric.NewMeshValmet())
}

// openDataset loads a mesh file and restores the distance settings
// stored in its arrays.
func openDataset(p *processing.Processor, cfg config.Config, filename string) (*dataset.Dataset, processing.Classification) {
	m, err := loader.Load(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", filename, err)
		os.Exit(1)
	}

	ds := dataset.New(filename, m)
	cfg.Apply(ds)
	c := p.CheckPreviousError(ds)
	if c.Status.Valid() {
		p.UpdateColor(ds.Min, ds.Max, ds.Center, ds.Delta, ds)
	}
	return ds, c
}

func save(p *processing.Processor, name string, ds *dataset.Dataset) {
	fileName, err := p.SaveFile(name, ds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Saved %s\n", fileName)
}
