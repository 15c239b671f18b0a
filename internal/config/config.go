// Package config holds the user defaults for processing and display.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/philipparndt/meshmetric/pkg/dataset"
	"github.com/philipparndt/meshmetric/pkg/filter"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the config file in the home directory.
const FileName = ".meshmetric.yaml"

// Config is the content of the config file.
type Config struct {
	Distance   Distance   `yaml:"distance"`
	Smoothing  Smoothing  `yaml:"smoothing"`
	Decimation Decimation `yaml:"decimation"`
	Color      Color      `yaml:"color"`
}

// Distance settings applied to newly loaded meshes.
type Distance struct {
	Signed               bool    `yaml:"signed"`
	SamplingStep         float64 `yaml:"sampling_step"`
	MinSamplingFrequency int     `yaml:"min_sampling_frequency"`
}

type Smoothing struct {
	Iterations       int     `yaml:"iterations"`
	RelaxationFactor float64 `yaml:"relaxation_factor"`
}

type Decimation struct {
	Reduction float64 `yaml:"reduction"`
}

// Color map settings. Center and Delta describe the green band.
type Color struct {
	Center float64 `yaml:"center"`
	Delta  float64 `yaml:"delta"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Distance: Distance{
			Signed:               true,
			SamplingStep:         dataset.DefaultSamplingStep,
			MinSamplingFrequency: dataset.DefaultMinSamplingFrequency,
		},
		Smoothing: Smoothing{
			Iterations:       20,
			RelaxationFactor: filter.DefaultRelaxationFactor,
		},
		Decimation: Decimation{
			Reduction: 0.5,
		},
	}
}

// DefaultPath returns the config file in the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName), nil
}

// Load reads the config file at path on top of the defaults. A missing
// file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Distance.SamplingStep <= 0:
		return fmt.Errorf("distance.sampling_step must be positive, got %g", c.Distance.SamplingStep)
	case c.Distance.MinSamplingFrequency < 1:
		return fmt.Errorf("distance.min_sampling_frequency must be at least 1, got %d", c.Distance.MinSamplingFrequency)
	case c.Smoothing.Iterations < 0:
		return fmt.Errorf("smoothing.iterations must not be negative, got %d", c.Smoothing.Iterations)
	case c.Decimation.Reduction < 0 || c.Decimation.Reduction >= 1:
		return fmt.Errorf("decimation.reduction must be in [0, 1), got %g", c.Decimation.Reduction)
	case c.Color.Delta < 0:
		return fmt.Errorf("color.delta must not be negative, got %g", c.Color.Delta)
	}
	return nil
}

// Apply copies the distance and color settings into a dataset.
func (c Config) Apply(ds *dataset.Dataset) {
	ds.SignedDistance = c.Distance.Signed
	ds.SamplingStep = c.Distance.SamplingStep
	ds.MinSamplingFrequency = c.Distance.MinSamplingFrequency
	ds.Center = c.Color.Center
	ds.Delta = c.Color.Delta
}
