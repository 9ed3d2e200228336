package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"delivery-route-optimizer/internal/solver"
)

// SolverFile bundles the tunable solver parameters. A YAML file only
// needs the fields it wants to change; everything else keeps the
// defaults.
type SolverFile struct {
	Insertion solver.InsertionConfig `yaml:"insertion"`
	Genetic   solver.GeneticConfig   `yaml:"genetic"`
}

// DefaultSolverFile returns the built-in parameter set.
func DefaultSolverFile() SolverFile {
	return SolverFile{
		Insertion: solver.DefaultInsertionConfig(),
		Genetic:   solver.DefaultGeneticConfig(),
	}
}

// LoadSolverFile reads solver parameters from a YAML file, overlaying
// them on the defaults and validating the result. An empty path yields
// the defaults unchanged.
func LoadSolverFile(path string) (SolverFile, error) {
	cfg := DefaultSolverFile()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return SolverFile{}, fmt.Errorf("load solver config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return SolverFile{}, fmt.Errorf("load solver config %s: %w", path, err)
	}

	if err := cfg.Insertion.Validate(); err != nil {
		return SolverFile{}, fmt.Errorf("load solver config %s: %w", path, err)
	}
	if err := cfg.Genetic.Validate(); err != nil {
		return SolverFile{}, fmt.Errorf("load solver config %s: %w", path, err)
	}
	return cfg, nil
}
