package solver

import (
	"errors"
	"testing"
)

func TestGeneticConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*GeneticConfig)
		ok     bool
	}{
		{"defaults", func(c *GeneticConfig) {}, true},
		{"zero elite", func(c *GeneticConfig) { c.EliteSize = 0 }, true},
		{"zero pop", func(c *GeneticConfig) { c.PopSize = 0 }, false},
		{"negative generations", func(c *GeneticConfig) { c.Generations = -1 }, false},
		{"elite above pop", func(c *GeneticConfig) { c.EliteSize = c.PopSize + 1 }, false},
		{"tournament above pop", func(c *GeneticConfig) { c.TournamentSize = c.PopSize + 1 }, false},
		{"crossover rate above one", func(c *GeneticConfig) { c.CrossoverRate = 1.5 }, false},
		{"negative mutation rate", func(c *GeneticConfig) { c.MutationRate = -0.1 }, false},
		{"local search rate above one", func(c *GeneticConfig) { c.LocalSearchRate = 2 }, false},
		{"zero report interval", func(c *GeneticConfig) { c.ReportInterval = 0 }, false},
		{"zero eval workers", func(c *GeneticConfig) { c.EvalWorkers = 0 }, false},
		{"negative capacity penalty", func(c *GeneticConfig) { c.Penalties.Capacity = -1 }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultGeneticConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Fatalf("err = %v, want ErrInvalidConfig", err)
				}
			}
		})
	}
}

func TestInsertionConfigValidate(t *testing.T) {
	cfg := DefaultInsertionConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	cfg.SeedRule = "nearest"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig for unknown seed rule", err)
	}

	cfg = DefaultInsertionConfig()
	cfg.Lambda = -0.5
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig for negative lambda", err)
	}
}
