package solver

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig marks configuration rejected before any optimization
// starts. Wrapped errors name the offending field and value; the solver
// never substitutes defaults for malformed input.
var ErrInvalidConfig = errors.New("invalid configuration")

// SeedRule selects how the Solomon constructor picks the first customer
// of a freshly opened route.
type SeedRule string

const (
	// SeedFarthest seeds a new route with the unrouted customer farthest
	// from the depot (the standard I1 rule).
	SeedFarthest SeedRule = "farthest"
	// SeedEarliestDue seeds with the unrouted customer whose time window
	// closes first.
	SeedEarliestDue SeedRule = "earliest_due"
)

// InsertionConfig carries the weights of the Solomon I1 insertion cost
// c(i,u,j) = Alpha*c1 + Lambda*c2 with c1 = d(i,u)+d(u,j)-Mu*d(i,j).
type InsertionConfig struct {
	Alpha    float64  `yaml:"alpha"`
	Mu       float64  `yaml:"mu"`
	Lambda   float64  `yaml:"lambda_param"`
	SeedRule SeedRule `yaml:"seed_rule"`
}

func DefaultInsertionConfig() InsertionConfig {
	return InsertionConfig{Alpha: 1.0, Mu: 1.0, Lambda: 2.0, SeedRule: SeedFarthest}
}

func (c InsertionConfig) Validate() error {
	if c.Alpha < 0 {
		return fmt.Errorf("%w: alpha must be non-negative (got %v)", ErrInvalidConfig, c.Alpha)
	}
	if c.Mu < 0 {
		return fmt.Errorf("%w: mu must be non-negative (got %v)", ErrInvalidConfig, c.Mu)
	}
	if c.Lambda < 0 {
		return fmt.Errorf("%w: lambda_param must be non-negative (got %v)", ErrInvalidConfig, c.Lambda)
	}
	switch c.SeedRule {
	case SeedFarthest, SeedEarliestDue:
	default:
		return fmt.Errorf("%w: seed_rule must be %q or %q (got %q)", ErrInvalidConfig, SeedFarthest, SeedEarliestDue, c.SeedRule)
	}
	return nil
}

// PenaltyConfig prices constraint violations into the fitness.
// The defaults reproduce the reference behavior; they are configuration,
// not constants, so experiments can reweigh them.
type PenaltyConfig struct {
	Capacity   float64 `yaml:"capacity"`
	TimeWindow float64 `yaml:"time_window"`
}

func DefaultPenalties() PenaltyConfig {
	return PenaltyConfig{Capacity: 1000.0, TimeWindow: 500.0}
}

func (c PenaltyConfig) Validate() error {
	if c.Capacity < 0 {
		return fmt.Errorf("%w: capacity penalty must be non-negative (got %v)", ErrInvalidConfig, c.Capacity)
	}
	if c.TimeWindow < 0 {
		return fmt.Errorf("%w: time window penalty must be non-negative (got %v)", ErrInvalidConfig, c.TimeWindow)
	}
	return nil
}

// GeneticConfig parameterizes the hybrid genetic algorithm.
type GeneticConfig struct {
	PopSize         int     `yaml:"pop_size"`
	EliteSize       int     `yaml:"elite_size"`
	Generations     int     `yaml:"generations"`
	TournamentSize  int     `yaml:"tournament_size"`
	CrossoverRate   float64 `yaml:"crossover_rate"`
	MutationRate    float64 `yaml:"mutation_rate"`
	LocalSearchRate float64 `yaml:"local_search_rate"`
	Seed            int64   `yaml:"seed"`

	// ReportInterval is the observer cadence in generations.
	ReportInterval int `yaml:"report_interval"`
	// EvalWorkers bounds concurrent fitness evaluation. 1 keeps the
	// reference single-threaded behavior; evaluation is pure, so any
	// value yields identical results.
	EvalWorkers int `yaml:"eval_workers"`

	Penalties PenaltyConfig `yaml:"penalties"`
}

func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopSize:         100,
		EliteSize:       20,
		Generations:     300,
		TournamentSize:  5,
		CrossoverRate:   0.8,
		MutationRate:    0.2,
		LocalSearchRate: 0.3,
		Seed:            42,
		ReportInterval:  10,
		EvalWorkers:     1,
		Penalties:       DefaultPenalties(),
	}
}

func (c GeneticConfig) Validate() error {
	if c.PopSize <= 0 {
		return fmt.Errorf("%w: pop_size must be positive (got %d)", ErrInvalidConfig, c.PopSize)
	}
	if c.Generations <= 0 {
		return fmt.Errorf("%w: generations must be positive (got %d)", ErrInvalidConfig, c.Generations)
	}
	if c.EliteSize < 0 || c.EliteSize > c.PopSize {
		return fmt.Errorf("%w: elite_size must be in [0, pop_size] (got %d with pop_size=%d)", ErrInvalidConfig, c.EliteSize, c.PopSize)
	}
	if c.TournamentSize <= 0 || c.TournamentSize > c.PopSize {
		return fmt.Errorf("%w: tournament_size must be in [1, pop_size] (got %d)", ErrInvalidConfig, c.TournamentSize)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf("%w: crossover_rate must be in [0,1] (got %v)", ErrInvalidConfig, c.CrossoverRate)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("%w: mutation_rate must be in [0,1] (got %v)", ErrInvalidConfig, c.MutationRate)
	}
	if c.LocalSearchRate < 0 || c.LocalSearchRate > 1 {
		return fmt.Errorf("%w: local_search_rate must be in [0,1] (got %v)", ErrInvalidConfig, c.LocalSearchRate)
	}
	if c.ReportInterval <= 0 {
		return fmt.Errorf("%w: report_interval must be positive (got %d)", ErrInvalidConfig, c.ReportInterval)
	}
	if c.EvalWorkers <= 0 {
		return fmt.Errorf("%w: eval_workers must be positive (got %d)", ErrInvalidConfig, c.EvalWorkers)
	}
	return c.Penalties.Validate()
}
