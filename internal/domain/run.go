package domain

import "time"

// GenerationStats is one point of the optimizer's convergence history.
type GenerationStats struct {
	Generation  int
	BestFitness float64
	MeanFitness float64
	StdDev      float64
	Elapsed     time.Duration
}

// Run is a persisted optimization result: the method that produced it,
// the solution itself, and (for the genetic algorithm) the per-generation
// convergence history.
type Run struct {
	ID           string
	InstanceName string
	Method       string
	CreatedAt    time.Time
	Solution     *Solution
	Convergence  []GenerationStats
}
