package dto

import "time"

// SolveRequest triggers an optimization run over a stored instance.
// Zero-valued knobs fall back to the server defaults.
type SolveRequest struct {
	InstanceID string `json:"instance_id"`
	// Method is "solomon" for the constructive heuristic alone or
	// "genetic" for the full hybrid run.
	Method          string   `json:"method"`
	Generations     int      `json:"generations"`
	PopSize         int      `json:"pop_size"`
	EliteSize       int      `json:"elite_size"`
	TournamentSize  int      `json:"tournament_size"`
	CrossoverRate   *float64 `json:"crossover_rate"`
	MutationRate    *float64 `json:"mutation_rate"`
	LocalSearchRate *float64 `json:"local_search_rate"`
	Seed            *int64   `json:"seed"`
}

type RouteResponse struct {
	Vehicle              int     `json:"vehicle"`
	Customers            []int   `json:"customers"`
	Load                 float64 `json:"load"`
	Distance             float64 `json:"distance"`
	Duration             float64 `json:"duration"`
	CapacityViolations   int     `json:"capacity_violations"`
	TimeWindowViolations int     `json:"time_window_violations"`
}

type GenerationResponse struct {
	Generation  int     `json:"generation"`
	BestFitness float64 `json:"best_fitness"`
	MeanFitness float64 `json:"mean_fitness"`
	StdDev      float64 `json:"std_dev"`
	ElapsedMs   int64   `json:"elapsed_ms"`
}

type RunResponse struct {
	RunID         string               `json:"run_id"`
	InstanceID    string               `json:"instance_id"`
	Method        string               `json:"method"`
	CreatedAt     time.Time            `json:"created_at"`
	Fitness       float64              `json:"fitness"`
	TotalDistance float64              `json:"total_distance"`
	TotalDuration float64              `json:"total_duration"`
	Feasible      bool                 `json:"feasible"`
	Vehicles      int                  `json:"vehicles"`
	Routes        []RouteResponse      `json:"routes,omitempty"`
	Convergence   []GenerationResponse `json:"convergence,omitempty"`
}

type ListRunsResponse struct {
	Runs []RunResponse `json:"runs"`
}
