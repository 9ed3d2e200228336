package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"delivery-route-optimizer/internal/api/handlers"
	"delivery-route-optimizer/internal/metrics"
	"delivery-route-optimizer/internal/ports"
	"delivery-route-optimizer/internal/solver"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(instances ports.InstanceRepository, runs ports.SolutionRepository,
	genetic solver.GeneticConfig, insertion solver.InsertionConfig) http.Handler {
	mux := http.NewServeMux()

	instanceHandler := &handlers.InstanceHandler{Repo: instances}
	solveHandler := &handlers.SolveHandler{
		Instances: instances,
		Runs:      runs,
		Genetic:   genetic,
		Insertion: insertion,
	}
	solutionHandler := &handlers.SolutionHandler{Runs: runs}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/instances", instanceHandler.List)
	mux.HandleFunc("/solve", solveHandler.Solve)
	mux.HandleFunc("/solutions", solutionHandler.List)
	mux.HandleFunc("/solutions/", solutionHandler.Get)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return loggingMiddleware(mux)
}
