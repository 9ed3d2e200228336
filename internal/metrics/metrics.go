// Package metrics holds the Prometheus collectors for the API and the
// optimization engine, registered on a dedicated registry so the
// exposition endpoint serves only what this service owns.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// SolveRuns counts optimization runs by method and outcome.
	SolveRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "solve_runs_total", Help: "Optimization runs by method and outcome."},
		[]string{"method", "outcome"},
	)
	// SolveDuration tracks optimization wall time in seconds.
	SolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "solve_duration_seconds", Help: "Optimization wall time in seconds.", Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300}},
		[]string{"method"},
	)
	// SolveBestFitness reports the fitness of the last completed run.
	SolveBestFitness = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "solve_best_fitness", Help: "Best fitness of the last completed run."},
		[]string{"method", "instance"},
	)
)

var regOnce sync.Once

// Register installs all collectors on the dedicated registry, plus the
// standard Go and process collectors. Safe to call more than once.
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(SolveRuns)
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(SolveBestFitness)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
