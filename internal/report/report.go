// Package report renders optimization results for humans and for disk.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"delivery-route-optimizer/internal/domain"
)

// Comparison pairs the constructive baseline with the improved result
// on the same instance.
type Comparison struct {
	InstanceName string
	Baseline     *domain.Run
	Improved     *domain.Run
}

// DistanceImprovementPercent is the relative distance saved by the
// improved run over the baseline.
func (c Comparison) DistanceImprovementPercent() float64 {
	if c.Baseline.Solution.TotalDistance == 0 {
		return 0
	}
	return (c.Baseline.Solution.TotalDistance - c.Improved.Solution.TotalDistance) /
		c.Baseline.Solution.TotalDistance * 100
}

// FitnessImprovementPercent is the relative fitness gain.
func (c Comparison) FitnessImprovementPercent() float64 {
	if c.Baseline.Solution.Fitness == 0 {
		return 0
	}
	return (c.Baseline.Solution.Fitness - c.Improved.Solution.Fitness) /
		c.Baseline.Solution.Fitness * 100
}

// VehiclesSaved is the fleet size reduction, negative when the improved
// run uses more vehicles.
func (c Comparison) VehiclesSaved() int {
	return c.Baseline.Solution.Vehicles() - c.Improved.Solution.Vehicles()
}

// Write renders the comparison as a plain text table.
func Write(w io.Writer, c Comparison) error {
	if c.Baseline == nil || c.Improved == nil ||
		c.Baseline.Solution == nil || c.Improved.Solution == nil {
		return errors.New("report: comparison needs both runs")
	}

	rule := strings.Repeat("-", 78)
	b := &strings.Builder{}
	fmt.Fprintf(b, "Instance: %s\n", c.InstanceName)
	fmt.Fprintln(b, rule)
	fmt.Fprintf(b, "%-22s %15s %15s %12s\n", "Metric", c.Baseline.Method, c.Improved.Method, "Improvement")
	fmt.Fprintln(b, rule)
	fmt.Fprintf(b, "%-22s %15.2f %15.2f %11.2f%%\n", "Total distance",
		c.Baseline.Solution.TotalDistance, c.Improved.Solution.TotalDistance, c.DistanceImprovementPercent())
	fmt.Fprintf(b, "%-22s %15.2f %15.2f %12s\n", "Total duration",
		c.Baseline.Solution.TotalDuration, c.Improved.Solution.TotalDuration, "")
	fmt.Fprintf(b, "%-22s %15d %15d %12d\n", "Vehicles",
		c.Baseline.Solution.Vehicles(), c.Improved.Solution.Vehicles(), c.VehiclesSaved())
	fmt.Fprintf(b, "%-22s %15.2f %15.2f %11.2f%%\n", "Fitness",
		c.Baseline.Solution.Fitness, c.Improved.Solution.Fitness, c.FitnessImprovementPercent())
	fmt.Fprintf(b, "%-22s %15t %15t\n", "Feasible",
		c.Baseline.Solution.Feasible, c.Improved.Solution.Feasible)
	fmt.Fprintln(b, rule)

	if len(c.Improved.Convergence) > 0 {
		first := c.Improved.Convergence[0]
		last := c.Improved.Convergence[len(c.Improved.Convergence)-1]
		fmt.Fprintf(b, "Convergence: %.2f -> %.2f over %d generations (%s)\n",
			first.BestFitness, last.BestFitness, last.Generation, last.Elapsed.Round(time.Millisecond))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

type routeJSON struct {
	Vehicle              int     `json:"vehicle"`
	Customers            []int   `json:"customers"`
	Load                 float64 `json:"load"`
	Distance             float64 `json:"distance"`
	Duration             float64 `json:"duration"`
	CapacityViolations   int     `json:"capacity_violations"`
	TimeWindowViolations int     `json:"time_window_violations"`
}

type runJSON struct {
	RunID         string      `json:"run_id"`
	Instance      string      `json:"instance"`
	Method        string      `json:"method"`
	Fitness       float64     `json:"fitness"`
	TotalDistance float64     `json:"total_distance"`
	TotalDuration float64     `json:"total_duration"`
	Feasible      bool        `json:"feasible"`
	Vehicles      int         `json:"vehicles"`
	Routes        []routeJSON `json:"routes"`
}

// WriteSolutionJSON persists one run as an indented JSON document.
func WriteSolutionJSON(w io.Writer, run *domain.Run) error {
	if run == nil || run.Solution == nil {
		return errors.New("report: run has no solution")
	}

	doc := runJSON{
		RunID:         run.ID,
		Instance:      run.InstanceName,
		Method:        run.Method,
		Fitness:       run.Solution.Fitness,
		TotalDistance: run.Solution.TotalDistance,
		TotalDuration: run.Solution.TotalDuration,
		Feasible:      run.Solution.Feasible,
		Vehicles:      run.Solution.Vehicles(),
		Routes:        make([]routeJSON, 0, len(run.Solution.Routes)),
	}
	for _, r := range run.Solution.Routes {
		doc.Routes = append(doc.Routes, routeJSON{
			Vehicle:              r.Vehicle,
			Customers:            r.Customers,
			Load:                 r.Load,
			Distance:             r.Distance,
			Duration:             r.Duration,
			CapacityViolations:   r.CapacityViolations,
			TimeWindowViolations: r.TimeWindowViolations,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
