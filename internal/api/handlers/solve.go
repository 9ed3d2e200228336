package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"delivery-route-optimizer/internal/api/dto"
	"delivery-route-optimizer/internal/domain"
	"delivery-route-optimizer/internal/metrics"
	"delivery-route-optimizer/internal/platform/obs"
	"delivery-route-optimizer/internal/ports"
	"delivery-route-optimizer/internal/solver"
)

const (
	MethodSolomon = "solomon"
	MethodGenetic = "genetic"
)

type SolveHandler struct {
	Instances ports.InstanceRepository
	Runs      ports.SolutionRepository

	// Defaults applied before per-request overrides.
	Genetic   solver.GeneticConfig
	Insertion solver.InsertionConfig
}

// Solve runs the requested optimizer over a stored instance, persists
// the result as a run, and returns it.
func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.SolveRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	instanceID := strings.TrimSpace(req.InstanceID)
	if instanceID == "" {
		writeError(w, r, http.StatusBadRequest, "instance_id is required")
		return
	}
	method := strings.TrimSpace(req.Method)
	if method == "" {
		method = MethodGenetic
	}
	if method != MethodSolomon && method != MethodGenetic {
		writeError(w, r, http.StatusBadRequest, "method must be \"solomon\" or \"genetic\"")
		return
	}

	cfg := h.geneticConfig(req)
	if err := cfg.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	inst, err := h.Instances.GetInstance(r.Context(), instanceID)
	if errors.Is(err, ports.ErrInstanceNotFound) {
		writeError(w, r, http.StatusNotFound, "instance not found")
		return
	}
	if err != nil {
		log.Printf("load instance failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	run, err := h.solve(r, inst, method, cfg)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(w, r, http.StatusServiceUnavailable, "request cancelled")
			return
		}
		log.Printf("solve failed: instance=%s method=%s err=%v", instanceID, method, err)
		metrics.SolveRuns.WithLabelValues(method, "error").Inc()
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.Runs.SaveRun(r.Context(), run); err != nil {
		log.Printf("save run failed: run=%s err=%v", run.ID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	metrics.SolveRuns.WithLabelValues(method, "ok").Inc()
	metrics.SolveBestFitness.WithLabelValues(method, instanceID).Set(run.Solution.Fitness)

	writeJSON(w, r, http.StatusOK, RunToResponse(run, true))
}

func (h *SolveHandler) geneticConfig(req dto.SolveRequest) solver.GeneticConfig {
	cfg := h.Genetic
	if req.Generations > 0 {
		cfg.Generations = req.Generations
	}
	if req.PopSize > 0 {
		cfg.PopSize = req.PopSize
	}
	if req.EliteSize > 0 {
		cfg.EliteSize = req.EliteSize
	}
	if req.TournamentSize > 0 {
		cfg.TournamentSize = req.TournamentSize
	}
	if req.CrossoverRate != nil {
		cfg.CrossoverRate = *req.CrossoverRate
	}
	if req.MutationRate != nil {
		cfg.MutationRate = *req.MutationRate
	}
	if req.LocalSearchRate != nil {
		cfg.LocalSearchRate = *req.LocalSearchRate
	}
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}
	return cfg
}

func (h *SolveHandler) solve(r *http.Request, inst *domain.Instance, method string, cfg solver.GeneticConfig) (run *domain.Run, err error) {
	ctx := r.Context()
	defer obs.Time(ctx, "solve "+method)(&err)
	started := time.Now()

	var sol *domain.Solution
	var history []domain.GenerationStats
	switch method {
	case MethodSolomon:
		eval := solver.NewEvaluator(inst, cfg.Penalties)
		constructor, err := solver.NewSolomonInsertion(inst, h.Insertion, eval)
		if err != nil {
			return nil, err
		}
		sol = constructor.Construct()
	case MethodGenetic:
		ga, err := solver.NewGeneticAlgorithm(inst, cfg, h.Insertion)
		if err != nil {
			return nil, err
		}
		sol, err = ga.Run(ctx)
		if err != nil {
			return nil, err
		}
		history = ga.History()
	}

	metrics.SolveDuration.WithLabelValues(method).Observe(time.Since(started).Seconds())

	return &domain.Run{
		ID:           uuid.NewString(),
		InstanceName: inst.Name,
		Method:       method,
		CreatedAt:    time.Now().UTC(),
		Solution:     sol,
		Convergence:  history,
	}, nil
}

// RunToResponse maps a run onto its wire shape. Routes and convergence
// are included only for full runs.
func RunToResponse(run *domain.Run, full bool) dto.RunResponse {
	res := dto.RunResponse{
		RunID:         run.ID,
		InstanceID:    run.InstanceName,
		Method:        run.Method,
		CreatedAt:     run.CreatedAt,
		Fitness:       run.Solution.Fitness,
		TotalDistance: run.Solution.TotalDistance,
		TotalDuration: run.Solution.TotalDuration,
		Feasible:      run.Solution.Feasible,
		Vehicles:      run.Solution.Vehicles(),
	}
	if !full {
		return res
	}
	res.Routes = make([]dto.RouteResponse, 0, len(run.Solution.Routes))
	for _, rt := range run.Solution.Routes {
		res.Routes = append(res.Routes, dto.RouteResponse{
			Vehicle:              rt.Vehicle,
			Customers:            rt.Customers,
			Load:                 rt.Load,
			Distance:             rt.Distance,
			Duration:             rt.Duration,
			CapacityViolations:   rt.CapacityViolations,
			TimeWindowViolations: rt.TimeWindowViolations,
		})
	}
	for _, g := range run.Convergence {
		res.Convergence = append(res.Convergence, dto.GenerationResponse{
			Generation:  g.Generation,
			BestFitness: g.BestFitness,
			MeanFitness: g.MeanFitness,
			StdDev:      g.StdDev,
			ElapsedMs:   g.Elapsed.Milliseconds(),
		})
	}
	return res
}
