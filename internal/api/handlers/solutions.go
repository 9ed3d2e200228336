package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"delivery-route-optimizer/internal/api/dto"
	"delivery-route-optimizer/internal/ports"
)

type SolutionHandler struct {
	Runs ports.SolutionRepository
}

// List returns stored runs, newest first, optionally filtered with
// the instance_id query parameter. Entries carry aggregate metrics
// only; fetch a single run for its routes.
func (h *SolutionHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	instanceID := strings.TrimSpace(r.URL.Query().Get("instance_id"))
	runs, err := h.Runs.ListRuns(r.Context(), instanceID)
	if err != nil {
		log.Printf("list runs failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRunsResponse{Runs: make([]dto.RunResponse, 0, len(runs))}
	for _, run := range runs {
		res.Runs = append(res.Runs, RunToResponse(run, false))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Get returns one run with its routes and convergence history. The run
// id is the path segment after /solutions/.
func (h *SolutionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/solutions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusBadRequest, "run id is required")
		return
	}

	run, err := h.Runs.GetRun(r.Context(), id)
	if errors.Is(err, ports.ErrRunNotFound) {
		writeError(w, r, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		log.Printf("get run failed: run=%s err=%v", id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, RunToResponse(run, true))
}
