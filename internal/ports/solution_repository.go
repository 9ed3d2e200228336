package ports

import (
	"context"
	"errors"

	"delivery-route-optimizer/internal/domain"
)

// ErrRunNotFound is returned when no stored run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// Port: a boundary for persisting optimization runs and reading them back.
type SolutionRepository interface {
	// Persist a run (solution, routes, convergence history).
	SaveRun(ctx context.Context, run *domain.Run) error
	// Load a stored run with its routes and convergence history.
	GetRun(ctx context.Context, id string) (*domain.Run, error)
	// List runs, optionally filtered by instance name ("" = all).
	ListRuns(ctx context.Context, instanceName string) ([]*domain.Run, error)
}
