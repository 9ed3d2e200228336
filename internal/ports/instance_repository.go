package ports

import (
	"context"
	"errors"

	"delivery-route-optimizer/internal/domain"
)

// ErrInstanceNotFound is returned when no stored instance has the
// requested name.
var ErrInstanceNotFound = errors.New("instance not found")

// Summary row for listing stored instances without loading customers.
type InstanceSummary struct {
	Name      string
	Customers int
	Capacity  float64
}

// Port: a boundary for storing and retrieving problem instances.
type InstanceRepository interface {
	// Persist an instance (customers, depot, capacity) under its name.
	SaveInstance(ctx context.Context, in *domain.Instance) error
	// Load a stored instance by name.
	GetInstance(ctx context.Context, name string) (*domain.Instance, error)
	// List stored instances.
	ListInstances(ctx context.Context) ([]InstanceSummary, error)
}
