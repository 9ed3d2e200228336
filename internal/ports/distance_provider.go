package ports

import "delivery-route-optimizer/internal/domain"

// Contract for computing travel distance between two locations.
// Implementations must be pure: symmetric, zero on identical points,
// and free of side effects, so the instance can cache all pairs in its
// distance matrix once at construction.
type DistanceProvider interface {
	// Return travel distance between two points.
	Distance(from, to domain.Point) float64
}
