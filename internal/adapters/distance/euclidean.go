package distance

import (
	"math"

	"delivery-route-optimizer/internal/domain"
)

// EuclideanProvider implements DistanceProvider on the plane.
// This is the metric of the Solomon benchmarks and of synthetic
// grid instances: straight-line distance, travel time = distance.
type EuclideanProvider struct{}

func NewEuclideanProvider() *EuclideanProvider { return &EuclideanProvider{} }

func (EuclideanProvider) Distance(from, to domain.Point) float64 {
	dx := from.X - to.X
	dy := from.Y - to.Y
	return math.Sqrt(dx*dx + dy*dy)
}
