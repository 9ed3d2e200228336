package solver

import (
	"testing"

	"delivery-route-optimizer/internal/adapters/distance"
	"delivery-route-optimizer/internal/domain"
)

// squareInstance builds a four-customer instance on the corners and
// edges of a small square around the depot. Wide open time windows
// unless narrowed by the caller.
func squareInstance(t *testing.T) *domain.Instance {
	t.Helper()
	return buildInstance(t, 30, []domain.Customer{
		{ID: 1, Pos: domain.Point{X: 0, Y: 10}, Demand: 10, Ready: 0, Due: 1000},
		{ID: 2, Pos: domain.Point{X: 10, Y: 10}, Demand: 10, Ready: 0, Due: 1000},
		{ID: 3, Pos: domain.Point{X: 10, Y: 0}, Demand: 10, Ready: 0, Due: 1000},
		{ID: 4, Pos: domain.Point{X: 0, Y: 20}, Demand: 10, Ready: 0, Due: 1000},
	})
}

func buildInstance(t *testing.T, capacity float64, customers []domain.Customer) *domain.Instance {
	t.Helper()
	depot := domain.NewDepot(domain.Point{X: 0, Y: 0}, 1000)
	provider := distance.NewEuclideanProvider()
	inst, err := domain.NewInstance("test", depot, customers, capacity, provider.Distance)
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	return inst
}

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}
