package distance

import "delivery-route-optimizer/internal/domain"

// MockDistanceProvider returns distances from a caller-supplied function.
// Used in tests to build instances with hand-picked leg lengths.
type MockDistanceProvider struct {
	Fn func(from, to domain.Point) float64
}

func NewMockDistanceProvider(fn func(from, to domain.Point) float64) *MockDistanceProvider {
	return &MockDistanceProvider{Fn: fn}
}

func (p *MockDistanceProvider) Distance(from, to domain.Point) float64 {
	return p.Fn(from, to)
}
