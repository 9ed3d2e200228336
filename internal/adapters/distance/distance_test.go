package distance

import (
	"math"
	"testing"

	"delivery-route-optimizer/internal/domain"
)

func TestEuclideanDistance(t *testing.T) {
	p := NewEuclideanProvider()

	cases := []struct {
		name     string
		from, to domain.Point
		want     float64
	}{
		{"same point", domain.Point{X: 3, Y: 4}, domain.Point{X: 3, Y: 4}, 0},
		{"axis aligned", domain.Point{X: 0, Y: 0}, domain.Point{X: 0, Y: 10}, 10},
		{"3-4-5 triangle", domain.Point{X: 0, Y: 0}, domain.Point{X: 3, Y: 4}, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := p.Distance(tc.from, tc.to)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Distance() = %v, want %v", got, tc.want)
			}
			back := p.Distance(tc.to, tc.from)
			if back != got {
				t.Errorf("Distance() not symmetric: %v vs %v", got, back)
			}
		})
	}
}

func TestHaversineDistance(t *testing.T) {
	p := NewHaversineProvider()

	// London (lon -0.1278, lat 51.5074) to Paris (lon 2.3522, lat 48.8566)
	// is roughly 344 km great-circle.
	london := domain.Point{X: -0.1278, Y: 51.5074}
	paris := domain.Point{X: 2.3522, Y: 48.8566}

	got := p.Distance(london, paris)
	if got < 330 || got > 360 {
		t.Errorf("Distance(London, Paris) = %v km, want roughly 344", got)
	}
	if d := p.Distance(london, london); d != 0 {
		t.Errorf("Distance to self = %v, want 0", d)
	}
}

func TestMockDistanceProvider(t *testing.T) {
	p := NewMockDistanceProvider(func(from, to domain.Point) float64 {
		return math.Abs(from.X-to.X) + math.Abs(from.Y-to.Y)
	})

	got := p.Distance(domain.Point{X: 0, Y: 0}, domain.Point{X: 3, Y: 4})
	if got != 7 {
		t.Errorf("Distance() = %v, want 7 from the supplied function", got)
	}
}
