package distance

import (
	"math"

	"delivery-route-optimizer/internal/domain"
)

const earthRadiusKm = 6371.0

// HaversineProvider implements DistanceProvider for geographic instances
// whose points carry longitude (X) and latitude (Y) in degrees.
// Distances are great-circle kilometers.
type HaversineProvider struct{}

func NewHaversineProvider() *HaversineProvider { return &HaversineProvider{} }

func (HaversineProvider) Distance(from, to domain.Point) float64 {
	lat1 := from.Y * math.Pi / 180
	lat2 := to.Y * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (to.X - from.X) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
