package calculator

import (
	"math"

	"nearby-places/internal/models"
)

const earthRadiusKm = 6371.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// DistanceKm computes the great-circle distance between two coordinates in
// kilometers using the haversine formula. Inputs are not validated; see
// ValidateCoordinate.
func DistanceKm(a, b models.Coordinate) float64 {
	lat1Rad := toRadians(a.Latitude)
	lat2Rad := toRadians(b.Latitude)

	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding near antipodal points, or latitudes outside [-90, 90], can push
	// h out of [0, 1] and make the square roots below NaN.
	h = math.Max(0, math.Min(1, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}
