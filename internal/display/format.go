package display

import "fmt"

// Km formats a distance the way it is shown next to a place name.
func Km(distanceKm float64) string {
	return fmt.Sprintf("%.2f km", distanceKm)
}

// Coordinate formats a latitude/longitude pair with fixed precision.
func Coordinate(lat, lng float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lng)
}
