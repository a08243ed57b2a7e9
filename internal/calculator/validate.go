package calculator

import (
	"errors"
	"fmt"
	"math"

	"nearby-places/internal/models"
)

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidK          = errors.New("result limit must not be negative")
	ErrInvalidRadius     = errors.New("radius must be a finite, non-negative number of kilometers")
)

// ValidateCoordinate reports ErrInvalidCoordinate for non-finite values or
// values outside [-90, 90] / [-180, 180]. It is meant for the places where
// external input enters; DistanceKm itself never validates.
func ValidateCoordinate(c models.Coordinate) error {
	if !isFinite(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidCoordinate, c.Latitude)
	}
	if !isFinite(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
