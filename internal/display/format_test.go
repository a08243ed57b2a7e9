package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKm(t *testing.T) {
	assert.Equal(t, "15.07 km", Km(15.0712))
	assert.Equal(t, "0.00 km", Km(0))
	assert.Equal(t, "20015.09 km", Km(20015.0868))
}

func TestCoordinate(t *testing.T) {
	assert.Equal(t, "23.6850, 90.3563", Coordinate(23.685, 90.3563))
	assert.Equal(t, "-33.8688, 151.2093", Coordinate(-33.86882, 151.20929))
}
