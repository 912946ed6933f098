package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// offsetNorth moves a point due north by km along the meridian.
func offsetNorth(lat, km float64) float64 {
	return lat + km/EarthRadiusKm*180/math.Pi
}

func TestDistanceKm_SamePoint(t *testing.T) {
	assert.InDelta(t, 0.0, DistanceKm(-12.05, -77.03, -12.05, -77.03), 1e-3)
}

func TestDistanceKm_Meridian(t *testing.T) {
	lat2 := offsetNorth(-12.05, 4.9)
	assert.InDelta(t, 4.9, DistanceKm(-12.05, -77.03, lat2, -77.03), 1e-6)
}

func TestDistanceKm_KnownCities(t *testing.T) {
	// Lima -> Cusco is roughly 575 km
	d := DistanceKm(-12.0464, -77.0428, -13.5320, -71.9675)
	assert.InDelta(t, 575, d, 10)
}

func TestBoundingBox_ContainsRadius(t *testing.T) {
	lat, lng := -12.05, -77.03
	b := BoundingBox(lat, lng, 5)
	assert.False(t, b.WrapsLng)

	north := offsetNorth(lat, 5)
	south := offsetNorth(lat, -5)
	assert.True(t, north <= b.MaxLat)
	assert.True(t, south >= b.MinLat)
	assert.True(t, b.MinLng < lng && lng < b.MaxLng)
}

func TestBoundingBox_Antimeridian(t *testing.T) {
	b := BoundingBox(0, 179.99, 50)
	assert.True(t, b.WrapsLng)
	assert.Equal(t, -180.0, b.MinLng)
	assert.Equal(t, 180.0, b.MaxLng)
}

func TestBoundingBox_Pole(t *testing.T) {
	b := BoundingBox(89.99, 10, 50)
	assert.True(t, b.WrapsLng)
	assert.Equal(t, 90.0, b.MaxLat)
}
