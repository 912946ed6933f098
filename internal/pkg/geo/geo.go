// Package geo implements the great-circle math used by the proximity matcher.
package geo

import "math"

const EarthRadiusKm = 6371.0

func rad(deg float64) float64 { return deg * math.Pi / 180 }

func deg(r float64) float64 { return r * 180 / math.Pi }

// DistanceKm returns the spherical law of cosines distance between two points.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	cosC := math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Cos(rad(lng2)-rad(lng1)) +
		math.Sin(rad(lat1))*math.Sin(rad(lat2))
	// rounding can push identical points just past 1
	cosC = math.Max(-1, math.Min(1, cosC))
	return EarthRadiusKm * math.Acos(cosC)
}

func ValidLatitude(lat float64) bool { return lat >= -90 && lat <= 90 }

func ValidLongitude(lng float64) bool { return lng >= -180 && lng <= 180 }

// Box is a lat/lng rectangle that contains every point within a radius of
// its center. WrapsLng is set when the longitude span crosses the
// antimeridian or covers the whole circle; callers should skip the
// longitude filter then.
type Box struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
	WrapsLng       bool
}

// BoundingBox returns a conservative box around (lat, lng) for radiusKm.
func BoundingBox(lat, lng, radiusKm float64) Box {
	angular := radiusKm / EarthRadiusKm
	// small slack so points sitting exactly on the radius survive the prefilter
	angular *= 1.001

	minLat := rad(lat) - angular
	maxLat := rad(lat) + angular

	b := Box{MinLat: deg(minLat), MaxLat: deg(maxLat)}

	if minLat <= -math.Pi/2 || maxLat >= math.Pi/2 {
		b.MinLat = math.Max(b.MinLat, -90)
		b.MaxLat = math.Min(b.MaxLat, 90)
		b.MinLng, b.MaxLng = -180, 180
		b.WrapsLng = true
		return b
	}

	dLng := math.Asin(math.Sin(angular) / math.Cos(rad(lat)))
	b.MinLng = deg(rad(lng) - dLng)
	b.MaxLng = deg(rad(lng) + dLng)
	if b.MinLng < -180 || b.MaxLng > 180 {
		b.MinLng, b.MaxLng = -180, 180
		b.WrapsLng = true
	}
	return b
}
