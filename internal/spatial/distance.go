package spatial

import (
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is Earth's mean radius in meters
const EarthRadiusMeters = 6371000.0

// DistanceMeters calculates the great-circle distance between two points in
// meters using the Haversine formula
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// IsWithin reports whether a point lies inside a circular area. A point at
// exactly radiusM from the center counts as inside.
func IsWithin(lat, lon, centerLat, centerLon, radiusM float64) bool {
	return DistanceMeters(lat, lon, centerLat, centerLon) <= radiusM
}
