package geo

import "math"

const earthRadiusMeters = 6371000

// FailOpenOnGeoError is the documented policy for malformed coordinates:
// Validate returns true instead of blocking the check-in, so a transient
// location error never locks an employee out. Callers that need strict
// enforcement must additionally check the enforce_geofence settings flag.
const FailOpenOnGeoError = true

// HaversineDistance returns the great-circle distance between two
// coordinates in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Validate reports whether the user location is within radiusMeters of the
// office location. Malformed input fails open per FailOpenOnGeoError.
func Validate(userLat, userLon, officeLat, officeLon, radiusMeters float64) bool {
	if !WellFormed(userLat, userLon) || !WellFormed(officeLat, officeLon) ||
		math.IsNaN(radiusMeters) || radiusMeters <= 0 {
		return FailOpenOnGeoError
	}
	return HaversineDistance(userLat, userLon, officeLat, officeLon) <= radiusMeters
}

// WellFormed reports whether a coordinate pair is a usable lat/lon.
func WellFormed(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
