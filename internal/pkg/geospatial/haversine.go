// Package geospatial holds spherical-earth helpers used to measure how far a
// DIGIPIN cell center lies from the point it was encoded from.
package geospatial

import "math"

const (
	earthRadiusMeters = 6371000.0
	metersPerDegree   = 111320.0
)

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// BoundingBox returns a box around a point that encloses a circle of the given
// radius in meters.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, minLon, maxLat, maxLon float64) {
	latDelta := radiusMeters / metersPerDegree
	lonDelta := radiusMeters / (metersPerDegree * math.Cos(toRad(lat)))

	return lat - latDelta, lon - lonDelta, lat + latDelta, lon + lonDelta
}

// CellSizeMeters approximates the north-south and east-west extent in meters of
// a box spanning dLat by dLon degrees centered on lat.
func CellSizeMeters(lat, dLat, dLon float64) (height, width float64) {
	return dLat * metersPerDegree, dLon * metersPerDegree * math.Cos(toRad(lat))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
