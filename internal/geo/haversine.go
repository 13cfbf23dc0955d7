package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for every distance in this service.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometers between two points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := degreesToRadians(lat1)
	lat2r := degreesToRadians(lat2)
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Distance returns the haversine distance in kilometers between a and b.
func Distance(a, b Coordinate) float64 {
	return HaversineKm(a.Lat, a.Lon, b.Lat, b.Lon)
}

// KmToLatDegrees converts a north-south distance to degrees of latitude.
func KmToLatDegrees(km float64) float64 {
	return km / (EarthRadiusKm * math.Pi / 180)
}

// KmToLonDegrees converts an east-west distance at the given latitude to degrees of longitude.
// Near the poles the result is clamped to the full longitude range.
func KmToLonDegrees(km, lat float64) float64 {
	cosLat := math.Cos(degreesToRadians(lat))
	if cosLat < 1e-6 {
		return 360
	}
	return KmToLatDegrees(km) / cosLat
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
