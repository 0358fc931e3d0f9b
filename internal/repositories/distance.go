package repositories

import "math"

const earthRadiusKm = 6371.0

// DistanceKm returns the distance from the requester to the worker, or nil
// when either side has no coordinates.
func DistanceKm(userLat, userLon, workerLat, workerLon *float64) *float64 {
	if userLat == nil || userLon == nil || workerLat == nil || workerLon == nil {
		return nil
	}
	distance := HaversineKm(*userLat, *userLon, *workerLat, *workerLon)
	return &distance
}

// HaversineKm is the great-circle distance in kilometres rounded to one decimal.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return roundTenth(earthRadiusKm * c)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
