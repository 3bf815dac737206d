package utils

import "math"

const earthRadiusKM = 6371.0

// HaversineKM returns the great-circle distance in kilometers between two
// points given as (lat, lon) degree pairs.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}

// PathLengthKM sums the haversine distance over consecutive points of a
// polyline. Points are (lat, lon) pairs; malformed entries are skipped.
func PathLengthKM(path [][]float64) float64 {
	total := 0.0
	var prev []float64
	for _, p := range path {
		if len(p) < 2 {
			continue
		}
		if prev != nil {
			total += HaversineKM(prev[0], prev[1], p[0], p[1])
		}
		prev = p
	}
	return total
}
