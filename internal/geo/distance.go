package geo

import "math"

// Point is a WGS-84 coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

const earthRadiusKm = 6371.0

// Distance returns the great-circle distance between two points in kilometers,
// computed with the haversine formula and rounded to three decimal places.
// It is pure: no side effects and no failure modes for in-range coordinates.
func Distance(a, b Point) float64 {
	if a == b {
		return 0
	}

	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h a hair above 1 for near-antipodal points, which
	// would make Sqrt(1-h) NaN.
	h = math.Min(h, 1)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(earthRadiusKm*c*1000) / 1000
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
