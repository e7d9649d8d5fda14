package geospatial

import "math"

// EarthRadiusKm is the mean Earth radius used by the great-circle helpers.
const EarthRadiusKm = 6371.0

// GreatCircleDistance returns the haversine distance in kilometers between two
// points given in decimal degrees, rounded to 3 decimals.
func GreatCircleDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push a just past 1 for antipodal points.
	a = math.Min(1, math.Max(0, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return Round(EarthRadiusKm*c, 3)
}

// ForwardBearing returns the initial great-circle bearing from the first point
// to the second, in degrees [0,360) rounded to 2 decimals.
func ForwardBearing(lat1, lon1, lat2, lon2 float64) float64 {
	phi1, phi2 := toRad(lat1), toRad(lat2)
	dLon := toRad(lon2 - lon1)

	x := math.Sin(dLon) * math.Cos(phi2)
	y := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon)

	return normalizeBearing(toDeg(math.Atan2(x, y)))
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// normalizeBearing folds deg into [0,360) after rounding to 2 decimals.
func normalizeBearing(deg float64) float64 {
	b := Round(math.Mod(deg+360, 360), 2)
	if b >= 360 {
		b -= 360
	}
	return b
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
