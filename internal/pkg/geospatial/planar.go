package geospatial

import "math"

// PlanarDistance3D returns the horizontal (E/N plane) and slope (E/N/H)
// Euclidean distances between two grid points, both rounded to 3 decimals.
func PlanarDistance3D(e1, n1, h1, e2, n2, h2 float64) (horizontal, slope float64) {
	dx := e2 - e1
	dy := n2 - n1
	dz := h2 - h1

	horizontal = math.Sqrt(dx*dx + dy*dy)
	slope = math.Sqrt(dx*dx + dy*dy + dz*dz)
	return Round(horizontal, 3), Round(slope, 3)
}

// PlanarBearing returns the grid bearing atan2(ΔE, ΔN) in degrees [0,360)
// rounded to 2 decimals. Coincident points give exactly 0.
func PlanarBearing(e1, n1, e2, n2 float64) float64 {
	dx := e2 - e1
	dy := n2 - n1
	if dx == 0 && dy == 0 {
		return 0.0
	}
	return normalizeBearing(toDeg(math.Atan2(dx, dy)))
}
