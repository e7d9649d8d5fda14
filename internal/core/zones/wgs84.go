package zones

import "github.com/bytefixx/gridcalc/internal/core/domain"

// wgs84Zones lists the WGS84-based state grids. "India NSF LCC" covers the
// whole country and shadows most later entries; the order is kept as issued.
var wgs84Zones = []domain.Zone{
	stateZone("India Northeast", 7771, 21.94, 29.47, 89.69, 97.42),
	stateZone("India NSF LCC", 7755, 3.87, 35.51, 65.6, 97.42),
	stateZone("Uttar Pradesh", 7775, 25.0, 31.5, 78.0, 84.0),
	stateZone("Kerala", 7781, 8.0, 13.0, 74.0, 77.0),
	stateZone("Lakshadweep", 7782, 10.0, 13.0, 71.0, 74.0),
	stateZone("Tamil Nadu", 7785, 8.02, 13.59, 76.22, 80.4),
	stateZone("Jammu and Kashmir", 7764, 32.0, 37.0, 73.0, 78.0),
	stateZone("Gujarat", 7761, 20.0, 24.0, 68.0, 74.0),
	stateZone("Maharashtra", 7767, 17.0, 22.0, 72.0, 80.0),
}

func stateZone(code string, epsg int, minLat, maxLat, minLon, maxLon float64) domain.Zone {
	return domain.Zone{
		Code:   code,
		EPSG:   epsg,
		Bounds: domain.Bounds{MinLat: minLat, MaxLat: maxLat, MinLon: minLon, MaxLon: maxLon},
	}
}
