package domain

// ZoneFamily names the coordinate system family a zone belongs to.
type ZoneFamily string

const (
	FamilyESM   ZoneFamily = "esm"
	FamilyDSM   ZoneFamily = "dsm"
	FamilyWGS84 ZoneFamily = "wgs84"
)

// Valid reports whether f is one of the known families.
func (f ZoneFamily) Valid() bool {
	switch f {
	case FamilyESM, FamilyDSM, FamilyWGS84:
		return true
	}
	return false
}

// Zone is an immutable registry entry. For DSM tiles EPSG is the tile's
// catalogue number only; conversions use the major-zone ProjectionParams.
type Zone struct {
	Code            string     `json:"code"`
	Family          ZoneFamily `json:"family"`
	EPSG            int        `json:"epsg"`
	Bounds          Bounds     `json:"bounds"`
	Description     string     `json:"description,omitempty"`
	CentralMeridian float64    `json:"central_meridian,omitempty"`
}

// CRS returns the zone's EPSG reference system.
func (z Zone) CRS() CRS {
	return EPSGCode(z.EPSG)
}

// ZoneDetection is the outcome of classifying one point against every registry.
// A nil entry means the point lies outside that registry's coverage.
type ZoneDetection struct {
	Point GeoPoint `json:"point"`
	ESM   *Zone    `json:"esm"`
	DSM   *Zone    `json:"dsm"`
	WGS84 *Zone    `json:"wgs84"`
}

// DSMFamily is one DSM parameter family: the tiles of a major zone share its
// projection parameters.
type DSMFamily struct {
	Major  string           `json:"major"`
	Params ProjectionParams `json:"params"`
	Proj   string           `json:"proj"`
	Tiles  []string         `json:"tiles"`
}
