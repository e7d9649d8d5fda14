package domain

// GridResult is a successful conversion that ends in projected coordinates.
type GridResult struct {
	Point  GridPoint `json:"point"`
	Zone   Zone      `json:"zone"`
	Source CRS       `json:"source"`
	Target CRS       `json:"target"`
	// Intermediate is the WGS84 position for conversions routed through WGS84.
	Intermediate *GeoPoint `json:"intermediate,omitempty"`
	// Fallback is set when no zone contained the point and the fallback zone was used.
	Fallback bool `json:"fallback,omitempty"`
}

// GeoResult is a successful conversion that ends in WGS84 coordinates.
type GeoResult struct {
	Point  GeoPoint `json:"point"`
	Zone   Zone     `json:"zone"`
	Source CRS      `json:"source"`
	LatDMS string   `json:"lat_dms"`
	LonDMS string   `json:"lon_dms"`
}

// GeodeticMeasurement is the distance and bearing between two geographic points.
type GeodeticMeasurement struct {
	DistanceKm float64 `json:"distance_km"`
	DistanceM  float64 `json:"distance_m"`
	Bearing    float64 `json:"bearing"`
	BearingDMS string  `json:"bearing_dms"`
	ZoneA      *Zone   `json:"zone_a"`
	ZoneB      *Zone   `json:"zone_b"`
}

// GridMeasurement is the 3D distance and grid bearing between two projected points.
type GridMeasurement struct {
	Horizontal float64 `json:"horizontal_m"`
	Slope      float64 `json:"slope_m"`
	Bearing    float64 `json:"bearing"`
	BearingDMS string  `json:"bearing_dms"`
	HeightDiff float64 `json:"height_diff_m"`
}

// DMSPair is a latitude/longitude pair in degrees-minutes-seconds notation.
type DMSPair struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// DecodedDMS is a DMS pair decoded to decimal degrees with the ESM zone it falls in.
type DecodedDMS struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Zone *Zone   `json:"zone"`
}
