package domain

import (
	"fmt"
	"strconv"
)

// CRS identifies a coordinate reference system either by EPSG code or by a
// PROJ definition string. When Proj is set it takes precedence.
type CRS struct {
	EPSG int    `json:"epsg,omitempty"`
	Proj string `json:"proj,omitempty"`
}

// WGS84 is geographic WGS84 with longitude/latitude axis order.
var WGS84 = CRS{EPSG: 4326, Proj: "+proj=longlat +datum=WGS84 +no_defs +type=crs"}

// EPSGCode returns a CRS for a bare EPSG code.
func EPSGCode(code int) CRS {
	return CRS{EPSG: code}
}

// Definition returns the string handed to the projection library.
func (c CRS) Definition() string {
	if c.Proj != "" {
		return c.Proj
	}
	return "EPSG:" + strconv.Itoa(c.EPSG)
}

func (c CRS) String() string {
	if c.EPSG != 0 {
		return fmt.Sprintf("EPSG:%d", c.EPSG)
	}
	return c.Proj
}

// IsZero reports whether no reference system is set.
func (c CRS) IsZero() bool {
	return c.EPSG == 0 && c.Proj == ""
}

// ProjectionParams describes a projection that has no usable EPSG code.
// The DSM tile families are expressed this way.
type ProjectionParams struct {
	Projection       string  `json:"projection"`
	CentralMeridian  float64 `json:"central_meridian"`
	LatitudeOfOrigin float64 `json:"latitude_of_origin"`
	FalseEasting     float64 `json:"false_easting"`
	FalseNorthing    float64 `json:"false_northing"`
	ScaleFactor      float64 `json:"scale_factor"`
	SemiMajor        float64 `json:"semi_major"`
	SemiMinor        float64 `json:"semi_minor"`
}

// ProjString renders the parameters as a PROJ CRS definition.
func (p ProjectionParams) ProjString() string {
	return fmt.Sprintf(
		"+proj=%s +lat_0=%s +lon_0=%s +k=%s +x_0=%s +y_0=%s +a=%s +b=%s +units=m +no_defs +type=crs",
		p.Projection,
		formatParam(p.LatitudeOfOrigin),
		formatParam(p.CentralMeridian),
		formatParam(p.ScaleFactor),
		formatParam(p.FalseEasting),
		formatParam(p.FalseNorthing),
		formatParam(p.SemiMajor),
		formatParam(p.SemiMinor),
	)
}

// CRS wraps the synthesized definition.
func (p ProjectionParams) CRS() CRS {
	return CRS{Proj: p.ProjString()}
}

func formatParam(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
