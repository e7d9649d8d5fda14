package zones

import (
	"fmt"
	"sort"

	"github.com/bytefixx/gridcalc/internal/core/domain"
)

// dsmZones lists the DSM tiles. Extents are geographic even though DSM
// coordinates are projected; EPSG values are catalogue numbers only.
var dsmZones = []domain.Zone{
	dsmTile("5C", 2001, 68, 36, 76, 42), dsmTile("5D", 2007, 68, 30, 76, 36),
	dsmTile("5E", 2013, 68, 24, 76, 30), dsmTile("5F", 2019, 68, 18, 76, 24),
	dsmTile("5G", 2025, 68, 12, 76, 18), dsmTile("5H", 2031, 68, 6, 76, 12),
	dsmTile("6C", 2002, 76, 36, 84, 42), dsmTile("6D", 2008, 76, 30, 84, 36),
	dsmTile("6E", 2014, 76, 24, 84, 30), dsmTile("6F", 2020, 76, 18, 84, 24),
	dsmTile("6G", 2026, 76, 12, 84, 18), dsmTile("6H", 2032, 76, 6, 84, 12),
	dsmTile("7C", 2003, 84, 36, 92, 42), dsmTile("7D", 2009, 84, 30, 92, 36),
	dsmTile("7E", 2015, 84, 24, 92, 30), dsmTile("7F", 2021, 84, 18, 92, 24),
	dsmTile("7G", 2027, 84, 12, 92, 18), dsmTile("7H", 2033, 84, 6, 92, 12),
	dsmTile("8C", 2004, 92, 36, 100, 42), dsmTile("8D", 2010, 92, 30, 100, 36),
	dsmTile("8E", 2016, 92, 24, 100, 30), dsmTile("8F", 2022, 92, 18, 100, 24),
	dsmTile("8G", 2028, 92, 12, 100, 18), dsmTile("8H", 2034, 92, 6, 100, 12),
}

// dsmTile takes the extent as (minLon, minLat, maxLon, maxLat).
func dsmTile(code string, epsg int, minLon, minLat, maxLon, maxLat float64) domain.Zone {
	return domain.Zone{
		Code:   code,
		EPSG:   epsg,
		Bounds: domain.Bounds{MinLat: minLat, MaxLat: maxLat, MinLon: minLon, MaxLon: maxLon},
	}
}

// Everest 1830 (1937 adjustment) axes shared by every DSM family.
const (
	everestSemiMajor = 6377276.345
	everestSemiMinor = 6356075.413
)

// dsmParams holds one parameter set per major zone. Tiles never carry their
// own parameters; they resolve them through MajorZone.
var dsmParams = map[string]domain.ProjectionParams{
	"5": dsmFamily(72, 500000, -2010760),
	"6": dsmFamily(80, 500010, -2010750),
	"7": dsmFamily(88, 500000, -2010760),
	"8": dsmFamily(96, 500000, -2010760),
}

func dsmFamily(centralMeridian, falseEasting, falseNorthing float64) domain.ProjectionParams {
	return domain.ProjectionParams{
		Projection:       "tmerc",
		CentralMeridian:  centralMeridian,
		LatitudeOfOrigin: 4,
		FalseEasting:     falseEasting,
		FalseNorthing:    falseNorthing,
		ScaleFactor:      0.9999,
		SemiMajor:        everestSemiMajor,
		SemiMinor:        everestSemiMinor,
	}
}

// MajorZone returns the leading character of a DSM tile code ("5C" -> "5").
func MajorZone(code string) string {
	if code == "" {
		return ""
	}
	return code[:1]
}

// DSMParams resolves the projection parameters for a DSM tile code through
// its major zone.
func DSMParams(code string) (domain.ProjectionParams, error) {
	major := MajorZone(code)
	p, ok := dsmParams[major]
	if !ok {
		return domain.ProjectionParams{}, &domain.ValidationError{
			Field:  "dsm_zone",
			Value:  code,
			Reason: fmt.Sprintf("no DSM parameter family for major zone %q", major),
		}
	}
	return p, nil
}

// MajorZones returns the major zones that have a parameter family, sorted.
func MajorZones() []string {
	out := make([]string, 0, len(dsmParams))
	for k := range dsmParams {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
