package geospatial

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Axis selects the hemisphere letters used by DecimalToDMS.
type Axis int

const (
	Latitude Axis = iota
	Longitude
)

// FormatError reports a DMS string that does not match D°M'S"H.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid DMS format: %s", e.Input)
}

var dmsPattern = regexp.MustCompile(`^(\d+)°(\d+)'(\d+(?:\.\d+)?)"?([NSEW])$`)

// FormatBearing renders an unsigned bearing as D°M'S" with seconds to 1 decimal.
func FormatBearing(deg float64) string {
	d, m, s := splitDMS(math.Abs(deg), 1)
	return fmt.Sprintf("%d°%d'%s\"", d, m, strconv.FormatFloat(s, 'f', 1, 64))
}

// DecimalToDMS renders a signed angle as D°M'S.SS"H. Non-negative values get
// N (latitude) or E (longitude); negative values get S or W.
func DecimalToDMS(deg float64, axis Axis) string {
	d, m, s := splitDMS(math.Abs(deg), 2)

	var hemi string
	switch axis {
	case Latitude:
		hemi = "N"
		if deg < 0 {
			hemi = "S"
		}
	default:
		hemi = "E"
		if deg < 0 {
			hemi = "W"
		}
	}
	return fmt.Sprintf("%d°%d'%.2f\"%s", d, m, s, hemi)
}

// DMSToDecimal parses D°M'S"H (H in N, S, E, W) into signed decimal degrees.
func DMSToDecimal(s string) (float64, error) {
	match := dmsPattern.FindStringSubmatch(strings.TrimSpace(s))
	if match == nil {
		return 0, &FormatError{Input: s}
	}

	deg, _ := strconv.ParseFloat(match[1], 64)
	mins, _ := strconv.ParseFloat(match[2], 64)
	sec, _ := strconv.ParseFloat(match[3], 64)

	v := deg + mins/60 + sec/3600
	if match[4] == "S" || match[4] == "W" {
		v = -v
	}
	return v, nil
}

// splitDMS splits a non-negative angle into whole degrees, whole minutes and
// seconds rounded to places. A seconds value that rounds up to 60 carries.
func splitDMS(abs float64, places int) (int, int, float64) {
	d := int(abs)
	minutes := (abs - float64(d)) * 60
	m := int(minutes)
	s := Round((minutes-float64(m))*60, places)

	if s >= 60 {
		s -= 60
		m++
	}
	if m >= 60 {
		m -= 60
		d++
	}
	return d, m, s
}
