package usecases

import (
	"github.com/bytefixx/gridcalc/internal/core/domain"
	"github.com/bytefixx/gridcalc/internal/core/zones"
	"github.com/bytefixx/gridcalc/internal/pkg/geospatial"
)

// CalculatorService runs the closed-form measurements. None of its operations
// call the projection library.
type CalculatorService struct {
	catalog *zones.Catalog
}

// NewCalculatorService creates a new CalculatorService.
func NewCalculatorService(catalog *zones.Catalog) *CalculatorService {
	return &CalculatorService{catalog: catalog}
}

// Geodetic measures the great-circle distance and initial bearing from a to b
// and reports the ESM zone of each point.
func (s *CalculatorService) Geodetic(a, b domain.GeoPoint) domain.GeodeticMeasurement {
	km := geospatial.GreatCircleDistance(a.Lat, a.Lon, b.Lat, b.Lon)
	bearing := geospatial.ForwardBearing(a.Lat, a.Lon, b.Lat, b.Lon)

	m := domain.GeodeticMeasurement{
		DistanceKm: km,
		DistanceM:  geospatial.Round(km*1000, 2),
		Bearing:    bearing,
		BearingDMS: geospatial.FormatBearing(bearing),
	}
	if z, ok := s.catalog.ESM.Classify(a.Lat, a.Lon); ok {
		m.ZoneA = &z
	}
	if z, ok := s.catalog.ESM.Classify(b.Lat, b.Lon); ok {
		m.ZoneB = &z
	}
	return m
}

// Grid measures horizontal and slope distance and grid bearing between two
// projected points in the same grid.
func (s *CalculatorService) Grid(a, b domain.GridPoint) domain.GridMeasurement {
	horizontal, slope := geospatial.PlanarDistance3D(a.Easting, a.Northing, a.Height, b.Easting, b.Northing, b.Height)
	bearing := geospatial.PlanarBearing(a.Easting, a.Northing, b.Easting, b.Northing)

	return domain.GridMeasurement{
		Horizontal: horizontal,
		Slope:      slope,
		Bearing:    bearing,
		BearingDMS: geospatial.FormatBearing(bearing),
		HeightDiff: geospatial.Round(b.Height-a.Height, 3),
	}
}

// ToDMS renders a decimal point in DMS notation.
func (s *CalculatorService) ToDMS(lat, lon float64) domain.DMSPair {
	return domain.DMSPair{
		Lat: geospatial.DecimalToDMS(lat, geospatial.Latitude),
		Lon: geospatial.DecimalToDMS(lon, geospatial.Longitude),
	}
}

// FromDMS decodes a DMS pair and reports the ESM zone of the decoded point.
// Either string failing to match yields a *geospatial.FormatError.
func (s *CalculatorService) FromDMS(latText, lonText string) (*domain.DecodedDMS, error) {
	lat, err := geospatial.DMSToDecimal(latText)
	if err != nil {
		return nil, err
	}
	lon, err := geospatial.DMSToDecimal(lonText)
	if err != nil {
		return nil, err
	}

	out := &domain.DecodedDMS{Lat: lat, Lon: lon}
	if z, ok := s.catalog.ESM.Classify(lat, lon); ok {
		out.Zone = &z
	}
	return out, nil
}
