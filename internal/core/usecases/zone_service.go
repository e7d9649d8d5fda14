package usecases

import (
	"github.com/bytefixx/gridcalc/internal/core/domain"
	"github.com/bytefixx/gridcalc/internal/core/zones"
)

// ZoneService exposes the registries read-only.
type ZoneService struct {
	catalog *zones.Catalog
}

// NewZoneService creates a new ZoneService.
func NewZoneService(catalog *zones.Catalog) *ZoneService {
	return &ZoneService{catalog: catalog}
}

// List returns the zones of one family in declaration order.
func (s *ZoneService) List(family domain.ZoneFamily) ([]domain.Zone, error) {
	r := s.catalog.Registry(family)
	if r == nil {
		return nil, &domain.ValidationError{Field: "family", Value: string(family), Reason: "expected esm, dsm or wgs84"}
	}
	return r.Zones(), nil
}

// Get returns one zone by family and code.
func (s *ZoneService) Get(family domain.ZoneFamily, code string) (*domain.Zone, error) {
	r := s.catalog.Registry(family)
	if r == nil {
		return nil, &domain.ValidationError{Field: "family", Value: string(family), Reason: "expected esm, dsm or wgs84"}
	}
	z, ok := r.Lookup(code)
	if !ok {
		return nil, &domain.ValidationError{Field: "zone", Value: code, Reason: "unknown " + string(family) + " zone"}
	}
	return &z, nil
}

// Detect classifies a point against every registry.
func (s *ZoneService) Detect(p domain.GeoPoint) domain.ZoneDetection {
	return s.catalog.Detect(p)
}

// DSMFamilies lists the DSM parameter families with the tiles that use each,
// ordered by major zone.
func (s *ZoneService) DSMFamilies() []domain.DSMFamily {
	tiles := make(map[string][]string)
	for _, z := range s.catalog.DSM.Zones() {
		major := zones.MajorZone(z.Code)
		tiles[major] = append(tiles[major], z.Code)
	}

	majors := zones.MajorZones()
	out := make([]domain.DSMFamily, 0, len(majors))
	for _, major := range majors {
		p, err := zones.DSMParams(major)
		if err != nil {
			continue
		}
		out = append(out, domain.DSMFamily{
			Major:  major,
			Params: p,
			Proj:   p.ProjString(),
			Tiles:  tiles[major],
		})
	}
	return out
}

// DSMParams returns the projection parameters a DSM tile resolves to.
func (s *ZoneService) DSMParams(code string) (*domain.ProjectionParams, error) {
	if _, ok := s.catalog.DSM.Lookup(code); !ok {
		return nil, &domain.ValidationError{Field: "dsm_zone", Value: code, Reason: "unknown DSM tile"}
	}
	p, err := zones.DSMParams(code)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
