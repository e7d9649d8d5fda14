// Package zones holds the static zone tables for the Indian grid families and
// the bounding-box classifier that maps a geographic point to a zone.
package zones

import "github.com/bytefixx/gridcalc/internal/core/domain"

// Registry is an ordered, read-only list of zones of one family.
//
// Boxes may overlap. Classify returns the first zone in declaration order
// whose box contains the point, so the order of the table is part of its
// contract and must not be changed or replaced by a map.
type Registry struct {
	family domain.ZoneFamily
	zones  []domain.Zone
	byCode map[string]int
}

func newRegistry(family domain.ZoneFamily, zones []domain.Zone) *Registry {
	r := &Registry{
		family: family,
		zones:  make([]domain.Zone, len(zones)),
		byCode: make(map[string]int, len(zones)),
	}
	copy(r.zones, zones)
	for i := range r.zones {
		r.zones[i].Family = family
		r.byCode[r.zones[i].Code] = i
	}
	return r
}

// Family returns the registry's zone family.
func (r *Registry) Family() domain.ZoneFamily {
	return r.family
}

// Len returns the number of zones.
func (r *Registry) Len() int {
	return len(r.zones)
}

// Zones returns a copy of the zones in declaration order.
func (r *Registry) Zones() []domain.Zone {
	out := make([]domain.Zone, len(r.zones))
	copy(out, r.zones)
	return out
}

// Lookup returns the zone with the given code.
func (r *Registry) Lookup(code string) (domain.Zone, bool) {
	i, ok := r.byCode[code]
	if !ok {
		return domain.Zone{}, false
	}
	return r.zones[i], true
}

// Classify returns the first zone whose bounds contain lat/lon. The boolean is
// false when the point is outside every zone of the registry.
func (r *Registry) Classify(lat, lon float64) (domain.Zone, bool) {
	for _, z := range r.zones {
		if z.Bounds.Contains(lat, lon) {
			return z, true
		}
	}
	return domain.Zone{}, false
}

// Catalog groups the three registries. It is built once at start-up and
// shared read-only by every service.
type Catalog struct {
	ESM   *Registry
	DSM   *Registry
	WGS84 *Registry
}

// NewCatalog builds the registries from the static tables.
func NewCatalog() *Catalog {
	return &Catalog{
		ESM:   newRegistry(domain.FamilyESM, esmZones),
		DSM:   newRegistry(domain.FamilyDSM, dsmZones),
		WGS84: newRegistry(domain.FamilyWGS84, wgs84Zones),
	}
}

// Registry returns the registry for a family, or nil for an unknown family.
func (c *Catalog) Registry(family domain.ZoneFamily) *Registry {
	switch family {
	case domain.FamilyESM:
		return c.ESM
	case domain.FamilyDSM:
		return c.DSM
	case domain.FamilyWGS84:
		return c.WGS84
	}
	return nil
}

// Detect classifies a point against every registry without transforming it.
func (c *Catalog) Detect(p domain.GeoPoint) domain.ZoneDetection {
	d := domain.ZoneDetection{Point: p}
	if z, ok := c.ESM.Classify(p.Lat, p.Lon); ok {
		d.ESM = &z
	}
	if z, ok := c.DSM.Classify(p.Lat, p.Lon); ok {
		d.DSM = &z
	}
	if z, ok := c.WGS84.Classify(p.Lat, p.Lon); ok {
		d.WGS84 = &z
	}
	return d
}
