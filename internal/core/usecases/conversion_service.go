package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bytefixx/gridcalc/internal/core/domain"
	"github.com/bytefixx/gridcalc/internal/core/ports"
	"github.com/bytefixx/gridcalc/internal/core/zones"
	"github.com/bytefixx/gridcalc/internal/pkg/geospatial"
	"github.com/bytefixx/gridcalc/internal/pkg/metrics"
	"github.com/bytefixx/gridcalc/internal/pkg/telemetry"
)

// Conversion operation names, used for cache keys, metrics and spans.
const (
	OpGeoToESM   = "geo_to_esm"
	OpESMToGeo   = "esm_to_geo"
	OpESMToDSM   = "esm_to_dsm"
	OpDSMToGeo   = "dsm_to_geo"
	OpDSMToESM   = "dsm_to_esm"
	OpGeoToState = "geo_to_state"
)

// FallbackPolicy names the ESM zones used when a request does not determine one.
type FallbackPolicy struct {
	// ESMZone is used by GeoToESM when the point is outside every ESM zone.
	ESMZone string
	// GridZone is assumed by ESMToGeo and ESMToDSM when no zone code is given.
	GridZone string
}

// DefaultFallbackPolicy uses Zone I for both cases.
func DefaultFallbackPolicy() FallbackPolicy {
	return FallbackPolicy{ESMZone: zones.ZoneI, GridZone: zones.ZoneI}
}

// Validate checks that both zones exist in the ESM registry.
func (p FallbackPolicy) Validate(catalog *zones.Catalog) error {
	if _, ok := catalog.ESM.Lookup(p.ESMZone); !ok {
		return &domain.ValidationError{Field: "default_esm_zone", Value: p.ESMZone, Reason: "unknown ESM zone"}
	}
	if _, ok := catalog.ESM.Lookup(p.GridZone); !ok {
		return &domain.ValidationError{Field: "grid_zone", Value: p.GridZone, Reason: "unknown ESM zone"}
	}
	return nil
}

// ConversionService orchestrates multi-step conversions between WGS84 and the
// ESM, DSM and state grids. Zone choice happens here; projection math is
// delegated to the transformer.
type ConversionService struct {
	transformer ports.CoordinateTransformer
	catalog     *zones.Catalog
	policy      FallbackPolicy
	cache       ports.CacheService
	cacheTTL    int
	tracer      trace.Tracer
}

// NewConversionService creates a new ConversionService. cache may be nil.
func NewConversionService(
	transformer ports.CoordinateTransformer,
	catalog *zones.Catalog,
	policy FallbackPolicy,
	cache ports.CacheService,
	cacheTTLSeconds int,
) *ConversionService {
	return &ConversionService{
		transformer: transformer,
		catalog:     catalog,
		policy:      policy,
		cache:       cache,
		cacheTTL:    cacheTTLSeconds,
		tracer:      otel.Tracer(telemetry.TracerConversion),
	}
}

// Catalog returns the zone registries the service classifies against.
func (s *ConversionService) Catalog() *zones.Catalog {
	return s.catalog
}

// Policy returns the configured fallback zones.
func (s *ConversionService) Policy() FallbackPolicy {
	return s.policy
}

// GeoToESM projects a WGS84 point into the ESM zone that contains it. Points
// outside every zone are projected into the fallback zone and the result is
// flagged.
func (s *ConversionService) GeoToESM(ctx context.Context, p domain.GeoPoint) (*domain.GridResult, error) {
	key := fmt.Sprintf("convert:%s:%.9f:%.9f:%.4f", OpGeoToESM, p.Lat, p.Lon, p.Height)
	return withCache(ctx, s, OpGeoToESM, key, func(ctx context.Context) (*domain.GridResult, error) {
		zone, ok := s.catalog.ESM.Classify(p.Lat, p.Lon)
		fallback := false
		if !ok {
			var err error
			if zone, err = s.esmZone(s.policy.ESMZone); err != nil {
				return nil, err
			}
			fallback = true
			metrics.FallbackZoneUsed.Inc()
		}
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.String(telemetry.AttrZone, zone.Code),
			attribute.Bool(telemetry.AttrFallback, fallback),
		)

		e, n, err := s.transform(ctx, domain.StepWGS84ToESM, domain.WGS84, zone.CRS(), p.Lon, p.Lat)
		if err != nil {
			return nil, err
		}
		return &domain.GridResult{
			Point:    domain.GridPoint{Easting: e, Northing: n, Height: p.Height},
			Zone:     zone,
			Source:   domain.WGS84,
			Target:   zone.CRS(),
			Fallback: fallback,
		}, nil
	})
}

// ESMToGeo unprojects ESM grid coordinates. An empty zone code selects the
// policy's grid zone.
func (s *ConversionService) ESMToGeo(ctx context.Context, p domain.GridPoint, zoneCode string) (*domain.GeoResult, error) {
	zone, err := s.esmZone(s.gridZone(zoneCode))
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("convert:%s:%s:%.4f:%.4f:%.4f", OpESMToGeo, zone.Code, p.Easting, p.Northing, p.Height)
	return withCache(ctx, s, OpESMToGeo, key, func(ctx context.Context) (*domain.GeoResult, error) {
		lon, lat, err := s.transform(ctx, domain.StepESMToWGS84, zone.CRS(), domain.WGS84, p.Easting, p.Northing)
		if err != nil {
			return nil, err
		}
		return geoResult(lat, lon, p.Height, zone, zone.CRS()), nil
	})
}

// ESMToDSM converts ESM grid coordinates to the DSM tile that contains their
// WGS84 image, routing through WGS84.
func (s *ConversionService) ESMToDSM(ctx context.Context, p domain.GridPoint, zoneCode string) (*domain.GridResult, error) {
	esm, err := s.esmZone(s.gridZone(zoneCode))
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("convert:%s:%s:%.4f:%.4f:%.4f", OpESMToDSM, esm.Code, p.Easting, p.Northing, p.Height)
	return withCache(ctx, s, OpESMToDSM, key, func(ctx context.Context) (*domain.GridResult, error) {
		lon, lat, err := s.transform(ctx, domain.StepESMToWGS84, esm.CRS(), domain.WGS84, p.Easting, p.Northing)
		if err != nil {
			return nil, err
		}

		tile, ok := s.catalog.DSM.Classify(lat, lon)
		if !ok {
			return nil, fmt.Errorf("%w: lat %.6f lon %.6f", domain.ErrOutsideDSMCoverage, lat, lon)
		}
		params, err := zones.DSMParams(tile.Code)
		if err != nil {
			return nil, err
		}
		target := params.CRS()

		e, n, err := s.transform(ctx, domain.StepWGS84ToDSM, domain.WGS84, target, lon, lat)
		if err != nil {
			return nil, err
		}
		return &domain.GridResult{
			Point:        domain.GridPoint{Easting: e, Northing: n, Height: p.Height},
			Zone:         tile,
			Source:       esm.CRS(),
			Target:       target,
			Intermediate: &domain.GeoPoint{Lat: lat, Lon: lon, Height: p.Height},
		}, nil
	})
}

// DSMToGeo unprojects DSM coordinates using the tile's major-zone parameters.
func (s *ConversionService) DSMToGeo(ctx context.Context, p domain.GridPoint, tileCode string) (*domain.GeoResult, error) {
	tile, source, err := s.dsmTile(tileCode)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("convert:%s:%s:%.4f:%.4f:%.4f", OpDSMToGeo, tile.Code, p.Easting, p.Northing, p.Height)
	return withCache(ctx, s, OpDSMToGeo, key, func(ctx context.Context) (*domain.GeoResult, error) {
		lon, lat, err := s.transform(ctx, domain.StepDSMToWGS84, source, domain.WGS84, p.Easting, p.Northing)
		if err != nil {
			return nil, err
		}
		return geoResult(lat, lon, p.Height, tile, source), nil
	})
}

// DSMToESM converts DSM coordinates to the ESM zone that contains their WGS84
// image, routing through WGS84.
func (s *ConversionService) DSMToESM(ctx context.Context, p domain.GridPoint, tileCode string) (*domain.GridResult, error) {
	tile, source, err := s.dsmTile(tileCode)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("convert:%s:%s:%.4f:%.4f:%.4f", OpDSMToESM, tile.Code, p.Easting, p.Northing, p.Height)
	return withCache(ctx, s, OpDSMToESM, key, func(ctx context.Context) (*domain.GridResult, error) {
		lon, lat, err := s.transform(ctx, domain.StepDSMToWGS84, source, domain.WGS84, p.Easting, p.Northing)
		if err != nil {
			return nil, err
		}

		zone, ok := s.catalog.ESM.Classify(lat, lon)
		if !ok {
			return nil, fmt.Errorf("%w: lat %.6f lon %.6f", domain.ErrOutsideESMCoverage, lat, lon)
		}

		e, n, err := s.transform(ctx, domain.StepWGS84ToESM, domain.WGS84, zone.CRS(), lon, lat)
		if err != nil {
			return nil, err
		}
		return &domain.GridResult{
			Point:        domain.GridPoint{Easting: e, Northing: n, Height: p.Height},
			Zone:         zone,
			Source:       source,
			Target:       zone.CRS(),
			Intermediate: &domain.GeoPoint{Lat: lat, Lon: lon, Height: p.Height},
		}, nil
	})
}

// GeoToStateGrid projects a WGS84 point into the first state zone containing it.
func (s *ConversionService) GeoToStateGrid(ctx context.Context, p domain.GeoPoint) (*domain.GridResult, error) {
	key := fmt.Sprintf("convert:%s:%.9f:%.9f:%.4f", OpGeoToState, p.Lat, p.Lon, p.Height)
	return withCache(ctx, s, OpGeoToState, key, func(ctx context.Context) (*domain.GridResult, error) {
		zone, ok := s.catalog.WGS84.Classify(p.Lat, p.Lon)
		if !ok {
			return nil, fmt.Errorf("%w: lat %.6f lon %.6f", domain.ErrOutsideStateCoverage, p.Lat, p.Lon)
		}
		e, n, err := s.transform(ctx, domain.StepWGS84ToState, domain.WGS84, zone.CRS(), p.Lon, p.Lat)
		if err != nil {
			return nil, err
		}
		return &domain.GridResult{
			Point:  domain.GridPoint{Easting: e, Northing: n, Height: p.Height},
			Zone:   zone,
			Source: domain.WGS84,
			Target: zone.CRS(),
		}, nil
	})
}

// DetectZones classifies a point against every registry. No transform is made.
func (s *ConversionService) DetectZones(p domain.GeoPoint) domain.ZoneDetection {
	return s.catalog.Detect(p)
}

// ESMZone resolves an ESM zone code, applying the grid-zone default for an
// empty code.
func (s *ConversionService) ESMZone(code string) (domain.Zone, error) {
	return s.esmZone(s.gridZone(code))
}

func (s *ConversionService) gridZone(code string) string {
	if code == "" {
		return s.policy.GridZone
	}
	return code
}

func (s *ConversionService) esmZone(code string) (domain.Zone, error) {
	z, ok := s.catalog.ESM.Lookup(code)
	if !ok {
		return domain.Zone{}, &domain.ValidationError{Field: "zone", Value: code, Reason: "unknown ESM zone"}
	}
	return z, nil
}

func (s *ConversionService) dsmTile(code string) (domain.Zone, domain.CRS, error) {
	tile, ok := s.catalog.DSM.Lookup(code)
	if !ok {
		return domain.Zone{}, domain.CRS{}, &domain.ValidationError{Field: "dsm_zone", Value: code, Reason: "unknown DSM tile"}
	}
	params, err := zones.DSMParams(tile.Code)
	if err != nil {
		return domain.Zone{}, domain.CRS{}, err
	}
	return tile, params.CRS(), nil
}

// transform runs one delegated step in its own span and wraps failures with
// the step name.
func (s *ConversionService) transform(ctx context.Context, step string, src, dst domain.CRS, x, y float64) (float64, float64, error) {
	ctx, span := s.tracer.Start(ctx, step, trace.WithAttributes(
		attribute.String(telemetry.AttrSourceCRS, src.String()),
		attribute.String(telemetry.AttrTargetCRS, dst.String()),
	))
	defer span.End()

	ox, oy, err := s.transformer.Transform(ctx, src, dst, x, y)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, 0, &domain.TransformError{Step: step, Source: src, Target: dst, Err: err}
	}
	return ox, oy, nil
}

func geoResult(lat, lon, height float64, zone domain.Zone, source domain.CRS) *domain.GeoResult {
	return &domain.GeoResult{
		Point:  domain.GeoPoint{Lat: lat, Lon: lon, Height: height},
		Zone:   zone,
		Source: source,
		LatDMS: geospatial.DecimalToDMS(lat, geospatial.Latitude),
		LonDMS: geospatial.DecimalToDMS(lon, geospatial.Longitude),
	}
}

// withCache runs one operation inside a span, records its metrics and, when a
// cache is configured, serves and stores the JSON-encoded result. Cache
// failures fall through to a fresh computation.
func withCache[T any](ctx context.Context, s *ConversionService, op, key string, compute func(context.Context) (*T, error)) (*T, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.String(telemetry.AttrOperation, op)))
	defer span.End()

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var cached T
			if err := json.Unmarshal(data, &cached); err == nil {
				metrics.CacheHits.WithLabelValues(op).Inc()
				metrics.ObserveConversion(op, "cached", start)
				return &cached, nil
			}
		}
		metrics.CacheMisses.WithLabelValues(op).Inc()
	}

	result, err := compute(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.ObserveConversion(op, outcome(err), start)
		return nil, err
	}
	metrics.ObserveConversion(op, "success", start)

	if s.cache != nil && s.cacheTTL > 0 {
		if data, err := json.Marshal(result); err == nil {
			_ = s.cache.Set(ctx, key, data, s.cacheTTL)
		}
	}
	return result, nil
}

func outcome(err error) string {
	var te *domain.TransformError
	switch {
	case domain.IsValidationError(err):
		return "invalid"
	case domain.IsClassificationMiss(err):
		return "outside_coverage"
	case errors.As(err, &te):
		return "transform_error"
	default:
		return "error"
	}
}
