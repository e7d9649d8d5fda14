package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bytefixx/gridcalc/internal/core/domain"
	"github.com/bytefixx/gridcalc/internal/core/ports"
	"github.com/bytefixx/gridcalc/internal/core/zones"
	"github.com/bytefixx/gridcalc/internal/pkg/metrics"
	"github.com/bytefixx/gridcalc/internal/pkg/telemetry"
)

// BatchService converts tables of grid coordinates to WGS84, one row at a
// time and in input order.
type BatchService struct {
	transformer ports.CoordinateTransformer
	catalog     *zones.Catalog
	publisher   ports.EventPublisher
	defaultZone string
	maxRows     int
	tracer      trace.Tracer
}

// NewBatchService creates a new BatchService. publisher may be nil.
// defaultZone is the ESM zone used by ProcessESM when a request names none.
func NewBatchService(
	transformer ports.CoordinateTransformer,
	catalog *zones.Catalog,
	publisher ports.EventPublisher,
	defaultZone string,
	maxRows int,
) *BatchService {
	return &BatchService{
		transformer: transformer,
		catalog:     catalog,
		publisher:   publisher,
		defaultZone: defaultZone,
		maxRows:     maxRows,
		tracer:      otel.Tracer(telemetry.TracerBatch),
	}
}

// ProcessESM resolves an ESM zone code (empty selects the default batch zone)
// and runs Process with that zone as source.
func (s *BatchService) ProcessESM(ctx context.Context, rows []domain.BatchRow, zoneCode string, progress domain.ProgressFunc) ([]domain.BatchResult, *domain.BatchSummary, error) {
	if zoneCode == "" {
		zoneCode = s.defaultZone
	}
	zone, ok := s.catalog.ESM.Lookup(zoneCode)
	if !ok {
		return nil, nil, &domain.ValidationError{Field: "zone", Value: zoneCode, Reason: "unknown ESM zone"}
	}

	results, summary, err := s.Process(ctx, rows, zone.CRS(), progress)
	if summary != nil {
		summary.Zone = zone.Code
	}
	return results, summary, err
}

// Process converts every row from source to WGS84. A row that failed to parse
// or whose transform fails is recorded as an error result and the batch goes
// on. progress, when non-nil, is called after every row.
//
// The returned error is only set when the batch is over the row limit or the
// context is cancelled; in the latter case the rows finished so far are
// returned along with it.
func (s *BatchService) Process(ctx context.Context, rows []domain.BatchRow, source domain.CRS, progress domain.ProgressFunc) ([]domain.BatchResult, *domain.BatchSummary, error) {
	if s.maxRows > 0 && len(rows) > s.maxRows {
		return nil, nil, fmt.Errorf("%w: %d rows, limit %d", domain.ErrBatchTooLarge, len(rows), s.maxRows)
	}

	start := time.Now()
	summary := &domain.BatchSummary{
		ID:     uuid.NewString(),
		Source: source,
		Total:  len(rows),
	}

	ctx, span := s.tracer.Start(ctx, "batch.process", trace.WithAttributes(
		attribute.String(telemetry.AttrBatchID, summary.ID),
		attribute.String(telemetry.AttrSourceCRS, source.String()),
		attribute.Int(telemetry.AttrBatchRows, len(rows)),
	))
	defer span.End()

	results := make([]domain.BatchResult, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			s.finish(summary, start)
			return results, summary, err
		}

		res := s.convertRow(ctx, row, source)
		if res.OK {
			summary.Succeeded++
			metrics.BatchRowsProcessed.WithLabelValues("success").Inc()
		} else {
			summary.Failed++
			metrics.BatchRowsProcessed.WithLabelValues("error").Inc()
		}
		results = append(results, res)

		if progress != nil {
			progress(i+1, len(rows))
		}
	}

	s.finish(summary, start)
	span.SetAttributes(attribute.Int(telemetry.AttrBatchFails, summary.Failed))
	metrics.BatchDuration.Observe(summary.Duration.Seconds())

	slog.InfoContext(ctx, "batch processed",
		"batch_id", summary.ID,
		"source", source.String(),
		"total", summary.Total,
		"failed", summary.Failed,
		"duration", summary.Duration,
	)

	if s.publisher != nil {
		if err := s.publisher.PublishBatchCompleted(ctx, summary); err != nil {
			slog.WarnContext(ctx, "publish batch completion failed", "batch_id", summary.ID, "error", err)
		}
	}

	return results, summary, nil
}

func (s *BatchService) convertRow(ctx context.Context, row domain.BatchRow, source domain.CRS) domain.BatchResult {
	if row.Err != nil {
		return domain.Failed(row.PointID, row.Height, row.Err)
	}

	lon, lat, err := s.transformer.Transform(ctx, source, domain.WGS84, row.Easting, row.Northing)
	if err != nil {
		te := &domain.TransformError{Step: domain.StepBatchRow, Source: source, Target: domain.WGS84, Err: err}
		slog.DebugContext(ctx, "batch row failed", "line", row.Line, "point_id", row.PointID, "error", te)
		return domain.Failed(row.PointID, row.Height, te)
	}
	return domain.BatchResult{
		PointID: row.PointID,
		Lat:     lat,
		Lon:     lon,
		Height:  row.Height,
		Status:  domain.StatusSuccess,
		OK:      true,
	}
}

func (s *BatchService) finish(summary *domain.BatchSummary, start time.Time) {
	summary.Duration = time.Since(start)
	summary.FinishedAt = time.Now().UTC()
}
