package natsadapter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bytefixx/gridcalc/internal/adapters/csvio"
	"github.com/bytefixx/gridcalc/internal/core/domain"
	"github.com/bytefixx/gridcalc/internal/core/ports"
	"github.com/bytefixx/gridcalc/internal/core/usecases"
)

// BatchHandler parses the request CSV, runs it through the batch service and
// returns the result table as CSV.
func BatchHandler(batch *usecases.BatchService) ports.BatchRequestHandler {
	return func(ctx context.Context, req *domain.BatchRequest) ([]byte, error) {
		rows, err := csvio.ReadRows(strings.NewReader(req.CSV))
		if err != nil {
			return nil, err
		}

		results, summary, err := batch.ProcessESM(ctx, rows, req.Zone, nil)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := csvio.WriteResults(&buf, results); err != nil {
			return nil, fmt.Errorf("encode results: %w", err)
		}

		slog.InfoContext(ctx, "batch request served",
			"batch_id", summary.ID,
			"zone", summary.Zone,
			"rows", summary.Total,
			"failed", summary.Failed,
		)
		return buf.Bytes(), nil
	}
}
