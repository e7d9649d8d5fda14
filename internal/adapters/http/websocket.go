package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/gofiber/websocket/v2"

	"github.com/bytefixx/gridcalc/internal/adapters/csvio"
	"github.com/bytefixx/gridcalc/internal/core/domain"
	"github.com/bytefixx/gridcalc/internal/pkg/metrics"
)

// Message types sent on /ws/batch.
const (
	wsTypeProgress = "progress"
	wsTypeResult   = "result"
	wsTypeError    = "error"
)

// wsMessage is sent from server to client.
type wsMessage struct {
	Type    string               `json:"type"`
	Done    int                  `json:"done,omitempty"`
	Total   int                  `json:"total,omitempty"`
	Summary *domain.BatchSummary `json:"summary,omitempty"`
	CSV     string               `json:"csv,omitempty"`
	Message string               `json:"message,omitempty"`
}

// BatchSocketHandler runs one batch per client message and streams progress.
// A message is either raw CSV text, converted in the zone given by the
// ?zone= query parameter, or a JSON object {"zone": "...", "csv": "..."}.
func BatchSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := c.RemoteAddr().String()
		defaultZone := c.Query("zone")
		slog.Info("ws client connected", "remote", remoteAddr)

		writeJSON := func(m wsMessage) error {
			data, err := json.Marshal(m)
			if err != nil {
				return err
			}
			return c.WriteMessage(websocket.TextMessage, data)
		}

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}
			if deps.MaxUploadBytes > 0 && len(msg) > deps.MaxUploadBytes {
				_ = writeJSON(wsMessage{Type: wsTypeError, Message: "upload too large"})
				continue
			}

			req := domain.BatchRequest{Zone: defaultZone, CSV: string(msg)}
			if strings.HasPrefix(strings.TrimSpace(req.CSV), "{") {
				if err := json.Unmarshal(msg, &req); err != nil {
					_ = writeJSON(wsMessage{Type: wsTypeError, Message: "invalid JSON"})
					continue
				}
			}

			if err := runSocketBatch(deps, &req, writeJSON); err != nil {
				_ = writeJSON(wsMessage{Type: wsTypeError, Message: err.Error()})
			}
		}

		slog.Info("ws client disconnected", "remote", remoteAddr)
	}
}

func runSocketBatch(deps *Dependencies, req *domain.BatchRequest, write func(wsMessage) error) error {
	rows, err := csvio.ReadRows(strings.NewReader(req.CSV))
	if err != nil {
		return err
	}

	progress := func(done, total int) {
		_ = write(wsMessage{Type: wsTypeProgress, Done: done, Total: total})
	}
	results, summary, err := deps.Batch.ProcessESM(context.Background(), rows, req.Zone, progress)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := csvio.WriteResults(&buf, results); err != nil {
		return err
	}
	return write(wsMessage{Type: wsTypeResult, Summary: summary, CSV: buf.String()})
}
