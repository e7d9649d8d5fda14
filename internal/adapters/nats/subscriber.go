package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/bytefixx/gridcalc/internal/core/domain"
	"github.com/bytefixx/gridcalc/internal/core/ports"
)

// QueueBatchWorkers is the queue group batch workers join, so each request is
// served by exactly one worker.
const QueueBatchWorkers = "gridcalc-batchworker"

// HeaderError carries the failure message on error replies.
const HeaderError = "Gridcalc-Error"

// Subscriber implements ports.EventSubscriber with core NATS request/reply.
type Subscriber struct {
	conn *nats.Conn
	subs []*nats.Subscription
}

var _ ports.EventSubscriber = (*Subscriber)(nil)

// NewSubscriber creates a subscriber with its own connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Subscriber{conn: conn}, nil
}

// NewSubscriberFromConn creates a subscriber sharing conn.
func NewSubscriberFromConn(conn *nats.Conn) *Subscriber {
	return &Subscriber{conn: conn}
}

// SubscribeBatchRequests serves batch requests. NATS delivers the messages of
// one subscription sequentially, so a worker handles one batch at a time.
func (s *Subscriber) SubscribeBatchRequests(ctx context.Context, handler ports.BatchRequestHandler) error {
	sub, err := s.conn.QueueSubscribe(SubjectBatchRequest, QueueBatchWorkers, func(msg *nats.Msg) {
		var req domain.BatchRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			respondError(msg, fmt.Errorf("decode batch request: %w", err))
			return
		}

		body, err := handler(ctx, &req)
		if err != nil {
			respondError(msg, err)
			return
		}
		if err := msg.Respond(body); err != nil {
			slog.Warn("batch reply failed", "subject", msg.Subject, "error", err)
		}
	})
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

func respondError(msg *nats.Msg, err error) {
	reply := nats.NewMsg(msg.Reply)
	reply.Header.Set(HeaderError, err.Error())
	if rerr := msg.RespondMsg(reply); rerr != nil {
		slog.Warn("batch error reply failed", "subject", msg.Subject, "error", rerr)
	}
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
