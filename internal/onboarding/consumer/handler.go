// Package consumer receives incremental onboarding events from Kafka and
// applies them to the store.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"provider-onboarding/backend/internal/metrics"
	"provider-onboarding/backend/internal/onboarding/domain"
)

// operationHeader is the Kafka header carrying the out-of-band operation tag.
const operationHeader = "operation"

// applier applies one typed change. Implemented by service.Applier.
type applier interface {
	Apply(ctx context.Context, change domain.Change) error
}

// DeadLetterer forwards undeliverable messages. May be nil-backed (disabled).
type DeadLetterer interface {
	Publish(ctx context.Context, msg kafka.Message, reason string) error
}

// envelope is the wire body. Some producers put the operation tag in the body
// instead of the header; both are accepted, header first.
type envelope struct {
	Operation string `json:"operation"`
	domain.Event
}

// Handler decodes and applies one event message. Errors are absorbed: a bad
// message is logged, counted, dead-lettered when configured, and dropped, so
// one bad input never blocks the partition.
type Handler struct {
	applier    applier
	deadLetter DeadLetterer
	log        *zap.SugaredLogger
	metrics    *metrics.Metrics
}

// NewHandler returns a message handler. deadLetter may be nil.
func NewHandler(a applier, deadLetter DeadLetterer, log *zap.SugaredLogger, m *metrics.Metrics) *Handler {
	return &Handler{applier: a, deadLetter: deadLetter, log: log, metrics: m}
}

// Handle processes one message. It always returns nil so the offset is
// committed either way; failures only surface through logs and metrics.
func (h *Handler) Handle(ctx context.Context, msg kafka.Message) error {
	change, err := decode(msg)
	if err != nil {
		h.drop(ctx, msg, fmt.Sprintf("malformed event: %v", err))
		return nil
	}
	if err := h.applier.Apply(ctx, change); err != nil {
		h.drop(ctx, msg, fmt.Sprintf("apply failed: %v", err))
		return nil
	}
	return nil
}

func (h *Handler) drop(ctx context.Context, msg kafka.Message, reason string) {
	h.metrics.EventsDropped.Inc()
	h.log.Errorw("event dropped", "reason", reason,
		"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
	if h.deadLetter == nil {
		return
	}
	if err := h.deadLetter.Publish(ctx, msg, reason); err != nil {
		h.log.Errorw("dead-letter publish failed", "err", err,
			"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
	}
}

// decode turns one wire message into a typed change: operation tag from the
// header (body fallback), one layer of legacy quoting stripped, then the
// variant resolved once here at the ingestion boundary.
func decode(msg kafka.Message) (domain.Change, error) {
	var env envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return domain.Change{}, fmt.Errorf("decode body: %w", err)
	}

	rawTag := env.Operation
	for _, header := range msg.Headers {
		if header.Key == operationHeader {
			rawTag = string(header.Value)
			break
		}
	}
	op, err := domain.ParseOperation(rawTag)
	if err != nil {
		return domain.Change{}, err
	}
	return domain.BuildChange(op, env.Event)
}
