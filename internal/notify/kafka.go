package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// changeSignal is the published message body. Consumers only need to know that
// a change happened and when; they re-read the store themselves.
type changeSignal struct {
	Source    string    `json:"source"`
	ChangedAt time.Time `json:"changedAt"`
}

// KafkaNotifier implements Notifier using segmentio/kafka-go.
type KafkaNotifier struct {
	writer *kafka.Writer
}

// NewKafkaNotifier creates a notifier that publishes change signals to the
// given topic. Returns nil if brokers or topic are unset; callers should fall
// back to Noop. Call Close when shutting down.
func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaNotifier{writer: writer}
}

// Notify publishes one change signal. Uses the caller's context with a short
// timeout so a slow broker does not block writers indefinitely.
func (n *KafkaNotifier) Notify(ctx context.Context, source string) error {
	if n == nil || n.writer == nil {
		return nil
	}
	payload, err := json.Marshal(changeSignal{Source: source, ChangedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return n.writer.WriteMessages(writeCtx, kafka.Message{Value: payload})
}

// Close closes the Kafka writer. Safe to call multiple times.
func (n *KafkaNotifier) Close() error {
	if n == nil || n.writer == nil {
		return nil
	}
	return n.writer.Close()
}

var _ Notifier = (*KafkaNotifier)(nil)
