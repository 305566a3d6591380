package consumer

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaDeadLetter implements DeadLetterer by republishing the original message
// to a dead-letter topic with the drop reason attached as a header.
type KafkaDeadLetter struct {
	writer *kafka.Writer
}

// NewKafkaDeadLetter creates a dead-letter publisher. Returns nil if brokers
// or topic are unset, which disables dead-lettering.
func NewKafkaDeadLetter(brokers []string, topic string) *KafkaDeadLetter {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaDeadLetter{writer: writer}
}

// Publish forwards the message body and headers plus a "reason" header.
func (d *KafkaDeadLetter) Publish(ctx context.Context, msg kafka.Message, reason string) error {
	if d == nil || d.writer == nil {
		return nil
	}
	headers := append([]kafka.Header{}, msg.Headers...)
	headers = append(headers, kafka.Header{Key: "reason", Value: []byte(reason)})

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return d.writer.WriteMessages(writeCtx, kafka.Message{
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	})
}

// Close closes the underlying writer. Safe to call on nil.
func (d *KafkaDeadLetter) Close() error {
	if d == nil || d.writer == nil {
		return nil
	}
	return d.writer.Close()
}
