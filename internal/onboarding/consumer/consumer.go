package consumer

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Config describes the event stream the consumer reads.
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
	// Workers is the number of parallel readers. Each reader processes its
	// assigned partitions sequentially, so ordering holds within a partition
	// but not across partitions.
	Workers int
}

// Consumer runs a bounded pool of partition readers feeding one Handler.
type Consumer struct {
	cfg     Config
	handler *Handler
	log     *zap.SugaredLogger
	readers []*kafka.Reader
}

// New builds a Consumer. Call Run to start and Close to release the readers.
func New(cfg Config, handler *Handler, log *zap.SugaredLogger) *Consumer {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	readers := make([]*kafka.Reader, cfg.Workers)
	for i := range readers {
		readers[i] = kafka.NewReader(kafka.ReaderConfig{
			Brokers:        cfg.Brokers,
			Topic:          cfg.Topic,
			GroupID:        cfg.GroupID,
			MinBytes:       1,
			MaxBytes:       10e6, // 10MB
			MaxWait:        1 * time.Second,
			CommitInterval: time.Second,
		})
	}
	return &Consumer{cfg: cfg, handler: handler, log: log, readers: readers}
}

// Run consumes until ctx is cancelled. Read errors are logged and the loop
// continues; there is no cancellation per event, each one either applies or
// is dropped.
func (c *Consumer) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i, reader := range c.readers {
		wg.Add(1)
		go func(worker int, r *kafka.Reader) {
			defer wg.Done()
			for {
				msg, err := r.ReadMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					c.log.Errorw("kafka read error", "worker", worker, "err", err)
					continue
				}
				_ = c.handler.Handle(ctx, msg)
			}
		}(i, reader)
	}
	wg.Wait()
}

// Close closes all readers. Safe to call after Run returns.
func (c *Consumer) Close() error {
	var firstErr error
	for _, r := range c.readers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
