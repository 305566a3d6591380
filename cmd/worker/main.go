// Worker consumes incremental onboarding events from Kafka and applies them
// to the store. Set KAFKA_BROKERS, DATABASE_URL, and optionally
// DEAD_LETTER_TOPIC and CHANGE_TOPIC.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"provider-onboarding/backend/internal/config"
	"provider-onboarding/backend/internal/db"
	"provider-onboarding/backend/internal/logging"
	"provider-onboarding/backend/internal/metrics"
	"provider-onboarding/backend/internal/notify"
	"provider-onboarding/backend/internal/onboarding/consumer"
	"provider-onboarding/backend/internal/onboarding/repository"
	"provider-onboarding/backend/internal/onboarding/service"
	"provider-onboarding/backend/internal/telemetry/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("worker: KAFKA_BROKERS is required")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("worker: DATABASE_URL is required")
	}

	logger := logging.New(cfg.Env)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Infow("worker shutting down")
		cancel()
	}()

	telemetry, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "provider-onboarding-worker", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	telemetry.SetGlobal()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = telemetry.Shutdown(shutdownCtx)
	}()

	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	engineMetrics := metrics.New(prometheus.NewRegistry())

	var notifier notify.Notifier = notify.Noop{}
	if cfg.ChangeTopic != "" {
		notifier = notify.NewKafkaNotifier(brokers, cfg.ChangeTopic)
	}
	defer notifier.Close()

	applier := service.NewApplier(repository.NewPostgresStore(pool), notifier, logger, engineMetrics)

	deadLetter := consumer.NewKafkaDeadLetter(brokers, cfg.DeadLetterTopic)
	defer deadLetter.Close()

	handler := consumer.NewHandler(applier, deadLetter, logger, engineMetrics)
	c := consumer.New(consumer.Config{
		Brokers: brokers,
		Topic:   cfg.OnboardingTopic,
		GroupID: cfg.OnboardingGroupID,
		Workers: cfg.WorkerCount,
	}, handler, logger)
	defer c.Close()

	logger.Infow("worker consuming",
		"topic", cfg.OnboardingTopic, "group", cfg.OnboardingGroupID, "workers", cfg.WorkerCount)
	c.Run(ctx)
	logger.Infow("worker stopped")
}
