// server runs the admin/read HTTP API: reconciliation trigger, the unified
// onboarding view, health, and metrics.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"provider-onboarding/backend/internal/config"
	"provider-onboarding/backend/internal/db"
	"provider-onboarding/backend/internal/logging"
	"provider-onboarding/backend/internal/metrics"
	"provider-onboarding/backend/internal/notify"
	"provider-onboarding/backend/internal/onboarding/repository"
	"provider-onboarding/backend/internal/onboarding/service"
	"provider-onboarding/backend/internal/onboarding/view"
	"provider-onboarding/backend/internal/providers"
	"provider-onboarding/backend/internal/registry"
	"provider-onboarding/backend/internal/server"
	"provider-onboarding/backend/internal/telemetry/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("server: DATABASE_URL is required")
	}
	if cfg.ProvidersBaseURL == "" {
		log.Fatal("server: PROVIDERS_BASE_URL is required")
	}

	logger := logging.New(cfg.Env)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetry, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "provider-onboarding-server", cfg.OTLPInsecure)
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

	registryPrometheus := prometheus.NewRegistry()
	registryPrometheus.MustRegister(collectors.NewGoCollector())
	engineMetrics := metrics.New(registryPrometheus)

	var notifier notify.Notifier = notify.Noop{}
	if brokers := cfg.KafkaBrokersList(); len(brokers) > 0 && cfg.ChangeTopic != "" {
		notifier = notify.NewKafkaNotifier(brokers, cfg.ChangeTopic)
	}
	defer notifier.Close()

	store := repository.NewPostgresStore(pool)
	reconciler := service.NewReconciler(
		store,
		providers.NewClient(cfg.ProvidersBaseURL, nil),
		registry.NewPostgresReader(pool),
		notifier,
		logger,
		engineMetrics,
		cfg.FetchTimeout(),
	)

	srv := &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     server.New(reconciler, view.NewPostgresView(pool), logger, cfg.AdminToken, registryPrometheus, cfg.ReconcileDeadline()).Handler(),
		ReadTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infow("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Infow("shutting down http server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("shutdown", "err", err)
	}
	logger.Infow("http server stopped")
}
