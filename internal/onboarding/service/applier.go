package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"provider-onboarding/backend/internal/metrics"
	"provider-onboarding/backend/internal/notify"
	"provider-onboarding/backend/internal/onboarding/domain"
	"provider-onboarding/backend/internal/onboarding/repository"
)

// Applier applies single typed changes from the incremental event stream to
// the store. It is safe for concurrent use by multiple partition workers; the
// store's per-key writes are idempotent.
type Applier struct {
	store    repository.Store
	notifier notify.Notifier
	log      *zap.SugaredLogger
	metrics  *metrics.Metrics
}

// NewApplier returns an Applier writing to store and signaling notifier after
// every applied change.
func NewApplier(store repository.Store, notifier notify.Notifier, log *zap.SugaredLogger, m *metrics.Metrics) *Applier {
	return &Applier{store: store, notifier: notifier, log: log, metrics: m}
}

// Apply writes one change to the store. Upserting an existing key and deleting
// a missing key succeed as no-ops. Every successful apply triggers exactly one
// change notification, no-ops included, because downstream derived state may
// depend on timing rather than on data change.
func (a *Applier) Apply(ctx context.Context, change domain.Change) error {
	var err error
	switch change.Kind {
	case domain.KindGroup:
		if change.Remove() {
			err = a.store.DeleteGroup(ctx, change.Group)
		} else {
			err = a.store.UpsertGroup(ctx, change.Group)
		}
	case domain.KindClientEndpoint:
		if change.Remove() {
			err = a.store.DeleteClient(ctx, change.Client)
		} else {
			err = a.store.UpsertClient(ctx, change.Client)
		}
	case domain.KindClientScraping:
		if change.Remove() {
			err = a.store.DeleteScraping(ctx, change.Scraping)
		} else {
			err = a.store.UpsertScraping(ctx, change.Scraping)
		}
	default:
		return fmt.Errorf("unknown change kind %q", change.Kind)
	}
	if err != nil {
		return fmt.Errorf("apply %s: %w", change.Op, err)
	}

	a.metrics.EventsConsumed.WithLabelValues(string(change.Op)).Inc()
	if err := a.notifier.Notify(ctx, "event"); err != nil {
		a.metrics.NotifyFailures.Inc()
		a.log.Warnw("change notification failed", "op", change.Op, "err", err)
	}
	return nil
}
