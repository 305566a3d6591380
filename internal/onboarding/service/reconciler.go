// Package service contains the onboarding consistency engine: the incremental
// change applier and the snapshot reconciler.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"provider-onboarding/backend/internal/metrics"
	"provider-onboarding/backend/internal/notify"
	"provider-onboarding/backend/internal/onboarding/domain"
	"provider-onboarding/backend/internal/onboarding/repository"
	"provider-onboarding/backend/internal/registry"
)

// ErrReconcileInFlight is returned when a reconciliation is already running.
// Two concurrent replace-all transactions would race on delete/insert ordering
// and corrupt the diff, so at most one runs at a time.
var ErrReconcileInFlight = errors.New("a reconciliation is already in flight")

// ErrFetchFailed wraps snapshot fetch failures. The store is untouched when it
// is returned: stale-but-consistent beats a partial overwrite.
var ErrFetchFailed = errors.New("snapshot fetch failed")

// SnapshotFetcher fetches the full onboarding snapshot from the authoritative
// upstream system.
type SnapshotFetcher interface {
	FetchAll(ctx context.Context) ([]domain.SnapshotRecord, error)
}

// Reconciler replaces the whole store with the validated upstream snapshot and
// reports the resulting diff. The upstream snapshot is the sole authority for
// steady state; incremental events are a low-latency preview that the next
// reconciliation may overwrite.
type Reconciler struct {
	store      repository.Store
	fetcher    SnapshotFetcher
	registries registry.Reader
	notifier   notify.Notifier
	log        *zap.SugaredLogger
	metrics    *metrics.Metrics

	fetchTimeout time.Duration

	mu sync.Mutex // held for the whole run; TryLock gives single-flight
}

// NewReconciler wires a Reconciler. fetchTimeout bounds the snapshot fetch
// only; the caller's context bounds the whole run.
func NewReconciler(
	store repository.Store,
	fetcher SnapshotFetcher,
	registries registry.Reader,
	notifier notify.Notifier,
	log *zap.SugaredLogger,
	m *metrics.Metrics,
	fetchTimeout time.Duration,
) *Reconciler {
	if fetchTimeout <= 0 {
		fetchTimeout = 30 * time.Second
	}
	return &Reconciler{
		store: store, fetcher: fetcher, registries: registries,
		notifier: notifier, log: log, metrics: m, fetchTimeout: fetchTimeout,
	}
}

// Reconcile fetches the snapshot, validates it against a point-in-time
// registry snapshot, atomically replaces all three variants, and returns the
// before/after key diff. With dryRun the transaction is rolled back after the
// diff is computed, so the store is left exactly as found. Cancelling ctx
// mid-transaction also rolls back.
func (r *Reconciler) Reconcile(ctx context.Context, dryRun bool) (*DiffReport, error) {
	if !r.mu.TryLock() {
		return nil, ErrReconcileInFlight
	}
	defer r.mu.Unlock()

	start := time.Now()
	report, err := r.run(ctx, dryRun)
	r.metrics.ReconcileDuration.Observe(time.Since(start).Seconds())
	switch {
	case err != nil:
		r.metrics.ReconcileRuns.WithLabelValues("failed").Inc()
	case dryRun:
		r.metrics.ReconcileRuns.WithLabelValues("dry_run").Inc()
	default:
		r.metrics.ReconcileRuns.WithLabelValues("committed").Inc()
	}
	return report, err
}

func (r *Reconciler) run(ctx context.Context, dryRun bool) (*DiffReport, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	records, err := r.fetcher.FetchAll(fetchCtx)
	cancel()
	if err != nil {
		r.log.Warnw("reconciliation aborted, store untouched", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	part, skipped := domain.PartitionSnapshot(records)
	for _, s := range skipped {
		r.metrics.RecordsDropped.Inc()
		r.log.Warnw("snapshot record dropped",
			"reason", s.Reason,
			"groupId", s.Record.GroupID, "clientId", s.Record.ClientID,
			"endpointId", s.Record.RedirectURLID,
			"provider", s.Record.Provider, "serviceType", s.Record.ServiceType)
	}

	refs, err := r.registries.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reference registries: %w", err)
	}
	valid := r.filterValid(part, refs)

	var report DiffReport
	err = r.store.InTx(ctx, !dryRun, func(tx repository.Tx) error {
		beforeGroups, err := tx.ListGroupKeys(ctx)
		if err != nil {
			return err
		}
		beforeClients, err := tx.ListClientKeys(ctx)
		if err != nil {
			return err
		}
		beforeScraping, err := tx.ListScrapingKeys(ctx)
		if err != nil {
			return err
		}

		if err := tx.DeleteAll(ctx); err != nil {
			return err
		}
		if err := tx.InsertGroups(ctx, valid.Groups); err != nil {
			return err
		}
		if err := tx.InsertClients(ctx, valid.Clients); err != nil {
			return err
		}
		if err := tx.InsertScraping(ctx, valid.Scraping); err != nil {
			return err
		}

		afterGroups, err := tx.ListGroupKeys(ctx)
		if err != nil {
			return err
		}
		afterClients, err := tx.ListClientKeys(ctx)
		if err != nil {
			return err
		}
		afterScraping, err := tx.ListScrapingKeys(ctx)
		if err != nil {
			return err
		}

		report.Groups.Removed, report.Groups.Added = diffKeys(beforeGroups, afterGroups)
		report.Clients.Removed, report.Clients.Added = diffKeys(beforeClients, afterClients)
		report.Scraping.Removed, report.Scraping.Added = diffKeys(beforeScraping, afterScraping)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("replace onboarding store: %w", err)
	}

	if dryRun {
		r.log.Infow("reconciliation dry run complete, store unchanged",
			"groupsRemoved", len(report.Groups.Removed), "groupsAdded", len(report.Groups.Added),
			"clientsRemoved", len(report.Clients.Removed), "clientsAdded", len(report.Clients.Added),
			"scrapingRemoved", len(report.Scraping.Removed), "scrapingAdded", len(report.Scraping.Added))
		return &report, nil
	}

	if err := r.notifier.Notify(ctx, "reconciliation"); err != nil {
		r.metrics.NotifyFailures.Inc()
		r.log.Warnw("change notification failed after reconciliation", "err", err)
	}
	r.log.Infow("reconciliation committed",
		"groupsRemoved", len(report.Groups.Removed), "groupsAdded", len(report.Groups.Added),
		"clientsRemoved", len(report.Clients.Removed), "clientsAdded", len(report.Clients.Added),
		"scrapingRemoved", len(report.Scraping.Removed), "scrapingAdded", len(report.Scraping.Added))
	return &report, nil
}

// filterValid drops records whose foreign keys do not exist in the registry
// snapshot. Each dropped record is logged individually with its full key and
// the reason; a bad record never aborts the rest of the batch.
func (r *Reconciler) filterValid(part domain.PartitionedSnapshot, refs *registry.RefSets) domain.PartitionedSnapshot {
	var valid domain.PartitionedSnapshot

	for _, k := range part.Groups {
		if !refs.GroupExists(k.GroupID) {
			r.dropRecord("group does not exist", k.String())
			continue
		}
		valid.Groups = append(valid.Groups, k)
	}
	for _, k := range part.Clients {
		if !refs.ClientExists(k.ClientID) {
			r.dropRecord("client does not exist", k.String())
			continue
		}
		if !refs.RedirectBelongsTo(k.RedirectURLID, k.ClientID) {
			r.dropRecord("redirect URL is not registered to this client", k.String())
			continue
		}
		valid.Clients = append(valid.Clients, k)
	}
	for _, k := range part.Scraping {
		if !refs.ClientExists(k.ClientID) {
			r.dropRecord("client does not exist", k.String())
			continue
		}
		valid.Scraping = append(valid.Scraping, k)
	}
	return valid
}

func (r *Reconciler) dropRecord(reason, key string) {
	r.metrics.RecordsDropped.Inc()
	r.log.Warnw("onboarding record dropped", "reason", reason, "key", key)
}
