// Package metrics holds the Prometheus collectors for the onboarding write paths.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the service's collectors. Create one per process with New
// and share it between the consumer and the reconciler.
type Metrics struct {
	EventsConsumed    *prometheus.CounterVec
	EventsDropped     prometheus.Counter
	ReconcileRuns     *prometheus.CounterVec
	ReconcileDuration prometheus.Histogram
	RecordsDropped    prometheus.Counter
	NotifyFailures    prometheus.Counter
}

// New registers the collectors on reg and returns them. reg may be
// prometheus.DefaultRegisterer or a private registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsConsumed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_events_consumed_total",
			Help: "Incremental onboarding events consumed, by operation.",
		}, []string{"operation"}),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboarding_events_dropped_total",
			Help: "Incremental onboarding events dropped as malformed or unappliable.",
		}),
		ReconcileRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_reconcile_runs_total",
			Help: "Reconciliation runs, by result (committed, dry_run, failed).",
		}, []string{"result"}),
		ReconcileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "onboarding_reconcile_duration_seconds",
			Help:    "Wall time of one reconciliation run, fetch included.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		RecordsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboarding_reconcile_records_dropped_total",
			Help: "Snapshot records dropped during reconciliation for failing referential checks or classification.",
		}),
		NotifyFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboarding_notify_failures_total",
			Help: "Change notifications that failed to publish.",
		}),
	}
}
