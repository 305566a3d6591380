// Package notify signals downstream consumers that onboarding state mutated
// and dependent derived state (e.g. site enablement) should be recomputed.
package notify

import "context"

// Notifier emits one change signal. Callers use it best-effort: log and ignore
// errors, never block a write on notification delivery.
type Notifier interface {
	// Notify signals that onboarding state changed. source names the writer
	// ("event" or "reconciliation") for consumers that care about provenance.
	Notify(ctx context.Context, source string) error
	// Close releases resources (e.g. Kafka writer). Safe to call if already closed.
	Close() error
}

// Noop is a Notifier that does nothing. Used when no change topic is configured
// and in tests.
type Noop struct{}

func (Noop) Notify(context.Context, string) error { return nil }
func (Noop) Close() error                         { return nil }
