// Package repository persists the three onboarding record variants.
package repository

import (
	"context"

	"provider-onboarding/backend/internal/onboarding/domain"
)

// Store defines persistence for onboarding records. Per-key writes are
// idempotent: upserting an existing key and deleting a missing key are no-ops.
type Store interface {
	UpsertGroup(ctx context.Context, key domain.GroupKey) error
	DeleteGroup(ctx context.Context, key domain.GroupKey) error
	UpsertClient(ctx context.Context, key domain.ClientKey) error
	DeleteClient(ctx context.Context, key domain.ClientKey) error
	UpsertScraping(ctx context.Context, key domain.ScrapingKey) error
	DeleteScraping(ctx context.Context, key domain.ScrapingKey) error

	// InTx runs fn inside one transaction. When commit is false the transaction
	// is rolled back even if fn succeeds, undoing every write fn performed; fn's
	// return value (and the computed state it observed) is still propagated.
	// Rollback-on-dry-run and rollback-on-error share this single exit point.
	InTx(ctx context.Context, commit bool, fn func(tx Tx) error) error
}

// Tx is the store view inside one transaction, used by reconciliation for the
// read/replace/read cycle.
type Tx interface {
	ListGroupKeys(ctx context.Context) ([]domain.GroupKey, error)
	ListClientKeys(ctx context.Context) ([]domain.ClientKey, error)
	ListScrapingKeys(ctx context.Context) ([]domain.ScrapingKey, error)
	DeleteAll(ctx context.Context) error
	InsertGroups(ctx context.Context, keys []domain.GroupKey) error
	InsertClients(ctx context.Context, keys []domain.ClientKey) error
	InsertScraping(ctx context.Context, keys []domain.ScrapingKey) error
}
