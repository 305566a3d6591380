// Package view is the read-only query facade over the onboarding store. It
// unions the client-level variants into the unified fact shape; group-level
// rows are exposed as-is and expanding them per client (the group-membership
// join) is the caller's responsibility.
package view

import (
	"context"

	"github.com/google/uuid"

	"provider-onboarding/backend/internal/onboarding/domain"
)

// View answers read queries over the onboarding store.
type View interface {
	// All returns every client-level onboarding as a fact.
	All(ctx context.Context) ([]domain.Fact, error)
	// ForClient returns the facts for this literal client id. Group-level
	// onboardings the client inherits are not included.
	ForClient(ctx context.Context, clientID uuid.UUID) ([]domain.Fact, error)
	// ForClientAndProvider narrows ForClient to one provider.
	ForClientAndProvider(ctx context.Context, clientID uuid.UUID, provider string) ([]domain.Fact, error)
	// Groups returns the group-level onboardings for callers that expand them.
	Groups(ctx context.Context) ([]domain.GroupOnboarding, error)
}
