// Package registry gives read-only access to the externally owned client,
// client-group, and redirect-URL registries, and the referential checks built
// on top of them.
package registry

import (
	"context"

	"github.com/google/uuid"
)

// Reader loads a point-in-time snapshot of the reference registries. The
// registries are owned by other services; this service only reads them.
type Reader interface {
	Snapshot(ctx context.Context) (*RefSets, error)
}

// RefSets is one point-in-time snapshot of the reference registries. A
// reconciliation run takes a single snapshot and judges every record against
// it, so all records in one run see the same reference state.
type RefSets struct {
	// Groups is the set of existing client-group ids.
	Groups map[uuid.UUID]struct{}
	// Clients is the set of existing, non-deleted client ids.
	Clients map[uuid.UUID]struct{}
	// RedirectOwners maps each registered redirect URL id to its owning client.
	RedirectOwners map[uuid.UUID]uuid.UUID
}

// NewRefSets builds a RefSets from id lists. Used by callers that already hold
// the registries in memory (and by tests).
func NewRefSets(groups, clients []uuid.UUID, redirectOwners map[uuid.UUID]uuid.UUID) *RefSets {
	s := &RefSets{
		Groups:         make(map[uuid.UUID]struct{}, len(groups)),
		Clients:        make(map[uuid.UUID]struct{}, len(clients)),
		RedirectOwners: make(map[uuid.UUID]uuid.UUID, len(redirectOwners)),
	}
	for _, id := range groups {
		s.Groups[id] = struct{}{}
	}
	for _, id := range clients {
		s.Clients[id] = struct{}{}
	}
	for redirect, owner := range redirectOwners {
		s.RedirectOwners[redirect] = owner
	}
	return s
}

// GroupExists reports whether the group id is registered.
func (s *RefSets) GroupExists(id uuid.UUID) bool {
	_, ok := s.Groups[id]
	return ok
}

// ClientExists reports whether the client id is registered and not deleted.
func (s *RefSets) ClientExists(id uuid.UUID) bool {
	_, ok := s.Clients[id]
	return ok
}

// RedirectBelongsTo reports whether the redirect URL id is registered to the
// given client. A redirect registered to a different client does not count.
func (s *RefSets) RedirectBelongsTo(redirectID, clientID uuid.UUID) bool {
	owner, ok := s.RedirectOwners[redirectID]
	return ok && owner == clientID
}
