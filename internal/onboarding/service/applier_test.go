package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"provider-onboarding/backend/internal/onboarding/domain"
)

func newTestApplier(store *fakeStore, notifier *countingNotifier) *Applier {
	return NewApplier(store, notifier, zap.NewNop().Sugar(), testMetrics())
}

func TestApply_AddIsIdempotent(t *testing.T) {
	store := newFakeStore()
	notifier := &countingNotifier{}
	applier := newTestApplier(store, notifier)

	clientID := uuid.New()
	change, err := domain.BuildChange(domain.OpClientAdd, domain.Event{
		ClientID: &clientID, Provider: "scrapebank", ServiceType: "AIS",
	})
	if err != nil {
		t.Fatalf("BuildChange: %v", err)
	}

	if err := applier.Apply(context.Background(), change); err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	if err := applier.Apply(context.Background(), change); err != nil {
		t.Fatalf("second Apply: %v", err)
	}

	if len(store.scraping) != 1 {
		t.Errorf("store has %d records after duplicate add, want 1", len(store.scraping))
	}
	if notifier.calls != 2 {
		t.Errorf("notifier calls = %d, want one per apply including the no-op", notifier.calls)
	}
}

func TestApply_DeleteMissingKeyIsNoOp(t *testing.T) {
	store := newFakeStore()
	notifier := &countingNotifier{}
	applier := newTestApplier(store, notifier)

	clientID := uuid.New()
	redirectID := uuid.New()
	change, err := domain.BuildChange(domain.OpClientRemove, domain.Event{
		ClientID: &clientID, RedirectURLID: &redirectID, Provider: "nordbank", ServiceType: "PIS",
	})
	if err != nil {
		t.Fatalf("BuildChange: %v", err)
	}

	if err := applier.Apply(context.Background(), change); err != nil {
		t.Fatalf("Apply of missing key: %v", err)
	}
	if notifier.calls != 1 {
		t.Errorf("notifier calls = %d, want 1 even for a no-op delete", notifier.calls)
	}
}

func TestApply_GroupAddAndRemove(t *testing.T) {
	store := newFakeStore()
	applier := newTestApplier(store, &countingNotifier{})

	groupID := uuid.New()
	add, err := domain.BuildChange(domain.OpGroupAdd, domain.Event{
		GroupID: &groupID, Provider: "nordbank", ServiceType: "AIS",
	})
	if err != nil {
		t.Fatalf("BuildChange: %v", err)
	}
	if err := applier.Apply(context.Background(), add); err != nil {
		t.Fatalf("Apply add: %v", err)
	}
	if len(store.groups) != 1 {
		t.Fatalf("store has %d group records, want 1", len(store.groups))
	}

	remove, err := domain.BuildChange(domain.OpGroupRemove, domain.Event{
		GroupID: &groupID, Provider: "nordbank", ServiceType: "AIS",
	})
	if err != nil {
		t.Fatalf("BuildChange: %v", err)
	}
	if err := applier.Apply(context.Background(), remove); err != nil {
		t.Fatalf("Apply remove: %v", err)
	}
	if len(store.groups) != 0 {
		t.Errorf("store has %d group records after remove, want 0", len(store.groups))
	}
}

func TestApply_StoreErrorPropagatesWithoutNotification(t *testing.T) {
	store := newFakeStore()
	store.upsertErr = errors.New("connection reset")
	notifier := &countingNotifier{}
	applier := newTestApplier(store, notifier)

	clientID := uuid.New()
	change, err := domain.BuildChange(domain.OpClientAdd, domain.Event{
		ClientID: &clientID, Provider: "p", ServiceType: "AIS",
	})
	if err != nil {
		t.Fatalf("BuildChange: %v", err)
	}

	if err := applier.Apply(context.Background(), change); err == nil {
		t.Fatal("store error must propagate")
	}
	if notifier.calls != 0 {
		t.Errorf("failed apply sent %d notifications, want 0", notifier.calls)
	}
}

func TestApply_NotifierFailureDoesNotFailApply(t *testing.T) {
	store := newFakeStore()
	notifier := &countingNotifier{err: errors.New("broker unreachable")}
	applier := newTestApplier(store, notifier)

	clientID := uuid.New()
	change, err := domain.BuildChange(domain.OpClientAdd, domain.Event{
		ClientID: &clientID, Provider: "p", ServiceType: "AIS",
	})
	if err != nil {
		t.Fatalf("BuildChange: %v", err)
	}

	if err := applier.Apply(context.Background(), change); err != nil {
		t.Errorf("notification failure must not fail the apply: %v", err)
	}
	if len(store.scraping) != 1 {
		t.Errorf("store has %d records, want 1", len(store.scraping))
	}
}

func TestApply_UnknownKind(t *testing.T) {
	applier := newTestApplier(newFakeStore(), &countingNotifier{})
	if err := applier.Apply(context.Background(), domain.Change{Kind: "nonsense"}); err == nil {
		t.Error("unknown kind must be rejected")
	}
}
