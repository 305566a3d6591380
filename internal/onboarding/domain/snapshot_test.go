package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestPartitionSnapshot(t *testing.T) {
	groupID := uuid.New()
	clientID := uuid.New()
	redirectID := uuid.New()

	records := []SnapshotRecord{
		{GroupID: &groupID, Provider: "nordbank", ServiceType: "AIS"},
		{ClientID: &clientID, RedirectURLID: &redirectID, Provider: "nordbank", ServiceType: "PIS"},
		{ClientID: &clientID, Provider: "scrapebank", ServiceType: "AIS"},
	}

	part, skipped := PartitionSnapshot(records)
	if len(skipped) != 0 {
		t.Fatalf("skipped = %v, want none", skipped)
	}
	if len(part.Groups) != 1 || part.Groups[0].GroupID != groupID {
		t.Errorf("Groups = %v, want one for %s", part.Groups, groupID)
	}
	if len(part.Clients) != 1 || part.Clients[0].RedirectURLID != redirectID {
		t.Errorf("Clients = %v, want one for redirect %s", part.Clients, redirectID)
	}
	if len(part.Scraping) != 1 || part.Scraping[0].Provider != "scrapebank" {
		t.Errorf("Scraping = %v, want one for scrapebank", part.Scraping)
	}
}

func TestPartitionSnapshot_GroupWinsOverClient(t *testing.T) {
	groupID := uuid.New()
	clientID := uuid.New()
	redirectID := uuid.New()

	part, skipped := PartitionSnapshot([]SnapshotRecord{
		{GroupID: &groupID, ClientID: &clientID, RedirectURLID: &redirectID, Provider: "p", ServiceType: "AIS"},
	})
	if len(skipped) != 0 {
		t.Fatalf("skipped = %v, want none", skipped)
	}
	if len(part.Groups) != 1 || len(part.Clients) != 0 || len(part.Scraping) != 0 {
		t.Errorf("record with groupId must classify as group-level, got %+v", part)
	}
}

func TestPartitionSnapshot_NoRedirectIsScraping(t *testing.T) {
	// A client record without an endpoint id is scraping-style, never redirect-scoped.
	clientID := uuid.New()
	part, skipped := PartitionSnapshot([]SnapshotRecord{
		{ClientID: &clientID, Provider: "p", ServiceType: "AIS"},
	})
	if len(skipped) != 0 {
		t.Fatalf("skipped = %v, want none", skipped)
	}
	if len(part.Clients) != 0 {
		t.Errorf("Clients = %v, want none", part.Clients)
	}
	if len(part.Scraping) != 1 {
		t.Errorf("Scraping = %v, want one", part.Scraping)
	}
}

func TestPartitionSnapshot_SkipsMalformed(t *testing.T) {
	clientID := uuid.New()
	records := []SnapshotRecord{
		{Provider: "p", ServiceType: "AIS"},                  // no ids at all
		{ClientID: &clientID, Provider: "p", ServiceType: "X"}, // bad service type
		{ClientID: &clientID, ServiceType: "AIS"},            // empty provider
		{ClientID: &clientID, Provider: "p", ServiceType: "AIS"},
	}

	part, skipped := PartitionSnapshot(records)
	if len(skipped) != 3 {
		t.Fatalf("skipped %d records, want 3: %v", len(skipped), skipped)
	}
	for _, s := range skipped {
		if s.Reason == "" {
			t.Error("skipped record should carry a reason")
		}
	}
	if len(part.Scraping) != 1 {
		t.Errorf("Scraping = %v, want the single valid record", part.Scraping)
	}
}
