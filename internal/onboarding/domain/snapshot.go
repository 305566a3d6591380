package domain

import "github.com/google/uuid"

// SnapshotRecord is one flat row of the upstream full snapshot.
type SnapshotRecord struct {
	GroupID       *uuid.UUID `json:"groupId"`
	ClientID      *uuid.UUID `json:"clientId"`
	Provider      string     `json:"provider"`
	ServiceType   string     `json:"serviceType"`
	RedirectURLID *uuid.UUID `json:"endpointId"`
}

// PartitionedSnapshot is the snapshot split into the three variants' key sets.
type PartitionedSnapshot struct {
	Groups   []GroupKey
	Clients  []ClientKey
	Scraping []ScrapingKey
}

// SkippedRecord is a snapshot record that could not be classified, with the reason.
type SkippedRecord struct {
	Record SnapshotRecord
	Reason string
}

// PartitionSnapshot classifies each record into a variant: a record with a
// group id is group-level; otherwise a record with an endpoint id is
// redirect-scoped client-level; otherwise it is scraping-style client-level.
// Records that fit no variant or carry an invalid provider/service type are
// returned as skipped, never dropped silently.
func PartitionSnapshot(records []SnapshotRecord) (PartitionedSnapshot, []SkippedRecord) {
	var out PartitionedSnapshot
	var skipped []SkippedRecord

	for _, rec := range records {
		serviceType, err := ParseServiceType(rec.ServiceType)
		if err != nil {
			skipped = append(skipped, SkippedRecord{Record: rec, Reason: err.Error()})
			continue
		}
		if rec.Provider == "" {
			skipped = append(skipped, SkippedRecord{Record: rec, Reason: "empty provider"})
			continue
		}

		switch {
		case rec.GroupID != nil:
			out.Groups = append(out.Groups, GroupKey{
				GroupID: *rec.GroupID, Provider: rec.Provider, ServiceType: serviceType,
			})
		case rec.ClientID == nil:
			skipped = append(skipped, SkippedRecord{Record: rec, Reason: "record has neither groupId nor clientId"})
		case rec.RedirectURLID != nil:
			out.Clients = append(out.Clients, ClientKey{
				ClientID: *rec.ClientID, RedirectURLID: *rec.RedirectURLID,
				Provider: rec.Provider, ServiceType: serviceType,
			})
		default:
			out.Scraping = append(out.Scraping, ScrapingKey{
				ClientID: *rec.ClientID, Provider: rec.Provider, ServiceType: serviceType,
			})
		}
	}
	return out, skipped
}
