package service

import "provider-onboarding/backend/internal/onboarding/domain"

// DiffReport lists, per variant, the keys one reconciliation removed and added.
// It is a pure value: the reconciler returns it and callers decide how to
// surface it (logs, HTTP response). A dry run returns the report the commit
// would have produced.
type DiffReport struct {
	Groups   GroupDiff    `json:"groups"`
	Clients  ClientDiff   `json:"clients"`
	Scraping ScrapingDiff `json:"scraping"`
}

type GroupDiff struct {
	Removed []domain.GroupKey `json:"removed"`
	Added   []domain.GroupKey `json:"added"`
}

type ClientDiff struct {
	Removed []domain.ClientKey `json:"removed"`
	Added   []domain.ClientKey `json:"added"`
}

type ScrapingDiff struct {
	Removed []domain.ScrapingKey `json:"removed"`
	Added   []domain.ScrapingKey `json:"added"`
}

// Empty reports whether the reconciliation changed nothing.
func (d *DiffReport) Empty() bool {
	return len(d.Groups.Removed) == 0 && len(d.Groups.Added) == 0 &&
		len(d.Clients.Removed) == 0 && len(d.Clients.Added) == 0 &&
		len(d.Scraping.Removed) == 0 && len(d.Scraping.Added) == 0
}

// diffKeys computes the symmetric difference of two key sets: keys only in
// before are removed, keys only in after are added.
func diffKeys[K comparable](before, after []K) (removed, added []K) {
	beforeSet := make(map[K]struct{}, len(before))
	for _, k := range before {
		beforeSet[k] = struct{}{}
	}
	afterSet := make(map[K]struct{}, len(after))
	for _, k := range after {
		afterSet[k] = struct{}{}
	}
	for _, k := range before {
		if _, ok := afterSet[k]; !ok {
			removed = append(removed, k)
		}
	}
	for _, k := range after {
		if _, ok := beforeSet[k]; !ok {
			added = append(added, k)
		}
	}
	return removed, added
}
