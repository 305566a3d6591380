// Package domain holds the onboarding record variants and the shapes derived
// from them. The variant of a record is decided once at the ingestion boundary
// (event parsing, snapshot partitioning); the rest of the service works with
// typed keys and never re-derives the variant from nullable fields.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ServiceType is the capability category of an onboarding.
type ServiceType string

const (
	// ServiceTypeAIS is account-information access.
	ServiceTypeAIS ServiceType = "AIS"
	// ServiceTypePIS is payment-initiation access.
	ServiceTypePIS ServiceType = "PIS"
)

// ParseServiceType validates s against the closed service type enumeration.
func ParseServiceType(s string) (ServiceType, error) {
	switch ServiceType(s) {
	case ServiceTypeAIS, ServiceTypePIS:
		return ServiceType(s), nil
	}
	return "", fmt.Errorf("unknown service type %q", s)
}

// Kind identifies the onboarding record variant.
type Kind string

const (
	KindGroup          Kind = "group"
	KindClientEndpoint Kind = "client_endpoint"
	KindClientScraping Kind = "client_scraping"
)

// GroupKey uniquely identifies a group-level onboarding.
type GroupKey struct {
	GroupID     uuid.UUID   `json:"groupId"`
	Provider    string      `json:"provider"`
	ServiceType ServiceType `json:"serviceType"`
}

func (k GroupKey) String() string {
	return fmt.Sprintf("group=%s provider=%s service=%s", k.GroupID, k.Provider, k.ServiceType)
}

// ClientKey uniquely identifies a client-level onboarding scoped to one redirect URL.
type ClientKey struct {
	ClientID      uuid.UUID   `json:"clientId"`
	RedirectURLID uuid.UUID   `json:"redirectUrlId"`
	Provider      string      `json:"provider"`
	ServiceType   ServiceType `json:"serviceType"`
}

func (k ClientKey) String() string {
	return fmt.Sprintf("client=%s redirect=%s provider=%s service=%s", k.ClientID, k.RedirectURLID, k.Provider, k.ServiceType)
}

// ScrapingKey uniquely identifies a client-level onboarding for a scraping
// provider, which has no redirect URL concept.
type ScrapingKey struct {
	ClientID    uuid.UUID   `json:"clientId"`
	Provider    string      `json:"provider"`
	ServiceType ServiceType `json:"serviceType"`
}

func (k ScrapingKey) String() string {
	return fmt.Sprintf("client=%s provider=%s service=%s", k.ClientID, k.Provider, k.ServiceType)
}

// GroupOnboarding authorizes a provider for every client in a group.
type GroupOnboarding struct {
	GroupID     uuid.UUID   `json:"groupId"`
	Provider    string      `json:"provider"`
	ServiceType ServiceType `json:"serviceType"`
	CreatedAt   time.Time   `json:"createdAt"`
}

func (o GroupOnboarding) Key() GroupKey {
	return GroupKey{GroupID: o.GroupID, Provider: o.Provider, ServiceType: o.ServiceType}
}

// ClientOnboarding authorizes a provider for one client, restricted to one
// registered redirect URL.
type ClientOnboarding struct {
	ClientID      uuid.UUID
	RedirectURLID uuid.UUID
	Provider      string
	ServiceType   ServiceType
	CreatedAt     time.Time
}

func (o ClientOnboarding) Key() ClientKey {
	return ClientKey{ClientID: o.ClientID, RedirectURLID: o.RedirectURLID, Provider: o.Provider, ServiceType: o.ServiceType}
}

// ScrapingOnboarding authorizes a scraping provider for one client.
type ScrapingOnboarding struct {
	ClientID    uuid.UUID
	Provider    string
	ServiceType ServiceType
	CreatedAt   time.Time
}

func (o ScrapingOnboarding) Key() ScrapingKey {
	return ScrapingKey{ClientID: o.ClientID, Provider: o.Provider, ServiceType: o.ServiceType}
}

// Fact is the unified read model over the client-level variants. RedirectURLID
// is non-nil only for redirect-scoped onboardings; nil means the onboarding is
// not endpoint-restricted. Facts are derived on read and never persisted.
type Fact struct {
	ClientID      uuid.UUID   `json:"clientId"`
	Provider      string      `json:"provider"`
	ServiceType   ServiceType `json:"serviceType"`
	RedirectURLID *uuid.UUID  `json:"redirectUrlId,omitempty"`
}
