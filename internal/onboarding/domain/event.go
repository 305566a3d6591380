package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Operation is the out-of-band tag carried with each incremental event.
type Operation string

const (
	OpGroupAdd     Operation = "GROUP_ADD"
	OpGroupRemove  Operation = "GROUP_REMOVE"
	OpClientAdd    Operation = "CLIENT_ADD"
	OpClientRemove Operation = "CLIENT_REMOVE"
)

// ErrUnknownOperation is returned when an operation tag does not match the
// closed enumeration after normalization.
var ErrUnknownOperation = errors.New("unknown operation tag")

// NormalizeOperationTag strips one layer of surrounding double quotes from raw.
// Some producers still serialize the tag as a JSON string literal (`"\"CLIENT_ADD\""`),
// so a quoted tag must match the same as an unquoted one. Only a single layer
// is stripped, and only when both quotes are present.
func NormalizeOperationTag(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return s
}

// ParseOperation normalizes raw and matches it against the operation enumeration.
func ParseOperation(raw string) (Operation, error) {
	switch op := Operation(NormalizeOperationTag(raw)); op {
	case OpGroupAdd, OpGroupRemove, OpClientAdd, OpClientRemove:
		return op, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOperation, raw)
	}
}

// Event is the flat wire payload of one incremental onboarding event.
// Exactly one of GroupID/ClientID identifies the subject; group-level events
// from legacy producers carry the group id in the clientId field.
type Event struct {
	GroupID       *uuid.UUID `json:"groupId"`
	ClientID      *uuid.UUID `json:"clientId"`
	RedirectURLID *uuid.UUID `json:"endpointId"`
	Provider      string     `json:"provider"`
	ServiceType   string     `json:"serviceType"`
}

// Change is one typed mutation of the onboarding store, built once from a wire
// event. Exactly one of Group/Client/Scraping is meaningful, per Kind.
type Change struct {
	Op       Operation
	Kind     Kind
	Group    GroupKey
	Client   ClientKey
	Scraping ScrapingKey
}

// Remove reports whether the change deletes a record rather than adding one.
func (c Change) Remove() bool {
	return c.Op == OpGroupRemove || c.Op == OpClientRemove
}

// BuildChange resolves the wire event into a typed change for op.
//
// Group-level events read the group id from groupId when set, falling back to
// clientId for legacy producers that reused that field. Client-level events are
// redirect-scoped when endpointId is present and scraping-style otherwise.
func BuildChange(op Operation, ev Event) (Change, error) {
	serviceType, err := ParseServiceType(ev.ServiceType)
	if err != nil {
		return Change{}, err
	}
	if ev.Provider == "" {
		return Change{}, errors.New("event has empty provider")
	}

	switch op {
	case OpGroupAdd, OpGroupRemove:
		groupID := ev.GroupID
		if groupID == nil {
			groupID = ev.ClientID
		}
		if groupID == nil {
			return Change{}, errors.New("group event has neither groupId nor clientId")
		}
		return Change{
			Op:    op,
			Kind:  KindGroup,
			Group: GroupKey{GroupID: *groupID, Provider: ev.Provider, ServiceType: serviceType},
		}, nil

	case OpClientAdd, OpClientRemove:
		if ev.ClientID == nil {
			return Change{}, errors.New("client event has no clientId")
		}
		if ev.RedirectURLID != nil {
			return Change{
				Op:   op,
				Kind: KindClientEndpoint,
				Client: ClientKey{
					ClientID: *ev.ClientID, RedirectURLID: *ev.RedirectURLID,
					Provider: ev.Provider, ServiceType: serviceType,
				},
			}, nil
		}
		return Change{
			Op:       op,
			Kind:     KindClientScraping,
			Scraping: ScrapingKey{ClientID: *ev.ClientID, Provider: ev.Provider, ServiceType: serviceType},
		}, nil

	default:
		return Change{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
}
