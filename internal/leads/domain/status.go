package domain

import "fmt"

// LeadStatus is the lifecycle state of a lead.
type LeadStatus string

const (
	StatusNew       LeadStatus = "NEW"
	StatusRouted    LeadStatus = "ROUTED"
	StatusContacted LeadStatus = "CONTACTED"
	StatusConverted LeadStatus = "CONVERTED"
	StatusStale     LeadStatus = "STALE"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []LeadStatus{
	StatusNew,
	StatusRouted,
	StatusContacted,
	StatusConverted,
	StatusStale,
}

// STALE is revivable; CONVERTED is terminal.
var validTransitions = map[LeadStatus][]LeadStatus{
	StatusNew:       {StatusRouted, StatusStale},
	StatusRouted:    {StatusContacted, StatusStale},
	StatusContacted: {StatusConverted, StatusStale},
	StatusConverted: {},
	StatusStale:     {StatusRouted, StatusContacted},
}

// ParseLeadStatus validates a raw status string.
func ParseLeadStatus(raw string) (LeadStatus, error) {
	status := LeadStatus(raw)
	if _, ok := validTransitions[status]; !ok {
		return "", fmt.Errorf("unknown lead status %q", raw)
	}
	return status, nil
}

// IsValid reports whether s is a known status.
func (s LeadStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransition reports whether the lifecycle graph allows from -> to.
func CanTransition(from, to LeadStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s.
func NextStatuses(s LeadStatus) []LeadStatus {
	next := validTransitions[s]
	out := make([]LeadStatus, len(next))
	copy(out, next)
	return out
}
