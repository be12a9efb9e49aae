package repository

import (
	"encoding/json"
	"time"

	"leadrouter/internal/leads/domain"

	"github.com/google/uuid"
)

type Lead struct {
	ID                  uuid.UUID
	FirstName           string
	LastName            string
	Email               string
	Phone               *string
	Title               *string
	FirmName            string
	FirmDomain          *string
	RegistrationType    string
	ResearchInterest    string
	Source              *string
	City                *string
	State               *string
	Country             string
	FirmType            *string
	AUM                 *float64
	AccountID           *uuid.UUID
	AssignedRepID       *uuid.UUID
	TerritoryMatch      *string
	LeadScore           int
	ScoreBreakdown      json.RawMessage
	Status              domain.LeadStatus
	RoutedAt            *time.Time
	ContactedAt         *time.Time
	ConvertedAt         *time.Time
	StaleAt             *time.Time
	EnrichmentData      json.RawMessage
	EnrichedAt          *time.Time
	ProcessingStartedAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// FullName joins first and last name.
func (l Lead) FullName() string {
	return l.FirstName + " " + l.LastName
}

type CreateLeadParams struct {
	FirstName        string
	LastName         string
	Email            string
	Phone            *string
	Title            *string
	FirmName         string
	RegistrationType string
	ResearchInterest string
	Source           *string
	City             *string
	State            *string
	Country          string
	FirmType         *string
	AUM              *float64
}

// RoutingUpdate carries everything the routing pipeline resolved for one
// lead. RepID nil leaves the lead NEW and writes no status change.
type RoutingUpdate struct {
	LeadID           uuid.UUID
	FirmDomain       *string
	FirmType         *string
	AUM              *float64
	City             *string
	State            *string
	Country          string
	AccountID        *uuid.UUID
	RepID            *uuid.UUID
	TerritoryMatch   *string
	LeadScore        int
	ScoreBreakdown   json.RawMessage
	ResearchInterest string
	EnrichmentData   json.RawMessage
	Actor            string
	Reason           string
}

type TransitionParams struct {
	LeadID uuid.UUID
	From   domain.LeadStatus
	To     domain.LeadStatus
	Actor  string
	Reason *string
}

type LeadStatusChange struct {
	ID         uuid.UUID
	LeadID     uuid.UUID
	FromStatus *string
	ToStatus   string
	ChangedBy  string
	Reason     *string
	CreatedAt  time.Time
}

type LeadNote struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	Author    string
	Content   string
	CreatedAt time.Time
}

type SalesRep struct {
	ID     uuid.UUID
	Name   string
	Email  string
	Active bool
}

type RepSummary struct {
	ID    uuid.UUID
	Name  string
	Email string
}

type AccountSummary struct {
	ID       uuid.UUID
	FirmName string
	Status   string
	Products []string
}

type Account struct {
	ID        uuid.UUID
	FirmName  string
	Domain    *string
	Territory *string
	RepID     *uuid.UUID
	Status    string
	FirmType  *string
	AUM       *float64
	City      *string
	State     *string
	Country   *string
	Products  []string
	Rep       *SalesRep
}

type Territory struct {
	ID      uuid.UUID
	Name    string
	Regions []string
	Country string
	Rep     *SalesRep
}

// LeadListItem is a lead with its rep and account summaries joined in.
type LeadListItem struct {
	Lead
	Rep     *RepSummary
	Account *AccountSummary
}

// LeadDetail is a lead with its full history, newest first.
type LeadDetail struct {
	LeadListItem
	StatusChanges []LeadStatusChange
	Notes         []LeadNote
}

type ListParams struct {
	Status    *string
	Brand     *string
	Territory *string
	RepID     *uuid.UUID
	Search    string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

type PipelineParams struct {
	Since  time.Time
	Status *string
	Brand  *string
	Search string
}

// StaleCandidate is a ROUTED lead past the stale cutoff.
type StaleCandidate struct {
	LeadID    uuid.UUID
	FirstName string
	LastName  string
	FirmName  string
	RoutedAt  time.Time
	RepID     *uuid.UUID
	RepName   *string
	RepEmail  *string
}

type KeyCount struct {
	Key   string
	Count int
}

type ConversionCount struct {
	Key       string
	Total     int
	Converted int
}
