package ports

import (
	"context"

	"github.com/google/uuid"
)

// ScoreBreakdown mirrors the scoring factors for notification payloads.
type ScoreBreakdown struct {
	ExistingAccount  int
	FirmType         int
	AUMTier          int
	RegistrationType int
	TerritoryMatch   int
	Total            int
}

// LeadAlert tells a rep a lead was routed to them.
type LeadAlert struct {
	RepName           string
	RepEmail          string
	LeadID            uuid.UUID
	LeadName          string
	Title             string
	FirmName          string
	ResearchInterest  string
	LeadScore         int
	ScoreBreakdown    ScoreBreakdown
	IsExistingAccount bool
	DashboardURL      string
}

// StaleLead is one entry in a stale reminder.
type StaleLead struct {
	ID              uuid.UUID
	Name            string
	FirmName        string
	DaysSinceRouted int
	DashboardURL    string
}

// StaleReminder batches every newly staled lead for one rep.
type StaleReminder struct {
	RepName  string
	RepEmail string
	Leads    []StaleLead
}

// DailyDigest summarises the previous day for leadership.
type DailyDigest struct {
	Date             string
	TotalLeads       int
	LeadsByTerritory map[string]int
	LeadsByBrand     map[string]int
	StaleLeads       int
	ConversionRate   float64
}

// Notifier delivers rep and leadership notifications.
type Notifier interface {
	SendLeadAlert(ctx context.Context, alert LeadAlert) error
	SendStaleReminder(ctx context.Context, reminder StaleReminder) error
	SendDailyDigest(ctx context.Context, digest DailyDigest) error
}
