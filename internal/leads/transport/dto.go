package transport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Request DTOs
type CreateLeadRequest struct {
	FirstName        string   `json:"firstName" validate:"required,min=1,max=100"`
	LastName         string   `json:"lastName" validate:"required,min=1,max=100"`
	Email            string   `json:"email" validate:"required,email,max=254"`
	Phone            string   `json:"phone,omitempty" validate:"max=40"`
	Title            string   `json:"title,omitempty" validate:"max=200"`
	FirmName         string   `json:"firmName" validate:"required,min=1,max=200"`
	RegistrationType string   `json:"registrationType,omitempty" validate:"max=50"`
	ResearchInterest string   `json:"researchInterest,omitempty" validate:"max=200"`
	Source           string   `json:"source,omitempty" validate:"max=100"`
	City             string   `json:"city,omitempty" validate:"max=100"`
	State            string   `json:"state,omitempty" validate:"max=50"`
	Country          string   `json:"country,omitempty" validate:"max=60"`
	FirmType         string   `json:"firmType,omitempty" validate:"max=50"`
	AUM              *float64 `json:"aum,omitempty" validate:"omitempty,gte=0"`
}

type ListLeadsRequest struct {
	Status    string `form:"status" validate:"omitempty,oneof=NEW ROUTED CONTACTED CONVERTED STALE"`
	Brand     string `form:"brand" validate:"max=100"`
	Territory string `form:"territory" validate:"max=200"`
	RepID     string `form:"repId" validate:"omitempty,uuid"`
	Search    string `form:"search" validate:"max=100"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1"`
	SortBy    string `form:"sortBy" validate:"omitempty,oneof=createdAt updatedAt routedAt firstName lastName firmName email leadScore status researchInterest territoryMatch"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

type UpdateLeadStatusRequest struct {
	Status    string `json:"status" validate:"required,oneof=NEW ROUTED CONTACTED CONVERTED STALE"`
	ChangedBy string `json:"changedBy,omitempty" validate:"max=100"`
	Reason    string `json:"reason,omitempty" validate:"max=500"`
}

// PatchLeadRequest combines a status change, a note and a reassignment.
// Absent fields are left alone.
type PatchLeadRequest struct {
	Status        *string    `json:"status,omitempty" validate:"omitempty,oneof=NEW ROUTED CONTACTED CONVERTED STALE"`
	ChangedBy     string     `json:"changedBy,omitempty" validate:"max=100"`
	Reason        string     `json:"reason,omitempty" validate:"max=500"`
	Note          *string    `json:"note,omitempty" validate:"omitempty,min=1,max=2000"`
	NoteAuthor    string     `json:"noteAuthor,omitempty" validate:"max=100"`
	AssignToRepID *uuid.UUID `json:"assignToRepId,omitempty"`
}

type AddNoteRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
	Author  string `json:"author,omitempty" validate:"max=100"`
}

type AssignLeadRequest struct {
	RepID uuid.UUID `json:"repId" validate:"required"`
	Actor string    `json:"actor,omitempty" validate:"max=100"`
}

type PipelineRequest struct {
	Days   int    `form:"days" validate:"omitempty,min=1,max=365"`
	Status string `form:"status" validate:"omitempty,oneof=NEW ROUTED CONTACTED CONVERTED STALE"`
	Brand  string `form:"brand" validate:"max=100"`
	Search string `form:"search" validate:"max=100"`
}

// Response DTOs
type RepResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type AccountSummaryResponse struct {
	ID       uuid.UUID `json:"id"`
	FirmName string    `json:"firmName"`
	Status   string    `json:"status"`
	Products []string  `json:"products"`
}

type LeadResponse struct {
	ID                    uuid.UUID               `json:"id"`
	FirstName             string                  `json:"firstName"`
	LastName              string                  `json:"lastName"`
	Email                 string                  `json:"email"`
	Phone                 *string                 `json:"phone,omitempty"`
	Title                 *string                 `json:"title,omitempty"`
	FirmName              string                  `json:"firmName"`
	FirmDomain            *string                 `json:"firmDomain,omitempty"`
	RegistrationType      string                  `json:"registrationType"`
	ResearchInterest      string                  `json:"researchInterest"`
	ResearchInterestLabel string                  `json:"researchInterestLabel"`
	Source                *string                 `json:"source,omitempty"`
	City                  *string                 `json:"city,omitempty"`
	State                 *string                 `json:"state,omitempty"`
	Country               string                  `json:"country"`
	FirmType              *string                 `json:"firmType,omitempty"`
	AUM                   *float64                `json:"aum,omitempty"`
	TerritoryMatch        *string                 `json:"territoryMatch,omitempty"`
	LeadScore             int                     `json:"leadScore"`
	ScoreTier             string                  `json:"scoreTier"`
	ScoreBreakdown        json.RawMessage         `json:"scoreBreakdown,omitempty"`
	Status                string                  `json:"status"`
	AssignedRep           *RepResponse            `json:"assignedRep,omitempty"`
	Account               *AccountSummaryResponse `json:"account,omitempty"`
	EnrichmentData        json.RawMessage         `json:"enrichmentData,omitempty"`
	EnrichedAt            *time.Time              `json:"enrichedAt,omitempty"`
	RoutedAt              *time.Time              `json:"routedAt,omitempty"`
	ContactedAt           *time.Time              `json:"contactedAt,omitempty"`
	ConvertedAt           *time.Time              `json:"convertedAt,omitempty"`
	StaleAt               *time.Time              `json:"staleAt,omitempty"`
	CreatedAt             time.Time               `json:"createdAt"`
	UpdatedAt             time.Time               `json:"updatedAt"`
}

type StatusChangeResponse struct {
	ID         uuid.UUID `json:"id"`
	FromStatus *string   `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	ChangedBy  string    `json:"changedBy"`
	Reason     *string   `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type NoteResponse struct {
	ID        uuid.UUID `json:"id"`
	LeadID    uuid.UUID `json:"leadId"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type LeadDetailResponse struct {
	LeadResponse
	AllowedTransitions []string               `json:"allowedTransitions"`
	StatusChanges      []StatusChangeResponse `json:"statusChanges"`
	Notes              []NoteResponse         `json:"notes"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type WebhookAcceptedResponse struct {
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
}

type PipelineLeadResponse struct {
	LeadResponse
	DaysElapsed     int  `json:"daysElapsed"`
	DaysRemaining   int  `json:"daysRemaining"`
	ProgressPercent int  `json:"progressPercent"`
	IsOverdue       bool `json:"isOverdue"`
}

type PipelineSummary struct {
	Total            int            `json:"total"`
	ByStatus         map[string]int `json:"byStatus"`
	Overdue          int            `json:"overdue"`
	AvgDaysToConvert *float64       `json:"avgDaysToConvert"`
}

type PipelineResponse struct {
	Leads   []PipelineLeadResponse `json:"leads"`
	Summary PipelineSummary        `json:"summary"`
}

type KeyCountResponse struct {
	Key   string `json:"key"`
	Label string `json:"label,omitempty"`
	Count int    `json:"count"`
}

type DashboardStatsResponse struct {
	LeadsThisWeek         int                `json:"leadsThisWeek"`
	LeadsThisMonth        int                `json:"leadsThisMonth"`
	ByStatus              map[string]int     `json:"byStatus"`
	ConversionRate        float64            `json:"conversionRate"`
	AvgHoursToContact     *int               `json:"avgHoursToContact"`
	LeadsByBrand          []KeyCountResponse `json:"leadsByBrand"`
	LeadsByTerritory      []KeyCountResponse `json:"leadsByTerritory"`
	ConversionByTerritory []ConversionRow    `json:"conversionByTerritory"`
	ConversionByBrand     []ConversionRow    `json:"conversionByBrand"`
}

type ConversionRow struct {
	Key       string  `json:"key"`
	Label     string  `json:"label,omitempty"`
	Total     int     `json:"total"`
	Converted int     `json:"converted"`
	Rate      float64 `json:"rate"`
}

type DigestResponse struct {
	Date             string         `json:"date"`
	TotalLeads       int            `json:"totalLeads"`
	LeadsByTerritory map[string]int `json:"leadsByTerritory"`
	LeadsByBrand     map[string]int `json:"leadsByBrand"`
	StaleLeads       int            `json:"staleLeads"`
	ConversionRate   float64        `json:"conversionRate"`
	Sent             bool           `json:"sent"`
}
