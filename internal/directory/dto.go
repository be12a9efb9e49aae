package directory

import (
	"time"

	"github.com/google/uuid"
)

type RepRefResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type TerritoryResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Regions   []string        `json:"regions"`
	Country   string          `json:"country"`
	Rep       *RepRefResponse `json:"rep"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// UpdateTerritoryRequest changes the rep and/or regions. Unassign clears the
// rep and wins over RepID.
type UpdateTerritoryRequest struct {
	RepID    *uuid.UUID `json:"repId,omitempty"`
	Unassign bool       `json:"unassign,omitempty"`
	Regions  []string   `json:"regions,omitempty" validate:"omitempty,max=100,dive,min=2,max=3,alpha"`
}

type RepCounts struct {
	Leads       int `json:"leads"`
	Territories int `json:"territories"`
	Accounts    int `json:"accounts"`
}

type RepResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Active bool      `json:"active"`
	Counts RepCounts `json:"counts"`
}

type AccountResponse struct {
	ID        uuid.UUID       `json:"id"`
	FirmName  string          `json:"firmName"`
	Domain    *string         `json:"domain,omitempty"`
	Territory *string         `json:"territory,omitempty"`
	Status    string          `json:"status"`
	FirmType  *string         `json:"firmType,omitempty"`
	AUM       *float64        `json:"aum,omitempty"`
	City      *string         `json:"city,omitempty"`
	State     *string         `json:"state,omitempty"`
	Country   *string         `json:"country,omitempty"`
	Products  []string        `json:"products"`
	Rep       *RepRefResponse `json:"rep"`
	LeadCount int             `json:"leadCount"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type UpsertAccountRequest struct {
	FirmName  string     `json:"firmName" validate:"required,min=1,max=200"`
	Domain    string     `json:"domain,omitempty" validate:"omitempty,fqdn,max=253"`
	Territory string     `json:"territory,omitempty" validate:"max=200"`
	RepID     *uuid.UUID `json:"repId,omitempty"`
	Status    string     `json:"status,omitempty" validate:"max=50"`
	FirmType  string     `json:"firmType,omitempty" validate:"max=50"`
	AUM       *float64   `json:"aum,omitempty" validate:"omitempty,gte=0"`
	City      string     `json:"city,omitempty" validate:"max=100"`
	State     string     `json:"state,omitempty" validate:"max=50"`
	Country   string     `json:"country,omitempty" validate:"max=60"`
	Products  []string   `json:"products,omitempty" validate:"omitempty,max=50,dive,min=1,max=100"`
}

type UpsertAccountResponse struct {
	Account AccountResponse `json:"account"`
	Created bool            `json:"created"`
}
