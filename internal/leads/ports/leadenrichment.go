package ports

import "context"

// FirmProfile is firmographic data for one firm. It is stored on the lead
// as the enrichment snapshot.
type FirmProfile struct {
	FirmName      string   `json:"firmName"`
	Domain        *string  `json:"domain,omitempty"`
	FirmType      *string  `json:"firmType,omitempty"`
	AUM           *float64 `json:"aum,omitempty"`
	City          *string  `json:"city,omitempty"`
	State         *string  `json:"state,omitempty"`
	Country       *string  `json:"country,omitempty"`
	EmployeeCount *int     `json:"employeeCount,omitempty"`
	Founded       *int     `json:"founded,omitempty"`
	Description   *string  `json:"description,omitempty"`
	SectorFocus   []string `json:"sectorFocus,omitempty"`
	Strategy      *string  `json:"strategy,omitempty"`
}

// FirmEnricher looks up a firm by domain and name. A nil profile with a nil
// error means the firm is unknown.
type FirmEnricher interface {
	EnrichFirm(ctx context.Context, domain, firmName string) (*FirmProfile, error)
}
