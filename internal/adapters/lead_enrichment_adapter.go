package adapters

import (
	"context"

	"leadrouter/internal/leadenrichment/service"
	"leadrouter/internal/leads/ports"
)

// LeadEnrichmentAdapter adapts the enrichment service for the leads domain.
type LeadEnrichmentAdapter struct {
	svc *service.Service
}

// NewLeadEnrichmentAdapter wraps the enrichment service. It returns nil when
// the service is nil (disabled) so the router skips enrichment.
func NewLeadEnrichmentAdapter(svc *service.Service) ports.FirmEnricher {
	if svc == nil {
		return nil
	}
	return &LeadEnrichmentAdapter{svc: svc}
}

// EnrichFirm looks up a firm by domain and name.
func (a *LeadEnrichmentAdapter) EnrichFirm(ctx context.Context, domain, firmName string) (*ports.FirmProfile, error) {
	p, err := a.svc.Enrich(ctx, domain, firmName)
	if err != nil || p == nil {
		return nil, err
	}

	return &ports.FirmProfile{
		FirmName:      p.FirmName,
		Domain:        p.Domain,
		FirmType:      p.FirmType,
		AUM:           p.AUM,
		City:          p.City,
		State:         p.State,
		Country:       p.Country,
		EmployeeCount: p.EmployeeCount,
		Founded:       p.Founded,
		Description:   p.Description,
		SectorFocus:   p.SectorFocus,
		Strategy:      p.Strategy,
	}, nil
}

// Compile-time check.
var _ ports.FirmEnricher = (*LeadEnrichmentAdapter)(nil)
