package management

import (
	"leadrouter/internal/leads/domain"
	"leadrouter/internal/leads/repository"
	"leadrouter/internal/leads/scoring"
	"leadrouter/internal/leads/transport"
)

// ToLeadResponse maps a joined lead row to its API shape.
func ToLeadResponse(item repository.LeadListItem) transport.LeadResponse {
	l := item.Lead
	resp := transport.LeadResponse{
		ID:                    l.ID,
		FirstName:             l.FirstName,
		LastName:              l.LastName,
		Email:                 l.Email,
		Phone:                 l.Phone,
		Title:                 l.Title,
		FirmName:              l.FirmName,
		FirmDomain:            l.FirmDomain,
		RegistrationType:      l.RegistrationType,
		ResearchInterest:      l.ResearchInterest,
		ResearchInterestLabel: domain.BrandLabel(l.ResearchInterest),
		Source:                l.Source,
		City:                  l.City,
		State:                 l.State,
		Country:               l.Country,
		FirmType:              l.FirmType,
		AUM:                   l.AUM,
		TerritoryMatch:        l.TerritoryMatch,
		LeadScore:             l.LeadScore,
		ScoreTier:             scoring.Tier(l.LeadScore),
		ScoreBreakdown:        l.ScoreBreakdown,
		Status:                string(l.Status),
		EnrichmentData:        l.EnrichmentData,
		EnrichedAt:            l.EnrichedAt,
		RoutedAt:              l.RoutedAt,
		ContactedAt:           l.ContactedAt,
		ConvertedAt:           l.ConvertedAt,
		StaleAt:               l.StaleAt,
		CreatedAt:             l.CreatedAt,
		UpdatedAt:             l.UpdatedAt,
	}

	if item.Rep != nil {
		resp.AssignedRep = &transport.RepResponse{ID: item.Rep.ID, Name: item.Rep.Name, Email: item.Rep.Email}
	}
	if item.Account != nil {
		products := item.Account.Products
		if products == nil {
			products = []string{}
		}
		resp.Account = &transport.AccountSummaryResponse{
			ID:       item.Account.ID,
			FirmName: item.Account.FirmName,
			Status:   item.Account.Status,
			Products: products,
		}
	}
	return resp
}

func toLeadDetailResponse(detail repository.LeadDetail) transport.LeadDetailResponse {
	resp := transport.LeadDetailResponse{
		LeadResponse:       ToLeadResponse(detail.LeadListItem),
		AllowedTransitions: make([]string, 0),
		StatusChanges:      make([]transport.StatusChangeResponse, 0, len(detail.StatusChanges)),
		Notes:              make([]transport.NoteResponse, 0, len(detail.Notes)),
	}
	for _, next := range domain.NextStatuses(detail.Status) {
		resp.AllowedTransitions = append(resp.AllowedTransitions, string(next))
	}
	for _, c := range detail.StatusChanges {
		resp.StatusChanges = append(resp.StatusChanges, transport.StatusChangeResponse{
			ID:         c.ID,
			FromStatus: c.FromStatus,
			ToStatus:   c.ToStatus,
			ChangedBy:  c.ChangedBy,
			Reason:     c.Reason,
			CreatedAt:  c.CreatedAt,
		})
	}
	for _, n := range detail.Notes {
		resp.Notes = append(resp.Notes, toNoteResponse(n))
	}
	return resp
}

func toNoteResponse(n repository.LeadNote) transport.NoteResponse {
	return transport.NoteResponse{
		ID:        n.ID,
		LeadID:    n.LeadID,
		Author:    n.Author,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
	}
}
