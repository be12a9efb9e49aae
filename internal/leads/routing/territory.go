package routing

import (
	"context"
	"slices"
	"strings"

	"leadrouter/internal/leads/repository"

	"github.com/google/uuid"
)

// TerritoryMatch is the territory and rep a region resolved to.
type TerritoryMatch struct {
	TerritoryID   uuid.UUID
	TerritoryName string
	Rep           repository.SalesRep
}

// TerritoryMatcher resolves a region code to the first territory that
// covers it and has a rep assigned. The rep's active flag is not consulted.
type TerritoryMatcher struct {
	territories repository.TerritoryLister
}

func NewTerritoryMatcher(territories repository.TerritoryLister) *TerritoryMatcher {
	return &TerritoryMatcher{territories: territories}
}

// Resolve returns nil when nothing matches. Canadian leads whose province no
// territory lists fall back to the first Canadian territory with a rep.
func (m *TerritoryMatcher) Resolve(ctx context.Context, regionCode, countryCode string) (*TerritoryMatch, error) {
	territories, err := m.territories.ListTerritoriesWithReps(ctx)
	if err != nil {
		return nil, err
	}

	region := strings.ToUpper(strings.TrimSpace(regionCode))
	if region != "" {
		for _, t := range territories {
			if t.Rep != nil && slices.Contains(t.Regions, region) {
				return newTerritoryMatch(t), nil
			}
		}
	}

	if isCanada(countryCode) {
		for _, t := range territories {
			if t.Rep != nil && strings.EqualFold(t.Country, "CA") {
				return newTerritoryMatch(t), nil
			}
		}
	}

	return nil, nil
}

func newTerritoryMatch(t repository.Territory) *TerritoryMatch {
	return &TerritoryMatch{TerritoryID: t.ID, TerritoryName: t.Name, Rep: *t.Rep}
}

func isCanada(countryCode string) bool {
	switch strings.ToUpper(strings.TrimSpace(countryCode)) {
	case "CA", "CANADA":
		return true
	default:
		return false
	}
}
