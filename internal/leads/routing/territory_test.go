package routing

import (
	"context"
	"testing"

	"leadrouter/internal/leads/repository"
)

func TestTerritoryMatcherResolve(t *testing.T) {
	ted := rep("Ted McCool")
	lisa := rep("Lisa Rodriguez")
	marcus := rep("Marcus Johnson")
	inactive := rep("Gone Away")
	inactive.Active = false
	north := rep("Nora North")

	territories := []repository.Territory{
		{Name: "Vacant", Regions: []string{"WY", "NV"}, Country: "US"},
		{Name: "Retired", Regions: []string{"NV"}, Country: "US", Rep: inactive},
		{Name: "Midwest + Canada + West Coast", Regions: []string{"IL", "MN", "ON", "BC"}, Country: "US", Rep: ted},
		{Name: "Mountain / Central", Regions: []string{"WY", "NV", "TX"}, Country: "US", Rep: lisa},
		{Name: "Southeast", Regions: []string{"TX", "GA"}, Country: "US", Rep: marcus},
		{Name: "Canada", Regions: []string{"AB"}, Country: "CA", Rep: north},
	}
	store := newFakeStore()
	store.territories = territories
	matcher := NewTerritoryMatcher(store)

	cases := []struct {
		name    string
		region  string
		country string
		want    string
	}{
		{name: "direct match", region: "MN", country: "US", want: "Midwest + Canada + West Coast"},
		{name: "first listed territory wins", region: "TX", country: "US", want: "Mountain / Central"},
		{name: "territory without rep skipped", region: "WY", country: "US", want: "Mountain / Central"},
		{name: "inactive rep still matches", region: "NV", country: "US", want: "Retired"},
		{name: "case and whitespace ignored", region: " ga ", country: "US", want: "Southeast"},
		{name: "province listed explicitly", region: "ON", country: "CA", want: "Midwest + Canada + West Coast"},
		{name: "canadian fallback", region: "QC", country: "CA", want: "Canada"},
		{name: "canadian fallback by name", region: "NS", country: "Canada", want: "Canada"},
		{name: "canadian fallback without region", region: "", country: "ca", want: "Canada"},
		{name: "unknown region", region: "ZZ", country: "US", want: ""},
		{name: "empty region", region: "", country: "US", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			match, err := matcher.Resolve(context.Background(), tc.region, tc.country)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.want == "" {
				if match != nil {
					t.Fatalf("expected no match, got %q", match.TerritoryName)
				}
				return
			}
			if match == nil {
				t.Fatalf("expected %q, got no match", tc.want)
			}
			if match.TerritoryName != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, match.TerritoryName)
			}
		})
	}
}

func TestTerritoryMatcherNoCanadianTerritory(t *testing.T) {
	store := newFakeStore()
	store.territories = []repository.Territory{
		{Name: "Midwest", Regions: []string{"MN"}, Country: "US", Rep: rep("Ted McCool")},
	}

	match, err := NewTerritoryMatcher(store).Resolve(context.Background(), "QC", "CA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match != nil {
		t.Fatalf("expected no match, got %q", match.TerritoryName)
	}
}
