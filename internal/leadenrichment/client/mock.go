package client

import (
	"context"
	"strings"
)

// MockClient serves a fixed catalog of well-known firms. Unknown firms are
// nil rather than synthetic data so scoring stays deterministic.
type MockClient struct {
	firms []FirmProfile
}

// NewMock returns a client over the built-in catalog.
func NewMock() *MockClient {
	return &MockClient{firms: catalog()}
}

// LookupFirm matches by domain first, then by firm name containment in
// either direction.
func (m *MockClient) LookupFirm(_ context.Context, domain, firmName string) (*FirmProfile, error) {
	if d := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "www."); d != "" {
		for i := range m.firms {
			if m.firms[i].Domain != nil && *m.firms[i].Domain == d {
				return clone(m.firms[i]), nil
			}
		}
	}

	name := strings.ToLower(strings.TrimSpace(firmName))
	if name == "" {
		return nil, nil
	}
	for i := range m.firms {
		known := strings.ToLower(m.firms[i].FirmName)
		if strings.Contains(known, name) || strings.Contains(name, known) {
			return clone(m.firms[i]), nil
		}
	}
	return nil, nil
}

func clone(p FirmProfile) *FirmProfile {
	p.SectorFocus = append([]string(nil), p.SectorFocus...)
	return &p
}

func firm(name, domain, firmType string, aum float64, city, state, country string, employees, founded int, description, strategy string, sectors ...string) FirmProfile {
	return FirmProfile{
		FirmName:      name,
		Domain:        &domain,
		FirmType:      &firmType,
		AUM:           &aum,
		City:          &city,
		State:         &state,
		Country:       &country,
		EmployeeCount: &employees,
		Founded:       &founded,
		Description:   &description,
		SectorFocus:   sectors,
		Strategy:      &strategy,
	}
}

func catalog() []FirmProfile {
	return []FirmProfile{
		firm("Logos Global Management", "logosglobal.com", "hedge_fund", 3200, "Chicago", "IL", "US", 45, 2008,
			"Long/short equity hedge fund focused on TMT and industrials", "Long/Short Equity", "technology", "industrials"),
		firm("Pine River Capital Management", "pinerivercap.com", "hedge_fund", 6800, "Minneapolis", "MN", "US", 120, 2002,
			"Multi-strategy hedge fund", "Multi-Strategy", "multi-strategy"),
		firm("Bluefin Capital Partners", "bluefincap.com", "hedge_fund", 1500, "San Francisco", "CA", "US", 22, 2015,
			"Technology-focused hedge fund", "Long/Short Equity", "technology", "media"),
		firm("Walleye Capital", "walleyecapital.com", "hedge_fund", 4500, "Minneapolis", "MN", "US", 200, 2005,
			"Multi-strategy investment firm", "Multi-Strategy", "multi-strategy"),
		firm("Crescent Capital Group", "crescentcap.ca", "asset_manager", 2100, "Toronto", "ON", "CA", 35, 2011,
			"Canadian asset manager focused on energy and resources", "Fundamental Long", "energy", "resources"),
		firm("Granite Point Capital", "granitepoint.com", "family_office", 800, "Los Angeles", "CA", "US", 8, 2018,
			"Single-family office with focus on alternative investments", "Multi-Asset", "alternatives", "real estate"),
		firm("Bay Street Asset Management", "baystreetam.ca", "asset_manager", 5500, "Toronto", "ON", "CA", 85, 1998,
			"Canadian institutional asset manager", "Diversified", "equities", "fixed income"),
		firm("Summit View Partners", "summitviewpartners.com", "asset_manager", 12000, "New York", "NY", "US", 250, 1995,
			"Large-cap equity manager", "Large-Cap Growth", "equities"),
		firm("Peachtree Advisors", "peachtreeadvisors.com", "ria", 450, "Atlanta", "GA", "US", 12, 2014,
			"Registered investment advisor serving HNW clients", "Balanced", "wealth management"),
		firm("Midwest State Pension Fund", "midwestpension.org", "pension", 28000, "Columbus", "OH", "US", 60, 1970,
			"State pension fund for public employees", "Liability-Driven", "diversified"),
	}
}
