package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Brand is an affiliate research brand.
type Brand struct {
	Slug   string
	Name   string
	Sector string
}

var brands = map[string]Brand{
	"cannonball":  {Slug: "cannonball", Name: "Cannonball", Sector: "Adtech"},
	"fermium":     {Slug: "fermium", Name: "Fermium", Sector: "Chemicals"},
	"fftt":        {Slug: "fftt", Name: "FFTT", Sector: "Macro"},
	"glj":         {Slug: "glj", Name: "GLJ", Sector: "Solar/EV/Steel"},
	"hjones":      {Slug: "hjones", Name: "HJones", Sector: "Agriculture"},
	"ironadvisor": {Slug: "ironadvisor", Name: "IronAdvisor", Sector: "Industrials"},
	"lightshed":   {Slug: "lightshed", Name: "LightShed", Sector: "Media/Telecom"},
	"optimal":     {Slug: "optimal", Name: "Optimal", Sector: "Consumer"},
	"rubinson":    {Slug: "rubinson", Name: "Rubinson", Sector: "Consumer"},
	"sankey":      {Slug: "sankey", Name: "Sankey", Sector: "Energy"},
	"schneider":   {Slug: "schneider", Name: "Schneider", Sector: "Energy"},
}

type brandKeyword struct {
	keyword string
	slug    string
}

// Scanned in order; the first keyword contained in the input wins.
// "consumer" resolves to optimal and "energy"/"oil"/"gas" to sankey even
// though rubinson and schneider cover the same sectors.
var brandKeywords = []brandKeyword{
	{"cannonball", "cannonball"},
	{"fermium", "fermium"},
	{"fftt", "fftt"},
	{"glj", "glj"},
	{"hjones", "hjones"},
	{"ironadvisor", "ironadvisor"},
	{"lightshed", "lightshed"},
	{"optimal", "optimal"},
	{"rubinson", "rubinson"},
	{"sankey", "sankey"},
	{"schneider", "schneider"},

	{"adtech", "cannonball"},
	{"ad tech", "cannonball"},
	{"advertising", "cannonball"},
	{"chemicals", "fermium"},
	{"chemical", "fermium"},
	{"macro", "fftt"},
	{"macroeconomic", "fftt"},
	{"solar", "glj"},
	{"ev", "glj"},
	{"electric vehicle", "glj"},
	{"steel", "glj"},
	{"agriculture", "hjones"},
	{"farming", "hjones"},
	{"agri", "hjones"},
	{"industrials", "ironadvisor"},
	{"industrial", "ironadvisor"},
	{"media", "lightshed"},
	{"telecom", "lightshed"},
	{"telecommunications", "lightshed"},
	{"consumer", "optimal"},
	{"energy", "sankey"},
	{"oil", "sankey"},
	{"gas", "sankey"},
	{"oil & gas", "sankey"},
	{"utilities", "schneider"},
	{"power", "schneider"},
}

var lowerCaser = cases.Lower(language.Und)

// MatchBrand maps a free-text research interest to a brand slug.
func MatchBrand(text string) (string, bool) {
	normalized := strings.TrimSpace(lowerCaser.String(text))
	if normalized == "" {
		return "", false
	}
	if _, ok := brands[normalized]; ok {
		return normalized, true
	}
	for _, kw := range brandKeywords {
		if strings.Contains(normalized, kw.keyword) {
			return kw.slug, true
		}
	}
	return "", false
}

// ResolveInterest returns the brand slug for text, or text itself when no
// brand matches.
func ResolveInterest(text string) string {
	if slug, ok := MatchBrand(text); ok {
		return slug
	}
	return text
}

// BrandLabel renders "Name (Sector)" for a known slug and the raw value
// otherwise.
func BrandLabel(slug string) string {
	b, ok := brands[slug]
	if !ok {
		return slug
	}
	return b.Name + " (" + b.Sector + ")"
}

// LookupBrand returns the brand for slug.
func LookupBrand(slug string) (Brand, bool) {
	b, ok := brands[slug]
	return b, ok
}
