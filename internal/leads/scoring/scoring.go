// Package scoring computes the deterministic 0-100 lead quality score.
package scoring

import "leadrouter/internal/leads/domain"

const maxScore = 100

// Tier labels used by the pipeline view and alert emails.
const (
	TierHot  = "Hot"
	TierWarm = "Warm"
	TierCool = "Cool"
	TierCold = "Cold"
)

// Input holds the routing outcome the score is derived from.
// FirmType and AUM are nil when neither the lead, enrichment nor the
// matched account supplied them.
type Input struct {
	IsExistingAccount bool
	FirmType          *string
	AUM               *float64
	RegistrationType  string
	HasRepAssigned    bool
}

// Breakdown is persisted as JSON on the lead next to the total.
type Breakdown struct {
	ExistingAccount  int `json:"existingAccount"`
	FirmType         int `json:"firmType"`
	AUMTier          int `json:"aumTier"`
	RegistrationType int `json:"registrationType"`
	TerritoryMatch   int `json:"territoryMatch"`
	Total            int `json:"total"`
}

// Sum returns the factor sum before clamping.
func (b Breakdown) Sum() int {
	return b.ExistingAccount + b.FirmType + b.AUMTier + b.RegistrationType + b.TerritoryMatch
}

// Score computes the weighted factors and the clamped total.
func Score(in Input) Breakdown {
	b := Breakdown{
		ExistingAccount:  scoreExistingAccount(in.IsExistingAccount),
		FirmType:         scoreFirmType(in.FirmType),
		AUMTier:          scoreAUM(in.AUM),
		RegistrationType: scoreRegistrationType(in.RegistrationType),
		TerritoryMatch:   scoreRepAssigned(in.HasRepAssigned),
	}
	b.Total = clampScore(b.Sum())
	return b
}

// Tier buckets a score for display.
func Tier(score int) string {
	switch {
	case score >= 75:
		return TierHot
	case score >= 50:
		return TierWarm
	case score >= 25:
		return TierCool
	default:
		return TierCold
	}
}

func scoreExistingAccount(existing bool) int {
	if existing {
		return 25
	}
	return 0
}

// scoreFirmType weights institutional buyers above retail-adjacent firms.
// Unrecognised values still earn the "other" weight.
func scoreFirmType(firmType *string) int {
	if firmType == nil || *firmType == "" {
		return 0
	}
	switch *firmType {
	case domain.FirmHedgeFund, domain.FirmPension:
		return 20
	case domain.FirmAssetManager, domain.FirmEndowment:
		return 18
	case domain.FirmFamilyOffice:
		return 15
	case domain.FirmBank:
		return 12
	case domain.FirmRIA, domain.FirmInsurance:
		return 10
	case domain.FirmCorporate:
		return 5
	default:
		return 3
	}
}

// scoreAUM buckets assets under management, in millions.
func scoreAUM(aum *float64) int {
	if aum == nil {
		return 0
	}
	switch v := *aum; {
	case v >= 10000:
		return 25
	case v >= 5000:
		return 20
	case v >= 1000:
		return 15
	case v >= 500:
		return 10
	case v >= 100:
		return 5
	default:
		return 2
	}
}

func scoreRegistrationType(registrationType string) int {
	switch registrationType {
	case domain.RegistrationTrial:
		return 15
	case domain.RegistrationSampleReport:
		return 12
	case domain.RegistrationWebinar:
		return 10
	case domain.RegistrationNewsletter:
		return 5
	default:
		return 3
	}
}

func scoreRepAssigned(assigned bool) int {
	if assigned {
		return 15
	}
	return 5
}

func clampScore(value int) int {
	if value < 0 {
		return 0
	}
	if value > maxScore {
		return maxScore
	}
	return value
}
