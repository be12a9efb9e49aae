package scoring

import (
	"testing"

	"leadrouter/internal/leads/domain"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestScoreScenarios(t *testing.T) {
	cases := []struct {
		name string
		in   Input
		want Breakdown
	}{
		{
			name: "existing hedge fund trial",
			in: Input{
				IsExistingAccount: true,
				FirmType:          strPtr(domain.FirmHedgeFund),
				AUM:               floatPtr(4500),
				RegistrationType:  domain.RegistrationTrial,
				HasRepAssigned:    true,
			},
			want: Breakdown{ExistingAccount: 25, FirmType: 20, AUMTier: 15, RegistrationType: 15, TerritoryMatch: 15, Total: 90},
		},
		{
			name: "unknown newsletter prospect with territory rep",
			in: Input{
				RegistrationType: domain.RegistrationNewsletter,
				HasRepAssigned:   true,
			},
			want: Breakdown{RegistrationType: 5, TerritoryMatch: 15, Total: 20},
		},
		{
			name: "unrouted unknown registration",
			in:   Input{RegistrationType: "conference"},
			want: Breakdown{RegistrationType: 3, TerritoryMatch: 5, Total: 8},
		},
		{
			name: "small aum and unknown firm type",
			in: Input{
				FirmType:         strPtr("crypto_fund"),
				AUM:              floatPtr(50),
				RegistrationType: domain.RegistrationWebinar,
			},
			want: Breakdown{FirmType: 3, AUMTier: 2, RegistrationType: 10, TerritoryMatch: 5, Total: 20},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.in)
			if got != tc.want {
				t.Fatalf("Score() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestScoreTotalBoundedAndEqualsSum(t *testing.T) {
	firmTypes := []*string{
		nil,
		strPtr(domain.FirmHedgeFund), strPtr(domain.FirmPension), strPtr(domain.FirmAssetManager),
		strPtr(domain.FirmEndowment), strPtr(domain.FirmFamilyOffice), strPtr(domain.FirmBank),
		strPtr(domain.FirmRIA), strPtr(domain.FirmInsurance), strPtr(domain.FirmCorporate),
		strPtr(domain.FirmOther), strPtr("unknown"),
	}
	aums := []*float64{nil, floatPtr(0), floatPtr(99), floatPtr(100), floatPtr(500), floatPtr(1000), floatPtr(5000), floatPtr(10000), floatPtr(250000)}
	registrations := []string{
		domain.RegistrationTrial, domain.RegistrationSampleReport, domain.RegistrationWebinar,
		domain.RegistrationNewsletter, domain.RegistrationOther, "",
	}

	for _, existing := range []bool{true, false} {
		for _, assigned := range []bool{true, false} {
			for _, ft := range firmTypes {
				for _, aum := range aums {
					for _, reg := range registrations {
						b := Score(Input{
							IsExistingAccount: existing,
							FirmType:          ft,
							AUM:               aum,
							RegistrationType:  reg,
							HasRepAssigned:    assigned,
						})
						if b.Total < 0 || b.Total > 100 {
							t.Fatalf("total out of range: %+v", b)
						}
						sum := b.Sum()
						if sum <= 100 && b.Total != sum {
							t.Fatalf("total %d does not equal factor sum %d", b.Total, sum)
						}
						if sum > 100 && b.Total != 100 {
							t.Fatalf("expected clamp to 100, got %d", b.Total)
						}
					}
				}
			}
		}
	}
}

func TestTier(t *testing.T) {
	cases := map[int]string{0: TierCold, 24: TierCold, 25: TierCool, 49: TierCool, 50: TierWarm, 74: TierWarm, 75: TierHot, 100: TierHot}
	for score, want := range cases {
		if got := Tier(score); got != want {
			t.Fatalf("Tier(%d) = %s, want %s", score, got, want)
		}
	}
}
