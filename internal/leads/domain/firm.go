package domain

import "strings"

// Registration types accepted on intake.
const (
	RegistrationTrial        = "trial"
	RegistrationSampleReport = "sample_report"
	RegistrationWebinar      = "webinar"
	RegistrationNewsletter   = "newsletter"
	RegistrationOther        = "other"
)

// Firm types used by enrichment and scoring.
const (
	FirmHedgeFund    = "hedge_fund"
	FirmAssetManager = "asset_manager"
	FirmFamilyOffice = "family_office"
	FirmPension      = "pension"
	FirmEndowment    = "endowment"
	FirmRIA          = "ria"
	FirmBank         = "bank"
	FirmInsurance    = "insurance"
	FirmCorporate    = "corporate"
	FirmOther        = "other"
)

const (
	DefaultCountry          = "US"
	DefaultRegistrationType = RegistrationOther
	DefaultResearchInterest = "unknown"
	SystemActor             = "system"
)

var freeMailDomains = map[string]struct{}{
	"gmail.com":      {},
	"yahoo.com":      {},
	"hotmail.com":    {},
	"outlook.com":    {},
	"aol.com":        {},
	"icloud.com":     {},
	"mail.com":       {},
	"protonmail.com": {},
	"live.com":       {},
	"msn.com":        {},
}

// IsFreeMailDomain reports whether domain belongs to a consumer mail provider.
func IsFreeMailDomain(domain string) bool {
	_, ok := freeMailDomains[strings.ToLower(strings.TrimSpace(domain))]
	return ok
}

// EmailDomain returns the lower-cased part after '@', or "".
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[at+1:]))
}

// FirmDomain returns the email domain when it can identify a firm.
func FirmDomain(email string) string {
	domain := EmailDomain(email)
	if domain == "" || IsFreeMailDomain(domain) {
		return ""
	}
	return domain
}
