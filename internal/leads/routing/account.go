package routing

import (
	"context"
	"strings"
	"unicode/utf8"

	"leadrouter/internal/leads/domain"
	"leadrouter/internal/leads/repository"
)

// minPrefixChars is the shortest single-word firm name allowed to match by
// prefix. Shorter names like "AI" or "Sun" would hit unrelated firms.
const minPrefixChars = 8

// AccountMatcher finds the existing account a lead's firm belongs to.
type AccountMatcher struct {
	finder repository.AccountFinder
}

func NewAccountMatcher(finder repository.AccountFinder) *AccountMatcher {
	return &AccountMatcher{finder: finder}
}

// Resolve tries the email domain, then the exact firm name, then a guarded
// name prefix. It returns nil when no step matches.
func (m *AccountMatcher) Resolve(ctx context.Context, firmName, emailDomain string) (*repository.Account, error) {
	emailDomain = strings.ToLower(strings.TrimSpace(emailDomain))
	if emailDomain != "" && !domain.IsFreeMailDomain(emailDomain) {
		account, err := m.finder.FindAccountByDomain(ctx, emailDomain)
		if err != nil || account != nil {
			return account, err
		}
	}

	name := strings.TrimSpace(firmName)
	if name == "" {
		return nil, nil
	}

	account, err := m.finder.FindAccountByName(ctx, name)
	if err != nil || account != nil {
		return account, err
	}

	if !prefixEligible(name) {
		return nil, nil
	}
	return m.finder.FindAccountByNamePrefix(ctx, name)
}

func prefixEligible(name string) bool {
	return len(strings.Fields(name)) >= 2 || utf8.RuneCountInString(name) >= minPrefixChars
}
