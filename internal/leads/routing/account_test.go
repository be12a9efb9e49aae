package routing

import (
	"context"
	"testing"

	"leadrouter/internal/leads/repository"
)

type prefixCountingFinder struct {
	*fakeStore
	prefixCalls int
}

func (f *prefixCountingFinder) FindAccountByNamePrefix(ctx context.Context, prefix string) (*repository.Account, error) {
	f.prefixCalls++
	return f.fakeStore.FindAccountByNamePrefix(ctx, prefix)
}

func TestAccountMatcherResolve(t *testing.T) {
	store := newFakeStore()
	store.accounts = []repository.Account{
		{FirmName: "Walleye Capital", Domain: strPtr("walleyecapital.com")},
		{FirmName: "Pine River Capital Management", Domain: strPtr("pinerivercap.com")},
		{FirmName: "Sunshine Capital"},
		{FirmName: "AI Capital Partners"},
		{FirmName: "Capital Group"},
		{FirmName: "Mailbox Partners", Domain: strPtr("gmail.com")},
	}
	matcher := NewAccountMatcher(store)

	cases := []struct {
		name     string
		firmName string
		domain   string
		want     string
	}{
		{name: "domain match", firmName: "Something Else", domain: "walleyecapital.com", want: "Walleye Capital"},
		{name: "domain is case insensitive", firmName: "", domain: "PineRiverCap.com", want: "Pine River Capital Management"},
		{name: "exact name", firmName: "walleye capital", domain: "", want: "Walleye Capital"},
		{name: "two word prefix", firmName: "Pine River", domain: "", want: "Pine River Capital Management"},
		{name: "long single word prefix", firmName: "Sunshine", domain: "", want: "Sunshine Capital"},
		{name: "short name never fuzzy", firmName: "Sun", domain: "", want: ""},
		{name: "two letter name never fuzzy", firmName: "AI", domain: "", want: ""},
		{name: "seven letters one word", firmName: "Capital", domain: "", want: ""},
		{name: "no substring match", firmName: "River Capital", domain: "", want: ""},
		{name: "free mail domain ignored", firmName: "Independent", domain: "gmail.com", want: ""},
		{name: "nothing to match", firmName: "", domain: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			account, err := matcher.Resolve(context.Background(), tc.firmName, tc.domain)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.want == "" {
				if account != nil {
					t.Fatalf("expected no match, got %q", account.FirmName)
				}
				return
			}
			if account == nil {
				t.Fatalf("expected %q, got no match", tc.want)
			}
			if account.FirmName != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, account.FirmName)
			}
		})
	}
}

func TestAccountMatcherSkipsPrefixForShortNames(t *testing.T) {
	store := newFakeStore()
	store.accounts = []repository.Account{{FirmName: "AI Capital Partners"}}
	finder := &prefixCountingFinder{fakeStore: store}

	for _, name := range []string{"AI", "Sun", "Capital"} {
		if _, err := NewAccountMatcher(finder).Resolve(context.Background(), name, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if finder.prefixCalls != 0 {
		t.Fatalf("expected no prefix lookups, got %d", finder.prefixCalls)
	}

	if _, err := NewAccountMatcher(finder).Resolve(context.Background(), "AI Capital", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finder.prefixCalls != 1 {
		t.Fatalf("expected one prefix lookup, got %d", finder.prefixCalls)
	}
}

func TestPrefixEligible(t *testing.T) {
	cases := map[string]bool{
		"AI":         false,
		"Sun":        false,
		"Capital":    false,
		"Sunshine":   true,
		"Pine River": true,
		"A B":        true,
	}
	for name, want := range cases {
		if got := prefixEligible(name); got != want {
			t.Fatalf("prefixEligible(%q) = %v, want %v", name, got, want)
		}
	}
}
