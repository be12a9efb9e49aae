package routing

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"leadrouter/internal/leads/domain"
	"leadrouter/internal/leads/ports"
	"leadrouter/internal/leads/repository"
	"leadrouter/platform/config"

	"github.com/google/uuid"
)

type fakeStore struct {
	mu          sync.Mutex
	leads       map[uuid.UUID]*repository.Lead
	changes     []repository.LeadStatusChange
	accounts    []repository.Account
	territories []repository.Territory
	applyErr    error
	applyCalls  int
	releases    int
	// skipClaim lets every caller through ClaimForRouting so the status
	// guard in ApplyRouting is the only protection.
	skipClaim bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{leads: map[uuid.UUID]*repository.Lead{}}
}

func (s *fakeStore) addLead(l repository.Lead) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Status == "" {
		l.Status = domain.StatusNew
	}
	if l.Country == "" {
		l.Country = domain.DefaultCountry
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	s.leads[l.ID] = &l
	return l.ID
}

func (s *fakeStore) lead(id uuid.UUID) repository.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.leads[id]
}

func (s *fakeStore) changesFor(id uuid.UUID) []repository.LeadStatusChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []repository.LeadStatusChange
	for _, c := range s.changes {
		if c.LeadID == id {
			out = append(out, c)
		}
	}
	return out
}

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return *l, nil
}

func (s *fakeStore) ClaimForRouting(_ context.Context, id uuid.UUID, lease time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.skipClaim {
		return true, nil
	}
	l, ok := s.leads[id]
	if !ok || l.Status != domain.StatusNew {
		return false, nil
	}
	if l.ProcessingStartedAt != nil && time.Since(*l.ProcessingStartedAt) < lease {
		return false, nil
	}
	now := time.Now()
	l.ProcessingStartedAt = &now
	return true, nil
}

func (s *fakeStore) ReleaseClaim(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releases++
	if l, ok := s.leads[id]; ok {
		l.ProcessingStartedAt = nil
	}
	return nil
}

func (s *fakeStore) ApplyRouting(_ context.Context, u repository.RoutingUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyCalls++
	if s.applyErr != nil {
		return s.applyErr
	}
	l, ok := s.leads[u.LeadID]
	if !ok || l.Status != domain.StatusNew {
		return repository.ErrLeadNotNew
	}

	if u.FirmDomain != nil {
		l.FirmDomain = u.FirmDomain
	}
	l.FirmType = u.FirmType
	l.AUM = u.AUM
	l.City = u.City
	l.State = u.State
	l.Country = u.Country
	l.AccountID = u.AccountID
	l.AssignedRepID = u.RepID
	l.TerritoryMatch = u.TerritoryMatch
	l.LeadScore = u.LeadScore
	l.ScoreBreakdown = u.ScoreBreakdown
	l.ResearchInterest = u.ResearchInterest
	l.EnrichmentData = u.EnrichmentData
	now := time.Now()
	if u.EnrichmentData != nil {
		l.EnrichedAt = &now
	}
	if u.RepID != nil {
		l.Status = domain.StatusRouted
		if l.RoutedAt == nil {
			l.RoutedAt = &now
		}
		from := string(domain.StatusNew)
		reason := u.Reason
		s.changes = append(s.changes, repository.LeadStatusChange{
			ID:         uuid.New(),
			LeadID:     u.LeadID,
			FromStatus: &from,
			ToStatus:   string(domain.StatusRouted),
			ChangedBy:  u.Actor,
			Reason:     &reason,
			CreatedAt:  now,
		})
	}
	return nil
}

func (s *fakeStore) ListUnprocessed(_ context.Context, limit int, lease time.Duration) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var candidates []*repository.Lead
	for _, l := range s.leads {
		if l.Status != domain.StatusNew || l.AssignedRepID != nil || l.EnrichedAt != nil {
			continue
		}
		if l.ProcessingStartedAt != nil && time.Since(*l.ProcessingStartedAt) < lease {
			continue
		}
		candidates = append(candidates, l)
	}
	slices.SortFunc(candidates, func(a, b *repository.Lead) int { return a.CreatedAt.Compare(b.CreatedAt) })
	ids := make([]uuid.UUID, 0, len(candidates))
	for _, l := range candidates {
		if len(ids) == limit {
			break
		}
		ids = append(ids, l.ID)
	}
	return ids, nil
}

func (s *fakeStore) FindAccountByDomain(_ context.Context, d string) (*repository.Account, error) {
	return s.findAccount(func(a repository.Account) bool {
		return a.Domain != nil && strings.EqualFold(*a.Domain, d)
	}), nil
}

func (s *fakeStore) FindAccountByName(_ context.Context, name string) (*repository.Account, error) {
	return s.findAccount(func(a repository.Account) bool {
		return strings.EqualFold(a.FirmName, name)
	}), nil
}

func (s *fakeStore) FindAccountByNamePrefix(_ context.Context, prefix string) (*repository.Account, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	return s.findAccount(func(a repository.Account) bool {
		return strings.HasPrefix(strings.ToLower(a.FirmName), prefix)
	}), nil
}

func (s *fakeStore) findAccount(match func(repository.Account) bool) *repository.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if match(a) {
			found := a
			return &found
		}
	}
	return nil
}

func (s *fakeStore) ListTerritoriesWithReps(context.Context) ([]repository.Territory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.territories), nil
}

type fakeEnricher struct {
	profiles map[string]ports.FirmProfile
	err      error
	calls    int
	mu       sync.Mutex
}

func (e *fakeEnricher) EnrichFirm(_ context.Context, d, _ string) (*ports.FirmProfile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	p, ok := e.profiles[d]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type fakeCRM struct {
	mu        sync.Mutex
	upserts   []ports.ContactInput
	lists     []string
	upsertErr error
}

func (c *fakeCRM) UpsertContact(_ context.Context, in ports.ContactInput) (ports.Contact, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.upsertErr != nil {
		return ports.Contact{}, c.upsertErr
	}
	c.upserts = append(c.upserts, in)
	return ports.Contact{ID: "crm-" + in.Email, FirstName: in.FirstName, LastName: in.LastName, Email: in.Email}, nil
}

func (c *fakeCRM) AddToDistributionList(_ context.Context, _ string, listName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists = append(c.lists, listName)
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	alerts []ports.LeadAlert
	err    error
}

func (n *fakeNotifier) SendLeadAlert(_ context.Context, alert ports.LeadAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.alerts = append(n.alerts, alert)
	return nil
}

func (n *fakeNotifier) SendStaleReminder(context.Context, ports.StaleReminder) error { return nil }

func (n *fakeNotifier) SendDailyDigest(context.Context, ports.DailyDigest) error { return nil }

var errCollaboratorDown = errors.New("collaborator down")

func testConfig() *config.Config {
	return &config.Config{
		AppBaseURL:          "https://app.example.com",
		RoutingClaimTTL:     5 * time.Minute,
		ProcessBatchSize:    50,
		EnrichmentTimeout:   time.Second,
		CRMTimeout:          time.Second,
		NotificationTimeout: time.Second,
	}
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func rep(name string) *repository.SalesRep {
	return &repository.SalesRep{ID: uuid.New(), Name: name, Email: strings.ToLower(strings.Fields(name)[0]) + "@analysthub.com", Active: true}
}

func mustParseUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("parse uuid: %v", err)
	}
	return id
}
