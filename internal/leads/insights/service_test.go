package insights

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"leadrouter/internal/leads/domain"
	"leadrouter/internal/leads/ports"
	"leadrouter/internal/leads/repository"
	"leadrouter/internal/leads/transport"
	"leadrouter/platform/config"
	"leadrouter/platform/logger"

	"github.com/google/uuid"
)

type fakeStats struct {
	mu            sync.Mutex
	createdSince  map[time.Time]int
	byStatus      map[string]int
	avgHours      *float64
	byBrand       []repository.KeyCount
	byTerritory   []repository.KeyCount
	convTerritory []repository.ConversionCount
	convBrand     []repository.ConversionCount
	pipeline      []repository.LeadListItem
	pipelineArgs  repository.PipelineParams
	brandSince    []time.Time
	failStatus    bool
}

func (f *fakeStats) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createdSince[since], nil
}

func (f *fakeStats) CountByStatus(context.Context) (map[string]int, error) {
	if f.failStatus {
		return nil, errors.New("db down")
	}
	return f.byStatus, nil
}

func (f *fakeStats) AverageHoursToContact(context.Context) (*float64, error) {
	return f.avgHours, nil
}

func (f *fakeStats) CountByBrand(_ context.Context, since time.Time) ([]repository.KeyCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.brandSince = append(f.brandSince, since)
	return f.byBrand, nil
}

func (f *fakeStats) CountByTerritory(context.Context, time.Time) ([]repository.KeyCount, error) {
	return f.byTerritory, nil
}

func (f *fakeStats) ConversionByTerritory(context.Context) ([]repository.ConversionCount, error) {
	return f.convTerritory, nil
}

func (f *fakeStats) ConversionByBrand(context.Context) ([]repository.ConversionCount, error) {
	return f.convBrand, nil
}

func (f *fakeStats) ListPipeline(_ context.Context, p repository.PipelineParams) ([]repository.LeadListItem, error) {
	f.pipelineArgs = p
	return f.pipeline, nil
}

type fakeNotifier struct {
	digests []ports.DailyDigest
	err     error
}

func (f *fakeNotifier) SendLeadAlert(context.Context, ports.LeadAlert) error { return nil }

func (f *fakeNotifier) SendStaleReminder(context.Context, ports.StaleReminder) error { return nil }

func (f *fakeNotifier) SendDailyDigest(_ context.Context, d ports.DailyDigest) error {
	f.digests = append(f.digests, d)
	return f.err
}

// Wednesday.
var fixedNow = time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)

func newTestService(stats *fakeStats, notifier *fakeNotifier, leadership string) *Service {
	cfg := &config.Config{LeadershipEmail: leadership, NotificationTimeout: time.Second}
	svc := New(stats, notifier, cfg, logger.Discard())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestDashboardStats(t *testing.T) {
	avg := 26.6
	weekStart := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	stats := &fakeStats{
		createdSince: map[time.Time]int{weekStart: 4, monthStart: 11},
		byStatus:     map[string]int{"ROUTED": 5, "CONTACTED": 2, "CONVERTED": 2, "NEW": 1},
		avgHours:     &avg,
		byBrand:      []repository.KeyCount{{Key: "sankey", Count: 6}, {Key: "quantum widgets", Count: 1}},
		byTerritory:  []repository.KeyCount{{Key: "Northeast", Count: 5}},
		convTerritory: []repository.ConversionCount{
			{Key: "Northeast", Total: 4, Converted: 1},
			{Key: "Unassigned", Total: 1, Converted: 0},
		},
		convBrand: []repository.ConversionCount{{Key: "glj", Total: 2, Converted: 2}},
	}
	svc := newTestService(stats, &fakeNotifier{}, "")

	resp, err := svc.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.LeadsThisWeek != 4 || resp.LeadsThisMonth != 11 {
		t.Fatalf("expected week 4 month 11, got %d %d", resp.LeadsThisWeek, resp.LeadsThisMonth)
	}
	if len(resp.ByStatus) != len(domain.AllStatuses) || resp.ByStatus["STALE"] != 0 {
		t.Fatalf("expected every status present, got %v", resp.ByStatus)
	}
	if resp.ConversionRate != 0.2 {
		t.Fatalf("expected conversion rate 0.2, got %v", resp.ConversionRate)
	}
	if resp.AvgHoursToContact == nil || *resp.AvgHoursToContact != 27 {
		t.Fatalf("expected 27 avg hours, got %v", resp.AvgHoursToContact)
	}
	if resp.LeadsByBrand[0].Label != "Sankey (Energy)" || resp.LeadsByBrand[1].Label != "quantum widgets" {
		t.Fatalf("unexpected brand labels: %+v", resp.LeadsByBrand)
	}
	if resp.LeadsByTerritory[0].Label != "" {
		t.Fatalf("territories carry no label, got %+v", resp.LeadsByTerritory[0])
	}
	if resp.ConversionByTerritory[0].Rate != 0.25 || resp.ConversionByTerritory[1].Rate != 0 {
		t.Fatalf("unexpected territory rates: %+v", resp.ConversionByTerritory)
	}
	if resp.ConversionByBrand[0].Label != "GLJ (Solar/EV/Steel)" || resp.ConversionByBrand[0].Rate != 1 {
		t.Fatalf("unexpected brand conversion: %+v", resp.ConversionByBrand)
	}
	if len(stats.brandSince) != 1 || !stats.brandSince[0].IsZero() {
		t.Fatalf("expected all-time brand counts, got %v", stats.brandSince)
	}
}

func TestDashboardStatsEmpty(t *testing.T) {
	svc := newTestService(&fakeStats{}, &fakeNotifier{}, "")

	resp, err := svc.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ConversionRate != 0 || resp.AvgHoursToContact != nil {
		t.Fatalf("expected zero rate and nil avg hours, got %v %v", resp.ConversionRate, resp.AvgHoursToContact)
	}
	if resp.LeadsByBrand == nil || resp.ConversionByTerritory == nil {
		t.Fatal("expected empty slices, not nil")
	}
}

func TestDashboardStatsPropagatesErrors(t *testing.T) {
	svc := newTestService(&fakeStats{failStatus: true}, &fakeNotifier{}, "")
	if _, err := svc.DashboardStats(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestStartOfWeekIsMonday(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"wednesday", fixedNow, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)},
		{"monday", time.Date(2026, 10, 12, 8, 0, 0, 0, time.UTC), time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC), time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := startOfWeek(tt.now); !got.Equal(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	at := func(daysAgo float64) *time.Time {
		v := fixedNow.Add(-time.Duration(daysAgo * 24 * float64(time.Hour)))
		return &v
	}
	tests := []struct {
		name string
		lead repository.Lead
		want LeadProgress
	}{
		{
			name: "new lead has not started",
			lead: repository.Lead{Status: domain.StatusNew},
			want: LeadProgress{DaysRemaining: 7},
		},
		{
			name: "routed partial day rounds up",
			lead: repository.Lead{Status: domain.StatusRouted, RoutedAt: at(2.5)},
			want: LeadProgress{DaysElapsed: 3, DaysRemaining: 4, ProgressPercent: 43},
		},
		{
			name: "exactly at the window is not overdue",
			lead: repository.Lead{Status: domain.StatusContacted, RoutedAt: at(7)},
			want: LeadProgress{DaysElapsed: 7, DaysRemaining: 0, ProgressPercent: 100},
		},
		{
			name: "past the window is overdue and capped",
			lead: repository.Lead{Status: domain.StatusRouted, RoutedAt: at(10)},
			want: LeadProgress{DaysElapsed: 10, DaysRemaining: 0, ProgressPercent: 100, IsOverdue: true},
		},
		{
			name: "converted stops the clock",
			lead: repository.Lead{Status: domain.StatusConverted, RoutedAt: at(20), ConvertedAt: at(16.5)},
			want: LeadProgress{DaysElapsed: 4, DaysRemaining: 0, ProgressPercent: 100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.lead, fixedNow); got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestPipelineSummary(t *testing.T) {
	routed := func(daysAgo int) *time.Time {
		v := fixedNow.AddDate(0, 0, -daysAgo)
		return &v
	}
	converted := func(routedDaysAgo, convertedDaysAgo int) repository.Lead {
		return repository.Lead{
			ID:          uuid.New(),
			Status:      domain.StatusConverted,
			RoutedAt:    routed(routedDaysAgo),
			ConvertedAt: routed(convertedDaysAgo),
			LeadScore:   80,
		}
	}
	stats := &fakeStats{pipeline: []repository.LeadListItem{
		{Lead: repository.Lead{ID: uuid.New(), Status: domain.StatusRouted, RoutedAt: routed(9), LeadScore: 40}},
		{Lead: repository.Lead{ID: uuid.New(), Status: domain.StatusNew, LeadScore: 10}},
		{Lead: converted(10, 7)},
		{Lead: converted(6, 2)},
	}}
	svc := newTestService(stats, &fakeNotifier{}, "")

	resp, err := svc.Pipeline(context.Background(), transport.PipelineRequest{Status: " routed ", Brand: "glj", Search: " acme "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !stats.pipelineArgs.Since.Equal(fixedNow.AddDate(0, 0, -30)) {
		t.Fatalf("expected default 30 day window, got %v", stats.pipelineArgs.Since)
	}
	if stats.pipelineArgs.Status == nil || *stats.pipelineArgs.Status != "ROUTED" {
		t.Fatalf("expected normalized status filter, got %v", stats.pipelineArgs.Status)
	}
	if stats.pipelineArgs.Brand == nil || *stats.pipelineArgs.Brand != "glj" || stats.pipelineArgs.Search != "acme" {
		t.Fatalf("unexpected filters: %+v", stats.pipelineArgs)
	}

	s := resp.Summary
	if s.Total != 4 || s.Overdue != 1 {
		t.Fatalf("expected total 4 overdue 1, got %+v", s)
	}
	if s.ByStatus["CONVERTED"] != 2 || s.ByStatus["NEW"] != 1 || s.ByStatus["STALE"] != 0 {
		t.Fatalf("unexpected status counts: %v", s.ByStatus)
	}
	// (3 + 4) / 2 rounds to 4.
	if s.AvgDaysToConvert == nil || *s.AvgDaysToConvert != 4 {
		t.Fatalf("expected avg days to convert 4, got %v", s.AvgDaysToConvert)
	}
	if resp.Leads[0].ScoreTier != "Cool" || resp.Leads[2].ScoreTier != "Hot" {
		t.Fatalf("unexpected tiers: %s %s", resp.Leads[0].ScoreTier, resp.Leads[2].ScoreTier)
	}
}

func TestPipelineWithoutConversionsHasNilAverage(t *testing.T) {
	svc := newTestService(&fakeStats{}, &fakeNotifier{}, "")

	resp, err := svc.Pipeline(context.Background(), transport.PipelineRequest{Days: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Summary.AvgDaysToConvert != nil {
		t.Fatalf("expected nil average, got %v", *resp.Summary.AvgDaysToConvert)
	}
	if resp.Leads == nil {
		t.Fatal("expected empty leads slice")
	}
}

func TestDailyDigestSendsToLeadership(t *testing.T) {
	since := fixedNow.Add(-24 * time.Hour)
	stats := &fakeStats{
		createdSince: map[time.Time]int{since: 3},
		byStatus:     map[string]int{"ROUTED": 6, "STALE": 2, "CONVERTED": 2},
		byBrand:      []repository.KeyCount{{Key: "sankey", Count: 2}, {Key: "glj", Count: 1}},
		byTerritory:  []repository.KeyCount{{Key: "Central", Count: 3}},
	}
	notifier := &fakeNotifier{}
	svc := newTestService(stats, notifier, "leaders@example.com")

	resp, err := svc.DailyDigest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Sent || len(notifier.digests) != 1 {
		t.Fatalf("expected one sent digest, got sent=%v count=%d", resp.Sent, len(notifier.digests))
	}
	d := notifier.digests[0]
	if d.Date != "2026-10-14" || d.TotalLeads != 3 || d.StaleLeads != 2 {
		t.Fatalf("unexpected digest: %+v", d)
	}
	if d.ConversionRate != 0.2 {
		t.Fatalf("expected 0.2 conversion, got %v", d.ConversionRate)
	}
	if d.LeadsByBrand["sankey"] != 2 || d.LeadsByTerritory["Central"] != 3 {
		t.Fatalf("unexpected breakdowns: %v %v", d.LeadsByBrand, d.LeadsByTerritory)
	}
}

func TestDailyDigestWithoutLeadershipEmailSkipsSend(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(&fakeStats{}, notifier, "")

	resp, err := svc.DailyDigest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Sent || len(notifier.digests) != 0 {
		t.Fatal("expected digest not to be sent")
	}
}

func TestDailyDigestDeliveryFailureIsReported(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	svc := newTestService(&fakeStats{}, notifier, "leaders@example.com")

	resp, err := svc.DailyDigest(context.Background())
	if err != nil {
		t.Fatalf("delivery failure should not fail the job: %v", err)
	}
	if resp.Sent {
		t.Fatal("expected sent=false after delivery failure")
	}
}
