// Package insights computes dashboard aggregates, the conversion pipeline view
// and the leadership digest.
package insights

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"leadrouter/internal/leads/domain"
	"leadrouter/internal/leads/management"
	"leadrouter/internal/leads/ports"
	"leadrouter/internal/leads/repository"
	"leadrouter/internal/leads/transport"
	"leadrouter/platform/config"
	"leadrouter/platform/logger"

	"golang.org/x/sync/errgroup"
)

const (
	defaultPipelineDays = 30
	// ConversionWindowDays is how long a routed lead has to convert before it
	// shows as overdue in the pipeline.
	ConversionWindowDays = 7
	digestDateLayout     = "2006-01-02"
)

// Service reads aggregates for the dashboard, pipeline and digest.
type Service struct {
	stats    repository.StatsReader
	notifier ports.Notifier
	cfg      config.InsightsConfig
	log      *logger.Logger
	now      func() time.Time
}

func New(stats repository.StatsReader, notifier ports.Notifier, cfg config.InsightsConfig, log *logger.Logger) *Service {
	return &Service{
		stats:    stats,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// DashboardStats gathers headline counts and conversion metrics. The
// queries are independent and run concurrently.
func (s *Service) DashboardStats(ctx context.Context) (transport.DashboardStatsResponse, error) {
	now := s.now()

	var (
		week, month     int
		byStatus        map[string]int
		avgHours        *float64
		byBrand, byTerr []repository.KeyCount
		convTerr        []repository.ConversionCount
		convBrand       []repository.ConversionCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		week, err = s.stats.CountCreatedSince(gctx, startOfWeek(now))
		return err
	})
	g.Go(func() (err error) {
		month, err = s.stats.CountCreatedSince(gctx, startOfMonth(now))
		return err
	})
	g.Go(func() (err error) {
		byStatus, err = s.stats.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		avgHours, err = s.stats.AverageHoursToContact(gctx)
		return err
	})
	g.Go(func() (err error) {
		byBrand, err = s.stats.CountByBrand(gctx, time.Time{})
		return err
	})
	g.Go(func() (err error) {
		byTerr, err = s.stats.CountByTerritory(gctx, time.Time{})
		return err
	})
	g.Go(func() (err error) {
		convTerr, err = s.stats.ConversionByTerritory(gctx)
		return err
	})
	g.Go(func() (err error) {
		convBrand, err = s.stats.ConversionByBrand(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.DashboardStatsResponse{}, fmt.Errorf("dashboard stats: %w", err)
	}

	statusCounts := fillStatuses(byStatus)
	resp := transport.DashboardStatsResponse{
		LeadsThisWeek:         week,
		LeadsThisMonth:        month,
		ByStatus:              statusCounts,
		ConversionRate:        conversionRate(statusCounts),
		LeadsByBrand:          toKeyCounts(byBrand, domain.BrandLabel),
		LeadsByTerritory:      toKeyCounts(byTerr, nil),
		ConversionByTerritory: toConversionRows(convTerr, nil),
		ConversionByBrand:     toConversionRows(convBrand, domain.BrandLabel),
	}
	if avgHours != nil {
		rounded := int(math.Round(*avgHours))
		resp.AvgHoursToContact = &rounded
	}
	return resp, nil
}

// Pipeline lists recent leads with their progress through the conversion
// window.
func (s *Service) Pipeline(ctx context.Context, req transport.PipelineRequest) (transport.PipelineResponse, error) {
	days := req.Days
	if days <= 0 {
		days = defaultPipelineDays
	}
	now := s.now()

	params := repository.PipelineParams{
		Since:  now.AddDate(0, 0, -days),
		Search: strings.TrimSpace(req.Search),
	}
	if status := strings.ToUpper(strings.TrimSpace(req.Status)); status != "" {
		params.Status = &status
	}
	if brand := strings.TrimSpace(req.Brand); brand != "" {
		params.Brand = &brand
	}

	items, err := s.stats.ListPipeline(ctx, params)
	if err != nil {
		return transport.PipelineResponse{}, fmt.Errorf("list pipeline: %w", err)
	}

	leads := make([]transport.PipelineLeadResponse, 0, len(items))
	summary := transport.PipelineSummary{
		Total:    len(items),
		ByStatus: fillStatuses(nil),
	}
	convertedDays, converted := 0, 0
	for _, item := range items {
		p := Progress(item.Lead, now)
		leads = append(leads, transport.PipelineLeadResponse{
			LeadResponse:    management.ToLeadResponse(item),
			DaysElapsed:     p.DaysElapsed,
			DaysRemaining:   p.DaysRemaining,
			ProgressPercent: p.ProgressPercent,
			IsOverdue:       p.IsOverdue,
		})
		summary.ByStatus[string(item.Status)]++
		if p.IsOverdue {
			summary.Overdue++
		}
		if item.Status == domain.StatusConverted {
			converted++
			convertedDays += p.DaysElapsed
		}
	}
	if converted > 0 {
		avg := math.Round(float64(convertedDays) / float64(converted))
		summary.AvgDaysToConvert = &avg
	}

	return transport.PipelineResponse{Leads: leads, Summary: summary}, nil
}

// LeadProgress is a lead's position in the conversion window.
type LeadProgress struct {
	DaysElapsed     int
	DaysRemaining   int
	ProgressPercent int
	IsOverdue       bool
}

// Progress measures elapsed calendar days from routing. Converted leads stop
// the clock at conversion; unrouted leads have not started it.
func Progress(l repository.Lead, now time.Time) LeadProgress {
	if l.Status == domain.StatusConverted && l.RoutedAt != nil && l.ConvertedAt != nil {
		return LeadProgress{
			DaysElapsed:     ceilDays(l.ConvertedAt.Sub(*l.RoutedAt)),
			DaysRemaining:   0,
			ProgressPercent: 100,
		}
	}
	if l.RoutedAt == nil {
		return LeadProgress{DaysRemaining: ConversionWindowDays}
	}

	elapsed := ceilDays(now.Sub(*l.RoutedAt))
	percent := int(math.Round(float64(elapsed) / ConversionWindowDays * 100))
	return LeadProgress{
		DaysElapsed:     elapsed,
		DaysRemaining:   max(0, ConversionWindowDays-elapsed),
		ProgressPercent: min(100, percent),
		IsOverdue:       elapsed > ConversionWindowDays,
	}
}

// DailyDigest summarises the 24 hours before now and sends it to leadership.
// Sent is false when no leadership address is configured or delivery failed.
func (s *Service) DailyDigest(ctx context.Context) (transport.DigestResponse, error) {
	now := s.now()
	since := now.Add(-24 * time.Hour)

	var (
		total    int
		byStatus map[string]int
		byTerr   []repository.KeyCount
		byBrand  []repository.KeyCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = s.stats.CountCreatedSince(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		byStatus, err = s.stats.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		byTerr, err = s.stats.CountByTerritory(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		byBrand, err = s.stats.CountByBrand(gctx, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.DigestResponse{}, fmt.Errorf("daily digest: %w", err)
	}

	statusCounts := fillStatuses(byStatus)
	digest := ports.DailyDigest{
		Date:             now.Format(digestDateLayout),
		TotalLeads:       total,
		LeadsByTerritory: toMap(byTerr),
		LeadsByBrand:     toMap(byBrand),
		StaleLeads:       statusCounts[string(domain.StatusStale)],
		ConversionRate:   conversionRate(statusCounts),
	}
	resp := transport.DigestResponse{
		Date:             digest.Date,
		TotalLeads:       digest.TotalLeads,
		LeadsByTerritory: digest.LeadsByTerritory,
		LeadsByBrand:     digest.LeadsByBrand,
		StaleLeads:       digest.StaleLeads,
		ConversionRate:   digest.ConversionRate,
	}

	if s.cfg.GetLeadershipEmail() == "" {
		s.log.Warn("LEADERSHIP_EMAIL not set, daily digest not sent", "date", digest.Date)
		return resp, nil
	}

	sendCtx := ctx
	if timeout := s.cfg.GetNotificationTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := s.notifier.SendDailyDigest(sendCtx, digest); err != nil {
		s.log.Error("daily digest delivery failed", "date", digest.Date, "error", err)
		return resp, nil
	}
	resp.Sent = true
	s.log.Info("daily digest sent", "date", digest.Date, "totalLeads", digest.TotalLeads)
	return resp, nil
}

func fillStatuses(counts map[string]int) map[string]int {
	out := make(map[string]int, len(domain.AllStatuses))
	for _, st := range domain.AllStatuses {
		out[string(st)] = counts[string(st)]
	}
	return out
}

// conversionRate is converted over all leads, as a fraction.
func conversionRate(byStatus map[string]int) float64 {
	total := 0
	for _, n := range byStatus {
		total += n
	}
	if total == 0 {
		return 0
	}
	return float64(byStatus[string(domain.StatusConverted)]) / float64(total)
}

func toKeyCounts(items []repository.KeyCount, label func(string) string) []transport.KeyCountResponse {
	out := make([]transport.KeyCountResponse, 0, len(items))
	for _, item := range items {
		row := transport.KeyCountResponse{Key: item.Key, Count: item.Count}
		if label != nil {
			row.Label = label(item.Key)
		}
		out = append(out, row)
	}
	return out
}

func toConversionRows(items []repository.ConversionCount, label func(string) string) []transport.ConversionRow {
	out := make([]transport.ConversionRow, 0, len(items))
	for _, item := range items {
		row := transport.ConversionRow{Key: item.Key, Total: item.Total, Converted: item.Converted}
		if item.Total > 0 {
			row.Rate = float64(item.Converted) / float64(item.Total)
		}
		if label != nil {
			row.Label = label(item.Key)
		}
		out = append(out, row)
	}
	return out
}

func toMap(items []repository.KeyCount) map[string]int {
	out := make(map[string]int, len(items))
	for _, item := range items {
		out[item.Key] = item.Count
	}
	return out
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}

func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
