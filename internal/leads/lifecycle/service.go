// Package lifecycle owns lead status transitions after routing and the
// stale-lead sweep.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadrouter/internal/events"
	"leadrouter/internal/leads/domain"
	"leadrouter/internal/leads/ports"
	"leadrouter/internal/leads/repository"
	"leadrouter/internal/leads/routing"
	"leadrouter/internal/observability"
	"leadrouter/platform/apperr"
	"leadrouter/platform/config"
	"leadrouter/platform/logger"

	"github.com/google/uuid"
)

const (
	leadNotFoundMsg   = "lead not found"
	statusConflictMsg = "lead status changed concurrently, reload and retry"
	staleReasonFmt    = "No action for %d+ business days"
)

// Service applies status transitions and detects stale leads.
type Service struct {
	store    repository.LifecycleStore
	notifier ports.Notifier
	eventBus events.Bus
	metrics  *observability.Metrics
	cfg      config.LifecycleConfig
	log      *logger.Logger
	now      func() time.Time
}

func New(store repository.LifecycleStore, notifier ports.Notifier, eventBus events.Bus, metrics *observability.Metrics, cfg config.LifecycleConfig, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		eventBus: eventBus,
		metrics:  metrics,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// Transition moves a lead to newStatus if the lifecycle graph allows it.
// An empty actor is recorded as the system.
func (s *Service) Transition(ctx context.Context, leadID uuid.UUID, newStatus, actor, reason string) error {
	to, err := domain.ParseLeadStatus(strings.ToUpper(strings.TrimSpace(newStatus)))
	if err != nil {
		return apperr.Validation(err.Error())
	}

	lead, err := s.store.GetByID(ctx, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(leadNotFoundMsg)
	}
	if err != nil {
		return fmt.Errorf("load lead: %w", err)
	}

	if !domain.CanTransition(lead.Status, to) {
		return apperr.Validation(fmt.Sprintf("invalid transition: %s → %s", lead.Status, to)).
			WithDetails(map[string]any{"allowed": domain.NextStatuses(lead.Status)})
	}

	actor = strings.TrimSpace(actor)
	if actor == "" {
		actor = domain.SystemActor
	}
	var reasonPtr *string
	if r := strings.TrimSpace(reason); r != "" {
		reasonPtr = &r
	}

	return s.apply(ctx, leadID, lead.Status, to, actor, reasonPtr)
}

func (s *Service) apply(ctx context.Context, leadID uuid.UUID, from, to domain.LeadStatus, actor string, reason *string) error {
	err := s.store.Transition(ctx, repository.TransitionParams{
		LeadID: leadID,
		From:   from,
		To:     to,
		Actor:  actor,
		Reason: reason,
	})
	if errors.Is(err, repository.ErrStatusConflict) {
		return apperr.Conflict(statusConflictMsg)
	}
	if err != nil {
		return fmt.Errorf("transition lead: %w", err)
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.LeadStatusChanged{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     leadID,
			FromStatus: string(from),
			ToStatus:   string(to),
			Actor:      actor,
		})
	}
	return nil
}

// DetectStaleLeads moves ROUTED leads that sat untouched for the configured
// number of business days to STALE and sends each rep one reminder. It
// returns how many leads were staled.
func (s *Service) DetectStaleLeads(ctx context.Context) (int, error) {
	log := s.log.WithContext(ctx)
	now := s.now()
	threshold := s.cfg.GetStaleThresholdDays()
	cutoff := SubtractBusinessDays(now, threshold)

	candidates, err := s.store.ListStaleCandidates(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list stale candidates: %w", err)
	}

	reason := fmt.Sprintf(staleReasonFmt, threshold)
	reminders := make(map[uuid.UUID]*ports.StaleReminder)
	var order []uuid.UUID
	staled := 0

	for _, c := range candidates {
		if err := s.apply(ctx, c.LeadID, domain.StatusRouted, domain.StatusStale, domain.SystemActor, &reason); err != nil {
			log.WithLead(c.LeadID.String()).Warn("lifecycle: could not mark lead stale", "error", err)
			continue
		}
		staled++

		if c.RepID == nil || c.RepEmail == nil {
			continue
		}
		reminder, ok := reminders[*c.RepID]
		if !ok {
			reminder = &ports.StaleReminder{RepName: derefString(c.RepName), RepEmail: *c.RepEmail}
			reminders[*c.RepID] = reminder
			order = append(order, *c.RepID)
		}
		reminder.Leads = append(reminder.Leads, ports.StaleLead{
			ID:              c.LeadID,
			Name:            c.FirstName + " " + c.LastName,
			FirmName:        c.FirmName,
			DaysSinceRouted: BusinessDaysBetween(c.RoutedAt, now),
			DashboardURL:    routing.DashboardURL(s.cfg.GetAppBaseURL(), c.LeadID),
		})
	}

	for _, repID := range order {
		s.sendReminder(ctx, *reminders[repID], log)
	}

	s.metrics.RecordStaled(staled)
	if staled > 0 {
		log.Info("lifecycle: stale detection finished", "staled", staled, "candidates", len(candidates), "reps", len(order))
	}
	return staled, nil
}

func (s *Service) sendReminder(ctx context.Context, reminder ports.StaleReminder, log *logger.Logger) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, notificationTimeout(s.cfg))
	defer cancel()

	if err := s.notifier.SendStaleReminder(ctx, reminder); err != nil {
		log.CollaboratorFailure(observability.CollaboratorNotification, "SendStaleReminder", err, "repEmail", reminder.RepEmail)
		s.metrics.RecordCollaboratorFailure(observability.CollaboratorNotification)
	}
}

func notificationTimeout(cfg config.LifecycleConfig) time.Duration {
	if d := cfg.GetNotificationTimeout(); d > 0 {
		return d
	}
	return 15 * time.Second
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
