// Package routing turns a NEW lead into a ROUTED one: enrichment, account
// and territory matching, scoring, one atomic write, then best-effort CRM
// sync and rep notification.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadrouter/internal/events"
	"leadrouter/internal/leads/domain"
	"leadrouter/internal/leads/ports"
	"leadrouter/internal/leads/repository"
	"leadrouter/internal/leads/scoring"
	"leadrouter/internal/observability"
	"leadrouter/platform/apperr"
	"leadrouter/platform/config"
	"leadrouter/platform/logger"

	"github.com/google/uuid"
)

const (
	accountOwnerTerritory = "Account Owner"
	distributionListFmt   = "%s - Sales"

	skipNotNewMsg   = "routing: lead is no longer NEW, skipping"
	skipInFlightMsg = "routing: lead already in flight, skipping"
	releaseClaimMsg = "release routing claim"
)

// Store is the persistence the router needs.
type Store interface {
	repository.RoutingStore
	repository.AccountFinder
	repository.TerritoryLister
}

// Deps bundles the router's collaborators. Enricher may be nil.
type Deps struct {
	Store    Store
	Enricher ports.FirmEnricher
	CRM      ports.CRM
	Notifier ports.Notifier
	EventBus events.Bus
	Metrics  *observability.Metrics
	Config   config.RoutingConfig
	Log      *logger.Logger
}

// Router runs the routing pipeline for one lead at a time.
type Router struct {
	store       repository.RoutingStore
	accounts    *AccountMatcher
	territories *TerritoryMatcher
	enricher    ports.FirmEnricher
	crm         ports.CRM
	notifier    ports.Notifier
	eventBus    events.Bus
	metrics     *observability.Metrics
	cfg         config.RoutingConfig
	log         *logger.Logger
}

func New(d Deps) *Router {
	return &Router{
		store:       d.Store,
		accounts:    NewAccountMatcher(d.Store),
		territories: NewTerritoryMatcher(d.Store),
		enricher:    d.Enricher,
		crm:         d.CRM,
		notifier:    d.Notifier,
		eventBus:    d.EventBus,
		metrics:     d.Metrics,
		cfg:         d.Config,
		log:         d.Log,
	}
}

// decision is everything resolved for a lead before the write.
type decision struct {
	firmDomain    string
	profile       *ports.FirmProfile
	account       *repository.Account
	city          *string
	state         *string
	country       string
	firmType      *string
	aum           *float64
	rep           *repository.SalesRep
	method        string
	territoryName string
	reason        string
	breakdown     scoring.Breakdown
	brand         string
}

// ProcessNewLead routes one lead. Leads that are no longer NEW or are being
// routed elsewhere are skipped without error.
func (r *Router) ProcessNewLead(ctx context.Context, leadID uuid.UUID) error {
	start := time.Now()
	log := r.log.WithContext(ctx).WithLead(leadID.String())

	lead, err := r.store.GetByID(ctx, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}
	if err != nil {
		return fmt.Errorf("load lead: %w", err)
	}
	if lead.Status != domain.StatusNew {
		log.Debug(skipNotNewMsg, "status", lead.Status)
		r.metrics.RecordSkipped(observability.SkipNotNew)
		return nil
	}

	claimed, err := r.store.ClaimForRouting(ctx, leadID, r.cfg.GetRoutingClaimTTL())
	if err != nil {
		return fmt.Errorf("claim lead: %w", err)
	}
	if !claimed {
		log.Debug(skipInFlightMsg)
		r.metrics.RecordSkipped(observability.SkipInFlight)
		return nil
	}
	defer func() {
		if err := r.store.ReleaseClaim(context.WithoutCancel(ctx), leadID); err != nil {
			log.DatabaseError(releaseClaimMsg, err)
		}
	}()

	d, err := r.decide(ctx, lead, log)
	if err != nil {
		return err
	}

	update, err := buildUpdate(lead, d)
	if err != nil {
		return err
	}
	if err := r.store.ApplyRouting(ctx, update); err != nil {
		if errors.Is(err, repository.ErrLeadNotNew) {
			log.Debug(skipNotNewMsg)
			r.metrics.RecordSkipped(observability.SkipNotNew)
			return nil
		}
		return fmt.Errorf("apply routing: %w", err)
	}

	elapsed := time.Since(start)
	if d.rep == nil {
		log.Info("routing: no rep resolved, lead stays NEW",
			"score", d.breakdown.Total,
			"durationMs", elapsed.Milliseconds())
		return nil
	}

	r.syncCRM(ctx, lead, *d.rep, log)
	r.notifyRep(ctx, lead, d, log)

	r.publish(ctx, events.LeadRouted{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        leadID,
		RepID:         d.rep.ID,
		Method:        d.method,
		TerritoryName: d.territoryName,
		Score:         d.breakdown.Total,
		Duration:      elapsed,
	})

	log.Info("routing: lead routed",
		"method", d.method,
		"territory", d.territoryName,
		"score", d.breakdown.Total,
		"durationMs", elapsed.Milliseconds())
	return nil
}

func (r *Router) decide(ctx context.Context, lead repository.Lead, log *logger.Logger) (decision, error) {
	d := decision{
		firmDomain: domain.FirmDomain(lead.Email),
	}

	d.profile = r.enrich(ctx, d.firmDomain, lead.FirmName, log)

	account, err := r.accounts.Resolve(ctx, lead.FirmName, d.firmDomain)
	if err != nil {
		return decision{}, fmt.Errorf("match account: %w", err)
	}
	d.account = account

	var p ports.FirmProfile
	if d.profile != nil {
		p = *d.profile
	}
	var a repository.Account
	if account != nil {
		a = *account
	}
	d.city = firstString(lead.City, p.City, a.City)
	d.state = firstString(lead.State, p.State, a.State)
	d.firmType = firstString(lead.FirmType, p.FirmType, a.FirmType)
	d.aum = firstFloat(lead.AUM, p.AUM, a.AUM)
	d.country = domain.DefaultCountry
	if c := firstString(nonEmpty(lead.Country), p.Country, a.Country); c != nil {
		d.country = *c
	}

	switch {
	case account != nil && account.Rep != nil:
		d.rep = account.Rep
		d.method = events.RoutedByAccount
		d.territoryName = accountOwnerTerritory
		if account.Territory != nil && strings.TrimSpace(*account.Territory) != "" {
			d.territoryName = *account.Territory
		}
		d.reason = fmt.Sprintf("Auto-routed to account owner (%s)", account.FirmName)
	case d.state != nil:
		match, err := r.territories.Resolve(ctx, *d.state, d.country)
		if err != nil {
			return decision{}, fmt.Errorf("match territory: %w", err)
		}
		if match != nil {
			rep := match.Rep
			d.rep = &rep
			d.method = events.RoutedByTerritory
			d.territoryName = match.TerritoryName
			d.reason = fmt.Sprintf("Auto-routed by territory (%s)", match.TerritoryName)
		}
	}

	d.breakdown = scoring.Score(scoring.Input{
		IsExistingAccount: account != nil,
		FirmType:          d.firmType,
		AUM:               d.aum,
		RegistrationType:  lead.RegistrationType,
		HasRepAssigned:    d.rep != nil,
	})
	d.brand = domain.ResolveInterest(lead.ResearchInterest)
	return d, nil
}

func buildUpdate(lead repository.Lead, d decision) (repository.RoutingUpdate, error) {
	breakdown, err := json.Marshal(d.breakdown)
	if err != nil {
		return repository.RoutingUpdate{}, fmt.Errorf("encode score breakdown: %w", err)
	}

	u := repository.RoutingUpdate{
		LeadID:           lead.ID,
		FirmDomain:       nonEmpty(d.firmDomain),
		FirmType:         d.firmType,
		AUM:              d.aum,
		City:             d.city,
		State:            d.state,
		Country:          d.country,
		LeadScore:        d.breakdown.Total,
		ScoreBreakdown:   breakdown,
		ResearchInterest: d.brand,
		Actor:            domain.SystemActor,
		Reason:           d.reason,
	}
	if d.account != nil {
		u.AccountID = &d.account.ID
	}
	if d.rep != nil {
		u.RepID = &d.rep.ID
		u.TerritoryMatch = nonEmpty(d.territoryName)
	}
	if d.profile != nil {
		snapshot, err := json.Marshal(d.profile)
		if err != nil {
			return repository.RoutingUpdate{}, fmt.Errorf("encode enrichment snapshot: %w", err)
		}
		u.EnrichmentData = snapshot
	}
	return u, nil
}

func (r *Router) enrich(ctx context.Context, firmDomain, firmName string, log *logger.Logger) *ports.FirmProfile {
	if r.enricher == nil {
		return nil
	}
	ctx, cancel := withTimeout(ctx, r.cfg.GetEnrichmentTimeout())
	defer cancel()

	profile, err := r.enricher.EnrichFirm(ctx, firmDomain, firmName)
	if err != nil {
		r.collaboratorFailed(log, observability.CollaboratorEnrichment, "EnrichFirm", err)
		return nil
	}
	return profile
}

func (r *Router) syncCRM(ctx context.Context, lead repository.Lead, rep repository.SalesRep, log *logger.Logger) {
	if r.crm == nil {
		return
	}

	upsertCtx, cancel := withTimeout(ctx, r.cfg.GetCRMTimeout())
	contact, err := r.crm.UpsertContact(upsertCtx, ports.ContactInput{
		FirstName: lead.FirstName,
		LastName:  lead.LastName,
		Email:     lead.Email,
	})
	cancel()
	if err != nil {
		r.collaboratorFailed(log, observability.CollaboratorCRM, "UpsertContact", err)
		return
	}

	listCtx, cancel := withTimeout(ctx, r.cfg.GetCRMTimeout())
	defer cancel()
	if err := r.crm.AddToDistributionList(listCtx, contact.ID, fmt.Sprintf(distributionListFmt, rep.Name)); err != nil {
		r.collaboratorFailed(log, observability.CollaboratorCRM, "AddToDistributionList", err, "contactId", contact.ID)
	}
}

func (r *Router) notifyRep(ctx context.Context, lead repository.Lead, d decision, log *logger.Logger) {
	if r.notifier == nil {
		return
	}
	ctx, cancel := withTimeout(ctx, r.cfg.GetNotificationTimeout())
	defer cancel()

	alert := ports.LeadAlert{
		RepName:           d.rep.Name,
		RepEmail:          d.rep.Email,
		LeadID:            lead.ID,
		LeadName:          lead.FullName(),
		FirmName:          lead.FirmName,
		ResearchInterest:  domain.BrandLabel(d.brand),
		LeadScore:         d.breakdown.Total,
		ScoreBreakdown:    ports.ScoreBreakdown(d.breakdown),
		IsExistingAccount: d.account != nil,
		DashboardURL:      DashboardURL(r.cfg.GetAppBaseURL(), lead.ID),
	}
	if lead.Title != nil {
		alert.Title = *lead.Title
	}

	if err := r.notifier.SendLeadAlert(ctx, alert); err != nil {
		r.collaboratorFailed(log, observability.CollaboratorNotification, "SendLeadAlert", err, "repId", d.rep.ID)
	}
}

func (r *Router) collaboratorFailed(log *logger.Logger, collaborator, operation string, err error, args ...any) {
	log.CollaboratorFailure(collaborator, operation, err, args...)
	r.metrics.RecordCollaboratorFailure(collaborator)
}

func (r *Router) publish(ctx context.Context, event events.Event) {
	if r.eventBus == nil {
		return
	}
	r.eventBus.Publish(ctx, event)
}

// DashboardURL links to a lead in the dashboard.
func DashboardURL(baseURL string, leadID uuid.UUID) string {
	return strings.TrimRight(baseURL, "/") + "/leads/" + leadID.String()
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func firstString(values ...*string) *string {
	for _, v := range values {
		if v != nil && strings.TrimSpace(*v) != "" {
			return v
		}
	}
	return nil
}

func firstFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func nonEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
