// Package leads provides the lead intake, routing and lifecycle bounded context.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"leadrouter/internal/events"
	apphttp "leadrouter/internal/http"
	"leadrouter/internal/leads/handler"
	"leadrouter/internal/leads/insights"
	"leadrouter/internal/leads/lifecycle"
	"leadrouter/internal/leads/management"
	"leadrouter/internal/leads/ports"
	"leadrouter/internal/leads/repository"
	"leadrouter/internal/leads/routing"
	"leadrouter/internal/observability"
	"leadrouter/platform/config"
	"leadrouter/platform/logger"
	"leadrouter/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Collaborators are the external systems the routing pipeline calls.
// Enricher may be nil to skip enrichment.
type Collaborators struct {
	Enricher ports.FirmEnricher
	CRM      ports.CRM
	Notifier ports.Notifier
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	repo       *repository.Repository
	handler    *handler.Handler
	management *management.Service
	router     *routing.Router
	lifecycle  *lifecycle.Service
	insights   *insights.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, collab Collaborators, metrics *observability.Metrics, val *validator.Validator, cfg *config.Config, log *logger.Logger) *Module {
	repo := repository.New(pool)

	router := routing.New(routing.Deps{
		Store:    repo,
		Enricher: collab.Enricher,
		CRM:      collab.CRM,
		Notifier: collab.Notifier,
		EventBus: eventBus,
		Metrics:  metrics,
		Config:   cfg,
		Log:      log,
	})
	lifecycleSvc := lifecycle.New(repo, collab.Notifier, eventBus, metrics, cfg, log)
	insightsSvc := insights.New(repo, collab.Notifier, cfg, log)
	mgmtSvc := management.New(repo, eventBus, log)

	h := handler.New(mgmtSvc, lifecycleSvc, router, insightsSvc, val)

	return &Module{
		repo:       repo,
		handler:    h,
		management: mgmtSvc,
		router:     router,
		lifecycle:  lifecycleSvc,
		insights:   insightsSvc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// ManagementService returns the intake and query service, used by the webhook.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// Router returns the routing pipeline for workers and job triggers.
func (m *Module) Router() *routing.Router {
	return m.router
}

// LifecycleService returns the status and stale-detection service.
func (m *Module) LifecycleService() *lifecycle.Service {
	return m.lifecycle
}

// InsightsService returns the dashboard and digest service.
func (m *Module) InsightsService() *insights.Service {
	return m.insights
}

// Repository returns the shared leads repository.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/leads"))
	m.handler.RegisterStatsRoutes(ctx.V1)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
