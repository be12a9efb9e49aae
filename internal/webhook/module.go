// Package webhook provides inbound lead capture for registration forms and
// partner systems.
package webhook

import (
	apphttp "leadrouter/internal/http"
	"leadrouter/platform/httpkit"
	"leadrouter/platform/logger"
	"leadrouter/platform/validator"
)

// Module is the webhook bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the webhook module on top of the lead intake service.
func NewModule(leads LeadCreator, val *validator.Validator, log *logger.Logger) *Module {
	return &Module{handler: NewHandler(leads, val, log)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts the intake route behind the per-IP limiter and the
// optional webhook secret.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	webhookGroup := ctx.V1.Group("/webhook")
	if ctx.WebhookRateLimiter != nil {
		webhookGroup.Use(ctx.WebhookRateLimiter.RateLimit())
	}
	webhookGroup.Use(httpkit.BearerSecret(ctx.Secrets.GetWebhookSecret()))
	webhookGroup.POST("/leads", m.handler.HandleLead)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
