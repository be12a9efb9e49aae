// Package directory manages territories, sales reps and firm accounts, the
// reference data the routing pipeline matches leads against.
package directory

import (
	"context"

	apphttp "leadrouter/internal/http"
	"leadrouter/platform/config"
	"leadrouter/platform/logger"
	"leadrouter/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the directory bounded context module implementing http.Module.
type Module struct {
	service *Service
	handler *Handler
}

// NewModule creates the directory module with its repository and service.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	svc := NewService(NewRepository(pool), log)
	return &Module{service: svc, handler: NewHandler(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "directory"
}

// Service returns the directory service.
func (m *Module) Service() *Service {
	return m.service
}

// Bootstrap seeds territories on an empty database when enabled.
func (m *Module) Bootstrap(ctx context.Context, cfg config.DirectoryConfig) error {
	if !cfg.GetBootstrapTerritories() {
		return nil
	}
	_, err := m.service.Bootstrap(ctx, cfg.GetTerritoriesFile())
	return err
}

// RegisterRoutes mounts territory, rep and account routes under /api/v1.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
