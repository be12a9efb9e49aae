// Package leadenrichment provides the composition root for firm enrichment.
package leadenrichment

import (
	"leadrouter/internal/leadenrichment/client"
	"leadrouter/internal/leadenrichment/service"
	"leadrouter/platform/config"
	"leadrouter/platform/logger"

	"github.com/redis/go-redis/v9"
)

const (
	ProviderMock = "mock"
	ProviderHTTP = "http"
	ProviderNone = "none"
)

// Module wires the enrichment service for the configured provider.
type Module struct {
	service *service.Service
}

// NewModule selects the provider and cache. The provider "none" disables
// enrichment and Service returns nil. A nil rdb falls back to an in-process
// cache.
func NewModule(cfg config.EnrichmentConfig, rdb *redis.Client, log *logger.Logger) *Module {
	var source service.FirmLookup
	switch cfg.GetEnrichmentProvider() {
	case ProviderNone:
		log.Info("firm enrichment disabled")
		return &Module{}
	case ProviderHTTP:
		source = client.New(cfg.GetEnrichmentAPIURL(), cfg.GetEnrichmentAPIKey(), cfg.GetEnrichmentTimeout(), log)
	default:
		source = client.NewMock()
	}

	var cache service.Cache
	if rdb != nil {
		cache = service.NewRedisCache(rdb)
	} else {
		cache = service.NewMemoryCache()
	}

	log.Info("firm enrichment enabled", "provider", cfg.GetEnrichmentProvider(), "sharedCache", rdb != nil)
	return &Module{service: service.New(source, cache, cfg.GetEnrichmentCacheTTL(), cfg.GetEnrichmentTimeout(), log)}
}

// Service returns the enrichment service, or nil when disabled.
func (m *Module) Service() *service.Service {
	return m.service
}
