package crm

import (
	"context"

	"leadrouter/platform/config"
	"leadrouter/platform/logger"
)

const (
	ProviderMock = "mock"
	ProviderHTTP = "http"
)

// Client is the CRM surface the rest of the application uses.
type Client interface {
	UpsertContact(ctx context.Context, input ContactInput) (Contact, error)
	AddToDistributionList(ctx context.Context, contactID, listName string) error
}

// New selects the CRM client for the configured provider.
func New(cfg config.CRMConfig, log *logger.Logger) Client {
	if cfg.GetCRMProvider() == ProviderHTTP {
		log.Info("crm client configured", "provider", ProviderHTTP)
		return NewHTTPClient(cfg.GetCRMAPIURL(), cfg.GetCRMAPIKey(), cfg.GetCRMTimeout(), log)
	}
	log.Info("crm client configured", "provider", ProviderMock)
	return NewMockClient(log)
}

var (
	_ Client = (*HTTPClient)(nil)
	_ Client = (*MockClient)(nil)
)
