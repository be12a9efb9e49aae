// Package client provides firmographic lookups: an HTTP provider guarded by a
// circuit breaker and a fixed in-memory catalog for development.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leadrouter/platform/logger"
	"leadrouter/platform/resilience"

	"github.com/sony/gobreaker"
)

const (
	lookupPath         = "/v1/firms/lookup"
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBody       = 512
)

// FirmProfile is the provider's view of one firm.
type FirmProfile struct {
	FirmName      string   `json:"firmName"`
	Domain        *string  `json:"domain,omitempty"`
	FirmType      *string  `json:"firmType,omitempty"`
	AUM           *float64 `json:"aum,omitempty"`
	City          *string  `json:"city,omitempty"`
	State         *string  `json:"state,omitempty"`
	Country       *string  `json:"country,omitempty"`
	EmployeeCount *int     `json:"employeeCount,omitempty"`
	Founded       *int     `json:"founded,omitempty"`
	Description   *string  `json:"description,omitempty"`
	SectorFocus   []string `json:"sectorFocus,omitempty"`
	Strategy      *string  `json:"strategy,omitempty"`
}

// Client calls the enrichment provider's lookup endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cb         *gobreaker.CircuitBreaker
	log        *logger.Logger
}

// New creates a provider client. A zero timeout uses the default.
func New(baseURL, apiKey string, timeout time.Duration, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		cb:         resilience.NewCircuitBreaker("enrichment"),
		log:        log,
	}
}

// LookupFirm queries by domain and name. An unknown firm (404) is a nil
// profile and a nil error, and does not count against the breaker.
func (c *Client) LookupFirm(ctx context.Context, domain, firmName string) (*FirmProfile, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		return c.lookup(ctx, domain, firmName)
	})
	if err != nil {
		return nil, err
	}
	profile, _ := result.(*FirmProfile)
	return profile, nil
}

func (c *Client) lookup(ctx context.Context, domain, firmName string) (*FirmProfile, error) {
	params := url.Values{}
	if domain != "" {
		params.Set("domain", domain)
	}
	params.Set("name", firmName)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, lookupPath, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("enrichment request failed", "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Error("enrichment request error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("enrichment status %d", resp.StatusCode)
	}

	var profile FirmProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		c.log.Error("enrichment decode failed", "error", err)
		return nil, err
	}
	if profile.FirmName == "" {
		return nil, nil
	}
	return &profile, nil
}
