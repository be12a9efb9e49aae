// Package crm syncs routed leads into the external CRM: contacts and
// per-rep distribution lists.
package crm

import (
	"bytes"
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
	contactsPath       = "/v1/contacts"
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBody       = 512
)

// ContactInput identifies a person to upsert, keyed by email.
type ContactInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Contact is the CRM record after an upsert.
type Contact struct {
	ID                string   `json:"id"`
	FirstName         string   `json:"firstName"`
	LastName          string   `json:"lastName"`
	Email             string   `json:"email"`
	DistributionLists []string `json:"distributionLists,omitempty"`
}

// HTTPClient talks to the CRM's REST API.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cb         *gobreaker.CircuitBreaker
	log        *logger.Logger
}

// NewHTTPClient creates a CRM client. A zero timeout uses the default.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, log *logger.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &HTTPClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		cb:         resilience.NewCircuitBreaker("crm"),
		log:        log,
	}
}

// UpsertContact creates or updates the contact with input.Email.
func (c *HTTPClient) UpsertContact(ctx context.Context, input ContactInput) (Contact, error) {
	var contact Contact
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.do(ctx, http.MethodPut, contactsPath, input, &contact)
	})
	if err != nil {
		return Contact{}, err
	}
	if contact.ID == "" {
		return Contact{}, fmt.Errorf("crm upsert returned no contact id")
	}
	return contact, nil
}

// AddToDistributionList subscribes a contact to listName.
func (c *HTTPClient) AddToDistributionList(ctx context.Context, contactID, listName string) error {
	path := contactsPath + "/" + url.PathEscape(contactID) + "/lists"
	body := map[string]string{"listName": listName}
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.do(ctx, http.MethodPost, path, body, nil)
	})
	return err
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal crm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("crm request failed", "method", method, "path", path, "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Error("crm request error", "method", method, "path", path, "status", resp.StatusCode, "body", string(msg))
		return fmt.Errorf("crm %s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode crm response: %w", err)
	}
	return nil
}
