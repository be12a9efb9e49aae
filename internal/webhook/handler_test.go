package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apphttp "leadrouter/internal/http"
	"leadrouter/internal/leads/transport"
	"leadrouter/platform/httpkit"
	"leadrouter/platform/logger"
	"leadrouter/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const validBody = `{"firstName":"John","lastName":"Smith","email":"jsmith@hedgefund.com","firmName":"Big Alpha Capital","researchInterest":"sankey"}`

type fakeCreator struct {
	got *transport.CreateLeadRequest
	id  uuid.UUID
}

func (f *fakeCreator) CreateLead(_ context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	f.got = &req
	return transport.LeadResponse{ID: f.id, Status: "NEW"}, nil
}

type testSecrets struct{ webhook string }

func (s testSecrets) GetWebhookSecret() string     { return s.webhook }
func (s testSecrets) GetCronSecret() string        { return "" }
func (s testSecrets) GetWebhookRateLimit() float64 { return 1 }
func (s testSecrets) GetWebhookRateBurst() int     { return 2 }

func newEngine(f *fakeCreator, secret string, limiter *httpkit.IPRateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewModule(f, validator.New(), logger.Discard()).RegisterRoutes(&apphttp.RouterContext{
		Engine:             r,
		V1:                 r.Group("/api/v1"),
		Secrets:            testSecrets{webhook: secret},
		WebhookRateLimiter: limiter,
	})
	return r
}

func post(r *gin.Engine, body, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/leads", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleLeadAccepted(t *testing.T) {
	f := &fakeCreator{id: uuid.New()}
	w := post(newEngine(f, "", nil), validBody, "")

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data    ReceivedResponse `json:"data"`
		Message string           `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.ID != f.id || resp.Message != msgLeadReceived {
		t.Fatalf("unexpected response %+v", resp)
	}
	if f.got.Source != defaultWebhookSource {
		t.Fatalf("expected default source %q, got %q", defaultWebhookSource, f.got.Source)
	}
}

func TestHandleLeadKeepsExplicitSource(t *testing.T) {
	f := &fakeCreator{id: uuid.New()}
	body := strings.Replace(validBody, `"researchInterest"`, `"source":"web","researchInterest"`, 1)

	if w := post(newEngine(f, "", nil), body, ""); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if f.got.Source != "web" {
		t.Fatalf("expected source web, got %q", f.got.Source)
	}
}

func TestHandleLeadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `{"firstName":`, errInvalidRequest},
		{"missing firm", `{"firstName":"John","lastName":"Smith","email":"jsmith@hedgefund.com"}`, errMissingFields},
		{"missing email", `{"firstName":"John","lastName":"Smith","firmName":"Big Alpha"}`, errMissingFields},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeCreator{}
			w := post(newEngine(f, "", nil), tt.body, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Fatalf("expected %q in %s", tt.want, w.Body.String())
			}
			if f.got != nil {
				t.Fatal("lead should not be created")
			}
		})
	}
}

func TestHandleLeadSecret(t *testing.T) {
	f := &fakeCreator{id: uuid.New()}
	r := newEngine(f, "hook-secret", nil)

	if w := post(r, validBody, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without secret, got %d", w.Code)
	}
	if w := post(r, validBody, "Bearer wrong"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong secret, got %d", w.Code)
	}
	if w := post(r, validBody, "Bearer hook-secret"); w.Code != http.StatusCreated {
		t.Fatalf("expected 201 with secret, got %d", w.Code)
	}
}

func TestHandleLeadRateLimited(t *testing.T) {
	limiter := httpkit.NewIPRateLimiter(rate.Limit(0.001), 1, logger.Discard())
	r := newEngine(&fakeCreator{id: uuid.New()}, "", limiter)

	if w := post(r, validBody, ""); w.Code != http.StatusCreated {
		t.Fatalf("expected first request accepted, got %d", w.Code)
	}
	if w := post(r, validBody, ""); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}
