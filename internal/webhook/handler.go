package webhook

import (
	"context"
	"net/http"

	"leadrouter/internal/leads/transport"
	"leadrouter/platform/httpkit"
	"leadrouter/platform/logger"
	"leadrouter/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	errInvalidRequest    = "invalid request body"
	errMissingFields     = "missing required fields: firstName, lastName, email, firmName"
	msgLeadReceived      = "Lead received and processing"
	defaultWebhookSource = "webhook"
)

// LeadCreator persists a NEW lead and hands it to the routing pipeline
// without waiting for it.
type LeadCreator interface {
	CreateLead(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error)
}

// ReceivedResponse acknowledges an accepted lead.
type ReceivedResponse struct {
	ID uuid.UUID `json:"id"`
}

// Handler handles webhook HTTP requests.
type Handler struct {
	leads LeadCreator
	val   *validator.Validator
	log   *logger.Logger
}

// NewHandler creates a new webhook handler.
func NewHandler(leads LeadCreator, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{leads: leads, val: val, log: log}
}

// HandleLead accepts one lead registration.
// POST /api/v1/webhook/leads
func (h *Handler) HandleLead(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, errInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, errMissingFields, validator.FieldErrors(err))
		return
	}
	if req.Source == "" {
		req.Source = defaultWebhookSource
	}

	lead, err := h.leads.CreateLead(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	h.log.WithContext(c.Request.Context()).WithLead(lead.ID.String()).Info("webhook lead received", "source", req.Source)
	httpkit.Created(c, ReceivedResponse{ID: lead.ID}, msgLeadReceived)
}
