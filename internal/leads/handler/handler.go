package handler

import (
	"context"
	"net/http"

	"leadrouter/internal/leads/transport"
	"leadrouter/platform/httpkit"
	"leadrouter/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead id"

	defaultChangedBy  = "user"
	defaultNoteAuthor = "User"
	defaultAssignedBy = "User"
)

// LeadService is the management surface the handler needs.
type LeadService interface {
	CreateLead(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error)
	ListLeads(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error)
	GetLead(ctx context.Context, id uuid.UUID) (transport.LeadDetailResponse, error)
	AddNote(ctx context.Context, leadID uuid.UUID, author, content string) (transport.NoteResponse, error)
	ReassignLead(ctx context.Context, leadID, repID uuid.UUID, actor string) error
}

// StatusService applies lifecycle transitions.
type StatusService interface {
	Transition(ctx context.Context, leadID uuid.UUID, newStatus, actor, reason string) error
}

// RoutingService runs the routing pipeline for one lead.
type RoutingService interface {
	ProcessNewLead(ctx context.Context, leadID uuid.UUID) error
}

// InsightsService serves read-only aggregates.
type InsightsService interface {
	DashboardStats(ctx context.Context) (transport.DashboardStatsResponse, error)
	Pipeline(ctx context.Context, req transport.PipelineRequest) (transport.PipelineResponse, error)
}

type Handler struct {
	leads    LeadService
	status   StatusService
	routing  RoutingService
	insights InsightsService
	val      *validator.Validator
}

func New(leads LeadService, status StatusService, routing RoutingService, insights InsightsService, val *validator.Validator) *Handler {
	return &Handler{leads: leads, status: status, routing: routing, insights: insights, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/pipeline", h.Pipeline)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id", h.Patch)
	rg.POST("/:id/notes", h.AddNote)
	rg.POST("/:id/status", h.UpdateStatus)
	rg.POST("/:id/assign", h.Assign)
	rg.POST("/:id/process", h.Process)
}

// RegisterStatsRoutes mounts the dashboard stats endpoint.
func (h *Handler) RegisterStatsRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.Stats)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lead, err := h.leads.CreateLead(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, lead, "")
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.leads.ListLeads(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Pipeline(c *gin.Context) {
	var req transport.PipelineRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.insights.Pipeline(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.insights.DashboardStats(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, stats)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	lead, err := h.leads.GetLead(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

// Patch applies, in order, a status change, a note and a reassignment, then
// returns the refreshed lead. It stops at the first failure.
func (h *Handler) Patch(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.PatchLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if req.Status != nil && *req.Status != "" {
		changedBy := orDefault(req.ChangedBy, defaultChangedBy)
		if httpkit.HandleError(c, h.status.Transition(ctx, id, *req.Status, changedBy, req.Reason)) {
			return
		}
	}
	if req.Note != nil && *req.Note != "" {
		_, err := h.leads.AddNote(ctx, id, orDefault(req.NoteAuthor, defaultNoteAuthor), *req.Note)
		if httpkit.HandleError(c, err) {
			return
		}
	}
	if req.AssignToRepID != nil {
		actor := orDefault(req.ChangedBy, defaultAssignedBy)
		if httpkit.HandleError(c, h.leads.ReassignLead(ctx, id, *req.AssignToRepID, actor)) {
			return
		}
	}

	h.respondWithLead(c, id)
}

func (h *Handler) AddNote(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.AddNoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	note, err := h.leads.AddNote(c.Request.Context(), id, orDefault(req.Author, defaultNoteAuthor), req.Content)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, note, "")
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.UpdateLeadStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.status.Transition(c.Request.Context(), id, req.Status, orDefault(req.ChangedBy, defaultChangedBy), req.Reason)
	if httpkit.HandleError(c, err) {
		return
	}

	h.respondWithLead(c, id)
}

func (h *Handler) Assign(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.AssignLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.leads.ReassignLead(c.Request.Context(), id, req.RepID, orDefault(req.Actor, defaultAssignedBy))
	if httpkit.HandleError(c, err) {
		return
	}

	h.respondWithLead(c, id)
}

// Process runs the routing pipeline synchronously. Leads that are no longer
// NEW come back unchanged.
func (h *Handler) Process(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.routing.ProcessNewLead(c.Request.Context(), id)) {
		return
	}

	h.respondWithLead(c, id)
}

func (h *Handler) respondWithLead(c *gin.Context, id uuid.UUID) {
	lead, err := h.leads.GetLead(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}

func parseLeadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
