package directory

import (
	"context"
	"net/http"

	"leadrouter/platform/httpkit"
	"leadrouter/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest     = "invalid request"
	msgValidationFailed   = "validation failed"
	msgInvalidTerritoryID = "invalid territory id"
)

// DirectoryService is the surface the handler needs.
type DirectoryService interface {
	ListTerritories(ctx context.Context) ([]TerritoryResponse, error)
	UpdateTerritory(ctx context.Context, id uuid.UUID, req UpdateTerritoryRequest) (TerritoryResponse, error)
	ListReps(ctx context.Context) ([]RepResponse, error)
	ListAccounts(ctx context.Context) ([]AccountResponse, error)
	UpsertAccount(ctx context.Context, req UpsertAccountRequest) (UpsertAccountResponse, error)
}

type Handler struct {
	svc DirectoryService
	val *validator.Validator
}

func NewHandler(svc DirectoryService, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/territories", h.ListTerritories)
	rg.PUT("/territories/:id", h.UpdateTerritory)
	rg.GET("/reps", h.ListReps)
	rg.GET("/accounts", h.ListAccounts)
	rg.POST("/accounts", h.UpsertAccount)
}

func (h *Handler) ListTerritories(c *gin.Context) {
	territories, err := h.svc.ListTerritories(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, territories)
}

func (h *Handler) UpdateTerritory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidTerritoryID, nil)
		return
	}

	var req UpdateTerritoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	territory, err := h.svc.UpdateTerritory(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, territory)
}

func (h *Handler) ListReps(c *gin.Context) {
	reps, err := h.svc.ListReps(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, reps)
}

func (h *Handler) ListAccounts(c *gin.Context) {
	accounts, err := h.svc.ListAccounts(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, accounts)
}

// UpsertAccount answers 201 when the account is new and 200 when an existing
// one was updated.
func (h *Handler) UpsertAccount(c *gin.Context) {
	var req UpsertAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.UpsertAccount(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	if result.Created {
		httpkit.Created(c, result, "Account created")
		return
	}
	httpkit.OK(c, result)
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
