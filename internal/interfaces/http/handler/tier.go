package handler

import (
	"github.com/gin-gonic/gin"

	membershipapp "github.com/leaftolife/backend/internal/application/membership"
)

// TierHandler handles membership tier endpoints
type TierHandler struct {
	BaseHandler
	tierService *membershipapp.Service
}

// NewTierHandler creates a new TierHandler
func NewTierHandler(tierService *membershipapp.Service) *TierHandler {
	return &TierHandler{tierService: tierService}
}

// Create defines a new membership tier
func (h *TierHandler) Create(c *gin.Context) {
	var req membershipapp.CreateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.tierService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID retrieves a tier by ID
func (h *TierHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tier ID format")
		return
	}

	result, err := h.tierService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List retrieves a paginated list of tiers
func (h *TierHandler) List(c *gin.Context) {
	var filter membershipapp.TierListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	tiers, total, err := h.tierService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, tiers, total, filter.Page, filter.PageSize)
}

// Update modifies a tier's details
func (h *TierHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tier ID format")
		return
	}

	var req membershipapp.UpdateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.tierService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Activate makes a tier assignable
func (h *TierHandler) Activate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tier ID format")
		return
	}

	result, err := h.tierService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Deactivate withdraws a tier from assignment
func (h *TierHandler) Deactivate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tier ID format")
		return
	}

	result, err := h.tierService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes a tier that has no members
func (h *TierHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tier ID format")
		return
	}

	if err := h.tierService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
