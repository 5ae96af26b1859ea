package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/leaftolife/backend/internal/application/catalog"
)

// BundleHandler handles product bundle endpoints
type BundleHandler struct {
	BaseHandler
	bundleService *catalogapp.BundleService
}

// NewBundleHandler creates a new BundleHandler
func NewBundleHandler(bundleService *catalogapp.BundleService) *BundleHandler {
	return &BundleHandler{bundleService: bundleService}
}

// Create defines a new bundle
func (h *BundleHandler) Create(c *gin.Context) {
	var req catalogapp.CreateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.bundleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID retrieves a bundle by ID
func (h *BundleHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid bundle ID format")
		return
	}

	result, err := h.bundleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List retrieves a paginated list of bundles
func (h *BundleHandler) List(c *gin.Context) {
	var filter catalogapp.BundleListFilter
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

	bundles, total, err := h.bundleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, bundles, total, filter.Page, filter.PageSize)
}

// Update modifies a bundle's details
func (h *BundleHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid bundle ID format")
		return
	}

	var req catalogapp.UpdateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.bundleService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AddComponent adds a product line to a bundle
func (h *BundleHandler) AddComponent(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid bundle ID format")
		return
	}

	var input catalogapp.BundleComponentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.bundleService.AddComponent(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RemoveComponent deletes a product line from a bundle
func (h *BundleHandler) RemoveComponent(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid bundle ID format")
		return
	}

	componentID, err := parseIDParam(c, "componentId")
	if err != nil {
		h.BadRequest(c, "Invalid component ID format")
		return
	}

	result, err := h.bundleService.RemoveComponent(c.Request.Context(), id, componentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Activate makes a bundle sellable
func (h *BundleHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.bundleService.Activate)
}

// Deactivate withdraws a bundle from sale
func (h *BundleHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.bundleService.Deactivate)
}

func (h *BundleHandler) changeStatus(c *gin.Context, change func(context.Context, uuid.UUID) (*catalogapp.BundleResponse, error)) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid bundle ID format")
		return
	}

	result, err := change(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
