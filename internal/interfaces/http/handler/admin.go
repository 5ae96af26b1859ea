package handler

import (
	"github.com/gin-gonic/gin"

	adminapp "github.com/leaftolife/backend/internal/application/admin"
)

// AdminHandler handles bulk operation and report endpoints
type AdminHandler struct {
	BaseHandler
	bulkService *adminapp.BulkService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(bulkService *adminapp.BulkService) *AdminHandler {
	return &AdminHandler{bulkService: bulkService}
}

// AdjustPrices shifts sell prices across a set of products
func (h *AdminHandler) AdjustPrices(c *gin.Context) {
	var req adminapp.BulkPriceAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.bulkService.AdjustPrices(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ArchivePatients archives a set of patient records in one call
func (h *AdminHandler) ArchivePatients(c *gin.Context) {
	var req adminapp.BulkArchivePatientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.bulkService.ArchivePatients(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ReassignTier moves every patient on one tier to another
func (h *AdminHandler) ReassignTier(c *gin.Context) {
	var req adminapp.BulkReassignTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.bulkService.ReassignTier(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// LowStockReport lists active products at or below their reorder level
func (h *AdminHandler) LowStockReport(c *gin.Context) {
	items, err := h.bulkService.LowStockReport(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}
