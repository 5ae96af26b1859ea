package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/leaftolife/backend/internal/application/catalog"
)

// BlendHandler handles herbal blend template endpoints
type BlendHandler struct {
	BaseHandler
	blendService *catalogapp.BlendService
}

// NewBlendHandler creates a new BlendHandler
func NewBlendHandler(blendService *catalogapp.BlendService) *BlendHandler {
	return &BlendHandler{blendService: blendService}
}

// Create defines a new blend template
func (h *BlendHandler) Create(c *gin.Context) {
	var req catalogapp.CreateBlendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.blendService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID retrieves a blend template by ID
func (h *BlendHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid blend ID format")
		return
	}

	result, err := h.blendService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List retrieves a paginated list of blend templates
func (h *BlendHandler) List(c *gin.Context) {
	var filter catalogapp.BlendListFilter
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

	blends, total, err := h.blendService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, blends, total, filter.Page, filter.PageSize)
}

// Update modifies a blend template's details
func (h *BlendHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid blend ID format")
		return
	}

	var req catalogapp.UpdateBlendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.blendService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AddIngredient adds an ingredient line to a blend template
func (h *BlendHandler) AddIngredient(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid blend ID format")
		return
	}

	var input catalogapp.BlendIngredientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.blendService.AddIngredient(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateIngredient changes an ingredient line's quantity
func (h *BlendHandler) UpdateIngredient(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid blend ID format")
		return
	}

	ingredientID, err := parseIDParam(c, "ingredientId")
	if err != nil {
		h.BadRequest(c, "Invalid ingredient ID format")
		return
	}

	var req catalogapp.UpdateBlendIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.blendService.UpdateIngredient(c.Request.Context(), id, ingredientID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RemoveIngredient deletes an ingredient line from a blend template
func (h *BlendHandler) RemoveIngredient(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid blend ID format")
		return
	}

	ingredientID, err := parseIDParam(c, "ingredientId")
	if err != nil {
		h.BadRequest(c, "Invalid ingredient ID format")
		return
	}

	result, err := h.blendService.RemoveIngredient(c.Request.Context(), id, ingredientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Activate makes a blend template sellable
func (h *BlendHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.blendService.Activate)
}

// Deactivate withdraws a blend template from sale
func (h *BlendHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.blendService.Deactivate)
}

// Produce makes up stock of a blend, deducting ingredient inventory
func (h *BlendHandler) Produce(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid blend ID format")
		return
	}

	var req catalogapp.ProduceBlendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.blendService.Produce(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *BlendHandler) changeStatus(c *gin.Context, change func(context.Context, uuid.UUID) (*catalogapp.BlendResponse, error)) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid blend ID format")
		return
	}

	result, err := change(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
