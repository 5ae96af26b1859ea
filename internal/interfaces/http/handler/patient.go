package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	patientapp "github.com/leaftolife/backend/internal/application/patient"
)

// PatientHandler handles patient record endpoints
type PatientHandler struct {
	BaseHandler
	patientService *patientapp.Service
}

// NewPatientHandler creates a new PatientHandler
func NewPatientHandler(patientService *patientapp.Service) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

// Register creates a new patient record
func (h *PatientHandler) Register(c *gin.Context) {
	var req patientapp.RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.patientService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID retrieves a patient by ID
func (h *PatientHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid patient ID format")
		return
	}

	result, err := h.patientService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByCode retrieves a patient by code
func (h *PatientHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Patient code is required")
		return
	}

	result, err := h.patientService.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List retrieves a paginated list of patients
func (h *PatientHandler) List(c *gin.Context) {
	var filter patientapp.PatientListFilter
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

	patients, total, err := h.patientService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, patients, total, filter.Page, filter.PageSize)
}

// Update modifies a patient's contact details
func (h *PatientHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid patient ID format")
		return
	}

	var req patientapp.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.patientService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateClinicalNotes replaces a patient's allergies and notes
func (h *PatientHandler) UpdateClinicalNotes(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid patient ID format")
		return
	}

	var req patientapp.UpdateClinicalNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.patientService.UpdateClinicalNotes(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AssignTier places a patient on a membership tier
func (h *PatientHandler) AssignTier(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid patient ID format")
		return
	}

	var req patientapp.AssignTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if req.TierID == uuid.Nil {
		h.BadRequest(c, "Tier ID is required")
		return
	}

	result, err := h.patientService.AssignTier(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ClearTier removes a patient's membership tier
func (h *PatientHandler) ClearTier(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid patient ID format")
		return
	}

	result, err := h.patientService.ClearTier(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Archive soft-deletes a patient record
func (h *PatientHandler) Archive(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid patient ID format")
		return
	}

	result, err := h.patientService.Archive(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Restore reactivates an archived patient record
func (h *PatientHandler) Restore(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid patient ID format")
		return
	}

	result, err := h.patientService.Restore(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
