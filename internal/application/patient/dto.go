package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/leaftolife/backend/internal/domain/patient"
)

// RegisterPatientRequest represents a request to register a patient
type RegisterPatientRequest struct {
	Code        string     `json:"code" binding:"omitempty,max=50"` // Auto-generated when empty
	FirstName   string     `json:"first_name" binding:"required,min=1,max=100"`
	LastName    string     `json:"last_name" binding:"max=100"`
	Email       string     `json:"email" binding:"omitempty,email"`
	Phone       string     `json:"phone" binding:"max=50"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Address     string     `json:"address" binding:"max=500"`
	Allergies   string     `json:"allergies"`
	Notes       string     `json:"notes"`
}

// UpdatePatientRequest represents a request to update patient details
type UpdatePatientRequest struct {
	FirstName   string     `json:"first_name" binding:"required,min=1,max=100"`
	LastName    string     `json:"last_name" binding:"max=100"`
	Email       string     `json:"email" binding:"omitempty,email"`
	Phone       string     `json:"phone" binding:"max=50"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Address     string     `json:"address" binding:"max=500"`
}

// UpdateClinicalNotesRequest represents a request to update allergies and notes
type UpdateClinicalNotesRequest struct {
	Allergies string `json:"allergies"`
	Notes     string `json:"notes"`
}

// AssignTierRequest represents a request to assign a membership tier
type AssignTierRequest struct {
	TierID uuid.UUID `json:"tier_id" binding:"required"`
}

// PatientListFilter represents filter options for the patient list
type PatientListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=active archived"`
	TierID   *uuid.UUID `form:"tier_id"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PatientResponse represents a patient in API responses
type PatientResponse struct {
	ID               uuid.UUID  `json:"id"`
	Code             string     `json:"code"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	FullName         string     `json:"full_name"`
	Email            string     `json:"email,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty"`
	Address          string     `json:"address,omitempty"`
	Allergies        string     `json:"allergies,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	MembershipTierID *uuid.UUID `json:"membership_tier_id,omitempty"`
	Status           string     `json:"status"`
	ArchivedAt       *time.Time `json:"archived_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ToPatientResponse converts a patient aggregate to a response DTO
func ToPatientResponse(p *patient.Patient) PatientResponse {
	return PatientResponse{
		ID:               p.ID,
		Code:             p.Code,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		FullName:         p.FullName(),
		Email:            p.Email,
		Phone:            p.Phone,
		DateOfBirth:      p.DateOfBirth,
		Address:          p.Address,
		Allergies:        p.Allergies,
		Notes:            p.Notes,
		MembershipTierID: p.MembershipTierID,
		Status:           string(p.Status),
		ArchivedAt:       p.ArchivedAt,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ToPatientResponses converts a slice of patients to response DTOs
func ToPatientResponses(patients []patient.Patient) []PatientResponse {
	responses := make([]PatientResponse, len(patients))
	for i := range patients {
		responses[i] = ToPatientResponse(&patients[i])
	}
	return responses
}
