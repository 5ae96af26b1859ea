package patient

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leaftolife/backend/internal/domain/shared"
)

// Status represents the lifecycle status of a patient record
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// IsValid checks if the status is a valid patient Status
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusArchived
}

var codePattern = regexp.MustCompile(`^[A-Z0-9-]+$`)

// Patient represents a clinic patient record.
// It is the aggregate root for patient-related operations.
type Patient struct {
	shared.BaseAggregateRoot
	Code             string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	FirstName        string     `gorm:"type:varchar(100);not null"`
	LastName         string     `gorm:"type:varchar(100)"`
	Email            string     `gorm:"type:varchar(200);index"`
	Phone            string     `gorm:"type:varchar(50);index"`
	DateOfBirth      *time.Time `gorm:"type:date"`
	Address          string     `gorm:"type:text"`
	Allergies        string     `gorm:"type:text"`
	Notes            string     `gorm:"type:text"`
	MembershipTierID *uuid.UUID `gorm:"type:uuid;index"`
	Status           Status     `gorm:"type:varchar(20);not null;default:'active'"`
	ArchivedAt       *time.Time
}

// TableName returns the table name for GORM
func (Patient) TableName() string {
	return "patients"
}

// NewPatient creates a new patient record
func NewPatient(code, firstName, lastName string) (*Patient, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if strings.TrimSpace(firstName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "First name cannot be empty")
	}
	if len(firstName) > 100 || len(lastName) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}

	p := &Patient{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		FirstName:         firstName,
		LastName:          lastName,
		Status:            StatusActive,
	}

	p.AddDomainEvent(NewPatientRegisteredEvent(p))

	return p, nil
}

// FullName returns the patient's display name
func (p *Patient) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// UpdateDetails updates the patient's personal details
func (p *Patient) UpdateDetails(firstName, lastName, email, phone, address string, dateOfBirth *time.Time) error {
	if strings.TrimSpace(firstName) == "" {
		return shared.NewDomainError("INVALID_NAME", "First name cannot be empty")
	}
	if email != "" && len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	p.FirstName = firstName
	p.LastName = lastName
	p.Email = email
	p.Phone = phone
	p.Address = address
	p.DateOfBirth = dateOfBirth
	p.Touch()

	return nil
}

// UpdateClinicalNotes updates allergies and free-form notes
func (p *Patient) UpdateClinicalNotes(allergies, notes string) {
	p.Allergies = allergies
	p.Notes = notes
	p.Touch()
}

// AssignMembershipTier links the patient to a membership tier.
// Archived patients cannot be assigned a tier.
func (p *Patient) AssignMembershipTier(tierID uuid.UUID) error {
	if p.Status == StatusArchived {
		return shared.ErrPatientArchived
	}
	if tierID == uuid.Nil {
		return shared.NewDomainError("INVALID_TIER", "Membership tier ID cannot be empty")
	}

	p.MembershipTierID = &tierID
	p.Touch()

	p.AddDomainEvent(NewPatientTierAssignedEvent(p, tierID))

	return nil
}

// ClearMembershipTier removes the patient's membership tier
func (p *Patient) ClearMembershipTier() {
	p.MembershipTierID = nil
	p.Touch()
}

// Archive marks the patient record as archived
func (p *Patient) Archive() error {
	if p.Status == StatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Patient is already archived")
	}

	now := time.Now()
	p.Status = StatusArchived
	p.ArchivedAt = &now
	p.Touch()

	p.AddDomainEvent(NewPatientArchivedEvent(p))

	return nil
}

// Restore reactivates an archived patient record
func (p *Patient) Restore() error {
	if p.Status != StatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Patient is not archived")
	}

	p.Status = StatusActive
	p.ArchivedAt = nil
	p.Touch()

	return nil
}

// IsActive returns true if the patient record is active
func (p *Patient) IsActive() bool {
	return p.Status == StatusActive
}

func validateCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Patient code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Patient code cannot exceed 50 characters")
	}
	if !codePattern.MatchString(strings.ToUpper(code)) {
		return shared.NewDomainError("INVALID_CODE", "Patient code can only contain letters, digits and hyphens")
	}
	return nil
}
