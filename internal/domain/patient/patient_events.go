package patient

import (
	"github.com/google/uuid"
	"github.com/leaftolife/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePatient = "Patient"

// Event type constants
const (
	EventTypePatientRegistered   = "PatientRegistered"
	EventTypePatientArchived     = "PatientArchived"
	EventTypePatientTierAssigned = "PatientTierAssigned"
)

// PatientRegisteredEvent is raised when a new patient record is created
type PatientRegisteredEvent struct {
	shared.BaseDomainEvent
	PatientID uuid.UUID `json:"patient_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
}

// NewPatientRegisteredEvent creates a new PatientRegisteredEvent
func NewPatientRegisteredEvent(p *Patient) *PatientRegisteredEvent {
	return &PatientRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePatientRegistered, AggregateTypePatient, p.ID),
		PatientID:       p.ID,
		Code:            p.Code,
		Name:            p.FullName(),
	}
}

// EventType returns the event type name
func (e *PatientRegisteredEvent) EventType() string {
	return EventTypePatientRegistered
}

// PatientArchivedEvent is raised when a patient record is archived
type PatientArchivedEvent struct {
	shared.BaseDomainEvent
	PatientID uuid.UUID `json:"patient_id"`
	Code      string    `json:"code"`
}

// NewPatientArchivedEvent creates a new PatientArchivedEvent
func NewPatientArchivedEvent(p *Patient) *PatientArchivedEvent {
	return &PatientArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePatientArchived, AggregateTypePatient, p.ID),
		PatientID:       p.ID,
		Code:            p.Code,
	}
}

// EventType returns the event type name
func (e *PatientArchivedEvent) EventType() string {
	return EventTypePatientArchived
}

// PatientTierAssignedEvent is raised when a membership tier is assigned
type PatientTierAssignedEvent struct {
	shared.BaseDomainEvent
	PatientID uuid.UUID `json:"patient_id"`
	TierID    uuid.UUID `json:"tier_id"`
}

// NewPatientTierAssignedEvent creates a new PatientTierAssignedEvent
func NewPatientTierAssignedEvent(p *Patient, tierID uuid.UUID) *PatientTierAssignedEvent {
	return &PatientTierAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePatientTierAssigned, AggregateTypePatient, p.ID),
		PatientID:       p.ID,
		TierID:          tierID,
	}
}

// EventType returns the event type name
func (e *PatientTierAssignedEvent) EventType() string {
	return EventTypePatientTierAssigned
}
