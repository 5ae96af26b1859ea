package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leaftolife/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeTransaction = "Transaction"

// Event type constants
const (
	EventTypeTransactionCreated   = "TransactionCreated"
	EventTypeTransactionCompleted = "TransactionCompleted"
	EventTypeTransactionVoided    = "TransactionVoided"
)

// TransactionCreatedEvent is raised when a draft transaction is opened
type TransactionCreatedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID `json:"transaction_id"`
	Number        string    `json:"number"`
	PatientID     uuid.UUID `json:"patient_id"`
}

// NewTransactionCreatedEvent creates a new TransactionCreatedEvent
func NewTransactionCreatedEvent(t *Transaction) *TransactionCreatedEvent {
	return &TransactionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionCreated, AggregateTypeTransaction, t.ID),
		TransactionID:   t.ID,
		Number:          t.Number,
		PatientID:       t.PatientID,
	}
}

// EventType returns the event type name
func (e *TransactionCreatedEvent) EventType() string {
	return EventTypeTransactionCreated
}

// TransactionCompletedEvent is raised when a transaction is completed.
// The invoice pipeline subscribes to this event.
type TransactionCompletedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	Number        string          `json:"number"`
	PatientID     uuid.UUID       `json:"patient_id"`
	PatientEmail  string          `json:"patient_email"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
}

// NewTransactionCompletedEvent creates a new TransactionCompletedEvent
func NewTransactionCompletedEvent(t *Transaction) *TransactionCompletedEvent {
	return &TransactionCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionCompleted, AggregateTypeTransaction, t.ID),
		TransactionID:   t.ID,
		Number:          t.Number,
		PatientID:       t.PatientID,
		PatientEmail:    t.PatientEmail,
		Total:           t.Total,
		PaymentMethod:   t.PaymentMethod,
	}
}

// EventType returns the event type name
func (e *TransactionCompletedEvent) EventType() string {
	return EventTypeTransactionCompleted
}

// TransactionVoidedEvent is raised when a completed transaction is voided
type TransactionVoidedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID `json:"transaction_id"`
	Number        string    `json:"number"`
	Reason        string    `json:"reason"`
}

// NewTransactionVoidedEvent creates a new TransactionVoidedEvent
func NewTransactionVoidedEvent(t *Transaction) *TransactionVoidedEvent {
	return &TransactionVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionVoided, AggregateTypeTransaction, t.ID),
		TransactionID:   t.ID,
		Number:          t.Number,
		Reason:          t.VoidReason,
	}
}

// EventType returns the event type name
func (e *TransactionVoidedEvent) EventType() string {
	return EventTypeTransactionVoided
}
