package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/leaftolife/backend/internal/domain/sales"
	"github.com/leaftolife/backend/internal/domain/shared"
)

// CheckoutMetrics receives counters for completed and voided sales
type CheckoutMetrics interface {
	RecordCompleted(ctx context.Context, total decimal.Decimal, paymentMethod string)
	RecordVoided(ctx context.Context)
}

// TransactionMetricsHandler feeds sale outcomes into the metrics pipeline
type TransactionMetricsHandler struct {
	metrics CheckoutMetrics
}

// NewTransactionMetricsHandler creates a new TransactionMetricsHandler
func NewTransactionMetricsHandler(metrics CheckoutMetrics) *TransactionMetricsHandler {
	return &TransactionMetricsHandler{metrics: metrics}
}

// Handle records a counter for the observed event
func (h *TransactionMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.metrics == nil {
		return nil
	}

	switch e := event.(type) {
	case *sales.TransactionCompletedEvent:
		h.metrics.RecordCompleted(ctx, e.Total, string(e.PaymentMethod))
	case *sales.TransactionVoidedEvent:
		h.metrics.RecordVoided(ctx)
	}

	return nil
}

// EventTypes returns the event types this handler subscribes to
func (h *TransactionMetricsHandler) EventTypes() []string {
	return []string{
		sales.EventTypeTransactionCompleted,
		sales.EventTypeTransactionVoided,
	}
}
