package sales

import (
	"context"

	"go.uber.org/zap"

	"github.com/leaftolife/backend/internal/domain/sales"
	"github.com/leaftolife/backend/internal/domain/shared"
)

// TransactionCompletedHandler runs the invoice pipeline when a transaction
// completes. The event bus dispatches it off the request goroutine, so the
// pipeline is fire-and-forget from the caller's perspective; failures are
// logged and recorded on the transaction, never returned to the client.
type TransactionCompletedHandler struct {
	invoiceService *InvoiceService
	logger         *zap.Logger
}

// NewTransactionCompletedHandler creates a new TransactionCompletedHandler
func NewTransactionCompletedHandler(invoiceService *InvoiceService, logger *zap.Logger) *TransactionCompletedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionCompletedHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// Handle processes a TransactionCompletedEvent
func (h *TransactionCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*sales.TransactionCompletedEvent)
	if !ok {
		return nil
	}

	if err := h.invoiceService.GenerateAndEmail(ctx, completed.TransactionID); err != nil {
		// The error is already recorded on the transaction; log and swallow
		// so the bus does not treat it as a handler crash.
		h.logger.Warn("invoice pipeline did not finish",
			zap.String("transaction", completed.Number),
			zap.Error(err))
	}

	return nil
}

// EventTypes returns the event types this handler subscribes to
func (h *TransactionCompletedHandler) EventTypes() []string {
	return []string{sales.EventTypeTransactionCompleted}
}
