package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/leaftolife/backend/internal/domain/shared"
)

// Repository defines persistence operations for transactions
type Repository interface {
	shared.Repository[Transaction]
	FindByNumber(ctx context.Context, number string) (*Transaction, error)
	FindByPatient(ctx context.Context, patientID uuid.UUID, filter shared.Filter) (*shared.Paginated[Transaction], error)
	// SaveWithLock persists using optimistic locking on the version column.
	// Returns ErrConcurrencyConflict when the record changed underneath.
	SaveWithLock(ctx context.Context, txn *Transaction, expectedVersion int) error
	// NextNumber issues the next sequential transaction number, TXN-YYYY-NNNNN
	NextNumber(ctx context.Context) (string, error)
	// NextInvoiceNumber issues the next sequential invoice number, INV-YYYY-NNNNN
	NextInvoiceNumber(ctx context.Context) (string, error)
}
