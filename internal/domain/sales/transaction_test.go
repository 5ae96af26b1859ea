package sales

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaftolife/backend/internal/domain/shared/valueobject"
)

func newDraftTransaction(t *testing.T) *Transaction {
	t.Helper()
	txn, err := NewTransaction("TXN-2026-00001", uuid.New(), "P-0001", "Tan Mei Ling", "meiling@example.com")
	require.NoError(t, err)
	return txn
}

func addItem(t *testing.T, txn *Transaction, price float64, qty int64) *TransactionItem {
	t.Helper()
	item, err := txn.AddItem(ItemTypeProduct, uuid.New(), "HERB-001", "Dried Chrysanthemum", "g",
		decimal.NewFromInt(qty), valueobject.NewMoneySGDFromFloat(price))
	require.NoError(t, err)
	return item
}

func TestNewTransaction(t *testing.T) {
	t.Run("creates draft with patient snapshot", func(t *testing.T) {
		txn := newDraftTransaction(t)

		assert.Equal(t, "TXN-2026-00001", txn.Number)
		assert.Equal(t, "Tan Mei Ling", txn.PatientName)
		assert.Equal(t, TransactionStatusDraft, txn.Status)
		assert.True(t, txn.Total.IsZero())
		assert.Len(t, txn.GetDomainEvents(), 1)
	})

	t.Run("fails with empty number", func(t *testing.T) {
		_, err := NewTransaction("", uuid.New(), "P-0001", "Tan Mei Ling", "")
		require.Error(t, err)
	})

	t.Run("fails with nil patient", func(t *testing.T) {
		_, err := NewTransaction("TXN-2026-00001", uuid.Nil, "P-0001", "Tan Mei Ling", "")
		require.Error(t, err)
	})
}

func TestTransactionAddItem(t *testing.T) {
	t.Run("recalculates subtotal and total", func(t *testing.T) {
		txn := newDraftTransaction(t)

		addItem(t, txn, 3.50, 2)
		addItem(t, txn, 10.00, 1)

		assert.True(t, txn.Subtotal.Equal(decimal.NewFromInt(17)))
		assert.True(t, txn.Total.Equal(decimal.NewFromInt(17)))
	})

	t.Run("rejects invalid item type", func(t *testing.T) {
		txn := newDraftTransaction(t)

		_, err := txn.AddItem(ItemType("service"), uuid.New(), "X", "X", "", decimal.NewFromInt(1), valueobject.ZeroSGD())
		require.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		txn := newDraftTransaction(t)

		_, err := txn.AddItem(ItemTypeProduct, uuid.New(), "X", "X", "", decimal.Zero, valueobject.ZeroSGD())
		require.Error(t, err)
	})

	t.Run("rejects edits once completed", func(t *testing.T) {
		txn := newDraftTransaction(t)
		addItem(t, txn, 3.50, 2)
		require.NoError(t, txn.Complete(PaymentMethodCash))

		_, err := txn.AddItem(ItemTypeProduct, uuid.New(), "X", "X", "", decimal.NewFromInt(1), valueobject.ZeroSGD())
		require.Error(t, err)
	})
}

func TestTransactionUpdateAndRemoveItem(t *testing.T) {
	txn := newDraftTransaction(t)
	item := addItem(t, txn, 3.50, 2)
	other := addItem(t, txn, 10.00, 1)

	require.NoError(t, txn.UpdateItemQuantity(item.ID, decimal.NewFromInt(4)))
	assert.True(t, txn.Subtotal.Equal(decimal.NewFromInt(24)), "4×3.50 + 10.00")

	require.NoError(t, txn.RemoveItem(other.ID))
	assert.True(t, txn.Subtotal.Equal(decimal.NewFromInt(14)))

	assert.Error(t, txn.RemoveItem(other.ID))
	assert.Error(t, txn.UpdateItemQuantity(uuid.New(), decimal.NewFromInt(1)))
}

func TestTransactionDiscounts(t *testing.T) {
	t.Run("membership discount applies before manual discount", func(t *testing.T) {
		txn := newDraftTransaction(t)
		addItem(t, txn, 50.00, 2) // subtotal 100

		require.NoError(t, txn.ApplyMembershipDiscount(decimal.NewFromInt(10)))
		require.NoError(t, txn.ApplyManualDiscount(valueobject.NewMoneySGDFromFloat(5)))

		assert.True(t, txn.MembershipDiscount.Equal(decimal.NewFromInt(10)))
		assert.True(t, txn.Total.Equal(decimal.NewFromInt(85)))
	})

	t.Run("membership discount rounds to cents", func(t *testing.T) {
		txn := newDraftTransaction(t)
		addItem(t, txn, 9.99, 1)

		require.NoError(t, txn.ApplyMembershipDiscount(decimal.RequireFromString("7.5")))

		// 9.99 × 7.5% = 0.74925 → 0.75
		assert.True(t, txn.MembershipDiscount.Equal(decimal.RequireFromString("0.75")), "got %s", txn.MembershipDiscount)
	})

	t.Run("membership discount follows line changes", func(t *testing.T) {
		txn := newDraftTransaction(t)
		item := addItem(t, txn, 50.00, 2)
		require.NoError(t, txn.ApplyMembershipDiscount(decimal.NewFromInt(10)))

		require.NoError(t, txn.UpdateItemQuantity(item.ID, decimal.NewFromInt(1)))

		assert.True(t, txn.MembershipDiscount.Equal(decimal.NewFromInt(5)))
	})

	t.Run("total never goes negative", func(t *testing.T) {
		txn := newDraftTransaction(t)
		addItem(t, txn, 10.00, 1)

		require.NoError(t, txn.ApplyManualDiscount(valueobject.NewMoneySGDFromFloat(50)))

		assert.True(t, txn.Total.IsZero())
	})

	t.Run("rejects percent outside 0-100", func(t *testing.T) {
		txn := newDraftTransaction(t)

		assert.Error(t, txn.ApplyMembershipDiscount(decimal.NewFromInt(101)))
		assert.Error(t, txn.ApplyMembershipDiscount(decimal.NewFromInt(-1)))
	})
}

func TestTransactionComplete(t *testing.T) {
	t.Run("draft with items completes", func(t *testing.T) {
		txn := newDraftTransaction(t)
		addItem(t, txn, 3.50, 2)
		txn.ClearDomainEvents()

		err := txn.Complete(PaymentMethodPayNow)

		require.NoError(t, err)
		assert.Equal(t, TransactionStatusCompleted, txn.Status)
		assert.NotNil(t, txn.CompletedAt)
		assert.Equal(t, PaymentMethodPayNow, txn.PaymentMethod)

		events := txn.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeTransactionCompleted, events[0].EventType())
	})

	t.Run("empty draft cannot complete", func(t *testing.T) {
		txn := newDraftTransaction(t)

		err := txn.Complete(PaymentMethodCash)
		require.Error(t, err)
	})

	t.Run("rejects invalid payment method", func(t *testing.T) {
		txn := newDraftTransaction(t)
		addItem(t, txn, 3.50, 2)

		err := txn.Complete(PaymentMethod("iou"))
		require.Error(t, err)
	})

	t.Run("cannot complete twice", func(t *testing.T) {
		txn := newDraftTransaction(t)
		addItem(t, txn, 3.50, 2)
		require.NoError(t, txn.Complete(PaymentMethodCash))

		err := txn.Complete(PaymentMethodCash)
		require.Error(t, err)
	})
}

func TestTransactionVoid(t *testing.T) {
	t.Run("completed transaction voids with reason", func(t *testing.T) {
		txn := newDraftTransaction(t)
		addItem(t, txn, 3.50, 2)
		require.NoError(t, txn.Complete(PaymentMethodCash))

		err := txn.Void("wrong patient selected")

		require.NoError(t, err)
		assert.Equal(t, TransactionStatusVoided, txn.Status)
		assert.NotNil(t, txn.VoidedAt)
	})

	t.Run("draft cannot be voided", func(t *testing.T) {
		txn := newDraftTransaction(t)
		addItem(t, txn, 3.50, 2)

		assert.Error(t, txn.Void("mistake"))
	})

	t.Run("requires a reason", func(t *testing.T) {
		txn := newDraftTransaction(t)
		addItem(t, txn, 3.50, 2)
		require.NoError(t, txn.Complete(PaymentMethodCash))

		assert.Error(t, txn.Void("  "))
	})
}

func TestTransactionInvoiceBookkeeping(t *testing.T) {
	t.Run("invoice number assigned once after completion", func(t *testing.T) {
		txn := newDraftTransaction(t)
		addItem(t, txn, 3.50, 2)

		assert.Error(t, txn.AssignInvoiceNumber("INV-2026-00001"), "draft gets no invoice")

		require.NoError(t, txn.Complete(PaymentMethodCash))
		require.NoError(t, txn.AssignInvoiceNumber("INV-2026-00001"))
		assert.Error(t, txn.AssignInvoiceNumber("INV-2026-00002"))
	})

	t.Run("pipeline flags written back", func(t *testing.T) {
		txn := newDraftTransaction(t)
		addItem(t, txn, 3.50, 2)
		require.NoError(t, txn.Complete(PaymentMethodCash))
		require.NoError(t, txn.AssignInvoiceNumber("INV-2026-00001"))

		txn.RecordInvoiceError(errors.New("chromedp: page load timeout"))
		assert.Equal(t, "chromedp: page load timeout", txn.InvoiceLastError)

		txn.MarkInvoiceGenerated("invoices/INV-2026-00001-P-0001.pdf")
		assert.True(t, txn.InvoiceGenerated)
		assert.NotNil(t, txn.InvoiceGeneratedAt)
		assert.Empty(t, txn.InvoiceLastError, "success clears the last error")

		txn.MarkInvoiceEmailed()
		assert.True(t, txn.InvoiceEmailed)
		assert.NotNil(t, txn.InvoiceEmailedAt)
	})

	t.Run("long error messages are truncated", func(t *testing.T) {
		txn := newDraftTransaction(t)

		txn.RecordInvoiceError(errors.New(strings.Repeat("x", 2000)))

		assert.Len(t, txn.InvoiceLastError, 1000)
	})
}

func TestTransactionStatusTransitions(t *testing.T) {
	assert.True(t, TransactionStatusDraft.CanTransitionTo(TransactionStatusCompleted))
	assert.True(t, TransactionStatusCompleted.CanTransitionTo(TransactionStatusVoided))
	assert.False(t, TransactionStatusDraft.CanTransitionTo(TransactionStatusVoided))
	assert.False(t, TransactionStatusVoided.CanTransitionTo(TransactionStatusDraft))
	assert.False(t, TransactionStatus("unknown").IsValid())
}
