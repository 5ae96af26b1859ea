package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/leaftolife/backend/internal/domain/sales"
	"github.com/leaftolife/backend/internal/domain/shared"
	"github.com/leaftolife/backend/internal/domain/shared/valueobject"
)

type fakeRenderer struct {
	pdf      []byte
	err      error
	lastData InvoiceData
	calls    int
}

func (r *fakeRenderer) RenderInvoice(ctx context.Context, data InvoiceData) ([]byte, error) {
	r.lastData = data
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.pdf, nil
}

type fakeStore struct {
	err     error
	objects map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Put(ctx context.Context, key string, pdf []byte) error {
	if s.err != nil {
		return s.err
	}
	s.objects[key] = pdf
	return nil
}

func (s *fakeStore) URL(ctx context.Context, key string) (string, error) {
	return "https://files.example.com/" + key, nil
}

type fakeMailer struct {
	err          error
	sentTo       string
	sentFilename string
	calls        int
}

func (m *fakeMailer) SendInvoice(ctx context.Context, to, invoiceNumber string, pdf []byte, filename string) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.sentTo = to
	m.sentFilename = filename
	return nil
}

func newCompletedTransaction(t *testing.T, email string) *sales.Transaction {
	t.Helper()
	txn, err := sales.NewTransaction("TXN-2026-00080", newTestPatient(t).ID, "P-0001", "Zoë Müller", email)
	require.NoError(t, err)
	_, err = txn.AddItem(sales.ItemTypeProduct, txn.ID, "HERB-001", "Chamomile", "g", decimal.NewFromInt(2), valueobject.NewMoneySGDFromFloat(12.50))
	require.NoError(t, err)
	require.NoError(t, txn.Complete(sales.PaymentMethodCash))
	require.NoError(t, txn.AssignInvoiceNumber("INV-2026-00080"))
	txn.ClearDomainEvents()
	return txn
}

func TestInvoiceServiceGenerateAndEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("renders, stores and emails", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		renderer := &fakeRenderer{pdf: []byte("%PDF-1.7")}
		store := newFakeStore()
		mailer := &fakeMailer{}
		service := NewInvoiceService(txnRepo, renderer, store, mailer, nil)

		txn := newCompletedTransaction(t, "zoe@example.com")
		txnRepo.On("FindByID", ctx, txn.ID).Return(txn, nil)
		txnRepo.On("Save", ctx, txn).Return(nil)

		err := service.GenerateAndEmail(ctx, txn.ID)

		require.NoError(t, err)
		assert.True(t, txn.InvoiceGenerated)
		assert.True(t, txn.InvoiceEmailed)
		assert.Empty(t, txn.InvoiceLastError)
		assert.Equal(t, "invoices/INV-2026-00080-P-0001.pdf", txn.InvoicePDFKey)
		assert.Contains(t, store.objects, txn.InvoicePDFKey)
		assert.Equal(t, "zoe@example.com", mailer.sentTo)
		assert.Equal(t, "INV-2026-00080-P-0001.pdf", mailer.sentFilename)
		assert.Equal(t, "INV-2026-00080", renderer.lastData.InvoiceNumber)
		assert.Equal(t, "Zoë Müller", renderer.lastData.PatientName)
	})

	t.Run("missing email skips the send without error", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		renderer := &fakeRenderer{pdf: []byte("%PDF-1.7")}
		store := newFakeStore()
		mailer := &fakeMailer{}
		service := NewInvoiceService(txnRepo, renderer, store, mailer, nil)

		txn := newCompletedTransaction(t, "")
		txnRepo.On("FindByID", ctx, txn.ID).Return(txn, nil)
		txnRepo.On("Save", ctx, txn).Return(nil)

		err := service.GenerateAndEmail(ctx, txn.ID)

		require.NoError(t, err)
		assert.True(t, txn.InvoiceGenerated)
		assert.False(t, txn.InvoiceEmailed)
		assert.Zero(t, mailer.calls)
	})

	t.Run("render failure is recorded on the transaction", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		renderer := &fakeRenderer{err: errors.New("chrome exited")}
		store := newFakeStore()
		mailer := &fakeMailer{}
		service := NewInvoiceService(txnRepo, renderer, store, mailer, nil)

		txn := newCompletedTransaction(t, "zoe@example.com")
		txnRepo.On("FindByID", ctx, txn.ID).Return(txn, nil)
		txnRepo.On("Save", ctx, txn).Return(nil)

		err := service.GenerateAndEmail(ctx, txn.ID)

		assert.Error(t, err)
		assert.False(t, txn.InvoiceGenerated)
		assert.Contains(t, txn.InvoiceLastError, "chrome exited")
		assert.Empty(t, store.objects)
		assert.Zero(t, mailer.calls)
	})

	t.Run("store failure is recorded on the transaction", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		renderer := &fakeRenderer{pdf: []byte("%PDF-1.7")}
		store := newFakeStore()
		store.err = errors.New("bucket unavailable")
		mailer := &fakeMailer{}
		service := NewInvoiceService(txnRepo, renderer, store, mailer, nil)

		txn := newCompletedTransaction(t, "zoe@example.com")
		txnRepo.On("FindByID", ctx, txn.ID).Return(txn, nil)
		txnRepo.On("Save", ctx, txn).Return(nil)

		err := service.GenerateAndEmail(ctx, txn.ID)

		assert.Error(t, err)
		assert.False(t, txn.InvoiceGenerated)
		assert.Contains(t, txn.InvoiceLastError, "bucket unavailable")
	})

	t.Run("email failure leaves the PDF generated", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		renderer := &fakeRenderer{pdf: []byte("%PDF-1.7")}
		store := newFakeStore()
		mailer := &fakeMailer{err: errors.New("smtp timeout")}
		service := NewInvoiceService(txnRepo, renderer, store, mailer, nil)

		txn := newCompletedTransaction(t, "zoe@example.com")
		txnRepo.On("FindByID", ctx, txn.ID).Return(txn, nil)
		txnRepo.On("Save", ctx, txn).Return(nil)

		err := service.GenerateAndEmail(ctx, txn.ID)

		assert.Error(t, err)
		assert.True(t, txn.InvoiceGenerated)
		assert.False(t, txn.InvoiceEmailed)
		assert.Contains(t, txn.InvoiceLastError, "smtp timeout")
	})

	t.Run("draft transaction has no invoice", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		service := NewInvoiceService(txnRepo, &fakeRenderer{}, newFakeStore(), &fakeMailer{}, nil)

		txn, err := sales.NewTransaction("TXN-2026-00081", newTestPatient(t).ID, "P-0001", "Mei Tan", "")
		require.NoError(t, err)
		txnRepo.On("FindByID", ctx, txn.ID).Return(txn, nil)

		err = service.GenerateAndEmail(ctx, txn.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestInvoiceServiceResend(t *testing.T) {
	ctx := context.Background()

	t.Run("re-renders and re-sends", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		renderer := &fakeRenderer{pdf: []byte("%PDF-1.7")}
		store := newFakeStore()
		mailer := &fakeMailer{}
		service := NewInvoiceService(txnRepo, renderer, store, mailer, nil)

		txn := newCompletedTransaction(t, "zoe@example.com")
		txnRepo.On("FindByID", ctx, txn.ID).Return(txn, nil)
		txnRepo.On("Save", ctx, txn).Return(nil)

		resp, err := service.Resend(ctx, txn.ID)

		require.NoError(t, err)
		assert.True(t, resp.InvoiceEmailed)
		assert.Equal(t, 1, renderer.calls)
		assert.Equal(t, 1, mailer.calls)
	})

	t.Run("resend without an address fails", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		renderer := &fakeRenderer{pdf: []byte("%PDF-1.7")}
		service := NewInvoiceService(txnRepo, renderer, newFakeStore(), &fakeMailer{}, nil)

		txn := newCompletedTransaction(t, "")
		txnRepo.On("FindByID", ctx, txn.ID).Return(txn, nil)
		txnRepo.On("Save", ctx, txn).Return(nil)

		_, err := service.Resend(ctx, txn.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NO_EMAIL", domainErr.Code)
	})
}

func TestInvoiceServiceDownloadURL(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the store URL", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		service := NewInvoiceService(txnRepo, &fakeRenderer{}, newFakeStore(), &fakeMailer{}, nil)

		txn := newCompletedTransaction(t, "")
		txn.MarkInvoiceGenerated("invoices/INV-2026-00080-P-0001.pdf")
		txnRepo.On("FindByID", ctx, txn.ID).Return(txn, nil)

		resp, err := service.DownloadURL(ctx, txn.ID)

		require.NoError(t, err)
		assert.Equal(t, "INV-2026-00080", resp.InvoiceNumber)
		assert.Equal(t, "https://files.example.com/invoices/INV-2026-00080-P-0001.pdf", resp.URL)
	})

	t.Run("not generated yet", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		service := NewInvoiceService(txnRepo, &fakeRenderer{}, newFakeStore(), &fakeMailer{}, nil)

		txn := newCompletedTransaction(t, "")
		txnRepo.On("FindByID", ctx, txn.ID).Return(txn, nil)

		_, err := service.DownloadURL(ctx, txn.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVOICE_NOT_GENERATED", domainErr.Code)
	})
}

func TestTransactionCompletedHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("runs the pipeline for completion events", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		renderer := &fakeRenderer{pdf: []byte("%PDF-1.7")}
		store := newFakeStore()
		mailer := &fakeMailer{}
		service := NewInvoiceService(txnRepo, renderer, store, mailer, nil)
		handler := NewTransactionCompletedHandler(service, nil)

		txn := newCompletedTransaction(t, "zoe@example.com")
		txnRepo.On("FindByID", ctx, txn.ID).Return(txn, nil)
		txnRepo.On("Save", ctx, txn).Return(nil)

		event := sales.NewTransactionCompletedEvent(txn)
		err := handler.Handle(ctx, event)

		require.NoError(t, err)
		assert.True(t, txn.InvoiceGenerated)
		assert.Equal(t, []string{sales.EventTypeTransactionCompleted}, handler.EventTypes())
	})

	t.Run("pipeline failures are swallowed", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		renderer := &fakeRenderer{err: errors.New("chrome exited")}
		service := NewInvoiceService(txnRepo, renderer, newFakeStore(), &fakeMailer{}, nil)
		handler := NewTransactionCompletedHandler(service, nil)

		txn := newCompletedTransaction(t, "zoe@example.com")
		txnRepo.On("FindByID", ctx, txn.ID).Return(txn, nil)
		txnRepo.On("Save", ctx, txn).Return(nil)

		event := sales.NewTransactionCompletedEvent(txn)
		err := handler.Handle(ctx, event)

		assert.NoError(t, err)
		assert.False(t, txn.InvoiceGenerated)
	})

	t.Run("ignores unrelated events", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		service := NewInvoiceService(txnRepo, &fakeRenderer{}, newFakeStore(), &fakeMailer{}, nil)
		handler := NewTransactionCompletedHandler(service, nil)

		txn, err := sales.NewTransaction("TXN-2026-00090", newTestPatient(t).ID, "P-0001", "Mei Tan", "")
		require.NoError(t, err)

		err = handler.Handle(ctx, sales.NewTransactionCreatedEvent(txn))
		assert.NoError(t, err)
		txnRepo.AssertNotCalled(t, "FindByID", ctx, mock.Anything)
	})
}
