package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/leaftolife/backend/internal/domain/sales"
	"github.com/leaftolife/backend/internal/domain/shared"
)

// InvoiceData is the render model for an invoice PDF
type InvoiceData struct {
	InvoiceNumber      string
	TransactionNumber  string
	IssuedAt           time.Time
	PatientCode        string
	PatientName        string
	Items              []InvoiceLineData
	Subtotal           decimal.Decimal
	MembershipDiscount decimal.Decimal
	ManualDiscount     decimal.Decimal
	Total              decimal.Decimal
	PaymentMethod      string
}

// InvoiceLineData is one line on a rendered invoice
type InvoiceLineData struct {
	Name      string
	Quantity  decimal.Decimal
	Unit      string
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// InvoiceRenderer renders an invoice to PDF bytes
type InvoiceRenderer interface {
	RenderInvoice(ctx context.Context, data InvoiceData) ([]byte, error)
}

// InvoiceStore persists invoice PDFs under deterministic object keys
type InvoiceStore interface {
	Put(ctx context.Context, key string, pdf []byte) error
	// URL returns a download location for a stored PDF: a presigned URL for
	// object storage, a local path otherwise.
	URL(ctx context.Context, key string) (string, error)
}

// InvoiceMailer sends a rendered invoice to the patient
type InvoiceMailer interface {
	SendInvoice(ctx context.Context, to, invoiceNumber string, pdf []byte, filename string) error
}

// InvoiceMetrics receives counters for the invoice pipeline
type InvoiceMetrics interface {
	RecordInvoiceGenerated(ctx context.Context)
	RecordInvoiceEmailed(ctx context.Context)
	RecordInvoiceFailure(ctx context.Context, stage string)
}

// InvoiceService renders, stores and emails invoice PDFs. It runs behind
// the completion event, after the sale's own database transaction has
// committed; every failure is recorded on the transaction record instead of
// surfacing to the original request.
type InvoiceService struct {
	txnRepo  sales.Repository
	renderer InvoiceRenderer
	store    InvoiceStore
	mailer   InvoiceMailer
	metrics  InvoiceMetrics
	logger   *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(txnRepo sales.Repository, renderer InvoiceRenderer, store InvoiceStore, mailer InvoiceMailer, logger *zap.Logger) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		txnRepo:  txnRepo,
		renderer: renderer,
		store:    store,
		mailer:   mailer,
		logger:   logger,
	}
}

// SetMetrics attaches pipeline counters. Nil metrics are a no-op.
func (s *InvoiceService) SetMetrics(metrics InvoiceMetrics) {
	s.metrics = metrics
}

// GenerateAndEmail renders and stores the invoice PDF, then emails it to the
// patient when an address is on record. Flags and the last error are written
// back to the transaction.
func (s *InvoiceService) GenerateAndEmail(ctx context.Context, transactionID uuid.UUID) error {
	txn, err := s.txnRepo.FindByID(ctx, transactionID)
	if err != nil {
		return err
	}

	pdf, err := s.generate(ctx, txn)
	if err != nil {
		return err
	}

	return s.email(ctx, txn, pdf)
}

// Regenerate re-renders and re-stores the invoice PDF for a completed
// transaction, overwriting the previous object.
func (s *InvoiceService) Regenerate(ctx context.Context, transactionID uuid.UUID) (*TransactionResponse, error) {
	txn, err := s.txnRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.generate(ctx, txn); err != nil {
		return nil, err
	}

	response := ToTransactionResponse(txn)
	return &response, nil
}

// Resend re-renders the invoice if needed and emails it again
func (s *InvoiceService) Resend(ctx context.Context, transactionID uuid.UUID) (*TransactionResponse, error) {
	txn, err := s.txnRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	pdf, err := s.generate(ctx, txn)
	if err != nil {
		return nil, err
	}
	if txn.PatientEmail == "" {
		return nil, shared.NewDomainError("NO_EMAIL", "Patient has no email address on record")
	}
	if err := s.email(ctx, txn, pdf); err != nil {
		return nil, err
	}

	response := ToTransactionResponse(txn)
	return &response, nil
}

// DownloadURL returns the download location of a generated invoice PDF
func (s *InvoiceService) DownloadURL(ctx context.Context, transactionID uuid.UUID) (*InvoiceDownloadResponse, error) {
	txn, err := s.txnRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.InvoiceGenerated || txn.InvoicePDFKey == "" {
		return nil, shared.NewDomainError("INVOICE_NOT_GENERATED", "Invoice PDF has not been generated yet")
	}

	url, err := s.store.URL(ctx, txn.InvoicePDFKey)
	if err != nil {
		return nil, err
	}

	return &InvoiceDownloadResponse{
		InvoiceNumber: txn.InvoiceNumber,
		URL:           url,
	}, nil
}

// generate renders and stores the PDF, recording the outcome on the record
func (s *InvoiceService) generate(ctx context.Context, txn *sales.Transaction) ([]byte, error) {
	if txn.Status != sales.TransactionStatusCompleted {
		return nil, shared.NewDomainError("INVALID_STATE", "Only completed transactions have invoices")
	}
	if txn.InvoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_STATE", "Transaction has no invoice number")
	}

	pdf, err := s.renderer.RenderInvoice(ctx, buildInvoiceData(txn))
	if err != nil {
		s.recordFailure(ctx, txn, "render", err)
		return nil, err
	}

	key := InvoiceObjectKey(txn.InvoiceNumber, txn.PatientCode)
	if err := s.store.Put(ctx, key, pdf); err != nil {
		s.recordFailure(ctx, txn, "store", err)
		return nil, err
	}

	txn.MarkInvoiceGenerated(key)
	if err := s.txnRepo.Save(ctx, txn); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordInvoiceGenerated(ctx)
	}
	s.logger.Info("invoice generated",
		zap.String("invoice_number", txn.InvoiceNumber),
		zap.String("key", key))

	return pdf, nil
}

// email sends the PDF to the patient. A missing address is not an error for
// the pipeline; the emailed flag simply stays false.
func (s *InvoiceService) email(ctx context.Context, txn *sales.Transaction, pdf []byte) error {
	if txn.PatientEmail == "" {
		s.logger.Info("invoice not emailed, patient has no address",
			zap.String("invoice_number", txn.InvoiceNumber))
		return nil
	}

	filename := InvoiceFilename(txn.InvoiceNumber, txn.PatientCode)
	if err := s.mailer.SendInvoice(ctx, txn.PatientEmail, txn.InvoiceNumber, pdf, filename); err != nil {
		s.recordFailure(ctx, txn, "email", err)
		return err
	}

	txn.MarkInvoiceEmailed()
	if err := s.txnRepo.Save(ctx, txn); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordInvoiceEmailed(ctx)
	}
	s.logger.Info("invoice emailed",
		zap.String("invoice_number", txn.InvoiceNumber),
		zap.String("to", txn.PatientEmail))

	return nil
}

func (s *InvoiceService) recordFailure(ctx context.Context, txn *sales.Transaction, stage string, cause error) {
	if s.metrics != nil {
		s.metrics.RecordInvoiceFailure(ctx, stage)
	}
	s.logger.Error("invoice pipeline failed",
		zap.String("stage", stage),
		zap.String("transaction", txn.Number),
		zap.Error(cause))

	txn.RecordInvoiceError(cause)
	if err := s.txnRepo.Save(ctx, txn); err != nil {
		s.logger.Error("failed to record invoice error",
			zap.String("transaction", txn.Number),
			zap.Error(err))
	}
}

func buildInvoiceData(txn *sales.Transaction) InvoiceData {
	issuedAt := time.Now()
	if txn.CompletedAt != nil {
		issuedAt = *txn.CompletedAt
	}

	items := make([]InvoiceLineData, len(txn.Items))
	for i := range txn.Items {
		item := &txn.Items[i]
		items[i] = InvoiceLineData{
			Name:      item.Name,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}
	}

	return InvoiceData{
		InvoiceNumber:      txn.InvoiceNumber,
		TransactionNumber:  txn.Number,
		IssuedAt:           issuedAt,
		PatientCode:        txn.PatientCode,
		PatientName:        txn.PatientName,
		Items:              items,
		Subtotal:           txn.Subtotal,
		MembershipDiscount: txn.MembershipDiscount,
		ManualDiscount:     txn.ManualDiscount,
		Total:              txn.Total,
		PaymentMethod:      string(txn.PaymentMethod),
	}
}
