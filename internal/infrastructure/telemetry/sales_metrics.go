package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// SalesMetrics tracks checkout and invoice activity
type SalesMetrics struct {
	logger *zap.Logger

	transactionsCompleted metric.Int64Counter
	transactionsVoided    metric.Int64Counter
	revenueTotal          metric.Float64Counter
	transactionAmount     metric.Float64Histogram
	invoicesGenerated     metric.Int64Counter
	invoicesEmailed       metric.Int64Counter
	invoiceFailures       metric.Int64Counter
}

// NewSalesMetrics registers the sales instruments on the given meter
func NewSalesMetrics(meter metric.Meter, logger *zap.Logger) (*SalesMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &SalesMetrics{logger: logger}

	var err error
	if m.transactionsCompleted, err = meter.Int64Counter(
		"pos_transactions_completed_total",
		metric.WithDescription("Total number of completed sales transactions"),
		metric.WithUnit("{transactions}"),
	); err != nil {
		return nil, err
	}
	if m.transactionsVoided, err = meter.Int64Counter(
		"pos_transactions_voided_total",
		metric.WithDescription("Total number of voided sales transactions"),
		metric.WithUnit("{transactions}"),
	); err != nil {
		return nil, err
	}
	if m.revenueTotal, err = meter.Float64Counter(
		"pos_revenue_sgd_total",
		metric.WithDescription("Total revenue from completed transactions in SGD"),
		metric.WithUnit("SGD"),
	); err != nil {
		return nil, err
	}
	if m.transactionAmount, err = meter.Float64Histogram(
		"pos_transaction_amount_sgd",
		metric.WithDescription("Distribution of completed transaction totals in SGD"),
		metric.WithUnit("SGD"),
	); err != nil {
		return nil, err
	}
	if m.invoicesGenerated, err = meter.Int64Counter(
		"pos_invoices_generated_total",
		metric.WithDescription("Total number of invoice PDFs generated"),
		metric.WithUnit("{invoices}"),
	); err != nil {
		return nil, err
	}
	if m.invoicesEmailed, err = meter.Int64Counter(
		"pos_invoices_emailed_total",
		metric.WithDescription("Total number of invoices emailed to patients"),
		metric.WithUnit("{invoices}"),
	); err != nil {
		return nil, err
	}
	if m.invoiceFailures, err = meter.Int64Counter(
		"pos_invoice_failures_total",
		metric.WithDescription("Total number of invoice pipeline failures"),
		metric.WithUnit("{failures}"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordCompleted records a completed transaction and its revenue
func (m *SalesMetrics) RecordCompleted(ctx context.Context, total decimal.Decimal, paymentMethod string) {
	amount, _ := total.Float64()
	attrs := metric.WithAttributes(attribute.String("payment_method", paymentMethod))

	m.transactionsCompleted.Add(ctx, 1, attrs)
	m.revenueTotal.Add(ctx, amount, attrs)
	m.transactionAmount.Record(ctx, amount, attrs)
}

// RecordVoided records a voided transaction
func (m *SalesMetrics) RecordVoided(ctx context.Context) {
	m.transactionsVoided.Add(ctx, 1)
}

// RecordInvoiceGenerated records one generated invoice PDF
func (m *SalesMetrics) RecordInvoiceGenerated(ctx context.Context) {
	m.invoicesGenerated.Add(ctx, 1)
}

// RecordInvoiceEmailed records one emailed invoice
func (m *SalesMetrics) RecordInvoiceEmailed(ctx context.Context) {
	m.invoicesEmailed.Add(ctx, 1)
}

// RecordInvoiceFailure records an invoice pipeline failure at the given
// stage (render, store or email)
func (m *SalesMetrics) RecordInvoiceFailure(ctx context.Context, stage string) {
	m.invoiceFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}
