package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leaftolife/backend/internal/domain/sales"
)

// CreateTransactionRequest represents a request to open a draft transaction
type CreateTransactionRequest struct {
	PatientID      uuid.UUID              `json:"patient_id" binding:"required"`
	Items          []TransactionItemInput `json:"items"`
	ManualDiscount *decimal.Decimal       `json:"manual_discount"`
	Notes          string                 `json:"notes"`
	Complete       bool                   `json:"complete"`       // Create and complete in one call
	PaymentMethod  sales.PaymentMethod    `json:"payment_method"` // Required when Complete is true
	AllowNegative  bool                   `json:"allow_negative"` // Permit stock to go negative on completion
}

// TransactionItemInput represents a line in a transaction request
type TransactionItemInput struct {
	ItemType  sales.ItemType   `json:"item_type" binding:"required,oneof=product blend bundle"`
	RefID     uuid.UUID        `json:"ref_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price"` // Override; required for blend lines
}

// UpdateItemRequest changes a line's quantity on a draft transaction
type UpdateItemRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// ApplyDiscountRequest applies a manual discount to a draft transaction
type ApplyDiscountRequest struct {
	ManualDiscount decimal.Decimal `json:"manual_discount"`
}

// CompleteTransactionRequest completes a draft transaction
type CompleteTransactionRequest struct {
	PaymentMethod sales.PaymentMethod `json:"payment_method" binding:"required,oneof=cash card paynow bank_transfer"`
	AllowNegative bool                `json:"allow_negative"`
}

// VoidTransactionRequest voids a completed transaction
type VoidTransactionRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// TransactionListFilter represents filter options for the transaction list
type TransactionListFilter struct {
	Search    string     `form:"search"`
	PatientID *uuid.UUID `form:"patient_id"`
	Status    string     `form:"status" binding:"omitempty,oneof=draft completed voided"`
	StartDate *time.Time `form:"start_date"`
	EndDate   *time.Time `form:"end_date"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TransactionItemResponse represents a sold line in API responses
type TransactionItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ItemType  string          `json:"item_type"`
	RefID     uuid.UUID       `json:"ref_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID                        uuid.UUID                 `json:"id"`
	Number                    string                    `json:"number"`
	PatientID                 uuid.UUID                 `json:"patient_id"`
	PatientCode               string                    `json:"patient_code"`
	PatientName               string                    `json:"patient_name"`
	Items                     []TransactionItemResponse `json:"items"`
	Subtotal                  decimal.Decimal           `json:"subtotal"`
	MembershipDiscountPercent decimal.Decimal           `json:"membership_discount_percent"`
	MembershipDiscount        decimal.Decimal           `json:"membership_discount"`
	ManualDiscount            decimal.Decimal           `json:"manual_discount"`
	Total                     decimal.Decimal           `json:"total"`
	PaymentMethod             string                    `json:"payment_method,omitempty"`
	Status                    string                    `json:"status"`
	Notes                     string                    `json:"notes,omitempty"`
	CompletedAt               *time.Time                `json:"completed_at,omitempty"`
	VoidedAt                  *time.Time                `json:"voided_at,omitempty"`
	VoidReason                string                    `json:"void_reason,omitempty"`
	InvoiceNumber             string                    `json:"invoice_number,omitempty"`
	InvoiceGenerated          bool                      `json:"invoice_generated"`
	InvoiceGeneratedAt        *time.Time                `json:"invoice_generated_at,omitempty"`
	InvoiceEmailed            bool                      `json:"invoice_emailed"`
	InvoiceEmailedAt          *time.Time                `json:"invoice_emailed_at,omitempty"`
	InvoiceLastError          string                    `json:"invoice_last_error,omitempty"`
	CreatedAt                 time.Time                 `json:"created_at"`
	UpdatedAt                 time.Time                 `json:"updated_at"`
}

// InvoiceDownloadResponse carries the location of a stored invoice PDF
type InvoiceDownloadResponse struct {
	InvoiceNumber string `json:"invoice_number"`
	URL           string `json:"url"`
}

// ToTransactionResponse converts a transaction aggregate to a response DTO
func ToTransactionResponse(t *sales.Transaction) TransactionResponse {
	items := make([]TransactionItemResponse, len(t.Items))
	for i := range t.Items {
		item := &t.Items[i]
		items[i] = TransactionItemResponse{
			ID:        item.ID,
			ItemType:  string(item.ItemType),
			RefID:     item.RefID,
			Code:      item.Code,
			Name:      item.Name,
			Unit:      item.Unit,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}
	}
	return TransactionResponse{
		ID:                        t.ID,
		Number:                    t.Number,
		PatientID:                 t.PatientID,
		PatientCode:               t.PatientCode,
		PatientName:               t.PatientName,
		Items:                     items,
		Subtotal:                  t.Subtotal,
		MembershipDiscountPercent: t.MembershipDiscountPercent,
		MembershipDiscount:        t.MembershipDiscount,
		ManualDiscount:            t.ManualDiscount,
		Total:                     t.Total,
		PaymentMethod:             string(t.PaymentMethod),
		Status:                    string(t.Status),
		Notes:                     t.Notes,
		CompletedAt:               t.CompletedAt,
		VoidedAt:                  t.VoidedAt,
		VoidReason:                t.VoidReason,
		InvoiceNumber:             t.InvoiceNumber,
		InvoiceGenerated:          t.InvoiceGenerated,
		InvoiceGeneratedAt:        t.InvoiceGeneratedAt,
		InvoiceEmailed:            t.InvoiceEmailed,
		InvoiceEmailedAt:          t.InvoiceEmailedAt,
		InvoiceLastError:          t.InvoiceLastError,
		CreatedAt:                 t.CreatedAt,
		UpdatedAt:                 t.UpdatedAt,
	}
}

// ToTransactionResponses converts a slice of transactions to response DTOs
func ToTransactionResponses(transactions []sales.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = ToTransactionResponse(&transactions[i])
	}
	return responses
}
