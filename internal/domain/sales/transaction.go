package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leaftolife/backend/internal/domain/shared"
	"github.com/leaftolife/backend/internal/domain/shared/valueobject"
)

// TransactionStatus represents the lifecycle state of a transaction
type TransactionStatus string

const (
	TransactionStatusDraft     TransactionStatus = "draft"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusVoided    TransactionStatus = "voided"
)

// IsValid checks if the status value is valid
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusDraft, TransactionStatusCompleted, TransactionStatusVoided:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s TransactionStatus) CanTransitionTo(target TransactionStatus) bool {
	switch s {
	case TransactionStatusDraft:
		return target == TransactionStatusCompleted
	case TransactionStatusCompleted:
		return target == TransactionStatusVoided
	}
	return false
}

// PaymentMethod represents how a transaction was paid
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodPayNow       PaymentMethod = "paynow"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodPayNow, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// ItemType distinguishes what kind of sellable a line refers to
type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeBlend   ItemType = "blend"
	ItemTypeBundle  ItemType = "bundle"
)

// IsValid checks if the item type is valid
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeProduct, ItemTypeBlend, ItemTypeBundle:
		return true
	}
	return false
}

// TransactionItem is a sold line. Code, name, unit and price are snapshots
// taken when the line was added so later catalog edits never rewrite history.
type TransactionItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemType      ItemType        `gorm:"type:varchar(20);not null"`
	RefID         uuid.UUID       `gorm:"type:uuid;not null"` // Product, blend template or bundle ID
	Code          string          `gorm:"type:varchar(50);not null"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Unit          string          `gorm:"type:varchar(20)"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM
func (TransactionItem) TableName() string {
	return "transaction_items"
}

// GetLineTotalMoney returns the line total as Money
func (i *TransactionItem) GetLineTotalMoney() valueobject.Money {
	return valueobject.NewMoneySGD(i.LineTotal)
}

// Transaction is a point-of-sale record. Amounts are recalculated whenever
// lines or discounts change; once completed the record is immutable except
// for voiding and invoice bookkeeping.
type Transaction struct {
	shared.BaseAggregateRoot
	Number                    string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	PatientID                 uuid.UUID         `gorm:"type:uuid;not null;index"`
	PatientCode               string            `gorm:"type:varchar(50);not null"`
	PatientName               string            `gorm:"type:varchar(200);not null"`
	PatientEmail              string            `gorm:"type:varchar(100)"`
	Items                     []TransactionItem `gorm:"foreignKey:TransactionID"`
	Subtotal                  decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	MembershipDiscountPercent decimal.Decimal   `gorm:"type:decimal(5,2);not null;default:0"`
	MembershipDiscount        decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	ManualDiscount            decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Total                     decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentMethod             PaymentMethod     `gorm:"type:varchar(20)"`
	Status                    TransactionStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	Notes                     string            `gorm:"type:text"`
	CompletedAt               *time.Time
	VoidedAt                  *time.Time
	VoidReason                string `gorm:"type:varchar(500)"`

	// Invoice bookkeeping, written back by the fire-and-forget pipeline
	InvoiceNumber      string `gorm:"type:varchar(50);index"`
	InvoicePDFKey      string `gorm:"type:varchar(500)"`
	InvoiceGenerated   bool   `gorm:"not null;default:false"`
	InvoiceGeneratedAt *time.Time
	InvoiceEmailed     bool `gorm:"not null;default:false"`
	InvoiceEmailedAt   *time.Time
	InvoiceLastError   string `gorm:"type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// NewTransaction creates a new draft transaction for a patient.
// Patient details are snapshotted onto the record.
func NewTransaction(number string, patientID uuid.UUID, patientCode, patientName, patientEmail string) (*Transaction, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Transaction number cannot be empty")
	}
	if patientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PATIENT", "Patient ID cannot be empty")
	}
	if strings.TrimSpace(patientName) == "" {
		return nil, shared.NewDomainError("INVALID_PATIENT", "Patient name cannot be empty")
	}

	txn := &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		PatientID:         patientID,
		PatientCode:       patientCode,
		PatientName:       patientName,
		PatientEmail:      patientEmail,
		Subtotal:          decimal.Zero,
		ManualDiscount:    decimal.Zero,
		Total:             decimal.Zero,
		Status:            TransactionStatusDraft,
	}

	txn.AddDomainEvent(NewTransactionCreatedEvent(txn))

	return txn, nil
}

// AddItem adds a sold line to a draft transaction. Code, name, unit and
// unit price are recorded as immutable snapshots.
func (t *Transaction) AddItem(itemType ItemType, refID uuid.UUID, code, name, unit string, quantity decimal.Decimal, unitPrice valueobject.Money) (*TransactionItem, error) {
	if err := t.ensureDraft(); err != nil {
		return nil, err
	}
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", fmt.Sprintf("Invalid item type: %s", itemType))
	}
	if refID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item reference ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	item := TransactionItem{
		ID:            uuid.New(),
		TransactionID: t.ID,
		ItemType:      itemType,
		RefID:         refID,
		Code:          code,
		Name:          name,
		Unit:          unit,
		Quantity:      quantity,
		UnitPrice:     unitPrice.Amount(),
		LineTotal:     quantity.Mul(unitPrice.Amount()).Round(2),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	t.Items = append(t.Items, item)
	t.recalculate()

	return &t.Items[len(t.Items)-1], nil
}

// UpdateItemQuantity changes the quantity of a line on a draft transaction
func (t *Transaction) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if err := t.ensureDraft(); err != nil {
		return err
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}

	for idx := range t.Items {
		if t.Items[idx].ID == itemID {
			t.Items[idx].Quantity = quantity
			t.Items[idx].LineTotal = quantity.Mul(t.Items[idx].UnitPrice).Round(2)
			t.Items[idx].UpdatedAt = time.Now()
			t.recalculate()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Transaction item not found")
}

// RemoveItem removes a line from a draft transaction
func (t *Transaction) RemoveItem(itemID uuid.UUID) error {
	if err := t.ensureDraft(); err != nil {
		return err
	}

	for idx, item := range t.Items {
		if item.ID == itemID {
			t.Items = append(t.Items[:idx], t.Items[idx+1:]...)
			t.recalculate()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Transaction item not found")
}

// ApplyMembershipDiscount applies a percentage discount from the patient's
// membership tier. The discount amount is derived from the current subtotal.
func (t *Transaction) ApplyMembershipDiscount(percent decimal.Decimal) error {
	if err := t.ensureDraft(); err != nil {
		return err
	}
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
	}

	t.MembershipDiscountPercent = percent
	t.recalculate()

	return nil
}

// ApplyManualDiscount applies a flat discount on top of any membership discount
func (t *Transaction) ApplyManualDiscount(amount valueobject.Money) error {
	if err := t.ensureDraft(); err != nil {
		return err
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Manual discount cannot be negative")
	}

	t.ManualDiscount = amount.Amount()
	t.recalculate()

	return nil
}

// SetNotes attaches free-form notes to the transaction
func (t *Transaction) SetNotes(notes string) {
	t.Notes = notes
	t.Touch()
}

// Complete finalizes a draft transaction with the given payment method.
// Stock deduction happens alongside in the same database transaction; this
// method only owns the status change.
func (t *Transaction) Complete(method PaymentMethod) error {
	if !t.Status.CanTransitionTo(TransactionStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete transaction in status %s", t.Status))
	}
	if len(t.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot complete a transaction without items")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Invalid payment method: %s", method))
	}

	now := time.Now()
	t.PaymentMethod = method
	t.Status = TransactionStatusCompleted
	t.CompletedAt = &now
	t.Touch()

	t.AddDomainEvent(NewTransactionCompletedEvent(t))

	return nil
}

// Void cancels a completed transaction. Stock restoration is handled by the
// caller in the same database transaction.
func (t *Transaction) Void(reason string) error {
	if !t.Status.CanTransitionTo(TransactionStatusVoided) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void transaction in status %s", t.Status))
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}

	now := time.Now()
	t.Status = TransactionStatusVoided
	t.VoidedAt = &now
	t.VoidReason = reason
	t.Touch()

	t.AddDomainEvent(NewTransactionVoidedEvent(t))

	return nil
}

// AssignInvoiceNumber records the invoice number once, on completion
func (t *Transaction) AssignInvoiceNumber(number string) error {
	if t.Status != TransactionStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Only completed transactions get an invoice")
	}
	if t.InvoiceNumber != "" {
		return shared.NewDomainError("INVOICE_EXISTS", "Transaction already has an invoice number")
	}

	t.InvoiceNumber = number
	t.Touch()

	return nil
}

// MarkInvoiceGenerated records a successful PDF render and upload
func (t *Transaction) MarkInvoiceGenerated(pdfKey string) {
	now := time.Now()
	t.InvoicePDFKey = pdfKey
	t.InvoiceGenerated = true
	t.InvoiceGeneratedAt = &now
	t.InvoiceLastError = ""
	t.Touch()
}

// MarkInvoiceEmailed records a successful invoice email
func (t *Transaction) MarkInvoiceEmailed() {
	now := time.Now()
	t.InvoiceEmailed = true
	t.InvoiceEmailedAt = &now
	t.InvoiceLastError = ""
	t.Touch()
}

// RecordInvoiceError stores the latest pipeline failure for later inspection
func (t *Transaction) RecordInvoiceError(err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	if len(msg) > 1000 {
		msg = msg[:1000]
	}
	t.InvoiceLastError = msg
	t.Touch()
}

// IsDraft returns true while the transaction can still be edited
func (t *Transaction) IsDraft() bool {
	return t.Status == TransactionStatusDraft
}

// GetSubtotalMoney returns the subtotal as Money
func (t *Transaction) GetSubtotalMoney() valueobject.Money {
	return valueobject.NewMoneySGD(t.Subtotal)
}

// GetTotalMoney returns the total as Money
func (t *Transaction) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneySGD(t.Total)
}

func (t *Transaction) ensureDraft() error {
	if t.Status != TransactionStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Transaction in status %s cannot be modified", t.Status))
	}
	return nil
}

// recalculate rebuilds the amounts from the lines. Membership discount is
// computed before the manual discount and the total never goes negative.
func (t *Transaction) recalculate() {
	subtotal := decimal.Zero
	for _, item := range t.Items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	t.Subtotal = subtotal

	t.MembershipDiscount = valueobject.NewMoneySGD(subtotal).PercentOf(t.MembershipDiscountPercent).Amount()

	total := subtotal.Sub(t.MembershipDiscount).Sub(t.ManualDiscount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	t.Total = total
	t.Touch()
}
