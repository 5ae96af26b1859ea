package catalog

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/leaftolife/backend/internal/domain/shared"
	"github.com/leaftolife/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

var productCodePattern = regexp.MustCompile(`^[A-Z0-9-]+$`)

// Product represents a sellable item in the catalog.
// Stock is tracked directly on the product in base units; the clinic runs
// a single dispensary so there is no warehouse dimension.
type Product struct {
	shared.BaseAggregateRoot
	Code           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name           string          `gorm:"type:varchar(200);not null"`
	Description    string          `gorm:"type:text"`
	Category       string          `gorm:"type:varchar(100);index"`
	SupplierID     *uuid.UUID      `gorm:"type:uuid;index"`
	Unit           string          `gorm:"type:varchar(20);not null"`             // Sell unit (e.g. "g", "capsule", "bottle")
	BaseUnit       string          `gorm:"type:varchar(20);not null"`             // Stock-keeping unit
	ConversionRate decimal.Decimal `gorm:"type:decimal(18,6);not null;default:1"` // Sell unit -> base unit
	CostPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SellPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	StockQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // In base units
	ReorderLevel   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status         ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with identical sell and base units
func NewProduct(code, name, unit string) (*Product, error) {
	return NewProductWithUnits(code, name, unit, unit, decimal.NewFromInt(1))
}

// NewProductWithUnits creates a new product with a sell unit that converts
// to the base stock-keeping unit at the given rate
func NewProductWithUnits(code, name, unit, baseUnit string, conversionRate decimal.Decimal) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if unit == "" || baseUnit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if conversionRate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_CONVERSION_RATE", "Conversion rate must be positive")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Unit:              unit,
		BaseUnit:          baseUnit,
		ConversionRate:    conversionRate,
		CostPrice:         decimal.Zero,
		SellPrice:         decimal.Zero,
		StockQuantity:     decimal.Zero,
		ReorderLevel:      decimal.Zero,
		Status:            ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's descriptive information
func (p *Product) Update(name, description, category string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}

	p.Name = name
	p.Description = description
	p.Category = category
	p.Touch()

	return nil
}

// SetSupplier links the product to a supplier
func (p *Product) SetSupplier(supplierID *uuid.UUID) {
	p.SupplierID = supplierID
	p.Touch()
}

// SetPrices sets the cost and selling prices
func (p *Product) SetPrices(costPrice, sellPrice valueobject.Money) error {
	if costPrice.IsNegative() || sellPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}

	p.CostPrice = costPrice.Amount()
	p.SellPrice = sellPrice.Amount()
	p.Touch()

	return nil
}

// SetReorderLevel sets the stock level below which the product should be reordered
func (p *Product) SetReorderLevel(level decimal.Decimal) error {
	if level.IsNegative() {
		return shared.NewDomainError("INVALID_REORDER_LEVEL", "Reorder level cannot be negative")
	}

	p.ReorderLevel = level
	p.Touch()

	return nil
}

// BaseQuantity converts a quantity in sell units to base units
func (p *Product) BaseQuantity(quantity decimal.Decimal) decimal.Decimal {
	return quantity.Mul(p.ConversionRate).Round(4)
}

// ReceiveStock adds stock in base units (goods received, blend output)
func (p *Product) ReceiveStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}

	p.StockQuantity = p.StockQuantity.Add(quantity)
	p.Touch()

	p.AddDomainEvent(NewStockReceivedEvent(p, quantity))

	return nil
}

// DeductStock removes stock in base units. When allowNegative is false the
// deduction fails with INSUFFICIENT_STOCK rather than driving stock below
// zero; when true the balance is allowed to go negative and the caller is
// expected to reconcile later.
func (p *Product) DeductStock(quantity decimal.Decimal, allowNegative bool) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Deducted quantity must be positive")
	}
	if !allowNegative && p.StockQuantity.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	p.StockQuantity = p.StockQuantity.Sub(quantity)
	p.Touch()

	p.AddDomainEvent(NewStockDeductedEvent(p, quantity))

	return nil
}

// AdjustStock sets the stock balance to an absolute value (stock take).
// Negative balances are permitted to record known discrepancies.
func (p *Product) AdjustStock(newQuantity decimal.Decimal, reason string) error {
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Adjustment reason is required")
	}

	previous := p.StockQuantity
	p.StockQuantity = newQuantity
	p.Touch()

	p.AddDomainEvent(NewStockAdjustedEvent(p, previous, newQuantity, reason))

	return nil
}

// IsBelowReorderLevel returns true when stock has fallen to or below the reorder level
func (p *Product) IsBelowReorderLevel() bool {
	if p.ReorderLevel.IsZero() {
		return false
	}
	return p.StockQuantity.LessThanOrEqual(p.ReorderLevel)
}

// Deactivate marks the product as inactive (hidden from sale)
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("INVALID_STATE", "Discontinued products cannot be deactivated")
	}

	p.Status = ProductStatusInactive
	p.Touch()

	return nil
}

// Activate marks the product as active
func (p *Product) Activate() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("INVALID_STATE", "Discontinued products cannot be reactivated")
	}

	p.Status = ProductStatusActive
	p.Touch()

	return nil
}

// Discontinue permanently retires the product
func (p *Product) Discontinue() {
	p.Status = ProductStatusDiscontinued
	p.Touch()
}

// IsActive returns true if the product can be sold
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// GetSellPriceMoney returns the selling price as Money
func (p *Product) GetSellPriceMoney() valueobject.Money {
	return valueobject.NewMoneySGD(p.SellPrice)
}

// GetCostPriceMoney returns the cost price as Money
func (p *Product) GetCostPriceMoney() valueobject.Money {
	return valueobject.NewMoneySGD(p.CostPrice)
}

func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	if !productCodePattern.MatchString(strings.ToUpper(code)) {
		return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, digits and hyphens")
	}
	return nil
}
