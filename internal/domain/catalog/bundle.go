package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leaftolife/backend/internal/domain/shared"
	"github.com/leaftolife/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BundleComponent is a single component line in a bundle
type BundleComponent struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BundleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"` // In the product's sell units
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (BundleComponent) TableName() string {
	return "bundle_components"
}

// Bundle is a composite sellable that references component products.
// Selling a bundle deducts stock for every component.
type Bundle struct {
	shared.BaseAggregateRoot
	Code       string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name       string            `gorm:"type:varchar(200);not null"`
	Price      decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Components []BundleComponent `gorm:"foreignKey:BundleID"`
	Active     bool              `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Bundle) TableName() string {
	return "bundles"
}

// NewBundle creates a new bundle
func NewBundle(code, name string, price valueobject.Money) (*Bundle, error) {
	if err := validateProductCode(code); err != nil {
		return nil, shared.NewDomainError("INVALID_CODE", "Bundle code can only contain letters, digits and hyphens")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Bundle name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Bundle price cannot be negative")
	}

	return &Bundle{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Price:             price.Amount(),
		Active:            true,
	}, nil
}

// AddComponent adds a component product to the bundle
func (b *Bundle) AddComponent(product *Product, quantity decimal.Decimal) error {
	if product == nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Component product is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Component quantity must be positive")
	}
	for _, c := range b.Components {
		if c.ProductID == product.ID {
			return shared.NewDomainError("DUPLICATE_COMPONENT", "Product already exists in bundle")
		}
	}

	now := time.Now()
	b.Components = append(b.Components, BundleComponent{
		ID:          uuid.New(),
		BundleID:    b.ID,
		ProductID:   product.ID,
		ProductCode: product.Code,
		ProductName: product.Name,
		Quantity:    quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	b.Touch()

	return nil
}

// RemoveComponent removes a component from the bundle
func (b *Bundle) RemoveComponent(componentID uuid.UUID) error {
	for idx, c := range b.Components {
		if c.ID == componentID {
			b.Components = append(b.Components[:idx], b.Components[idx+1:]...)
			b.Touch()
			return nil
		}
	}

	return shared.NewDomainError("COMPONENT_NOT_FOUND", "Bundle component not found")
}

// SetPrice updates the bundle price
func (b *Bundle) SetPrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Bundle price cannot be negative")
	}

	b.Price = price.Amount()
	b.Touch()

	return nil
}

// Rename updates the bundle name
func (b *Bundle) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Bundle name cannot be empty")
	}

	b.Name = name
	b.Touch()

	return nil
}

// CanSell returns an error unless the bundle is active with components
func (b *Bundle) CanSell() error {
	if !b.Active {
		return shared.NewDomainError("INVALID_STATE", "Bundle is inactive")
	}
	if len(b.Components) == 0 {
		return shared.NewDomainError("NO_COMPONENTS", "Bundle has no components")
	}
	return nil
}

// Deactivate hides the bundle from sale
func (b *Bundle) Deactivate() {
	b.Active = false
	b.Touch()
}

// Activate makes the bundle sellable
func (b *Bundle) Activate() {
	b.Active = true
	b.Touch()
}

// GetPriceMoney returns the bundle price as Money
func (b *Bundle) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneySGD(b.Price)
}
