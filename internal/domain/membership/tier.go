package membership

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/leaftolife/backend/internal/domain/shared"
	"github.com/leaftolife/backend/internal/domain/shared/valueobject"
)

// Tier is a membership level granting a percentage discount on sales
type Tier struct {
	shared.BaseAggregateRoot
	Code            string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string          `gorm:"type:varchar(100);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	MinAnnualSpend  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SortOrder       int             `gorm:"not null;default:0"`
	Active          bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Tier) TableName() string {
	return "membership_tiers"
}

// NewTier creates a new membership tier
func NewTier(code, name string, discountPercent decimal.Decimal) (*Tier, error) {
	if strings.TrimSpace(code) == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Tier code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tier name cannot be empty")
	}
	if err := validateDiscountPercent(discountPercent); err != nil {
		return nil, err
	}

	return &Tier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		DiscountPercent:   discountPercent,
		MinAnnualSpend:    decimal.Zero,
		Active:            true,
	}, nil
}

// Update changes the tier's name and discount
func (t *Tier) Update(name string, discountPercent decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Tier name cannot be empty")
	}
	if err := validateDiscountPercent(discountPercent); err != nil {
		return err
	}

	t.Name = name
	t.DiscountPercent = discountPercent
	t.Touch()

	return nil
}

// SetMinAnnualSpend sets the yearly spend threshold for qualifying
func (t *Tier) SetMinAnnualSpend(amount valueobject.Money) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Minimum annual spend cannot be negative")
	}

	t.MinAnnualSpend = amount.Amount()
	t.Touch()

	return nil
}

// SetSortOrder sets the display ordering of the tier
func (t *Tier) SetSortOrder(order int) {
	t.SortOrder = order
	t.Touch()
}

// DiscountFor returns the tier's discount amount for the given subtotal,
// rounded to cents
func (t *Tier) DiscountFor(subtotal valueobject.Money) valueobject.Money {
	return subtotal.PercentOf(t.DiscountPercent)
}

// Deactivate hides the tier from assignment
func (t *Tier) Deactivate() {
	t.Active = false
	t.Touch()
}

// Activate makes the tier assignable
func (t *Tier) Activate() {
	t.Active = true
	t.Touch()
}

func validateDiscountPercent(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
	}
	return nil
}
