package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leaftolife/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BlendIngredient is a single ingredient line in a blend template.
// Quantity is expressed in the ingredient product's sell unit; conversion
// to base stock units happens when a batch is produced.
type BlendIngredient struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TemplateID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null"`
	ProductCode    string          `gorm:"type:varchar(50);not null"`
	ProductName    string          `gorm:"type:varchar(200);not null"`
	Unit           string          `gorm:"type:varchar(20);not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`           // Per batch, in sell units
	ConversionRate decimal.Decimal `gorm:"type:decimal(18,6);not null;default:1"` // Sell unit -> base unit
	UnitCost       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Cost per sell unit at capture time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (BlendIngredient) TableName() string {
	return "blend_ingredients"
}

// BaseQuantity returns the per-batch quantity in base stock units
func (i *BlendIngredient) BaseQuantity() decimal.Decimal {
	return i.Quantity.Mul(i.ConversionRate).Round(4)
}

// LineCost returns the per-batch cost contribution of this ingredient
func (i *BlendIngredient) LineCost() decimal.Decimal {
	return i.Quantity.Mul(i.UnitCost).Round(4)
}

// BlendTemplate is a reusable formulation: a named recipe of ingredient
// products that yields a quantity of an output product per batch.
type BlendTemplate struct {
	shared.BaseAggregateRoot
	Name            string            `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description     string            `gorm:"type:text"`
	OutputProductID uuid.UUID         `gorm:"type:uuid;not null;index"`
	OutputQuantity  decimal.Decimal   `gorm:"type:decimal(18,4);not null"` // Per batch, in the output product's base units
	Ingredients     []BlendIngredient `gorm:"foreignKey:TemplateID"`
	Active          bool              `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (BlendTemplate) TableName() string {
	return "blend_templates"
}

// NewBlendTemplate creates a new blend template
func NewBlendTemplate(name string, outputProductID uuid.UUID, outputQuantity decimal.Decimal) (*BlendTemplate, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Blend name cannot be empty")
	}
	if outputProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Output product ID cannot be empty")
	}
	if outputQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Output quantity must be positive")
	}

	return &BlendTemplate{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		OutputProductID:   outputProductID,
		OutputQuantity:    outputQuantity,
		Active:            true,
	}, nil
}

// AddIngredient adds an ingredient line to the template
func (t *BlendTemplate) AddIngredient(product *Product, quantity decimal.Decimal) (*BlendIngredient, error) {
	if product == nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Ingredient product is required")
	}
	if product.ID == t.OutputProductID {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "A blend cannot contain its own output product")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Ingredient quantity must be positive")
	}
	for _, ing := range t.Ingredients {
		if ing.ProductID == product.ID {
			return nil, shared.NewDomainError("DUPLICATE_INGREDIENT", "Product already exists in blend, update its quantity instead")
		}
	}

	now := time.Now()
	ingredient := BlendIngredient{
		ID:             uuid.New(),
		TemplateID:     t.ID,
		ProductID:      product.ID,
		ProductCode:    product.Code,
		ProductName:    product.Name,
		Unit:           product.Unit,
		Quantity:       quantity,
		ConversionRate: product.ConversionRate,
		UnitCost:       product.CostPrice,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	t.Ingredients = append(t.Ingredients, ingredient)
	t.Touch()

	return &t.Ingredients[len(t.Ingredients)-1], nil
}

// UpdateIngredientQuantity changes the per-batch quantity of an ingredient
func (t *BlendTemplate) UpdateIngredientQuantity(ingredientID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Ingredient quantity must be positive")
	}

	for idx := range t.Ingredients {
		if t.Ingredients[idx].ID == ingredientID {
			t.Ingredients[idx].Quantity = quantity
			t.Ingredients[idx].UpdatedAt = time.Now()
			t.Touch()
			return nil
		}
	}

	return shared.NewDomainError("INGREDIENT_NOT_FOUND", "Blend ingredient not found")
}

// RemoveIngredient removes an ingredient line from the template
func (t *BlendTemplate) RemoveIngredient(ingredientID uuid.UUID) error {
	for idx, ing := range t.Ingredients {
		if ing.ID == ingredientID {
			t.Ingredients = append(t.Ingredients[:idx], t.Ingredients[idx+1:]...)
			t.Touch()
			return nil
		}
	}

	return shared.NewDomainError("INGREDIENT_NOT_FOUND", "Blend ingredient not found")
}

// Rename updates the template name and description
func (t *BlendTemplate) Rename(name, description string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Blend name cannot be empty")
	}

	t.Name = name
	t.Description = description
	t.Touch()

	return nil
}

// BatchCost returns the total ingredient cost of producing one batch
func (t *BlendTemplate) BatchCost() decimal.Decimal {
	cost := decimal.Zero
	for _, ing := range t.Ingredients {
		cost = cost.Add(ing.LineCost())
	}
	return cost
}

// CanProduce returns an error unless the template has at least one
// ingredient and is active
func (t *BlendTemplate) CanProduce() error {
	if !t.Active {
		return shared.NewDomainError("INVALID_STATE", "Blend template is inactive")
	}
	if len(t.Ingredients) == 0 {
		return shared.NewDomainError("NO_INGREDIENTS", "Blend template has no ingredients")
	}
	return nil
}

// Deactivate hides the template from production
func (t *BlendTemplate) Deactivate() {
	t.Active = false
	t.Touch()
}

// Activate makes the template available for production
func (t *BlendTemplate) Activate() {
	t.Active = true
	t.Touch()
}
