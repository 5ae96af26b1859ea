package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leaftolife/backend/internal/domain/catalog"
)

// ==================== Product DTOs ====================

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Code           string           `json:"code" binding:"required,min=1,max=50"`
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	Description    string           `json:"description"`
	Category       string           `json:"category" binding:"max=100"`
	SupplierID     *uuid.UUID       `json:"supplier_id"`
	Unit           string           `json:"unit" binding:"required,min=1,max=20"`
	BaseUnit       string           `json:"base_unit" binding:"omitempty,max=20"`
	ConversionRate *decimal.Decimal `json:"conversion_rate"`
	CostPrice      decimal.Decimal  `json:"cost_price"`
	SellPrice      decimal.Decimal  `json:"sell_price"`
	ReorderLevel   decimal.Decimal  `json:"reorder_level"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	Description  string           `json:"description"`
	Category     string           `json:"category" binding:"max=100"`
	SupplierID   *uuid.UUID       `json:"supplier_id"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	SellPrice    *decimal.Decimal `json:"sell_price"`
	ReorderLevel *decimal.Decimal `json:"reorder_level"`
}

// ReceiveStockRequest represents a goods-received entry
type ReceiveStockRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"` // In base units
	Remark   string          `json:"remark" binding:"max=500"`
}

// AdjustStockRequest represents a stock-take adjustment
type AdjustStockRequest struct {
	NewQuantity decimal.Decimal `json:"new_quantity"` // In base units, may be negative
	Reason      string          `json:"reason" binding:"required,min=1,max=500"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search       string     `form:"search"`
	Category     string     `form:"category"`
	SupplierID   *uuid.UUID `form:"supplier_id"`
	Status       string     `form:"status" binding:"omitempty,oneof=active inactive discontinued"`
	BelowReorder bool       `form:"below_reorder"`
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Category       string          `json:"category,omitempty"`
	SupplierID     *uuid.UUID      `json:"supplier_id,omitempty"`
	Unit           string          `json:"unit"`
	BaseUnit       string          `json:"base_unit"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	SellPrice      decimal.Decimal `json:"sell_price"`
	StockQuantity  decimal.Decimal `json:"stock_quantity"`
	ReorderLevel   decimal.Decimal `json:"reorder_level"`
	BelowReorder   bool            `json:"below_reorder"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToProductResponse converts a product aggregate to a response DTO
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Code:           p.Code,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		SupplierID:     p.SupplierID,
		Unit:           p.Unit,
		BaseUnit:       p.BaseUnit,
		ConversionRate: p.ConversionRate,
		CostPrice:      p.CostPrice,
		SellPrice:      p.SellPrice,
		StockQuantity:  p.StockQuantity,
		ReorderLevel:   p.ReorderLevel,
		BelowReorder:   p.IsBelowReorderLevel(),
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products to response DTOs
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ==================== Supplier DTOs ====================

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=50"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	ContactName string `json:"contact_name" binding:"max=100"`
	Phone       string `json:"phone" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address" binding:"max=500"`
	Notes       string `json:"notes"`
}

// UpdateSupplierRequest represents a request to update a supplier
type UpdateSupplierRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	ContactName string `json:"contact_name" binding:"max=100"`
	Phone       string `json:"phone" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address" binding:"max=500"`
	Notes       string `json:"notes"`
}

// SupplierListFilter represents filter options for the supplier list
type SupplierListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToSupplierResponse converts a supplier aggregate to a response DTO
func ToSupplierResponse(s *catalog.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          s.ID,
		Code:        s.Code,
		Name:        s.Name,
		ContactName: s.ContactName,
		Phone:       s.Phone,
		Email:       s.Email,
		Address:     s.Address,
		Notes:       s.Notes,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToSupplierResponses converts a slice of suppliers to response DTOs
func ToSupplierResponses(suppliers []catalog.Supplier) []SupplierResponse {
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses
}

// ==================== Blend DTOs ====================

// CreateBlendRequest represents a request to create a blend template
type CreateBlendRequest struct {
	Name            string                 `json:"name" binding:"required,min=1,max=200"`
	Description     string                 `json:"description"`
	OutputProductID uuid.UUID              `json:"output_product_id" binding:"required"`
	OutputQuantity  decimal.Decimal        `json:"output_quantity" binding:"required"`
	Ingredients     []BlendIngredientInput `json:"ingredients"`
}

// BlendIngredientInput represents an ingredient line in a blend request
type BlendIngredientInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"` // Per batch, in the product's sell unit
}

// UpdateBlendRequest represents a request to rename a blend template
type UpdateBlendRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description"`
}

// UpdateBlendIngredientRequest changes an ingredient's per-batch quantity
type UpdateBlendIngredientRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// ProduceBlendRequest represents a request to produce blend batches
type ProduceBlendRequest struct {
	Batches       decimal.Decimal `json:"batches" binding:"required"`
	AllowNegative bool            `json:"allow_negative"` // Permit ingredient stock to go negative
}

// BlendListFilter represents filter options for the blend template list
type BlendListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// BlendIngredientResponse represents an ingredient line in API responses
type BlendIngredientResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductCode    string          `json:"product_code"`
	ProductName    string          `json:"product_name"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	LineCost       decimal.Decimal `json:"line_cost"`
}

// BlendResponse represents a blend template in API responses
type BlendResponse struct {
	ID              uuid.UUID                 `json:"id"`
	Name            string                    `json:"name"`
	Description     string                    `json:"description,omitempty"`
	OutputProductID uuid.UUID                 `json:"output_product_id"`
	OutputQuantity  decimal.Decimal           `json:"output_quantity"`
	Ingredients     []BlendIngredientResponse `json:"ingredients"`
	BatchCost       decimal.Decimal           `json:"batch_cost"`
	Active          bool                      `json:"active"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// ToBlendResponse converts a blend template aggregate to a response DTO
func ToBlendResponse(t *catalog.BlendTemplate) BlendResponse {
	ingredients := make([]BlendIngredientResponse, len(t.Ingredients))
	for i := range t.Ingredients {
		ing := &t.Ingredients[i]
		ingredients[i] = BlendIngredientResponse{
			ID:             ing.ID,
			ProductID:      ing.ProductID,
			ProductCode:    ing.ProductCode,
			ProductName:    ing.ProductName,
			Unit:           ing.Unit,
			Quantity:       ing.Quantity,
			ConversionRate: ing.ConversionRate,
			UnitCost:       ing.UnitCost,
			LineCost:       ing.LineCost(),
		}
	}
	return BlendResponse{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		OutputProductID: t.OutputProductID,
		OutputQuantity:  t.OutputQuantity,
		Ingredients:     ingredients,
		BatchCost:       t.BatchCost(),
		Active:          t.Active,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// ToBlendResponses converts a slice of blend templates to response DTOs
func ToBlendResponses(templates []catalog.BlendTemplate) []BlendResponse {
	responses := make([]BlendResponse, len(templates))
	for i := range templates {
		responses[i] = ToBlendResponse(&templates[i])
	}
	return responses
}

// ProduceBlendResponse reports the outcome of a production run
type ProduceBlendResponse struct {
	BlendID        uuid.UUID       `json:"blend_id"`
	Batches        decimal.Decimal `json:"batches"`
	OutputProduct  ProductResponse `json:"output_product"`
	OutputQuantity decimal.Decimal `json:"output_quantity"` // Total received, in base units
}

// ==================== Bundle DTOs ====================

// CreateBundleRequest represents a request to create a bundle
type CreateBundleRequest struct {
	Code       string                 `json:"code" binding:"required,min=1,max=50"`
	Name       string                 `json:"name" binding:"required,min=1,max=200"`
	Price      decimal.Decimal        `json:"price" binding:"required"`
	Components []BundleComponentInput `json:"components"`
}

// BundleComponentInput represents a component line in a bundle request
type BundleComponentInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"` // In the product's sell unit
}

// UpdateBundleRequest represents a request to update a bundle
type UpdateBundleRequest struct {
	Name  string           `json:"name" binding:"required,min=1,max=200"`
	Price *decimal.Decimal `json:"price"`
}

// BundleListFilter represents filter options for the bundle list
type BundleListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// BundleComponentResponse represents a component line in API responses
type BundleComponentResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// BundleResponse represents a bundle in API responses
type BundleResponse struct {
	ID         uuid.UUID                 `json:"id"`
	Code       string                    `json:"code"`
	Name       string                    `json:"name"`
	Price      decimal.Decimal           `json:"price"`
	Components []BundleComponentResponse `json:"components"`
	Active     bool                      `json:"active"`
	CreatedAt  time.Time                 `json:"created_at"`
	UpdatedAt  time.Time                 `json:"updated_at"`
}

// ToBundleResponse converts a bundle aggregate to a response DTO
func ToBundleResponse(b *catalog.Bundle) BundleResponse {
	components := make([]BundleComponentResponse, len(b.Components))
	for i := range b.Components {
		c := &b.Components[i]
		components[i] = BundleComponentResponse{
			ID:          c.ID,
			ProductID:   c.ProductID,
			ProductCode: c.ProductCode,
			ProductName: c.ProductName,
			Quantity:    c.Quantity,
		}
	}
	return BundleResponse{
		ID:         b.ID,
		Code:       b.Code,
		Name:       b.Name,
		Price:      b.Price,
		Components: components,
		Active:     b.Active,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// ToBundleResponses converts a slice of bundles to response DTOs
func ToBundleResponses(bundles []catalog.Bundle) []BundleResponse {
	responses := make([]BundleResponse, len(bundles))
	for i := range bundles {
		responses[i] = ToBundleResponse(&bundles[i])
	}
	return responses
}
