package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/leaftolife/backend/internal/domain/shared"
)

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	shared.Repository[Product]
	FindByCode(ctx context.Context, code string) (*Product, error)
	// FindByIDForUpdate loads a product under a row lock held until the
	// enclosing database transaction ends. Stock moves load through this
	// so two concurrent checkouts cannot both pass the stock check.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	FindBelowReorderLevel(ctx context.Context) ([]Product, error)
	// SaveAll persists several products atomically. Used by flows that
	// must move stock across products in one transaction.
	SaveAll(ctx context.Context, products []*Product) error
}

// SupplierRepository defines persistence operations for suppliers
type SupplierRepository interface {
	shared.Repository[Supplier]
	FindByCode(ctx context.Context, code string) (*Supplier, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// BlendTemplateRepository defines persistence operations for blend templates
type BlendTemplateRepository interface {
	shared.Repository[BlendTemplate]
	FindByName(ctx context.Context, name string) (*BlendTemplate, error)
}

// BundleRepository defines persistence operations for bundles
type BundleRepository interface {
	shared.Repository[Bundle]
	FindByCode(ctx context.Context, code string) (*Bundle, error)
}
