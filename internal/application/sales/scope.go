package sales

import (
	"context"

	"github.com/leaftolife/backend/internal/domain/catalog"
	"github.com/leaftolife/backend/internal/domain/sales"
)

// CheckoutRepositories gives checkout and void flows access to repositories
// scoped to one database transaction.
type CheckoutRepositories interface {
	TransactionRepo() sales.Repository
	ProductRepo() catalog.ProductRepository
	BlendRepo() catalog.BlendTemplateRepository
	BundleRepo() catalog.BundleRepository
}

// CheckoutScope executes a function atomically. Completing a sale persists
// the transaction and deducts stock for every line in one database
// transaction; voiding restores it the same way.
type CheckoutScope interface {
	Execute(ctx context.Context, fn func(repos CheckoutRepositories) error) error
}
