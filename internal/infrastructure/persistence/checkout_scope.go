package persistence

import (
	"context"

	"gorm.io/gorm"

	appcatalog "github.com/leaftolife/backend/internal/application/catalog"
	appsales "github.com/leaftolife/backend/internal/application/sales"
	"github.com/leaftolife/backend/internal/domain/catalog"
	"github.com/leaftolife/backend/internal/domain/sales"
)

// GormCheckoutScope implements sales.CheckoutScope using GORM transactions.
// Completing or voiding a sale runs every stock move and the transaction
// save inside one database transaction.
type GormCheckoutScope struct {
	db *gorm.DB
}

// NewGormCheckoutScope creates a new GormCheckoutScope
func NewGormCheckoutScope(db *gorm.DB) *GormCheckoutScope {
	return &GormCheckoutScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormCheckoutScope) Execute(ctx context.Context, fn func(repos appsales.CheckoutRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormCheckoutRepositories{tx: tx})
	})
}

type gormCheckoutRepositories struct {
	tx *gorm.DB
}

// TransactionRepo returns the transaction repository scoped to the current transaction
func (r *gormCheckoutRepositories) TransactionRepo() sales.Repository {
	return NewGormTransactionRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormCheckoutRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// BlendRepo returns the blend template repository scoped to the current transaction
func (r *gormCheckoutRepositories) BlendRepo() catalog.BlendTemplateRepository {
	return NewGormBlendTemplateRepository(r.tx)
}

// BundleRepo returns the bundle repository scoped to the current transaction
func (r *gormCheckoutRepositories) BundleRepo() catalog.BundleRepository {
	return NewGormBundleRepository(r.tx)
}

// GormProductionScope implements catalog.ProductionScope using GORM
// transactions. A production run consumes ingredient stock and receives
// output stock atomically.
type GormProductionScope struct {
	db *gorm.DB
}

// NewGormProductionScope creates a new GormProductionScope
func NewGormProductionScope(db *gorm.DB) *GormProductionScope {
	return &GormProductionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormProductionScope) Execute(ctx context.Context, fn func(repos appcatalog.ProductionRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormProductionRepositories{tx: tx})
	})
}

type gormProductionRepositories struct {
	tx *gorm.DB
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormProductionRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// BlendRepo returns the blend template repository scoped to the current transaction
func (r *gormProductionRepositories) BlendRepo() catalog.BlendTemplateRepository {
	return NewGormBlendTemplateRepository(r.tx)
}

var _ appsales.CheckoutScope = (*GormCheckoutScope)(nil)
var _ appsales.CheckoutRepositories = (*gormCheckoutRepositories)(nil)
var _ appcatalog.ProductionScope = (*GormProductionScope)(nil)
var _ appcatalog.ProductionRepositories = (*gormProductionRepositories)(nil)
