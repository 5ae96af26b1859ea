package catalog

import (
	"context"

	"github.com/leaftolife/backend/internal/domain/catalog"
)

// ProductionRepositories gives a production run access to repositories
// scoped to one database transaction.
type ProductionRepositories interface {
	ProductRepo() catalog.ProductRepository
	BlendRepo() catalog.BlendTemplateRepository
}

// ProductionScope executes a function atomically. Producing a blend touches
// every ingredient product plus the output product; either all stock moves
// land or none do.
type ProductionScope interface {
	Execute(ctx context.Context, fn func(repos ProductionRepositories) error) error
}
