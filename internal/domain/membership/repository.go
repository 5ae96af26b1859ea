package membership

import (
	"context"

	"github.com/leaftolife/backend/internal/domain/shared"
)

// Repository defines persistence operations for membership tiers
type Repository interface {
	shared.Repository[Tier]
	FindByCode(ctx context.Context, code string) (*Tier, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	FindActive(ctx context.Context) ([]Tier, error)
}
