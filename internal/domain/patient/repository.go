package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/leaftolife/backend/internal/domain/shared"
)

// Repository defines persistence operations for patients
type Repository interface {
	shared.Repository[Patient]
	FindByCode(ctx context.Context, code string) (*Patient, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	FindByMembershipTier(ctx context.Context, tierID uuid.UUID) ([]Patient, error)
	GenerateCode(ctx context.Context) (string, error)
}
