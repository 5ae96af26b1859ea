package identity

import (
	"context"

	"github.com/leaftolife/backend/internal/domain/shared"
)

// Repository defines persistence operations for users
type Repository interface {
	shared.Repository[User]
	FindByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
