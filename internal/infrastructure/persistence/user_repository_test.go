package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaftolife/backend/internal/domain/identity"
	"github.com/leaftolife/backend/internal/domain/shared"
)

func newSavedUser(t *testing.T, repo *GormUserRepository, username string, role identity.Role) *identity.User {
	t.Helper()
	u, err := identity.NewUser(username, "s3cret-pass", role)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), u))
	return u
}

func TestGormUserRepository_SaveAndFind(t *testing.T) {
	repo := NewGormUserRepository(newTestDB(t))
	ctx := context.Background()

	u := newSavedUser(t, repo, "amelia.tan", identity.RoleStaff)

	found, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "amelia.tan", found.Username)
	assert.True(t, found.VerifyPassword("s3cret-pass"))

	byName, err := repo.FindByUsername(ctx, "Amelia.Tan")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository_ExistsByUsername(t *testing.T) {
	repo := NewGormUserRepository(newTestDB(t))
	ctx := context.Background()

	newSavedUser(t, repo, "amelia.tan", identity.RoleStaff)

	exists, err := repo.ExistsByUsername(ctx, "amelia.tan")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormUserRepository_FindAll_RoleAndSearch(t *testing.T) {
	repo := NewGormUserRepository(newTestDB(t))
	ctx := context.Background()

	newSavedUser(t, repo, "amelia.tan", identity.RoleStaff)
	newSavedUser(t, repo, "ben.lim", identity.RoleStaff)
	newSavedUser(t, repo, "root.admin", identity.RoleAdmin)

	filter := shared.DefaultFilter()
	filter.Filters["role"] = string(identity.RoleStaff)

	staff, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, staff, 2)
	assert.Equal(t, "amelia.tan", staff[0].Username)

	search := shared.DefaultFilter()
	search.Search = "AMELIA"
	found, err := repo.FindAll(ctx, search)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "amelia.tan", found[0].Username)
}

func TestGormUserRepository_FindAll_StatusFilter(t *testing.T) {
	repo := NewGormUserRepository(newTestDB(t))
	ctx := context.Background()

	newSavedUser(t, repo, "amelia.tan", identity.RoleStaff)
	disabled := newSavedUser(t, repo, "ben.lim", identity.RoleStaff)
	require.NoError(t, disabled.Deactivate())
	require.NoError(t, repo.Save(ctx, disabled))

	filter := shared.DefaultFilter()
	filter.Filters["status"] = string(identity.UserStatusDeactivated)

	users, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ben.lim", users[0].Username)

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormUserRepository_Delete(t *testing.T) {
	repo := NewGormUserRepository(newTestDB(t))
	ctx := context.Background()

	u := newSavedUser(t, repo, "amelia.tan", identity.RoleStaff)

	require.NoError(t, repo.Delete(ctx, u.ID))
	_, err := repo.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
