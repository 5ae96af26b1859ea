package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaftolife/backend/internal/domain/patient"
	"github.com/leaftolife/backend/internal/domain/shared"
)

func newSavedPatient(t *testing.T, repo *GormPatientRepository, code, first, last string) *patient.Patient {
	t.Helper()
	p, err := patient.NewPatient(code, first, last)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), p))
	return p
}

func TestGormPatientRepository_SaveAndFind(t *testing.T) {
	repo := NewGormPatientRepository(newTestDB(t))
	ctx := context.Background()

	p := newSavedPatient(t, repo, "P-0001", "Mei", "Tan")

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "P-0001", found.Code)
	assert.Equal(t, "Mei", found.FirstName)

	byCode, err := repo.FindByCode(ctx, "p-0001")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byCode.ID)
}

func TestGormPatientRepository_FindByID_NotFound(t *testing.T) {
	repo := NewGormPatientRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormPatientRepository_ExistsByCode(t *testing.T) {
	repo := NewGormPatientRepository(newTestDB(t))
	ctx := context.Background()

	newSavedPatient(t, repo, "P-0002", "Ravi", "Kumar")

	exists, err := repo.ExistsByCode(ctx, "P-0002")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByCode(ctx, "P-9999")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormPatientRepository_GenerateCode(t *testing.T) {
	repo := NewGormPatientRepository(newTestDB(t))
	ctx := context.Background()

	code, err := repo.GenerateCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "P-0001", code)

	newSavedPatient(t, repo, "P-0001", "Mei", "Tan")
	newSavedPatient(t, repo, "P-0007", "Ravi", "Kumar")

	code, err = repo.GenerateCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "P-0008", code)
}

func TestGormPatientRepository_FindByMembershipTier(t *testing.T) {
	repo := NewGormPatientRepository(newTestDB(t))
	ctx := context.Background()

	tierID := uuid.New()
	member := newSavedPatient(t, repo, "P-0003", "Sara", "Lim")
	require.NoError(t, member.AssignMembershipTier(tierID))
	require.NoError(t, repo.Save(ctx, member))
	newSavedPatient(t, repo, "P-0004", "Li", "Wei")

	assigned, err := repo.FindByMembershipTier(ctx, tierID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "P-0003", assigned[0].Code)
}

func TestGormPatientRepository_FindAll_SearchAndStatus(t *testing.T) {
	repo := NewGormPatientRepository(newTestDB(t))
	ctx := context.Background()

	newSavedPatient(t, repo, "P-0005", "Amelia", "Ng")
	archived := newSavedPatient(t, repo, "P-0006", "Ben", "Ong")
	require.NoError(t, archived.Archive())
	require.NoError(t, repo.Save(ctx, archived))

	filter := shared.DefaultFilter()
	filter.Search = "amelia"
	found, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "P-0005", found[0].Code)

	filter = shared.DefaultFilter()
	filter.Filters["status"] = string(patient.StatusArchived)
	found, err = repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "P-0006", found[0].Code)

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormPatientRepository_Delete(t *testing.T) {
	repo := NewGormPatientRepository(newTestDB(t))
	ctx := context.Background()

	p := newSavedPatient(t, repo, "P-0009", "Mei", "Tan")
	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, p.ID), shared.ErrNotFound)
}
