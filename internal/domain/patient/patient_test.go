package patient

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPatient(t *testing.T) {
	t.Run("creates patient successfully", func(t *testing.T) {
		p, err := NewPatient("PT-001", "Mei Ling", "Tan")

		require.NoError(t, err)
		assert.NotNil(t, p)
		assert.Equal(t, "PT-001", p.Code)
		assert.Equal(t, "Mei Ling Tan", p.FullName())
		assert.Equal(t, StatusActive, p.Status)
		assert.Nil(t, p.MembershipTierID)
		assert.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("converts code to uppercase", func(t *testing.T) {
		p, err := NewPatient("pt-002", "Wei", "Chen")

		require.NoError(t, err)
		assert.Equal(t, "PT-002", p.Code)
	})

	t.Run("fails with empty code", func(t *testing.T) {
		p, err := NewPatient("", "Wei", "Chen")

		assert.Error(t, err)
		assert.Nil(t, p)
		assert.Contains(t, err.Error(), "code cannot be empty")
	})

	t.Run("fails with invalid code characters", func(t *testing.T) {
		p, err := NewPatient("PT@001", "Wei", "Chen")

		assert.Error(t, err)
		assert.Nil(t, p)
		assert.Contains(t, err.Error(), "can only contain")
	})

	t.Run("fails with empty first name", func(t *testing.T) {
		p, err := NewPatient("PT-003", "  ", "Chen")

		assert.Error(t, err)
		assert.Nil(t, p)
	})
}

func TestPatientFullName(t *testing.T) {
	p, err := NewPatient("PT-001", "Siti", "")
	require.NoError(t, err)
	assert.Equal(t, "Siti", p.FullName())
}

func TestPatientUpdateDetails(t *testing.T) {
	p, err := NewPatient("PT-001", "Mei Ling", "Tan")
	require.NoError(t, err)

	dob := time.Date(1985, 3, 12, 0, 0, 0, 0, time.UTC)
	err = p.UpdateDetails("Mei", "Tan", "mei@example.com", "+65 8123 4567", "1 Clinic Way", &dob)

	require.NoError(t, err)
	assert.Equal(t, "Mei", p.FirstName)
	assert.Equal(t, "mei@example.com", p.Email)
	assert.Equal(t, &dob, p.DateOfBirth)

	t.Run("rejects empty first name", func(t *testing.T) {
		err := p.UpdateDetails("", "Tan", "", "", "", nil)
		assert.Error(t, err)
	})
}

func TestPatientMembershipTier(t *testing.T) {
	p, err := NewPatient("PT-001", "Mei Ling", "Tan")
	require.NoError(t, err)

	t.Run("assigns tier", func(t *testing.T) {
		tierID := uuid.New()
		err := p.AssignMembershipTier(tierID)

		require.NoError(t, err)
		require.NotNil(t, p.MembershipTierID)
		assert.Equal(t, tierID, *p.MembershipTierID)
	})

	t.Run("rejects nil tier", func(t *testing.T) {
		err := p.AssignMembershipTier(uuid.Nil)
		assert.Error(t, err)
	})

	t.Run("clears tier", func(t *testing.T) {
		p.ClearMembershipTier()
		assert.Nil(t, p.MembershipTierID)
	})

	t.Run("rejects assignment when archived", func(t *testing.T) {
		require.NoError(t, p.Archive())
		err := p.AssignMembershipTier(uuid.New())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "archived")
	})
}

func TestPatientArchiveRestore(t *testing.T) {
	p, err := NewPatient("PT-001", "Mei Ling", "Tan")
	require.NoError(t, err)

	require.NoError(t, p.Archive())
	assert.Equal(t, StatusArchived, p.Status)
	assert.NotNil(t, p.ArchivedAt)
	assert.False(t, p.IsActive())

	t.Run("cannot archive twice", func(t *testing.T) {
		assert.Error(t, p.Archive())
	})

	require.NoError(t, p.Restore())
	assert.Equal(t, StatusActive, p.Status)
	assert.Nil(t, p.ArchivedAt)

	t.Run("cannot restore active patient", func(t *testing.T) {
		assert.Error(t, p.Restore())
	})
}
