package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates active user with hashed password", func(t *testing.T) {
		user, err := NewUser("Alice.Wong", "s3cret-pass", RoleStaff)

		require.NoError(t, err)
		assert.Equal(t, "alice.wong", user.Username)
		assert.Equal(t, RoleStaff, user.Role)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
		assert.True(t, user.VerifyPassword("s3cret-pass"))
		assert.False(t, user.VerifyPassword("wrong"))
	})

	t.Run("fails with short username", func(t *testing.T) {
		_, err := NewUser("ab", "s3cret-pass", RoleStaff)
		require.Error(t, err)
	})

	t.Run("fails with short password", func(t *testing.T) {
		_, err := NewUser("alice", "short", RoleStaff)
		require.Error(t, err)
	})

	t.Run("fails with invalid role", func(t *testing.T) {
		_, err := NewUser("alice", "s3cret-pass", Role("superuser"))
		require.Error(t, err)
	})
}

func TestUserPermissions(t *testing.T) {
	t.Run("admin passes every check", func(t *testing.T) {
		admin, err := NewUser("admin", "s3cret-pass", RoleAdmin)
		require.NoError(t, err)

		assert.True(t, admin.HasPermission(PermProcessSales))
		assert.True(t, admin.HasPermission(PermRunBulkActions))
	})

	t.Run("staff only passes granted flags", func(t *testing.T) {
		staff, err := NewUser("alice", "s3cret-pass", RoleStaff)
		require.NoError(t, err)

		assert.False(t, staff.HasPermission(PermProcessSales))

		staff.SetPermissions(Permissions{ProcessSales: true})
		assert.True(t, staff.HasPermission(PermProcessSales))
		assert.False(t, staff.HasPermission(PermVoidSales))
	})

	t.Run("unknown permission is denied", func(t *testing.T) {
		staff, err := NewUser("alice", "s3cret-pass", RoleStaff)
		require.NoError(t, err)

		assert.False(t, staff.HasPermission("fly"))
	})
}

func TestUserChangePassword(t *testing.T) {
	user, err := NewUser("alice", "s3cret-pass", RoleStaff)
	require.NoError(t, err)

	require.Error(t, user.ChangePassword("wrong", "new-password-1"))

	require.NoError(t, user.ChangePassword("s3cret-pass", "new-password-1"))
	assert.True(t, user.VerifyPassword("new-password-1"))
	assert.False(t, user.VerifyPassword("s3cret-pass"))
}

func TestUserLockout(t *testing.T) {
	t.Run("locks after max attempts", func(t *testing.T) {
		user, err := NewUser("alice", "s3cret-pass", RoleStaff)
		require.NoError(t, err)

		assert.False(t, user.RecordLoginFailure(3, time.Hour))
		assert.False(t, user.RecordLoginFailure(3, time.Hour))
		assert.True(t, user.RecordLoginFailure(3, time.Hour))

		assert.True(t, user.IsLocked())
		assert.False(t, user.CanLogin())
	})

	t.Run("expired lock no longer blocks", func(t *testing.T) {
		user, err := NewUser("alice", "s3cret-pass", RoleStaff)
		require.NoError(t, err)
		user.RecordLoginFailure(1, -time.Minute)

		assert.False(t, user.IsLocked())
		assert.True(t, user.CanLogin())
	})

	t.Run("unlock resets attempts", func(t *testing.T) {
		user, err := NewUser("alice", "s3cret-pass", RoleStaff)
		require.NoError(t, err)
		user.RecordLoginFailure(1, time.Hour)

		require.NoError(t, user.Unlock())
		assert.Equal(t, 0, user.FailedAttempts)
		assert.True(t, user.CanLogin())
	})

	t.Run("successful login resets attempts", func(t *testing.T) {
		user, err := NewUser("alice", "s3cret-pass", RoleStaff)
		require.NoError(t, err)
		user.RecordLoginFailure(3, time.Hour)

		user.RecordLoginSuccess()
		assert.Equal(t, 0, user.FailedAttempts)
		assert.NotNil(t, user.LastLoginAt)
	})
}

func TestUserStatusTransitions(t *testing.T) {
	user, err := NewUser("alice", "s3cret-pass", RoleStaff)
	require.NoError(t, err)

	require.NoError(t, user.Deactivate())
	assert.False(t, user.CanLogin())
	assert.Error(t, user.Deactivate())

	require.NoError(t, user.Activate())
	assert.True(t, user.CanLogin())
	assert.Error(t, user.Activate())
}

func TestUserSetEmail(t *testing.T) {
	user, err := NewUser("alice", "s3cret-pass", RoleStaff)
	require.NoError(t, err)

	require.NoError(t, user.SetEmail("Alice@Example.COM"))
	assert.Equal(t, "alice@example.com", user.Email)

	require.Error(t, user.SetEmail("not-an-email"))
	require.NoError(t, user.SetEmail(""), "clearing the email is allowed")
}
