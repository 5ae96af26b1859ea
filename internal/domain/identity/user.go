package identity

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/leaftolife/backend/internal/domain/shared"
)

// Role represents a user's role in the system
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// IsValid checks if the role value is valid
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"
	UserStatusDeactivated UserStatus = "deactivated"
)

const bcryptCost = 12

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Permissions are per-user capability flags. Admins bypass them entirely;
// for staff each flag gates the matching route group.
type Permissions struct {
	ManagePatients bool `gorm:"not null;default:false"`
	ManageCatalog  bool `gorm:"not null;default:false"`
	ProcessSales   bool `gorm:"not null;default:false"`
	VoidSales      bool `gorm:"not null;default:false"`
	ManageBlends   bool `gorm:"not null;default:false"`
	RunBulkActions bool `gorm:"not null;default:false"`
	ViewReports    bool `gorm:"not null;default:false"`
}

// Permission names usable from middleware and handlers
const (
	PermManagePatients = "manage_patients"
	PermManageCatalog  = "manage_catalog"
	PermProcessSales   = "process_sales"
	PermVoidSales      = "void_sales"
	PermManageBlends   = "manage_blends"
	PermRunBulkActions = "run_bulk_actions"
	PermViewReports    = "view_reports"
)

// User is a staff member or administrator of the clinic system
type User struct {
	shared.BaseAggregateRoot
	Username          string      `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email             string      `gorm:"type:varchar(100)"`
	PasswordHash      string      `gorm:"type:varchar(200);not null"`
	DisplayName       string      `gorm:"type:varchar(200)"`
	Role              Role        `gorm:"type:varchar(20);not null;default:'staff'"`
	Permissions       Permissions `gorm:"embedded;embeddedPrefix:perm_"`
	Status            UserStatus  `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt       *time.Time
	FailedAttempts    int `gorm:"not null;default:0"`
	LockedUntil       *time.Time
	PasswordChangedAt *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active user with the given role
func NewUser(username, password string, role Role) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be admin or staff")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	now := time.Now()
	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(strings.TrimSpace(username)),
		PasswordHash:      hash,
		Role:              role,
		Status:            UserStatusActive,
		PasswordChangedAt: &now,
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// SetEmail sets the user's email
func (u *User) SetEmail(email string) error {
	if email != "" {
		email = strings.ToLower(strings.TrimSpace(email))
		if !emailRegex.MatchString(email) {
			return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
		}
	}

	u.Email = email
	u.Touch()

	return nil
}

// SetDisplayName sets the user's display name
func (u *User) SetDisplayName(displayName string) error {
	if len(displayName) > 200 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 200 characters")
	}

	u.DisplayName = strings.TrimSpace(displayName)
	u.Touch()

	return nil
}

// SetRole changes the user's role
func (u *User) SetRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be admin or staff")
	}

	u.Role = role
	u.Touch()

	return nil
}

// SetPermissions replaces the user's permission flags
func (u *User) SetPermissions(perms Permissions) {
	u.Permissions = perms
	u.Touch()
}

// HasPermission checks a named permission. Admins always pass.
func (u *User) HasPermission(name string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	switch name {
	case PermManagePatients:
		return u.Permissions.ManagePatients
	case PermManageCatalog:
		return u.Permissions.ManageCatalog
	case PermProcessSales:
		return u.Permissions.ProcessSales
	case PermVoidSales:
		return u.Permissions.VoidSales
	case PermManageBlends:
		return u.Permissions.ManageBlends
	case PermRunBulkActions:
		return u.Permissions.RunBulkActions
	case PermViewReports:
		return u.Permissions.ViewReports
	}
	return false
}

// GrantedPermissions returns the names of every permission the user holds,
// suitable for embedding in token claims
func (u *User) GrantedPermissions() []string {
	all := []string{
		PermManagePatients,
		PermManageCatalog,
		PermProcessSales,
		PermVoidSales,
		PermManageBlends,
		PermRunBulkActions,
		PermViewReports,
	}

	granted := make([]string, 0, len(all))
	for _, name := range all {
		if u.HasPermission(name) {
			granted = append(granted, name)
		}
	}
	return granted
}

// ChangePassword changes the password after checking the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}

	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without checking the old one (admin reset)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	now := time.Now()
	u.PasswordHash = hash
	u.PasswordChangedAt = &now
	u.Touch()

	return nil
}

// VerifyPassword verifies the provided password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RecordLoginSuccess records a successful login
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.FailedAttempts = 0
	u.Touch()
}

// RecordLoginFailure records a failed login attempt and locks the account
// once maxAttempts is reached. Returns true when the account was locked.
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.Touch()

	if u.FailedAttempts >= maxAttempts {
		lockedUntil := time.Now().Add(lockDuration)
		u.Status = UserStatusLocked
		u.LockedUntil = &lockedUntil
		return true
	}

	return false
}

// Unlock clears a lockout
func (u *User) Unlock() error {
	if u.Status != UserStatusLocked {
		return shared.NewDomainError("NOT_LOCKED", "User is not locked")
	}

	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.Touch()

	return nil
}

// Activate reactivates a deactivated user
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}

	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.Touch()

	return nil
}

// Deactivate disables the user account
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "User is already deactivated")
	}

	u.Status = UserStatusDeactivated
	u.Touch()

	u.AddDomainEvent(NewUserDeactivatedEvent(u))

	return nil
}

// IsLocked returns true while an unexpired lockout is in place
func (u *User) IsLocked() bool {
	if u.Status != UserStatusLocked {
		return false
	}
	if u.LockedUntil != nil && time.Now().After(*u.LockedUntil) {
		return false
	}
	return true
}

// CanLogin returns true if the account accepts logins
func (u *User) CanLogin() bool {
	return u.Status != UserStatusDeactivated && !u.IsLocked()
}

// GetDisplayNameOrUsername returns the display name, falling back to username
func (u *User) GetDisplayNameOrUsername() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, digits, underscore, hyphen and dot")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
