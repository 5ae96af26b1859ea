package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/leaftolife/backend/internal/domain/identity"
)

// LoginRequest contains credentials for a login attempt
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned on a successful login
type LoginResponse struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
}

// RefreshRequest carries the refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshResponse is returned on a successful token refresh
type RefreshResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutRequest identifies the session being closed
type LogoutRequest struct {
	UserID   uuid.UUID
	TokenJTI string
	TokenTTL time.Duration
}

// ChangePasswordRequest changes the caller's own password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// CreateUserRequest creates a staff or admin account
type CreateUserRequest struct {
	Username    string            `json:"username" binding:"required,min=3,max=100"`
	Password    string            `json:"password" binding:"required,min=8,max=72"`
	Email       string            `json:"email" binding:"omitempty,email"`
	DisplayName string            `json:"display_name" binding:"max=200"`
	Role        identity.Role     `json:"role" binding:"required,oneof=admin staff"`
	Permissions *PermissionsInput `json:"permissions"`
}

// UpdateUserRequest updates account details
type UpdateUserRequest struct {
	Email       string            `json:"email" binding:"omitempty,email"`
	DisplayName string            `json:"display_name" binding:"max=200"`
	Role        *identity.Role    `json:"role" binding:"omitempty,oneof=admin staff"`
	Permissions *PermissionsInput `json:"permissions"`
}

// ResetPasswordRequest sets a new password without the old one
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// PermissionsInput mirrors the per-user capability flags
type PermissionsInput struct {
	ManagePatients bool `json:"manage_patients"`
	ManageCatalog  bool `json:"manage_catalog"`
	ProcessSales   bool `json:"process_sales"`
	VoidSales      bool `json:"void_sales"`
	ManageBlends   bool `json:"manage_blends"`
	RunBulkActions bool `json:"run_bulk_actions"`
	ViewReports    bool `json:"view_reports"`
}

func (p *PermissionsInput) toDomain() identity.Permissions {
	return identity.Permissions{
		ManagePatients: p.ManagePatients,
		ManageCatalog:  p.ManageCatalog,
		ProcessSales:   p.ProcessSales,
		VoidSales:      p.VoidSales,
		ManageBlends:   p.ManageBlends,
		RunBulkActions: p.RunBulkActions,
		ViewReports:    p.ViewReports,
	}
}

// UserListFilter filters the user listing
type UserListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Role     string `form:"role"`
	Status   string `form:"status"`
	Search   string `form:"search"`
}

// UserResponse is the API representation of a user account
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	Role        string     `json:"role"`
	Permissions []string   `json:"permissions"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToUserResponse converts a domain user to a response DTO
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		Permissions: u.GrantedPermissions(),
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToUserResponses converts a slice of domain users to response DTOs
func ToUserResponses(users []identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}
