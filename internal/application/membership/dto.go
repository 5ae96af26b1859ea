package membership

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leaftolife/backend/internal/domain/membership"
)

// CreateTierRequest creates a new membership tier
type CreateTierRequest struct {
	Code            string           `json:"code" binding:"required,max=50"`
	Name            string           `json:"name" binding:"required,max=100"`
	DiscountPercent decimal.Decimal  `json:"discount_percent" binding:"required"`
	MinAnnualSpend  *decimal.Decimal `json:"min_annual_spend"`
	SortOrder       int              `json:"sort_order"`
}

// UpdateTierRequest changes a tier's name, discount and thresholds
type UpdateTierRequest struct {
	Name            string           `json:"name" binding:"required,max=100"`
	DiscountPercent decimal.Decimal  `json:"discount_percent" binding:"required"`
	MinAnnualSpend  *decimal.Decimal `json:"min_annual_spend"`
	SortOrder       *int             `json:"sort_order"`
}

// TierListFilter filters the tier listing
type TierListFilter struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	ActiveOnly bool   `form:"active_only"`
	Search     string `form:"search"`
}

// TierResponse is the API representation of a membership tier
type TierResponse struct {
	ID              uuid.UUID       `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	MinAnnualSpend  decimal.Decimal `json:"min_annual_spend"`
	SortOrder       int             `json:"sort_order"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToTierResponse converts a domain tier to a response DTO
func ToTierResponse(t *membership.Tier) TierResponse {
	return TierResponse{
		ID:              t.ID,
		Code:            t.Code,
		Name:            t.Name,
		DiscountPercent: t.DiscountPercent,
		MinAnnualSpend:  t.MinAnnualSpend,
		SortOrder:       t.SortOrder,
		Active:          t.Active,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// ToTierResponses converts a slice of domain tiers to response DTOs
func ToTierResponses(tiers []membership.Tier) []TierResponse {
	responses := make([]TierResponse, len(tiers))
	for i := range tiers {
		responses[i] = ToTierResponse(&tiers[i])
	}
	return responses
}
