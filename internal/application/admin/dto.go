package admin

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceAdjustmentMode selects how bulk price changes are applied
type PriceAdjustmentMode string

const (
	// AdjustmentModePercent shifts prices by a percentage (positive or negative)
	AdjustmentModePercent PriceAdjustmentMode = "percent"
	// AdjustmentModeAbsolute shifts prices by a fixed amount
	AdjustmentModeAbsolute PriceAdjustmentMode = "absolute"
)

// IsValid checks if the adjustment mode is valid
func (m PriceAdjustmentMode) IsValid() bool {
	return m == AdjustmentModePercent || m == AdjustmentModeAbsolute
}

// BulkPriceAdjustmentRequest adjusts sell prices across a set of products.
// Either ProductIDs or Category selects the targets; both empty means every
// active product.
type BulkPriceAdjustmentRequest struct {
	ProductIDs []uuid.UUID         `json:"product_ids"`
	Category   string              `json:"category"`
	Mode       PriceAdjustmentMode `json:"mode" binding:"required,oneof=percent absolute"`
	Amount     decimal.Decimal     `json:"amount" binding:"required"`
	AdjustCost bool                `json:"adjust_cost"` // Also shift cost prices
}

// BulkArchivePatientsRequest archives a set of patient records
type BulkArchivePatientsRequest struct {
	PatientIDs []uuid.UUID `json:"patient_ids" binding:"required,min=1"`
}

// BulkReassignTierRequest moves patients from one membership tier to
// another. TargetTierID nil clears the assignment.
type BulkReassignTierRequest struct {
	FromTierID   uuid.UUID  `json:"from_tier_id" binding:"required"`
	TargetTierID *uuid.UUID `json:"target_tier_id"`
}

// BulkItemError describes one failed item in a bulk operation
type BulkItemError struct {
	ID      uuid.UUID `json:"id"`
	Code    string    `json:"code,omitempty"`
	Message string    `json:"message"`
}

// BulkResult summarizes a bulk operation
type BulkResult struct {
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Errors    []BulkItemError `json:"errors,omitempty"`
}

func (r *BulkResult) addError(id uuid.UUID, code string, err error) {
	r.Failed++
	r.Errors = append(r.Errors, BulkItemError{ID: id, Code: code, Message: err.Error()})
}
