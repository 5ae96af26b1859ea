package dto

import (
	"net/http"
	"strings"
)

// Error codes surfaced by the HTTP layer itself
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeRateLimited  = "RATE_LIMITED"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall through to the prefix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:       http.StatusInternalServerError,
	ErrCodeValidation:     http.StatusBadRequest,
	ErrCodeBadRequest:     http.StatusBadRequest,
	ErrCodeRateLimited:    http.StatusTooManyRequests,
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,

	// Auth
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,
	"ACCOUNT_LOCKED":      http.StatusForbidden,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,

	// Resources
	ErrCodeNotFound:        http.StatusNotFound,
	"USER_NOT_FOUND":       http.StatusNotFound,
	"ITEM_NOT_FOUND":       http.StatusNotFound,
	"INGREDIENT_NOT_FOUND": http.StatusNotFound,
	"COMPONENT_NOT_FOUND":  http.StatusNotFound,
	ErrCodeConflict:        http.StatusConflict,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"INVOICE_EXISTS":       http.StatusConflict,
	"TIER_IN_USE":          http.StatusConflict,

	// Business rules
	"INVALID_STATE":         http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":    http.StatusUnprocessableEntity,
	"PATIENT_ARCHIVED":      http.StatusUnprocessableEntity,
	"PRODUCT_INACTIVE":      http.StatusUnprocessableEntity,
	"TIER_INACTIVE":         http.StatusUnprocessableEntity,
	"NO_ITEMS":              http.StatusUnprocessableEntity,
	"NO_INGREDIENTS":        http.StatusUnprocessableEntity,
	"NO_COMPONENTS":         http.StatusUnprocessableEntity,
	"NO_EMAIL":              http.StatusUnprocessableEntity,
	"NEGATIVE_PRICE":        http.StatusUnprocessableEntity,
	"BLEND_PRICE_REQUIRED":  http.StatusUnprocessableEntity,
	"INVOICE_NOT_GENERATED": http.StatusUnprocessableEntity,
	"ALREADY_ACTIVE":        http.StatusUnprocessableEntity,
	"ALREADY_DEACTIVATED":   http.StatusUnprocessableEntity,
	"NOT_LOCKED":            http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for a domain error code. INVALID_*
// codes are treated as bad input, DUPLICATE_* as conflicts, and anything
// unrecognized as an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	if strings.HasPrefix(code, "DUPLICATE_") {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
