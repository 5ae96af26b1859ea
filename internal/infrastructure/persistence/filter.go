package persistence

import (
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/leaftolife/backend/internal/domain/shared"
)

// applyPagination applies page/page-size limits to a query
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// applyOrdering applies the requested ordering, falling back to a default.
// Only column names vetted by the caller reach this point.
func applyOrdering(query *gorm.DB, filter shared.Filter, allowed map[string]bool, fallback string) *gorm.DB {
	orderBy := filter.OrderBy
	if orderBy == "" || !allowed[orderBy] {
		return query.Order(fallback)
	}

	orderDir := "ASC"
	if strings.ToLower(filter.OrderDir) == "desc" {
		orderDir = "DESC"
	}
	return query.Order(orderBy + " " + orderDir)
}

// parseBoolFilter converts a filter value to a bool, defaulting to true
func parseBoolFilter(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return true
		}
		return parsed
	default:
		return true
	}
}

// applySearch applies a case-insensitive LIKE across the given columns
func applySearch(query *gorm.DB, search string, columns ...string) *gorm.DB {
	if search == "" || len(columns) == 0 {
		return query
	}

	pattern := "%" + strings.ToLower(search) + "%"
	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where(strings.Join(clauses, " OR "), args...)
}
