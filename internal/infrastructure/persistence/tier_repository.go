package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leaftolife/backend/internal/domain/membership"
	"github.com/leaftolife/backend/internal/domain/shared"
)

// GormTierRepository implements membership.Repository using GORM
type GormTierRepository struct {
	db *gorm.DB
}

// NewGormTierRepository creates a new GormTierRepository
func NewGormTierRepository(db *gorm.DB) *GormTierRepository {
	return &GormTierRepository{db: db}
}

// FindByID finds a tier by ID
func (r *GormTierRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.Tier, error) {
	var t membership.Tier
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByCode finds a tier by code
func (r *GormTierRepository) FindByCode(ctx context.Context, code string) (*membership.Tier, error) {
	var t membership.Tier
	if err := r.db.WithContext(ctx).First(&t, "code = ?", strings.ToUpper(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll finds tiers matching the filter
func (r *GormTierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]membership.Tier, error) {
	var tiers []membership.Tier
	query := r.applyFilter(r.db.WithContext(ctx).Model(&membership.Tier{}), filter)
	query = applyPagination(query, filter)
	query = applyOrdering(query, filter, tierOrderColumns, "sort_order ASC, code ASC")

	if err := query.Find(&tiers).Error; err != nil {
		return nil, err
	}
	return tiers, nil
}

// FindActive finds all active tiers ordered by sort order
func (r *GormTierRepository) FindActive(ctx context.Context) ([]membership.Tier, error) {
	var tiers []membership.Tier
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("sort_order ASC, code ASC").
		Find(&tiers).Error; err != nil {
		return nil, err
	}
	return tiers, nil
}

// Save creates or updates a tier
func (r *GormTierRepository) Save(ctx context.Context, t *membership.Tier) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// Delete deletes a tier
func (r *GormTierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&membership.Tier{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts tiers matching the filter
func (r *GormTierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&membership.Tier{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks whether a tier with the given code exists
func (r *GormTierRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&membership.Tier{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var tierOrderColumns = map[string]bool{
	"code":             true,
	"name":             true,
	"sort_order":       true,
	"discount_percent": true,
	"created_at":       true,
}

func (r *GormTierRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, "code", "name")

	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", parseBoolFilter(value))
		}
	}
	return query
}

var _ membership.Repository = (*GormTierRepository)(nil)
