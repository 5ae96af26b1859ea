package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leaftolife/backend/internal/domain/catalog"
	"github.com/leaftolife/backend/internal/domain/shared"
)

// GormBundleRepository implements catalog.BundleRepository using GORM
type GormBundleRepository struct {
	db *gorm.DB
}

// NewGormBundleRepository creates a new GormBundleRepository
func NewGormBundleRepository(db *gorm.DB) *GormBundleRepository {
	return &GormBundleRepository{db: db}
}

// FindByID finds a bundle with its components
func (r *GormBundleRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Bundle, error) {
	var b catalog.Bundle
	if err := r.db.WithContext(ctx).Preload("Components").First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByCode finds a bundle by code
func (r *GormBundleRepository) FindByCode(ctx context.Context, code string) (*catalog.Bundle, error) {
	var b catalog.Bundle
	if err := r.db.WithContext(ctx).Preload("Components").First(&b, "code = ?", strings.ToUpper(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindAll finds bundles matching the filter
func (r *GormBundleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Bundle, error) {
	var bundles []catalog.Bundle
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Bundle{}), filter)
	query = applyPagination(query, filter)
	query = applyOrdering(query, filter, bundleOrderColumns, "code ASC")

	if err := query.Preload("Components").Find(&bundles).Error; err != nil {
		return nil, err
	}
	return bundles, nil
}

// Save creates or updates a bundle and replaces its component list
func (r *GormBundleRepository) Save(ctx context.Context, b *catalog.Bundle) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&catalog.BundleComponent{}, "bundle_id = ?", b.ID).Error; err != nil {
			return err
		}
		return tx.Save(b).Error
	})
}

// Delete deletes a bundle and its components
func (r *GormBundleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&catalog.BundleComponent{}, "bundle_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.Bundle{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts bundles matching the filter
func (r *GormBundleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Bundle{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var bundleOrderColumns = map[string]bool{
	"code":       true,
	"name":       true,
	"price":      true,
	"created_at": true,
	"updated_at": true,
}

func (r *GormBundleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, "code", "name")

	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", parseBoolFilter(value))
		}
	}
	return query
}

var _ catalog.BundleRepository = (*GormBundleRepository)(nil)
