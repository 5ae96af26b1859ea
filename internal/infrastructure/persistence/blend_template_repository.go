package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leaftolife/backend/internal/domain/catalog"
	"github.com/leaftolife/backend/internal/domain/shared"
)

// GormBlendTemplateRepository implements catalog.BlendTemplateRepository using GORM
type GormBlendTemplateRepository struct {
	db *gorm.DB
}

// NewGormBlendTemplateRepository creates a new GormBlendTemplateRepository
func NewGormBlendTemplateRepository(db *gorm.DB) *GormBlendTemplateRepository {
	return &GormBlendTemplateRepository{db: db}
}

// FindByID finds a blend template with its ingredients
func (r *GormBlendTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.BlendTemplate, error) {
	var t catalog.BlendTemplate
	if err := r.db.WithContext(ctx).Preload("Ingredients").First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByName finds a blend template by name
func (r *GormBlendTemplateRepository) FindByName(ctx context.Context, name string) (*catalog.BlendTemplate, error) {
	var t catalog.BlendTemplate
	if err := r.db.WithContext(ctx).Preload("Ingredients").First(&t, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll finds blend templates matching the filter
func (r *GormBlendTemplateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.BlendTemplate, error) {
	var templates []catalog.BlendTemplate
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.BlendTemplate{}), filter)
	query = applyPagination(query, filter)
	query = applyOrdering(query, filter, blendOrderColumns, "name ASC")

	if err := query.Preload("Ingredients").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// Save creates or updates a blend template and replaces its ingredient list
func (r *GormBlendTemplateRepository) Save(ctx context.Context, t *catalog.BlendTemplate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&catalog.BlendIngredient{}, "template_id = ?", t.ID).Error; err != nil {
			return err
		}
		return tx.Save(t).Error
	})
}

// Delete deletes a blend template and its ingredients
func (r *GormBlendTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&catalog.BlendIngredient{}, "template_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.BlendTemplate{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts blend templates matching the filter
func (r *GormBlendTemplateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.BlendTemplate{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var blendOrderColumns = map[string]bool{
	"name":       true,
	"created_at": true,
	"updated_at": true,
}

func (r *GormBlendTemplateRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, "name", "description")

	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", parseBoolFilter(value))
		case "output_product_id":
			query = query.Where("output_product_id = ?", value)
		}
	}
	return query
}

var _ catalog.BlendTemplateRepository = (*GormBlendTemplateRepository)(nil)
