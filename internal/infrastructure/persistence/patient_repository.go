package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leaftolife/backend/internal/domain/patient"
	"github.com/leaftolife/backend/internal/domain/shared"
)

const patientCodePrefix = "P-"

// GormPatientRepository implements patient.Repository using GORM
type GormPatientRepository struct {
	db *gorm.DB
}

// NewGormPatientRepository creates a new GormPatientRepository
func NewGormPatientRepository(db *gorm.DB) *GormPatientRepository {
	return &GormPatientRepository{db: db}
}

// FindByID finds a patient by ID
func (r *GormPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByCode finds a patient by code
func (r *GormPatientRepository) FindByCode(ctx context.Context, code string) (*patient.Patient, error) {
	var p patient.Patient
	if err := r.db.WithContext(ctx).First(&p, "code = ?", strings.ToUpper(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAll finds patients matching the filter
func (r *GormPatientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]patient.Patient, error) {
	var patients []patient.Patient
	query := r.applyFilter(r.db.WithContext(ctx).Model(&patient.Patient{}), filter)
	query = applyPagination(query, filter)
	query = applyOrdering(query, filter, patientOrderColumns, "created_at DESC")

	if err := query.Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

// FindByMembershipTier finds patients assigned to a membership tier
func (r *GormPatientRepository) FindByMembershipTier(ctx context.Context, tierID uuid.UUID) ([]patient.Patient, error) {
	var patients []patient.Patient
	if err := r.db.WithContext(ctx).
		Where("membership_tier_id = ?", tierID).
		Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

// Save creates or updates a patient
func (r *GormPatientRepository) Save(ctx context.Context, p *patient.Patient) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete deletes a patient
func (r *GormPatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&patient.Patient{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts patients matching the filter
func (r *GormPatientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&patient.Patient{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks whether a patient with the given code exists
func (r *GormPatientRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&patient.Patient{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateCode issues the next sequential patient code, P-NNNN
func (r *GormPatientRepository) GenerateCode(ctx context.Context) (string, error) {
	var lastCode string
	err := r.db.WithContext(ctx).
		Model(&patient.Patient{}).
		Select("code").
		Where("code LIKE ?", patientCodePrefix+"%").
		Order("code DESC").
		Limit(1).
		Scan(&lastCode).Error
	if err != nil {
		return "", err
	}

	next := 1
	if lastCode != "" {
		if n, err := strconv.Atoi(strings.TrimPrefix(lastCode, patientCodePrefix)); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", patientCodePrefix, next), nil
}

var patientOrderColumns = map[string]bool{
	"code":       true,
	"first_name": true,
	"last_name":  true,
	"created_at": true,
	"updated_at": true,
}

func (r *GormPatientRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, "code", "first_name", "last_name", "email", "phone")

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "membership_tier_id":
			query = query.Where("membership_tier_id = ?", value)
		}
	}
	return query
}

var _ patient.Repository = (*GormPatientRepository)(nil)
