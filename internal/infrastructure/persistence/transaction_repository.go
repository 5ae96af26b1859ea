package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leaftolife/backend/internal/domain/sales"
	"github.com/leaftolife/backend/internal/domain/shared"
)

const (
	transactionNumberPrefix = "TXN"
	invoiceNumberPrefix     = "INV"
)

// GormTransactionRepository implements sales.Repository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction with its items
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Transaction, error) {
	var t sales.Transaction
	if err := r.db.WithContext(ctx).Preload("Items").First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByNumber finds a transaction by its number
func (r *GormTransactionRepository) FindByNumber(ctx context.Context, number string) (*sales.Transaction, error) {
	var t sales.Transaction
	if err := r.db.WithContext(ctx).Preload("Items").First(&t, "number = ?", strings.ToUpper(number)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll finds transactions matching the filter
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Transaction, error) {
	var transactions []sales.Transaction
	query := r.applyFilter(r.db.WithContext(ctx).Model(&sales.Transaction{}), filter)
	query = applyPagination(query, filter)
	query = applyOrdering(query, filter, transactionOrderColumns, "created_at DESC")

	if err := query.Preload("Items").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// FindByPatient finds a patient's transactions, newest first
func (r *GormTransactionRepository) FindByPatient(ctx context.Context, patientID uuid.UUID, filter shared.Filter) (*shared.Paginated[sales.Transaction], error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&sales.Transaction{}).
		Where("patient_id = ?", patientID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var transactions []sales.Transaction
	query := r.db.WithContext(ctx).Model(&sales.Transaction{}).Where("patient_id = ?", patientID)
	query = applyPagination(query, filter)
	query = applyOrdering(query, filter, transactionOrderColumns, "created_at DESC")
	if err := query.Preload("Items").Find(&transactions).Error; err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = len(transactions)
		if pageSize == 0 {
			pageSize = 1
		}
	}

	result := shared.NewPaginated(transactions, total, page, pageSize)
	return &result, nil
}

// Save creates or updates a transaction and replaces its item list
func (r *GormTransactionRepository) Save(ctx context.Context, t *sales.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&sales.TransactionItem{}, "transaction_id = ?", t.ID).Error; err != nil {
			return err
		}
		return tx.Save(t).Error
	})
}

// SaveWithLock persists using optimistic locking on the version column.
// Returns ErrConcurrencyConflict when the record changed underneath.
func (r *GormTransactionRepository) SaveWithLock(ctx context.Context, t *sales.Transaction, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&sales.Transaction{}).
			Where("id = ? AND version = ?", t.ID, expectedVersion).
			Select("*").
			Omit("Items", "created_at").
			Updates(t)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if err := tx.Delete(&sales.TransactionItem{}, "transaction_id = ?", t.ID).Error; err != nil {
			return err
		}
		if len(t.Items) > 0 {
			if err := tx.Create(&t.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a transaction and its items
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&sales.TransactionItem{}, "transaction_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&sales.Transaction{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts transactions matching the filter
func (r *GormTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&sales.Transaction{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextNumber issues the next sequential transaction number, TXN-YYYY-NNNNN
func (r *GormTransactionRepository) NextNumber(ctx context.Context) (string, error) {
	return r.nextSequential(ctx, "number", transactionNumberPrefix)
}

// NextInvoiceNumber issues the next sequential invoice number, INV-YYYY-NNNNN
func (r *GormTransactionRepository) NextInvoiceNumber(ctx context.Context) (string, error) {
	return r.nextSequential(ctx, "invoice_number", invoiceNumberPrefix)
}

func (r *GormTransactionRepository) nextSequential(ctx context.Context, column, prefix string) (string, error) {
	year := time.Now().Year()
	yearPrefix := fmt.Sprintf("%s-%d-", prefix, year)

	var last string
	err := r.db.WithContext(ctx).
		Model(&sales.Transaction{}).
		Select(column).
		Where(column+" LIKE ?", yearPrefix+"%").
		Order(column + " DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", err
	}

	next := 1
	if last != "" {
		if n, err := strconv.Atoi(strings.TrimPrefix(last, yearPrefix)); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%05d", yearPrefix, next), nil
}

var transactionOrderColumns = map[string]bool{
	"number":     true,
	"total":      true,
	"status":     true,
	"created_at": true,
	"updated_at": true,
}

func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, "number", "patient_code", "patient_name", "invoice_number")

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "patient_id":
			query = query.Where("patient_id = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "start_date":
			query = query.Where("created_at >= ?", value)
		case "end_date":
			query = query.Where("created_at < ?", value)
		}
	}
	return query
}

var _ sales.Repository = (*GormTransactionRepository)(nil)
