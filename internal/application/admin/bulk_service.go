package admin

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/leaftolife/backend/internal/domain/catalog"
	"github.com/leaftolife/backend/internal/domain/membership"
	"github.com/leaftolife/backend/internal/domain/patient"
	"github.com/leaftolife/backend/internal/domain/shared"
	"github.com/leaftolife/backend/internal/domain/shared/valueobject"
)

// chunkSize bounds how many records a bulk pass loads and saves at once
const chunkSize = 100

// BulkService runs administrative operations across many records. Items
// fail individually; one bad record does not abort the rest.
type BulkService struct {
	productRepo catalog.ProductRepository
	patientRepo patient.Repository
	tierRepo    membership.Repository
	logger      *zap.Logger
}

// NewBulkService creates a new BulkService
func NewBulkService(
	productRepo catalog.ProductRepository,
	patientRepo patient.Repository,
	tierRepo membership.Repository,
	logger *zap.Logger,
) *BulkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulkService{
		productRepo: productRepo,
		patientRepo: patientRepo,
		tierRepo:    tierRepo,
		logger:      logger,
	}
}

// AdjustPrices shifts sell (and optionally cost) prices across the selected
// products. Percent mode scales, absolute mode adds a fixed amount; results
// are rounded to cents. Items producing a negative price fail individually.
func (s *BulkService) AdjustPrices(ctx context.Context, req BulkPriceAdjustmentRequest) (*BulkResult, error) {
	if !req.Mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_MODE", "Adjustment mode must be 'percent' or 'absolute'")
	}

	result := &BulkResult{}

	process := func(products []*catalog.Product) error {
		saved := make([]*catalog.Product, 0, len(products))
		for _, p := range products {
			result.Total++

			sell, err := s.adjust(p.GetSellPriceMoney(), req)
			if err != nil {
				result.addError(p.ID, p.Code, err)
				continue
			}
			cost := p.GetCostPriceMoney()
			if req.AdjustCost {
				cost, err = s.adjust(cost, req)
				if err != nil {
					result.addError(p.ID, p.Code, err)
					continue
				}
			}

			if err := p.SetPrices(cost, sell); err != nil {
				result.addError(p.ID, p.Code, err)
				continue
			}

			saved = append(saved, p)
			result.Succeeded++
		}

		if len(saved) == 0 {
			return nil
		}
		return s.productRepo.SaveAll(ctx, saved)
	}

	if len(req.ProductIDs) > 0 {
		for start := 0; start < len(req.ProductIDs); start += chunkSize {
			end := start + chunkSize
			if end > len(req.ProductIDs) {
				end = len(req.ProductIDs)
			}

			products, err := s.productRepo.FindByIDs(ctx, req.ProductIDs[start:end])
			if err != nil {
				return nil, err
			}
			if err := process(pointers(products)); err != nil {
				return nil, err
			}
		}
	} else {
		filter := shared.DefaultFilter()
		filter.PageSize = chunkSize
		filter.Filters["status"] = string(catalog.ProductStatusActive)
		if req.Category != "" {
			filter.Filters["category"] = req.Category
		}

		for page := 1; ; page++ {
			filter.Page = page
			products, err := s.productRepo.FindAll(ctx, filter)
			if err != nil {
				return nil, err
			}
			if len(products) == 0 {
				break
			}
			if err := process(pointers(products)); err != nil {
				return nil, err
			}
			if len(products) < chunkSize {
				break
			}
		}
	}

	s.logger.Info("bulk price adjustment finished",
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))

	return result, nil
}

func (s *BulkService) adjust(price valueobject.Money, req BulkPriceAdjustmentRequest) (valueobject.Money, error) {
	var delta valueobject.Money
	switch req.Mode {
	case AdjustmentModePercent:
		delta = price.PercentOf(req.Amount)
	case AdjustmentModeAbsolute:
		delta = valueobject.NewMoneySGD(req.Amount)
	}

	adjusted, err := price.Add(delta)
	if err != nil {
		return valueobject.Money{}, err
	}

	adjusted = adjusted.Round(2)
	if adjusted.IsNegative() {
		return valueobject.Money{}, shared.NewDomainError("NEGATIVE_PRICE", "Adjustment would make the price negative")
	}
	return adjusted, nil
}

// ArchivePatients archives every listed patient record. Patients that are
// already archived or cannot be loaded fail individually.
func (s *BulkService) ArchivePatients(ctx context.Context, req BulkArchivePatientsRequest) (*BulkResult, error) {
	result := &BulkResult{}

	for _, id := range req.PatientIDs {
		result.Total++

		p, err := s.patientRepo.FindByID(ctx, id)
		if err != nil {
			result.addError(id, "", err)
			continue
		}
		if err := p.Archive(); err != nil {
			result.addError(id, p.Code, err)
			continue
		}
		if err := s.patientRepo.Save(ctx, p); err != nil {
			result.addError(id, p.Code, err)
			continue
		}

		result.Succeeded++
	}

	s.logger.Info("bulk patient archive finished",
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))

	return result, nil
}

// ReassignTier moves every patient on the source tier to the target tier,
// or clears the assignment when no target is given.
func (s *BulkService) ReassignTier(ctx context.Context, req BulkReassignTierRequest) (*BulkResult, error) {
	if _, err := s.tierRepo.FindByID(ctx, req.FromTierID); err != nil {
		return nil, err
	}

	if req.TargetTierID != nil {
		target, err := s.tierRepo.FindByID(ctx, *req.TargetTierID)
		if err != nil {
			return nil, err
		}
		if !target.Active {
			return nil, shared.NewDomainError("TIER_INACTIVE", "Target tier is not active")
		}
	}

	patients, err := s.patientRepo.FindByMembershipTier(ctx, req.FromTierID)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{}
	for i := range patients {
		p := &patients[i]
		result.Total++

		if req.TargetTierID != nil {
			err = p.AssignMembershipTier(*req.TargetTierID)
		} else {
			p.ClearMembershipTier()
		}
		if err != nil {
			result.addError(p.ID, p.Code, err)
			continue
		}

		if err := s.patientRepo.Save(ctx, p); err != nil {
			result.addError(p.ID, p.Code, err)
			continue
		}

		result.Succeeded++
	}

	s.logger.Info("bulk tier reassignment finished",
		zap.String("from_tier", req.FromTierID.String()),
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))

	return result, nil
}

// LowStockReport lists products at or below their reorder level
func (s *BulkService) LowStockReport(ctx context.Context) ([]LowStockItem, error) {
	products, err := s.productRepo.FindBelowReorderLevel(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]LowStockItem, len(products))
	for i := range products {
		p := &products[i]
		items[i] = LowStockItem{
			ProductID:     p.ID,
			Code:          p.Code,
			Name:          p.Name,
			BaseUnit:      p.BaseUnit,
			StockQuantity: p.StockQuantity,
			ReorderLevel:  p.ReorderLevel,
		}
	}
	return items, nil
}

func pointers(products []catalog.Product) []*catalog.Product {
	out := make([]*catalog.Product, len(products))
	for i := range products {
		out[i] = &products[i]
	}
	return out
}

// LowStockItem is one row of the low stock report
type LowStockItem struct {
	ProductID     uuid.UUID       `json:"product_id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	BaseUnit      string          `json:"base_unit"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
}
