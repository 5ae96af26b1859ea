package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/leaftolife/backend/internal/domain/catalog"
	"github.com/leaftolife/backend/internal/domain/shared"
	"github.com/leaftolife/backend/internal/domain/shared/valueobject"
)

// BundleService handles bundle operations
type BundleService struct {
	bundleRepo  catalog.BundleRepository
	productRepo catalog.ProductRepository
}

// NewBundleService creates a new BundleService
func NewBundleService(bundleRepo catalog.BundleRepository, productRepo catalog.ProductRepository) *BundleService {
	return &BundleService{
		bundleRepo:  bundleRepo,
		productRepo: productRepo,
	}
}

// Create creates a new bundle with its component lines
func (s *BundleService) Create(ctx context.Context, req CreateBundleRequest) (*BundleResponse, error) {
	if existing, err := s.bundleRepo.FindByCode(ctx, req.Code); err == nil && existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "A bundle with this code already exists")
	}

	bundle, err := catalog.NewBundle(req.Code, req.Name, valueobject.NewMoneySGD(req.Price))
	if err != nil {
		return nil, err
	}

	for _, input := range req.Components {
		product, err := s.productRepo.FindByID(ctx, input.ProductID)
		if err != nil {
			return nil, err
		}
		if err := bundle.AddComponent(product, input.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.bundleRepo.Save(ctx, bundle); err != nil {
		return nil, err
	}

	response := ToBundleResponse(bundle)
	return &response, nil
}

// GetByID retrieves a bundle by ID
func (s *BundleService) GetByID(ctx context.Context, id uuid.UUID) (*BundleResponse, error) {
	bundle, err := s.bundleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBundleResponse(bundle)
	return &response, nil
}

// List retrieves bundles with filtering and pagination
func (s *BundleService) List(ctx context.Context, filter BundleListFilter) ([]BundleResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	bundles, err := s.bundleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.bundleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToBundleResponses(bundles), total, nil
}

// Update updates a bundle's name and price
func (s *BundleService) Update(ctx context.Context, id uuid.UUID, req UpdateBundleRequest) (*BundleResponse, error) {
	bundle, err := s.bundleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := bundle.Rename(req.Name); err != nil {
		return nil, err
	}
	if req.Price != nil {
		if err := bundle.SetPrice(valueobject.NewMoneySGD(*req.Price)); err != nil {
			return nil, err
		}
	}

	if err := s.bundleRepo.Save(ctx, bundle); err != nil {
		return nil, err
	}

	response := ToBundleResponse(bundle)
	return &response, nil
}

// AddComponent adds a component product to a bundle
func (s *BundleService) AddComponent(ctx context.Context, id uuid.UUID, input BundleComponentInput) (*BundleResponse, error) {
	bundle, err := s.bundleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	if err := bundle.AddComponent(product, input.Quantity); err != nil {
		return nil, err
	}

	if err := s.bundleRepo.Save(ctx, bundle); err != nil {
		return nil, err
	}

	response := ToBundleResponse(bundle)
	return &response, nil
}

// RemoveComponent removes a component from a bundle
func (s *BundleService) RemoveComponent(ctx context.Context, id, componentID uuid.UUID) (*BundleResponse, error) {
	bundle, err := s.bundleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := bundle.RemoveComponent(componentID); err != nil {
		return nil, err
	}

	if err := s.bundleRepo.Save(ctx, bundle); err != nil {
		return nil, err
	}

	response := ToBundleResponse(bundle)
	return &response, nil
}

// Activate makes a bundle sellable
func (s *BundleService) Activate(ctx context.Context, id uuid.UUID) (*BundleResponse, error) {
	bundle, err := s.bundleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bundle.Activate()

	if err := s.bundleRepo.Save(ctx, bundle); err != nil {
		return nil, err
	}

	response := ToBundleResponse(bundle)
	return &response, nil
}

// Deactivate hides a bundle from sale
func (s *BundleService) Deactivate(ctx context.Context, id uuid.UUID) (*BundleResponse, error) {
	bundle, err := s.bundleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bundle.Deactivate()

	if err := s.bundleRepo.Save(ctx, bundle); err != nil {
		return nil, err
	}

	response := ToBundleResponse(bundle)
	return &response, nil
}
