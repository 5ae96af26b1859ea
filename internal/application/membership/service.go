package membership

import (
	"context"

	"github.com/google/uuid"

	"github.com/leaftolife/backend/internal/domain/membership"
	"github.com/leaftolife/backend/internal/domain/patient"
	"github.com/leaftolife/backend/internal/domain/shared"
	"github.com/leaftolife/backend/internal/domain/shared/valueobject"
)

// Service handles membership tier administration
type Service struct {
	tierRepo    membership.Repository
	patientRepo patient.Repository
}

// NewService creates a new membership Service
func NewService(tierRepo membership.Repository, patientRepo patient.Repository) *Service {
	return &Service{
		tierRepo:    tierRepo,
		patientRepo: patientRepo,
	}
}

// Create creates a new membership tier
func (s *Service) Create(ctx context.Context, req CreateTierRequest) (*TierResponse, error) {
	exists, err := s.tierRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "A tier with this code already exists")
	}

	tier, err := membership.NewTier(req.Code, req.Name, req.DiscountPercent)
	if err != nil {
		return nil, err
	}

	if req.MinAnnualSpend != nil {
		if err := tier.SetMinAnnualSpend(valueobject.NewMoneySGD(*req.MinAnnualSpend)); err != nil {
			return nil, err
		}
	}
	tier.SetSortOrder(req.SortOrder)

	if err := s.tierRepo.Save(ctx, tier); err != nil {
		return nil, err
	}

	response := ToTierResponse(tier)
	return &response, nil
}

// GetByID retrieves a tier by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*TierResponse, error) {
	tier, err := s.tierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToTierResponse(tier)
	return &response, nil
}

// List retrieves tiers, ordered for display
func (s *Service) List(ctx context.Context, filter TierListFilter) ([]TierResponse, int64, error) {
	if filter.ActiveOnly {
		tiers, err := s.tierRepo.FindActive(ctx)
		if err != nil {
			return nil, 0, err
		}
		return ToTierResponses(tiers), int64(len(tiers)), nil
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.OrderBy = "sort_order"
	domainFilter.OrderDir = "asc"
	domainFilter.Search = filter.Search

	tiers, err := s.tierRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.tierRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTierResponses(tiers), total, nil
}

// Update changes a tier's name, discount and thresholds
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateTierRequest) (*TierResponse, error) {
	tier, err := s.tierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := tier.Update(req.Name, req.DiscountPercent); err != nil {
		return nil, err
	}
	if req.MinAnnualSpend != nil {
		if err := tier.SetMinAnnualSpend(valueobject.NewMoneySGD(*req.MinAnnualSpend)); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		tier.SetSortOrder(*req.SortOrder)
	}

	if err := s.tierRepo.Save(ctx, tier); err != nil {
		return nil, err
	}

	response := ToTierResponse(tier)
	return &response, nil
}

// Activate makes a tier assignable to patients
func (s *Service) Activate(ctx context.Context, id uuid.UUID) (*TierResponse, error) {
	tier, err := s.tierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tier.Activate()

	if err := s.tierRepo.Save(ctx, tier); err != nil {
		return nil, err
	}

	response := ToTierResponse(tier)
	return &response, nil
}

// Deactivate hides a tier. Patients already on the tier keep the
// assignment but no longer receive the discount at checkout.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (*TierResponse, error) {
	tier, err := s.tierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tier.Deactivate()

	if err := s.tierRepo.Save(ctx, tier); err != nil {
		return nil, err
	}

	response := ToTierResponse(tier)
	return &response, nil
}

// Delete removes a tier that no patient is assigned to
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.tierRepo.FindByID(ctx, id); err != nil {
		return err
	}

	assigned, err := s.patientRepo.FindByMembershipTier(ctx, id)
	if err != nil {
		return err
	}
	if len(assigned) > 0 {
		return shared.NewDomainError("TIER_IN_USE", "Tier is assigned to one or more patients")
	}

	return s.tierRepo.Delete(ctx, id)
}
