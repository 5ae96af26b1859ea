package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leaftolife/backend/internal/domain/catalog"
	"github.com/leaftolife/backend/internal/domain/shared"
)

// BlendService handles blend template operations and production runs
type BlendService struct {
	blendRepo       catalog.BlendTemplateRepository
	productRepo     catalog.ProductRepository
	productionScope ProductionScope
	eventPublisher  shared.EventPublisher
}

// NewBlendService creates a new BlendService
func NewBlendService(blendRepo catalog.BlendTemplateRepository, productRepo catalog.ProductRepository, scope ProductionScope) *BlendService {
	return &BlendService{
		blendRepo:       blendRepo,
		productRepo:     productRepo,
		productionScope: scope,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *BlendService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new blend template with its ingredient lines
func (s *BlendService) Create(ctx context.Context, req CreateBlendRequest) (*BlendResponse, error) {
	if existing, err := s.blendRepo.FindByName(ctx, req.Name); err == nil && existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_NAME", "A blend with this name already exists")
	}

	if _, err := s.productRepo.FindByID(ctx, req.OutputProductID); err != nil {
		return nil, err
	}

	template, err := catalog.NewBlendTemplate(req.Name, req.OutputProductID, req.OutputQuantity)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := template.Rename(req.Name, req.Description); err != nil {
			return nil, err
		}
	}

	for _, input := range req.Ingredients {
		product, err := s.productRepo.FindByID(ctx, input.ProductID)
		if err != nil {
			return nil, err
		}
		if _, err := template.AddIngredient(product, input.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.blendRepo.Save(ctx, template); err != nil {
		return nil, err
	}

	response := ToBlendResponse(template)
	return &response, nil
}

// GetByID retrieves a blend template by ID
func (s *BlendService) GetByID(ctx context.Context, id uuid.UUID) (*BlendResponse, error) {
	template, err := s.blendRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBlendResponse(template)
	return &response, nil
}

// List retrieves blend templates with filtering and pagination
func (s *BlendService) List(ctx context.Context, filter BlendListFilter) ([]BlendResponse, int64, error) {
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

	templates, err := s.blendRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.blendRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToBlendResponses(templates), total, nil
}

// Update renames a blend template
func (s *BlendService) Update(ctx context.Context, id uuid.UUID, req UpdateBlendRequest) (*BlendResponse, error) {
	template, err := s.blendRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := template.Rename(req.Name, req.Description); err != nil {
		return nil, err
	}

	if err := s.blendRepo.Save(ctx, template); err != nil {
		return nil, err
	}

	response := ToBlendResponse(template)
	return &response, nil
}

// AddIngredient adds an ingredient line to a blend template
func (s *BlendService) AddIngredient(ctx context.Context, id uuid.UUID, input BlendIngredientInput) (*BlendResponse, error) {
	template, err := s.blendRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	if _, err := template.AddIngredient(product, input.Quantity); err != nil {
		return nil, err
	}

	if err := s.blendRepo.Save(ctx, template); err != nil {
		return nil, err
	}

	response := ToBlendResponse(template)
	return &response, nil
}

// UpdateIngredient changes an ingredient's per-batch quantity
func (s *BlendService) UpdateIngredient(ctx context.Context, id, ingredientID uuid.UUID, req UpdateBlendIngredientRequest) (*BlendResponse, error) {
	template, err := s.blendRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := template.UpdateIngredientQuantity(ingredientID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.blendRepo.Save(ctx, template); err != nil {
		return nil, err
	}

	response := ToBlendResponse(template)
	return &response, nil
}

// RemoveIngredient removes an ingredient line from a blend template
func (s *BlendService) RemoveIngredient(ctx context.Context, id, ingredientID uuid.UUID) (*BlendResponse, error) {
	template, err := s.blendRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := template.RemoveIngredient(ingredientID); err != nil {
		return nil, err
	}

	if err := s.blendRepo.Save(ctx, template); err != nil {
		return nil, err
	}

	response := ToBlendResponse(template)
	return &response, nil
}

// Activate makes a blend template available for production
func (s *BlendService) Activate(ctx context.Context, id uuid.UUID) (*BlendResponse, error) {
	template, err := s.blendRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	template.Activate()

	if err := s.blendRepo.Save(ctx, template); err != nil {
		return nil, err
	}

	response := ToBlendResponse(template)
	return &response, nil
}

// Deactivate hides a blend template from production
func (s *BlendService) Deactivate(ctx context.Context, id uuid.UUID) (*BlendResponse, error) {
	template, err := s.blendRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	template.Deactivate()

	if err := s.blendRepo.Save(ctx, template); err != nil {
		return nil, err
	}

	response := ToBlendResponse(template)
	return &response, nil
}

// Produce runs blend production: deduct every ingredient's stock and receive
// the output product, all inside one database transaction.
func (s *BlendService) Produce(ctx context.Context, id uuid.UUID, req ProduceBlendRequest) (*ProduceBlendResponse, error) {
	if req.Batches.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch count must be positive")
	}

	var result *ProduceBlendResponse

	err := s.productionScope.Execute(ctx, func(repos ProductionRepositories) error {
		template, err := repos.BlendRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := template.CanProduce(); err != nil {
			return err
		}

		products := make([]*catalog.Product, 0, len(template.Ingredients)+1)

		for i := range template.Ingredients {
			ing := &template.Ingredients[i]
			product, err := repos.ProductRepo().FindByIDForUpdate(ctx, ing.ProductID)
			if err != nil {
				return err
			}
			deduction := ing.BaseQuantity().Mul(req.Batches).Round(4)
			if err := product.DeductStock(deduction, req.AllowNegative); err != nil {
				return err
			}
			products = append(products, product)
		}

		output, err := repos.ProductRepo().FindByIDForUpdate(ctx, template.OutputProductID)
		if err != nil {
			return err
		}
		received := template.OutputQuantity.Mul(req.Batches).Round(4)
		if err := output.ReceiveStock(received); err != nil {
			return err
		}
		products = append(products, output)

		if err := repos.ProductRepo().SaveAll(ctx, products); err != nil {
			return err
		}

		result = &ProduceBlendResponse{
			BlendID:        template.ID,
			Batches:        req.Batches,
			OutputProduct:  ToProductResponse(output),
			OutputQuantity: received,
		}

		s.publishProductEvents(ctx, products)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *BlendService) publishProductEvents(ctx context.Context, products []*catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	for _, product := range products {
		for _, event := range product.GetDomainEvents() {
			_ = s.eventPublisher.Publish(ctx, event)
		}
		product.ClearDomainEvents()
	}
}
