package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leaftolife/backend/internal/domain/catalog"
	"github.com/leaftolife/backend/internal/domain/membership"
	"github.com/leaftolife/backend/internal/domain/patient"
	"github.com/leaftolife/backend/internal/domain/sales"
	"github.com/leaftolife/backend/internal/domain/shared"
	"github.com/leaftolife/backend/internal/domain/shared/valueobject"
)

// TransactionService handles point-of-sale transactions
type TransactionService struct {
	txnRepo        sales.Repository
	patientRepo    patient.Repository
	tierRepo       membership.Repository
	productRepo    catalog.ProductRepository
	blendRepo      catalog.BlendTemplateRepository
	bundleRepo     catalog.BundleRepository
	checkoutScope  CheckoutScope
	eventPublisher shared.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	txnRepo sales.Repository,
	patientRepo patient.Repository,
	tierRepo membership.Repository,
	productRepo catalog.ProductRepository,
	blendRepo catalog.BlendTemplateRepository,
	bundleRepo catalog.BundleRepository,
	checkoutScope CheckoutScope,
) *TransactionService {
	return &TransactionService{
		txnRepo:       txnRepo,
		patientRepo:   patientRepo,
		tierRepo:      tierRepo,
		productRepo:   productRepo,
		blendRepo:     blendRepo,
		bundleRepo:    bundleRepo,
		checkoutScope: checkoutScope,
	}
}

// SetEventPublisher sets the event publisher. The invoice pipeline listens
// for completion events published here.
func (s *TransactionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a draft transaction for a patient. The patient's membership
// discount is applied automatically. When req.Complete is set the draft is
// completed in the same call, deducting stock atomically.
func (s *TransactionService) Create(ctx context.Context, req CreateTransactionRequest) (*TransactionResponse, error) {
	p, err := s.patientRepo.FindByID(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, shared.ErrPatientArchived
	}

	number, err := s.txnRepo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	txn, err := sales.NewTransaction(number, p.ID, p.Code, p.FullName(), p.Email)
	if err != nil {
		return nil, err
	}

	for _, input := range req.Items {
		if err := s.addLine(ctx, txn, input); err != nil {
			return nil, err
		}
	}

	if p.MembershipTierID != nil {
		tier, err := s.tierRepo.FindByID(ctx, *p.MembershipTierID)
		if err != nil {
			return nil, err
		}
		if tier.Active {
			if err := txn.ApplyMembershipDiscount(tier.DiscountPercent); err != nil {
				return nil, err
			}
		}
	}
	if req.ManualDiscount != nil {
		if err := txn.ApplyManualDiscount(valueobject.NewMoneySGD(*req.ManualDiscount)); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		txn.SetNotes(req.Notes)
	}

	if req.Complete {
		if err := s.completeWithStock(ctx, txn, CompleteTransactionRequest{
			PaymentMethod: req.PaymentMethod,
			AllowNegative: req.AllowNegative,
		}, true); err != nil {
			return nil, err
		}
	} else {
		if err := s.txnRepo.Save(ctx, txn); err != nil {
			return nil, err
		}
	}

	s.publishEvents(ctx, txn)

	response := ToTransactionResponse(txn)
	return &response, nil
}

// GetByID retrieves a transaction by ID
func (s *TransactionService) GetByID(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	txn, err := s.txnRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToTransactionResponse(txn)
	return &response, nil
}

// GetByNumber retrieves a transaction by its number
func (s *TransactionService) GetByNumber(ctx context.Context, number string) (*TransactionResponse, error) {
	txn, err := s.txnRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToTransactionResponse(txn)
	return &response, nil
}

// List retrieves transactions with filtering and pagination
func (s *TransactionService) List(ctx context.Context, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
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
	if filter.PatientID != nil {
		domainFilter.Filters["patient_id"] = *filter.PatientID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	transactions, err := s.txnRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.txnRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTransactionResponses(transactions), total, nil
}

// AddItem adds a line to a draft transaction
func (s *TransactionService) AddItem(ctx context.Context, id uuid.UUID, input TransactionItemInput) (*TransactionResponse, error) {
	txn, err := s.txnRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.addLine(ctx, txn, input); err != nil {
		return nil, err
	}

	if err := s.txnRepo.Save(ctx, txn); err != nil {
		return nil, err
	}

	response := ToTransactionResponse(txn)
	return &response, nil
}

// UpdateItem changes a line's quantity on a draft transaction
func (s *TransactionService) UpdateItem(ctx context.Context, id, itemID uuid.UUID, req UpdateItemRequest) (*TransactionResponse, error) {
	txn, err := s.txnRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := txn.UpdateItemQuantity(itemID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.txnRepo.Save(ctx, txn); err != nil {
		return nil, err
	}

	response := ToTransactionResponse(txn)
	return &response, nil
}

// RemoveItem removes a line from a draft transaction
func (s *TransactionService) RemoveItem(ctx context.Context, id, itemID uuid.UUID) (*TransactionResponse, error) {
	txn, err := s.txnRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := txn.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.txnRepo.Save(ctx, txn); err != nil {
		return nil, err
	}

	response := ToTransactionResponse(txn)
	return &response, nil
}

// ApplyDiscount applies a manual discount to a draft transaction
func (s *TransactionService) ApplyDiscount(ctx context.Context, id uuid.UUID, req ApplyDiscountRequest) (*TransactionResponse, error) {
	txn, err := s.txnRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := txn.ApplyManualDiscount(valueobject.NewMoneySGD(req.ManualDiscount)); err != nil {
		return nil, err
	}

	if err := s.txnRepo.Save(ctx, txn); err != nil {
		return nil, err
	}

	response := ToTransactionResponse(txn)
	return &response, nil
}

// Complete finalizes a draft transaction, deducting stock for every line in
// one database transaction. The invoice pipeline runs asynchronously off the
// completion event.
func (s *TransactionService) Complete(ctx context.Context, id uuid.UUID, req CompleteTransactionRequest) (*TransactionResponse, error) {
	txn, err := s.txnRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.completeWithStock(ctx, txn, req, false); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, txn)

	response := ToTransactionResponse(txn)
	return &response, nil
}

// Void cancels a completed transaction and restores the stock it deducted
func (s *TransactionService) Void(ctx context.Context, id uuid.UUID, req VoidTransactionRequest) (*TransactionResponse, error) {
	var txn *sales.Transaction

	err := s.checkoutScope.Execute(ctx, func(repos CheckoutRepositories) error {
		loaded, err := repos.TransactionRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		txn = loaded

		expectedVersion := txn.Version
		if err := txn.Void(req.Reason); err != nil {
			return err
		}

		products, err := s.applyStockMoves(ctx, repos, txn, restoreStock)
		if err != nil {
			return err
		}
		if err := repos.ProductRepo().SaveAll(ctx, products); err != nil {
			return err
		}

		return repos.TransactionRepo().SaveWithLock(ctx, txn, expectedVersion)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, txn)

	response := ToTransactionResponse(txn)
	return &response, nil
}

// completeWithStock runs the completion inside the checkout scope. When
// isNew is true the draft has never been persisted and is saved plainly
// instead of through the optimistic lock.
func (s *TransactionService) completeWithStock(ctx context.Context, txn *sales.Transaction, req CompleteTransactionRequest, isNew bool) error {
	return s.checkoutScope.Execute(ctx, func(repos CheckoutRepositories) error {
		expectedVersion := txn.Version

		if err := txn.Complete(req.PaymentMethod); err != nil {
			return err
		}

		invoiceNumber, err := repos.TransactionRepo().NextInvoiceNumber(ctx)
		if err != nil {
			return err
		}
		if err := txn.AssignInvoiceNumber(invoiceNumber); err != nil {
			return err
		}

		products, err := s.applyStockMoves(ctx, repos, txn, func(p *catalog.Product, qty decimal.Decimal) error {
			return p.DeductStock(qty, req.AllowNegative)
		})
		if err != nil {
			return err
		}
		if err := repos.ProductRepo().SaveAll(ctx, products); err != nil {
			return err
		}

		if isNew {
			return repos.TransactionRepo().Save(ctx, txn)
		}
		return repos.TransactionRepo().SaveWithLock(ctx, txn, expectedVersion)
	})
}

func restoreStock(p *catalog.Product, qty decimal.Decimal) error {
	return p.ReceiveStock(qty)
}

// applyStockMoves fans every line out to the products it moves stock on.
// Product lines move their own stock, blends consume their ingredients, and
// bundles fan out to their components. Quantities are converted to base
// units per product. Each product is loaded once even when several lines
// touch it.
func (s *TransactionService) applyStockMoves(
	ctx context.Context,
	repos CheckoutRepositories,
	txn *sales.Transaction,
	move func(*catalog.Product, decimal.Decimal) error,
) ([]*catalog.Product, error) {
	loaded := make(map[uuid.UUID]*catalog.Product)
	order := make([]*catalog.Product, 0, len(txn.Items))

	getProduct := func(id uuid.UUID) (*catalog.Product, error) {
		if p, ok := loaded[id]; ok {
			return p, nil
		}
		p, err := repos.ProductRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		loaded[id] = p
		order = append(order, p)
		return p, nil
	}

	for i := range txn.Items {
		item := &txn.Items[i]
		switch item.ItemType {
		case sales.ItemTypeProduct:
			product, err := getProduct(item.RefID)
			if err != nil {
				return nil, err
			}
			if err := move(product, product.BaseQuantity(item.Quantity)); err != nil {
				return nil, err
			}

		case sales.ItemTypeBlend:
			template, err := repos.BlendRepo().FindByID(ctx, item.RefID)
			if err != nil {
				return nil, err
			}
			for j := range template.Ingredients {
				ing := &template.Ingredients[j]
				product, err := getProduct(ing.ProductID)
				if err != nil {
					return nil, err
				}
				qty := ing.BaseQuantity().Mul(item.Quantity).Round(4)
				if err := move(product, qty); err != nil {
					return nil, err
				}
			}

		case sales.ItemTypeBundle:
			bundle, err := repos.BundleRepo().FindByID(ctx, item.RefID)
			if err != nil {
				return nil, err
			}
			for j := range bundle.Components {
				comp := &bundle.Components[j]
				product, err := getProduct(comp.ProductID)
				if err != nil {
					return nil, err
				}
				qty := product.BaseQuantity(comp.Quantity.Mul(item.Quantity))
				if err := move(product, qty); err != nil {
					return nil, err
				}
			}

		default:
			return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Unknown transaction item type")
		}
	}

	return order, nil
}

// addLine resolves a sellable and snapshots it onto the draft transaction
func (s *TransactionService) addLine(ctx context.Context, txn *sales.Transaction, input TransactionItemInput) error {
	switch input.ItemType {
	case sales.ItemTypeProduct:
		product, err := s.productRepo.FindByID(ctx, input.RefID)
		if err != nil {
			return err
		}
		if !product.IsActive() {
			return shared.NewDomainError("PRODUCT_INACTIVE", "Product is not available for sale")
		}
		price := product.GetSellPriceMoney()
		if input.UnitPrice != nil {
			price = valueobject.NewMoneySGD(*input.UnitPrice)
		}
		_, err = txn.AddItem(sales.ItemTypeProduct, product.ID, product.Code, product.Name, product.Unit, input.Quantity, price)
		return err

	case sales.ItemTypeBlend:
		template, err := s.blendRepo.FindByID(ctx, input.RefID)
		if err != nil {
			return err
		}
		if err := template.CanProduce(); err != nil {
			return err
		}
		// Blends carry no list price; the dispensing price comes from the
		// request.
		if input.UnitPrice == nil {
			return shared.NewDomainError("BLEND_PRICE_REQUIRED", "A unit price is required for blend lines")
		}
		_, err = txn.AddItem(sales.ItemTypeBlend, template.ID, "", template.Name, "batch", input.Quantity, valueobject.NewMoneySGD(*input.UnitPrice))
		return err

	case sales.ItemTypeBundle:
		bundle, err := s.bundleRepo.FindByID(ctx, input.RefID)
		if err != nil {
			return err
		}
		if err := bundle.CanSell(); err != nil {
			return err
		}
		price := bundle.GetPriceMoney()
		if input.UnitPrice != nil {
			price = valueobject.NewMoneySGD(*input.UnitPrice)
		}
		_, err = txn.AddItem(sales.ItemTypeBundle, bundle.ID, bundle.Code, bundle.Name, "bundle", input.Quantity, price)
		return err
	}

	return shared.NewDomainError("INVALID_ITEM_TYPE", "Unknown transaction item type")
}

func (s *TransactionService) publishEvents(ctx context.Context, txn *sales.Transaction) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range txn.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	txn.ClearDomainEvents()
}
