package admin

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/leaftolife/backend/internal/domain/catalog"
	"github.com/leaftolife/backend/internal/domain/membership"
	"github.com/leaftolife/backend/internal/domain/patient"
	"github.com/leaftolife/backend/internal/domain/shared"
	"github.com/leaftolife/backend/internal/domain/shared/valueobject"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) FindBelowReorderLevel(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) SaveAll(ctx context.Context, products []*catalog.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

// MockPatientRepository is a mock implementation of patient.Repository
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]patient.Patient, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) Save(ctx context.Context, p *patient.Patient) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPatientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPatientRepository) FindByCode(ctx context.Context, code string) (*patient.Patient, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockPatientRepository) FindByMembershipTier(ctx context.Context, tierID uuid.UUID) ([]patient.Patient, error) {
	args := m.Called(ctx, tierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) GenerateCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockTierRepository is a mock implementation of membership.Repository
type MockTierRepository struct {
	mock.Mock
}

func (m *MockTierRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.Tier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Tier), args.Error(1)
}

func (m *MockTierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]membership.Tier, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]membership.Tier), args.Error(1)
}

func (m *MockTierRepository) Save(ctx context.Context, tier *membership.Tier) error {
	args := m.Called(ctx, tier)
	return args.Error(0)
}

func (m *MockTierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTierRepository) FindByCode(ctx context.Context, code string) (*membership.Tier, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Tier), args.Error(1)
}

func (m *MockTierRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockTierRepository) FindActive(ctx context.Context) ([]membership.Tier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]membership.Tier), args.Error(1)
}

type bulkFixture struct {
	productRepo *MockProductRepository
	patientRepo *MockPatientRepository
	tierRepo    *MockTierRepository
	service     *BulkService
}

func newBulkFixture() *bulkFixture {
	f := &bulkFixture{
		productRepo: new(MockProductRepository),
		patientRepo: new(MockPatientRepository),
		tierRepo:    new(MockTierRepository),
	}
	f.service = NewBulkService(f.productRepo, f.patientRepo, f.tierRepo, nil)
	return f
}

func newPricedProduct(t *testing.T, code string, cost, sell float64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(code, "Product "+code, "pcs")
	require.NoError(t, err)
	require.NoError(t, p.SetPrices(
		valueobject.NewMoneySGDFromFloat(cost),
		valueobject.NewMoneySGDFromFloat(sell),
	))
	return p
}

func TestBulkService_AdjustPrices(t *testing.T) {
	ctx := context.Background()

	t.Run("percent increase on selected products", func(t *testing.T) {
		f := newBulkFixture()
		p1 := newPricedProduct(t, "HERB-001", 5, 10)
		p2 := newPricedProduct(t, "HERB-002", 8, 25.50)
		ids := []uuid.UUID{p1.ID, p2.ID}

		f.productRepo.On("FindByIDs", ctx, ids).Return([]catalog.Product{*p1, *p2}, nil)
		f.productRepo.On("SaveAll", ctx, mock.Anything).Return(nil)

		result, err := f.service.AdjustPrices(ctx, BulkPriceAdjustmentRequest{
			ProductIDs: ids,
			Mode:       AdjustmentModePercent,
			Amount:     decimal.NewFromInt(10),
		})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Total)
		assert.Equal(t, 2, result.Succeeded)
		assert.Equal(t, 0, result.Failed)

		saved := f.productRepo.Calls[1].Arguments.Get(1).([]*catalog.Product)
		require.Len(t, saved, 2)
		assert.Equal(t, "11", saved[0].GetSellPriceMoney().Amount().String())
		assert.Equal(t, "28.05", saved[1].GetSellPriceMoney().Amount().String())
		// cost untouched without adjust_cost
		assert.Equal(t, "5", saved[0].GetCostPriceMoney().Amount().String())
	})

	t.Run("absolute decrease adjusts cost too", func(t *testing.T) {
		f := newBulkFixture()
		p := newPricedProduct(t, "HERB-003", 6, 20)

		f.productRepo.On("FindByIDs", ctx, []uuid.UUID{p.ID}).Return([]catalog.Product{*p}, nil)
		f.productRepo.On("SaveAll", ctx, mock.Anything).Return(nil)

		result, err := f.service.AdjustPrices(ctx, BulkPriceAdjustmentRequest{
			ProductIDs: []uuid.UUID{p.ID},
			Mode:       AdjustmentModeAbsolute,
			Amount:     decimal.NewFromInt(-2),
			AdjustCost: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Succeeded)

		saved := f.productRepo.Calls[1].Arguments.Get(1).([]*catalog.Product)
		assert.Equal(t, "18", saved[0].GetSellPriceMoney().Amount().String())
		assert.Equal(t, "4", saved[0].GetCostPriceMoney().Amount().String())
	})

	t.Run("negative result fails that item only", func(t *testing.T) {
		f := newBulkFixture()
		cheap := newPricedProduct(t, "HERB-004", 1, 3)
		fine := newPricedProduct(t, "HERB-005", 10, 30)
		ids := []uuid.UUID{cheap.ID, fine.ID}

		f.productRepo.On("FindByIDs", ctx, ids).Return([]catalog.Product{*cheap, *fine}, nil)
		f.productRepo.On("SaveAll", ctx, mock.Anything).Return(nil)

		result, err := f.service.AdjustPrices(ctx, BulkPriceAdjustmentRequest{
			ProductIDs: ids,
			Mode:       AdjustmentModeAbsolute,
			Amount:     decimal.NewFromInt(-5),
		})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Total)
		assert.Equal(t, 1, result.Succeeded)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, cheap.ID, result.Errors[0].ID)
		assert.Equal(t, "HERB-004", result.Errors[0].Code)

		saved := f.productRepo.Calls[1].Arguments.Get(1).([]*catalog.Product)
		require.Len(t, saved, 1)
		assert.Equal(t, "HERB-005", saved[0].Code)
	})

	t.Run("category selection pages through active products", func(t *testing.T) {
		f := newBulkFixture()
		p := newPricedProduct(t, "TEA-001", 2, 8)

		f.productRepo.On("FindAll", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.Filters["category"] == "teas" && filter.Filters["status"] == "active"
		})).Return([]catalog.Product{*p}, nil)
		f.productRepo.On("SaveAll", ctx, mock.Anything).Return(nil)

		result, err := f.service.AdjustPrices(ctx, BulkPriceAdjustmentRequest{
			Category: "teas",
			Mode:     AdjustmentModePercent,
			Amount:   decimal.NewFromInt(25),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Succeeded)

		saved := f.productRepo.Calls[1].Arguments.Get(1).([]*catalog.Product)
		assert.Equal(t, "10", saved[0].GetSellPriceMoney().Amount().String())
	})

	t.Run("invalid mode rejected", func(t *testing.T) {
		f := newBulkFixture()

		_, err := f.service.AdjustPrices(ctx, BulkPriceAdjustmentRequest{
			Mode:   "halve",
			Amount: decimal.NewFromInt(10),
		})
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "INVALID_MODE", domainErr.Code)
	})
}

func TestBulkService_ArchivePatients(t *testing.T) {
	ctx := context.Background()

	t.Run("archives each patient", func(t *testing.T) {
		f := newBulkFixture()
		p1, err := patient.NewPatient("P-0001", "Mei", "Tan")
		require.NoError(t, err)
		p2, err := patient.NewPatient("P-0002", "Ravi", "Kumar")
		require.NoError(t, err)

		f.patientRepo.On("FindByID", ctx, p1.ID).Return(p1, nil)
		f.patientRepo.On("FindByID", ctx, p2.ID).Return(p2, nil)
		f.patientRepo.On("Save", ctx, mock.Anything).Return(nil)

		result, err := f.service.ArchivePatients(ctx, BulkArchivePatientsRequest{
			PatientIDs: []uuid.UUID{p1.ID, p2.ID},
		})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Succeeded)
		assert.Equal(t, 0, result.Failed)
		assert.False(t, p1.IsActive())
		assert.False(t, p2.IsActive())
	})

	t.Run("missing patient fails that item only", func(t *testing.T) {
		f := newBulkFixture()
		p, err := patient.NewPatient("P-0003", "Li", "Wei")
		require.NoError(t, err)
		missingID := uuid.New()

		f.patientRepo.On("FindByID", ctx, missingID).Return(nil, shared.ErrNotFound)
		f.patientRepo.On("FindByID", ctx, p.ID).Return(p, nil)
		f.patientRepo.On("Save", ctx, p).Return(nil)

		result, err := f.service.ArchivePatients(ctx, BulkArchivePatientsRequest{
			PatientIDs: []uuid.UUID{missingID, p.ID},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Succeeded)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, missingID, result.Errors[0].ID)
	})

	t.Run("already archived counts as failure", func(t *testing.T) {
		f := newBulkFixture()
		p, err := patient.NewPatient("P-0004", "Sara", "Lim")
		require.NoError(t, err)
		require.NoError(t, p.Archive())

		f.patientRepo.On("FindByID", ctx, p.ID).Return(p, nil)

		result, err := f.service.ArchivePatients(ctx, BulkArchivePatientsRequest{
			PatientIDs: []uuid.UUID{p.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		f.patientRepo.AssertNotCalled(t, "Save", ctx, mock.Anything)
	})
}

func TestBulkService_ReassignTier(t *testing.T) {
	ctx := context.Background()

	newTier := func(t *testing.T, code string) *membership.Tier {
		t.Helper()
		tier, err := membership.NewTier(code, "Tier "+code, decimal.NewFromInt(10))
		require.NoError(t, err)
		return tier
	}

	t.Run("moves patients to target tier", func(t *testing.T) {
		f := newBulkFixture()
		from := newTier(t, "SILVER")
		target := newTier(t, "GOLD")

		p1, err := patient.NewPatient("P-0010", "Mei", "Tan")
		require.NoError(t, err)
		require.NoError(t, p1.AssignMembershipTier(from.ID))
		p2, err := patient.NewPatient("P-0011", "Ravi", "Kumar")
		require.NoError(t, err)
		require.NoError(t, p2.AssignMembershipTier(from.ID))

		f.tierRepo.On("FindByID", ctx, from.ID).Return(from, nil)
		f.tierRepo.On("FindByID", ctx, target.ID).Return(target, nil)
		f.patientRepo.On("FindByMembershipTier", ctx, from.ID).Return([]patient.Patient{*p1, *p2}, nil)
		f.patientRepo.On("Save", ctx, mock.Anything).Return(nil)

		result, err := f.service.ReassignTier(ctx, BulkReassignTierRequest{
			FromTierID:   from.ID,
			TargetTierID: &target.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Succeeded)
		for _, call := range f.patientRepo.Calls {
			if call.Method != "Save" {
				continue
			}
			saved := call.Arguments.Get(1).(*patient.Patient)
			require.NotNil(t, saved.MembershipTierID)
			assert.Equal(t, target.ID, *saved.MembershipTierID)
		}
	})

	t.Run("nil target clears assignment", func(t *testing.T) {
		f := newBulkFixture()
		from := newTier(t, "BRONZE")

		p, err := patient.NewPatient("P-0012", "Li", "Wei")
		require.NoError(t, err)
		require.NoError(t, p.AssignMembershipTier(from.ID))

		f.tierRepo.On("FindByID", ctx, from.ID).Return(from, nil)
		f.patientRepo.On("FindByMembershipTier", ctx, from.ID).Return([]patient.Patient{*p}, nil)
		f.patientRepo.On("Save", ctx, mock.Anything).Return(nil)

		result, err := f.service.ReassignTier(ctx, BulkReassignTierRequest{FromTierID: from.ID})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Succeeded)
		saved := f.patientRepo.Calls[1].Arguments.Get(1).(*patient.Patient)
		assert.Nil(t, saved.MembershipTierID)
	})

	t.Run("inactive target tier rejected", func(t *testing.T) {
		f := newBulkFixture()
		from := newTier(t, "SILVER")
		target := newTier(t, "RETIRED")
		target.Deactivate()

		f.tierRepo.On("FindByID", ctx, from.ID).Return(from, nil)
		f.tierRepo.On("FindByID", ctx, target.ID).Return(target, nil)

		_, err := f.service.ReassignTier(ctx, BulkReassignTierRequest{
			FromTierID:   from.ID,
			TargetTierID: &target.ID,
		})
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "TIER_INACTIVE", domainErr.Code)
	})

	t.Run("unknown source tier rejected", func(t *testing.T) {
		f := newBulkFixture()
		missingID := uuid.New()

		f.tierRepo.On("FindByID", ctx, missingID).Return(nil, shared.ErrNotFound)

		_, err := f.service.ReassignTier(ctx, BulkReassignTierRequest{FromTierID: missingID})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestBulkService_LowStockReport(t *testing.T) {
	ctx := context.Background()
	f := newBulkFixture()

	low := newPricedProduct(t, "HERB-020", 3, 9)
	require.NoError(t, low.SetReorderLevel(decimal.NewFromInt(10)))
	require.NoError(t, low.ReceiveStock(decimal.NewFromInt(4)))

	f.productRepo.On("FindBelowReorderLevel", ctx).Return([]catalog.Product{*low}, nil)

	items, err := f.service.LowStockReport(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "HERB-020", items[0].Code)
	assert.True(t, items[0].StockQuantity.Equal(decimal.NewFromInt(4)))
	assert.True(t, items[0].ReorderLevel.Equal(decimal.NewFromInt(10)))
}
