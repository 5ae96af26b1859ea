package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaftolife/backend/internal/domain/shared/valueobject"
)

func TestNewBundle(t *testing.T) {
	t.Run("creates bundle with valid input", func(t *testing.T) {
		bundle, err := NewBundle("pack-001", "Wellness Pack", valueobject.NewMoneySGDFromFloat(88))

		require.NoError(t, err)
		assert.Equal(t, "PACK-001", bundle.Code)
		assert.Equal(t, "Wellness Pack", bundle.Name)
		assert.True(t, bundle.Active)
		assert.True(t, bundle.GetPriceMoney().Equals(valueobject.NewMoneySGDFromFloat(88)))
	})

	t.Run("fails with invalid code", func(t *testing.T) {
		_, err := NewBundle("pack 001", "Wellness Pack", valueobject.ZeroSGD())
		require.Error(t, err)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewBundle("PACK-001", " ", valueobject.ZeroSGD())
		require.Error(t, err)
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewBundle("PACK-001", "Wellness Pack", valueobject.NewMoneySGDFromFloat(-1))
		require.Error(t, err)
	})
}

func TestBundleComponents(t *testing.T) {
	newComponentProduct := func(t *testing.T, code string) *Product {
		product, err := NewProduct(code, "Component "+code, "bottle")
		require.NoError(t, err)
		return product
	}

	t.Run("adds components", func(t *testing.T) {
		bundle, err := NewBundle("PACK-001", "Wellness Pack", valueobject.NewMoneySGDFromFloat(88))
		require.NoError(t, err)
		product := newComponentProduct(t, "TONIC-001")

		require.NoError(t, bundle.AddComponent(product, decimal.NewFromInt(2)))
		require.Len(t, bundle.Components, 1)
		assert.Equal(t, "TONIC-001", bundle.Components[0].ProductCode)
	})

	t.Run("rejects duplicate component", func(t *testing.T) {
		bundle, err := NewBundle("PACK-001", "Wellness Pack", valueobject.NewMoneySGDFromFloat(88))
		require.NoError(t, err)
		product := newComponentProduct(t, "TONIC-001")

		require.NoError(t, bundle.AddComponent(product, decimal.NewFromInt(2)))
		assert.Error(t, bundle.AddComponent(product, decimal.NewFromInt(1)))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		bundle, err := NewBundle("PACK-001", "Wellness Pack", valueobject.NewMoneySGDFromFloat(88))
		require.NoError(t, err)

		assert.Error(t, bundle.AddComponent(newComponentProduct(t, "TONIC-001"), decimal.Zero))
	})

	t.Run("removes components", func(t *testing.T) {
		bundle, err := NewBundle("PACK-001", "Wellness Pack", valueobject.NewMoneySGDFromFloat(88))
		require.NoError(t, err)
		require.NoError(t, bundle.AddComponent(newComponentProduct(t, "TONIC-001"), decimal.NewFromInt(2)))

		require.NoError(t, bundle.RemoveComponent(bundle.Components[0].ID))
		assert.Empty(t, bundle.Components)

		assert.Error(t, bundle.RemoveComponent(uuid.New()))
	})
}

func TestBundleCanSell(t *testing.T) {
	bundle, err := NewBundle("PACK-001", "Wellness Pack", valueobject.NewMoneySGDFromFloat(88))
	require.NoError(t, err)

	assert.Error(t, bundle.CanSell(), "no components yet")

	product, err := NewProduct("TONIC-001", "Tonic", "bottle")
	require.NoError(t, err)
	require.NoError(t, bundle.AddComponent(product, decimal.NewFromInt(2)))
	assert.NoError(t, bundle.CanSell())

	bundle.Deactivate()
	assert.Error(t, bundle.CanSell())

	bundle.Activate()
	assert.NoError(t, bundle.CanSell())
}

func TestBundleSetPrice(t *testing.T) {
	bundle, err := NewBundle("PACK-001", "Wellness Pack", valueobject.NewMoneySGDFromFloat(88))
	require.NoError(t, err)

	require.NoError(t, bundle.SetPrice(valueobject.NewMoneySGDFromFloat(99.90)))
	assert.True(t, bundle.GetPriceMoney().Equals(valueobject.NewMoneySGDFromFloat(99.90)))

	assert.Error(t, bundle.SetPrice(valueobject.NewMoneySGDFromFloat(-5)))
}
