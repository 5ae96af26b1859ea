package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaftolife/backend/internal/domain/shared/valueobject"
)

func newTestIngredientProduct(t *testing.T, code string, cost float64) *Product {
	t.Helper()
	product, err := NewProduct(code, "Ingredient "+code, "g")
	require.NoError(t, err)
	require.NoError(t, product.SetPrices(valueobject.NewMoneySGDFromFloat(cost), valueobject.ZeroSGD()))
	return product
}

func TestNewBlendTemplate(t *testing.T) {
	t.Run("creates template with valid input", func(t *testing.T) {
		outputID := uuid.New()
		template, err := NewBlendTemplate("Sleep Blend", outputID, decimal.NewFromInt(100))

		require.NoError(t, err)
		assert.Equal(t, "Sleep Blend", template.Name)
		assert.Equal(t, outputID, template.OutputProductID)
		assert.True(t, template.Active)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewBlendTemplate("  ", uuid.New(), decimal.NewFromInt(100))
		require.Error(t, err)
	})

	t.Run("fails with nil output product", func(t *testing.T) {
		_, err := NewBlendTemplate("Sleep Blend", uuid.Nil, decimal.NewFromInt(100))
		require.Error(t, err)
	})

	t.Run("fails with non-positive output quantity", func(t *testing.T) {
		_, err := NewBlendTemplate("Sleep Blend", uuid.New(), decimal.Zero)
		require.Error(t, err)
	})
}

func TestBlendTemplateAddIngredient(t *testing.T) {
	t.Run("snapshots product details", func(t *testing.T) {
		template, err := NewBlendTemplate("Sleep Blend", uuid.New(), decimal.NewFromInt(100))
		require.NoError(t, err)
		product := newTestIngredientProduct(t, "HERB-001", 1.20)

		ingredient, err := template.AddIngredient(product, decimal.NewFromInt(30))

		require.NoError(t, err)
		assert.Equal(t, product.ID, ingredient.ProductID)
		assert.Equal(t, "HERB-001", ingredient.ProductCode)
		assert.Equal(t, "g", ingredient.Unit)
		assert.True(t, ingredient.UnitCost.Equal(decimal.RequireFromString("1.2")))
	})

	t.Run("rejects duplicate ingredient", func(t *testing.T) {
		template, err := NewBlendTemplate("Sleep Blend", uuid.New(), decimal.NewFromInt(100))
		require.NoError(t, err)
		product := newTestIngredientProduct(t, "HERB-001", 1.20)

		_, err = template.AddIngredient(product, decimal.NewFromInt(30))
		require.NoError(t, err)
		_, err = template.AddIngredient(product, decimal.NewFromInt(10))

		require.Error(t, err)
		assert.Len(t, template.Ingredients, 1)
	})

	t.Run("rejects the blend's own output product", func(t *testing.T) {
		product := newTestIngredientProduct(t, "BLEND-001", 0)
		template, err := NewBlendTemplate("Sleep Blend", product.ID, decimal.NewFromInt(100))
		require.NoError(t, err)

		_, err = template.AddIngredient(product, decimal.NewFromInt(30))

		require.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		template, err := NewBlendTemplate("Sleep Blend", uuid.New(), decimal.NewFromInt(100))
		require.NoError(t, err)
		product := newTestIngredientProduct(t, "HERB-001", 1.20)

		_, err = template.AddIngredient(product, decimal.Zero)

		require.Error(t, err)
	})
}

func TestBlendIngredientBaseQuantity(t *testing.T) {
	template, err := NewBlendTemplate("Tea Blend", uuid.New(), decimal.NewFromInt(10))
	require.NoError(t, err)
	product, err := NewProductWithUnits("TEA-001", "Tea Sachets", "box", "sachet", decimal.NewFromInt(20))
	require.NoError(t, err)

	ingredient, err := template.AddIngredient(product, decimal.RequireFromString("1.5"))
	require.NoError(t, err)

	assert.True(t, ingredient.BaseQuantity().Equal(decimal.NewFromInt(30)), "1.5 boxes of 20 sachets")
}

func TestBlendTemplateBatchCost(t *testing.T) {
	template, err := NewBlendTemplate("Sleep Blend", uuid.New(), decimal.NewFromInt(100))
	require.NoError(t, err)

	_, err = template.AddIngredient(newTestIngredientProduct(t, "HERB-001", 1.20), decimal.NewFromInt(30))
	require.NoError(t, err)
	_, err = template.AddIngredient(newTestIngredientProduct(t, "HERB-002", 0.50), decimal.NewFromInt(70))
	require.NoError(t, err)

	// 30 * 1.20 + 70 * 0.50 = 71.00
	assert.True(t, template.BatchCost().Equal(decimal.NewFromInt(71)), "got %s", template.BatchCost())
}

func TestBlendTemplateUpdateIngredientQuantity(t *testing.T) {
	template, err := NewBlendTemplate("Sleep Blend", uuid.New(), decimal.NewFromInt(100))
	require.NoError(t, err)
	ingredient, err := template.AddIngredient(newTestIngredientProduct(t, "HERB-001", 1.20), decimal.NewFromInt(30))
	require.NoError(t, err)

	require.NoError(t, template.UpdateIngredientQuantity(ingredient.ID, decimal.NewFromInt(45)))
	assert.True(t, template.Ingredients[0].Quantity.Equal(decimal.NewFromInt(45)))

	assert.Error(t, template.UpdateIngredientQuantity(uuid.New(), decimal.NewFromInt(10)))
	assert.Error(t, template.UpdateIngredientQuantity(ingredient.ID, decimal.Zero))
}

func TestBlendTemplateRemoveIngredient(t *testing.T) {
	template, err := NewBlendTemplate("Sleep Blend", uuid.New(), decimal.NewFromInt(100))
	require.NoError(t, err)
	ingredient, err := template.AddIngredient(newTestIngredientProduct(t, "HERB-001", 1.20), decimal.NewFromInt(30))
	require.NoError(t, err)

	require.NoError(t, template.RemoveIngredient(ingredient.ID))
	assert.Empty(t, template.Ingredients)

	assert.Error(t, template.RemoveIngredient(ingredient.ID))
}

func TestBlendTemplateCanProduce(t *testing.T) {
	template, err := NewBlendTemplate("Sleep Blend", uuid.New(), decimal.NewFromInt(100))
	require.NoError(t, err)

	assert.Error(t, template.CanProduce(), "no ingredients yet")

	_, err = template.AddIngredient(newTestIngredientProduct(t, "HERB-001", 1.20), decimal.NewFromInt(30))
	require.NoError(t, err)
	assert.NoError(t, template.CanProduce())

	template.Deactivate()
	assert.Error(t, template.CanProduce())

	template.Activate()
	assert.NoError(t, template.CanProduce())
}
