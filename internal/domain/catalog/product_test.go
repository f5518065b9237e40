package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct("Basmati Rice 5kg", "RICE-BAS-5KG", "bag", decimal.NewFromInt(450))
	require.NoError(t, err)
	return p
}

func TestNewProduct(t *testing.T) {
	t.Run("creates active product with defaults", func(t *testing.T) {
		p := createTestProduct(t)

		assert.Equal(t, "Basmati Rice 5kg", p.Name)
		assert.Equal(t, "RICE-BAS-5KG", p.SKU)
		assert.Equal(t, "bag", p.Unit)
		assert.True(t, p.IsActive)
		assert.Equal(t, int64(10), p.MinStockLevel)
		assert.Equal(t, int64(1000), p.MaxStockLevel)
		assert.True(t, p.GSTRate.IsZero())
	})

	t.Run("rejects empty SKU", func(t *testing.T) {
		_, err := NewProduct("Milk", "", "pcs", decimal.NewFromInt(25))
		require.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct("Milk", "MILK-1L", "pcs", decimal.NewFromInt(-1))
		require.Error(t, err)
	})

	t.Run("defaults unit to pcs", func(t *testing.T) {
		p, err := NewProduct("Milk", "MILK-1L", "", decimal.NewFromInt(25))
		require.NoError(t, err)
		assert.Equal(t, "pcs", p.Unit)
	})
}

func TestProduct_UpdatePricing(t *testing.T) {
	t.Run("updates prices and GST rate", func(t *testing.T) {
		p := createTestProduct(t)

		err := p.UpdatePricing(decimal.NewFromInt(400), decimal.NewFromInt(475), decimal.NewFromInt(5))

		require.NoError(t, err)
		assert.True(t, p.PurchasePrice.Equal(decimal.NewFromInt(400)))
		assert.True(t, p.SellingPrice.Equal(decimal.NewFromInt(475)))
		assert.True(t, p.GSTRate.Equal(decimal.NewFromInt(5)))
	})

	t.Run("rejects GST rate above 100", func(t *testing.T) {
		p := createTestProduct(t)
		err := p.UpdatePricing(decimal.NewFromInt(400), decimal.NewFromInt(475), decimal.NewFromInt(101))
		require.Error(t, err)
	})
}

func TestProduct_UpdateStockLevels(t *testing.T) {
	p := createTestProduct(t)

	require.NoError(t, p.UpdateStockLevels(20, 500))
	assert.Equal(t, int64(20), p.MinStockLevel)
	assert.Equal(t, int64(500), p.MaxStockLevel)

	assert.Error(t, p.UpdateStockLevels(-1, 500))
	assert.Error(t, p.UpdateStockLevels(100, 50))
}

func TestProduct_Lifecycle(t *testing.T) {
	p := createTestProduct(t)

	require.NoError(t, p.Deactivate())
	assert.False(t, p.IsActive)
	assert.NotNil(t, p.DeactivatedAt)
	assert.Error(t, p.Deactivate())

	require.NoError(t, p.Activate())
	assert.True(t, p.IsActive)
	assert.Nil(t, p.DeactivatedAt)
	assert.Error(t, p.Activate())
}

func TestProduct_AssignCategory(t *testing.T) {
	p := createTestProduct(t)
	categoryID := uuid.New()

	p.AssignCategory(categoryID)

	require.NotNil(t, p.CategoryID)
	assert.Equal(t, categoryID, *p.CategoryID)
}

func TestNewCategory(t *testing.T) {
	c, err := NewCategory("Staples", "Rice, flour and pulses")
	require.NoError(t, err)
	assert.Equal(t, "Staples", c.Name)
	assert.True(t, c.IsActive)

	_, err = NewCategory("", "")
	require.Error(t, err)
}
