package inventory

import (
	"testing"

	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRecord(t *testing.T) *InventoryRecord {
	t.Helper()
	record, err := NewInventoryRecord(uuid.New(), LocationWarehouse)
	require.NoError(t, err)
	return record
}

func TestNewInventoryRecord(t *testing.T) {
	t.Run("creates zero-quantity record", func(t *testing.T) {
		productID := uuid.New()
		record, err := NewInventoryRecord(productID, LocationShelf)

		require.NoError(t, err)
		assert.Equal(t, productID, record.ProductID)
		assert.Equal(t, LocationShelf, record.Location)
		assert.Equal(t, int64(0), record.QuantityInStock)
		assert.Equal(t, int64(0), record.ReservedQuantity)
		assert.Equal(t, int64(0), record.DamagedQuantity)
		assert.Equal(t, int64(0), record.AvailableQuantity)
		assert.Equal(t, DefaultReorderPoint, record.ReorderPoint)
		assert.Equal(t, 1, record.GetVersion())
	})

	t.Run("rejects nil product", func(t *testing.T) {
		_, err := NewInventoryRecord(uuid.Nil, LocationWarehouse)
		require.Error(t, err)
	})

	t.Run("rejects empty location", func(t *testing.T) {
		_, err := NewInventoryRecord(uuid.New(), "")
		assert.ErrorIs(t, err, ErrInvalidLocation)
	})
}

func TestInventoryRecord_Receive(t *testing.T) {
	t.Run("increments stock and available", func(t *testing.T) {
		record := createTestRecord(t)
		userID := uuid.New()

		require.NoError(t, record.Receive(20, userID))

		assert.Equal(t, int64(20), record.QuantityInStock)
		assert.Equal(t, int64(20), record.AvailableQuantity)
		require.NotNil(t, record.UpdatedBy)
		assert.Equal(t, userID, *record.UpdatedBy)
		assert.Equal(t, 2, record.GetVersion())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		record := createTestRecord(t)
		assert.ErrorIs(t, record.Receive(0, uuid.New()), ErrInvalidQuantity)
		assert.ErrorIs(t, record.Receive(-5, uuid.New()), ErrInvalidQuantity)
		assert.Equal(t, int64(0), record.QuantityInStock)
	})
}

func TestInventoryRecord_Consume(t *testing.T) {
	t.Run("decrements stock and available", func(t *testing.T) {
		record := createTestRecord(t)
		require.NoError(t, record.Receive(10, uuid.Nil))

		require.NoError(t, record.Consume(4, uuid.Nil))

		assert.Equal(t, int64(6), record.QuantityInStock)
		assert.Equal(t, int64(6), record.AvailableQuantity)
	})

	t.Run("allows consuming exactly the full stock", func(t *testing.T) {
		record := createTestRecord(t)
		require.NoError(t, record.Receive(10, uuid.Nil))

		require.NoError(t, record.Consume(10, uuid.Nil))

		assert.Equal(t, int64(0), record.QuantityInStock)
	})

	t.Run("never drives stock negative", func(t *testing.T) {
		record := createTestRecord(t)
		require.NoError(t, record.Receive(3, uuid.Nil))

		err := record.Consume(5, uuid.Nil)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, int64(3), record.QuantityInStock)
	})

	t.Run("raises threshold event at or below reorder point", func(t *testing.T) {
		record := createTestRecord(t)
		require.NoError(t, record.Receive(15, uuid.Nil))
		record.ClearDomainEvents()

		require.NoError(t, record.Consume(6, uuid.Nil))

		events := record.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockBelowThreshold, events[0].EventType())
	})
}

func TestInventoryRecord_WriteOffDamaged(t *testing.T) {
	t.Run("conserves total across stock and damaged counters", func(t *testing.T) {
		record := createTestRecord(t)
		require.NoError(t, record.Receive(30, uuid.Nil))

		require.NoError(t, record.WriteOffDamaged(8, uuid.Nil))

		assert.Equal(t, int64(22), record.QuantityInStock)
		assert.Equal(t, int64(8), record.DamagedQuantity)
		assert.Equal(t, int64(30), record.QuantityInStock+record.DamagedQuantity)
	})

	t.Run("fails when stock is insufficient", func(t *testing.T) {
		record := createTestRecord(t)
		require.NoError(t, record.Receive(2, uuid.Nil))

		err := record.WriteOffDamaged(5, uuid.Nil)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, int64(2), record.QuantityInStock)
		assert.Equal(t, int64(0), record.DamagedQuantity)
	})
}

func TestInventoryRecord_Reserve(t *testing.T) {
	t.Run("reserved units leave available but not stock", func(t *testing.T) {
		record := createTestRecord(t)
		require.NoError(t, record.Receive(10, uuid.Nil))

		require.NoError(t, record.Reserve(4, uuid.Nil))

		assert.Equal(t, int64(10), record.QuantityInStock)
		assert.Equal(t, int64(4), record.ReservedQuantity)
		assert.Equal(t, int64(6), record.AvailableQuantity)
	})

	t.Run("cannot reserve beyond available", func(t *testing.T) {
		record := createTestRecord(t)
		require.NoError(t, record.Receive(10, uuid.Nil))
		require.NoError(t, record.Reserve(8, uuid.Nil))

		err := record.Reserve(3, uuid.Nil)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("release restores available", func(t *testing.T) {
		record := createTestRecord(t)
		require.NoError(t, record.Receive(10, uuid.Nil))
		require.NoError(t, record.Reserve(4, uuid.Nil))

		require.NoError(t, record.Release(4, uuid.Nil))

		assert.Equal(t, int64(0), record.ReservedQuantity)
		assert.Equal(t, int64(10), record.AvailableQuantity)
	})

	t.Run("cannot release more than reserved", func(t *testing.T) {
		record := createTestRecord(t)
		require.NoError(t, record.Receive(10, uuid.Nil))

		require.Error(t, record.Release(1, uuid.Nil))
	})
}

func TestInventoryRecord_ReorderPoint(t *testing.T) {
	record := createTestRecord(t)
	require.NoError(t, record.Receive(100, uuid.Nil))

	require.NoError(t, record.SetReorderPoint(25, uuid.Nil))
	assert.False(t, record.IsBelowReorderPoint())

	require.NoError(t, record.Consume(75, uuid.Nil))
	assert.True(t, record.IsBelowReorderPoint())

	assert.Error(t, record.SetReorderPoint(-1, uuid.Nil))
}
