package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/emart/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStatsRepository_StockByLocation(t *testing.T) {
	db := setupInventoryTestDB(t)
	records := NewGormInventoryRecordRepository(db)
	stats := NewGormStatsRepository(db)
	ctx := context.Background()

	for _, seed := range []struct {
		location string
		quantity int64
	}{
		{inventory.LocationWarehouse, 100},
		{inventory.LocationWarehouse, 60},
		{inventory.LocationShelf, 25},
	} {
		record, err := records.GetOrCreate(ctx, uuid.New(), seed.location)
		require.NoError(t, err)
		require.NoError(t, record.Receive(seed.quantity, uuid.Nil))
		require.NoError(t, records.SaveWithLock(ctx, record))
	}

	rows, err := stats.StockByLocation(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, inventory.LocationShelf, rows[0].Location)
	assert.Equal(t, int64(25), rows[0].QuantityInStock)
	assert.Equal(t, inventory.LocationWarehouse, rows[1].Location)
	assert.Equal(t, int64(2), rows[1].Records)
	assert.Equal(t, int64(160), rows[1].QuantityInStock)
}

func TestGormStatsRepository_MovementSummary(t *testing.T) {
	db := setupInventoryTestDB(t)
	movements := NewGormStockMovementRepository(db)
	stats := NewGormStatsRepository(db)
	ctx := context.Background()

	productID := uuid.New()

	inbound, err := inventory.NewInboundMovement(productID, inventory.LocationWarehouse, 100, uuid.Nil)
	require.NoError(t, err)
	require.NoError(t, movements.Create(ctx, inbound))

	transfer, err := inventory.NewTransferMovement(productID, inventory.LocationWarehouse, inventory.LocationShelf, 30, uuid.Nil)
	require.NoError(t, err)
	require.NoError(t, movements.Create(ctx, transfer))

	stale, err := inventory.NewOutboundMovement(productID, inventory.LocationShelf, 5, uuid.Nil)
	require.NoError(t, err)
	stale.CreatedAt = time.Now().AddDate(0, -2, 0)
	require.NoError(t, movements.Create(ctx, stale))

	rows, err := stats.MovementSummary(ctx, time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, string(inventory.MovementTypeIn), rows[0].MovementType)
	assert.Equal(t, int64(100), rows[0].TotalUnits)
	assert.Equal(t, string(inventory.MovementTypeTransfer), rows[1].MovementType)
	assert.Equal(t, int64(1), rows[1].Count)
}
