package persistence

import (
	"context"
	"testing"
	"time"

	appinv "github.com/emart/backend/internal/application/inventory"
	"github.com/emart/backend/internal/domain/inventory"
	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStockMovementRepository(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewGormStockMovementRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	otherProduct := uuid.New()

	seedMovement := func(t *testing.T, pid uuid.UUID, age time.Duration, build func() (*inventory.StockMovement, error)) *inventory.StockMovement {
		t.Helper()
		movement, err := build()
		require.NoError(t, err)
		movement.ProductID = pid
		movement.CreatedAt = time.Now().Add(-age)
		require.NoError(t, repo.Create(ctx, movement))
		return movement
	}

	oldest := seedMovement(t, productID, 3*time.Hour, func() (*inventory.StockMovement, error) {
		return inventory.NewInboundMovement(productID, inventory.LocationWarehouse, 100, uuid.Nil)
	})
	transfer := seedMovement(t, productID, 2*time.Hour, func() (*inventory.StockMovement, error) {
		return inventory.NewTransferMovement(productID, inventory.LocationWarehouse, inventory.LocationShelf, 30, uuid.Nil)
	})
	seedMovement(t, otherProduct, time.Hour, func() (*inventory.StockMovement, error) {
		return inventory.NewOutboundMovement(otherProduct, inventory.LocationShelf, 5, uuid.Nil)
	})

	t.Run("finds a movement by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, transfer.ID)
		require.NoError(t, err)
		assert.Equal(t, inventory.MovementTypeTransfer, found.MovementType)
		require.NotNil(t, found.FromLocation)
		require.NotNil(t, found.ToLocation)
		assert.Equal(t, inventory.LocationWarehouse, *found.FromLocation)
		assert.Equal(t, inventory.LocationShelf, *found.ToLocation)
	})

	t.Run("missing movement maps to not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("lists most recent first", func(t *testing.T) {
		movements, err := repo.FindAll(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, movements, 3)
		assert.Equal(t, oldest.ID, movements[2].ID)
	})

	t.Run("filters by movement type", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["movement_type"] = inventory.MovementTypeTransfer

		movements, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, transfer.ID, movements[0].ID)
	})

	t.Run("filters by product", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["product_id"] = productID

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("limits per-product history", func(t *testing.T) {
		movements, err := repo.FindByProduct(ctx, productID, 1)
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, transfer.ID, movements[0].ID)
	})
}

func TestGormTransactionScope(t *testing.T) {
	ctx := context.Background()

	t.Run("commits the counter write and ledger append together", func(t *testing.T) {
		db := setupInventoryTestDB(t)
		scope := NewGormTransactionScope(db)
		productID := uuid.New()

		err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
			record, err := repos.RecordRepo().GetOrCreate(ctx, productID, inventory.LocationWarehouse)
			if err != nil {
				return err
			}
			if err := record.Receive(40, uuid.Nil); err != nil {
				return err
			}
			if err := repos.RecordRepo().SaveWithLock(ctx, record); err != nil {
				return err
			}
			movement, err := inventory.NewInboundMovement(productID, inventory.LocationWarehouse, 40, uuid.Nil)
			if err != nil {
				return err
			}
			return repos.MovementRepo().Create(ctx, movement)
		})
		require.NoError(t, err)

		record, err := NewGormInventoryRecordRepository(db).FindByProductAndLocation(ctx, productID, inventory.LocationWarehouse)
		require.NoError(t, err)
		assert.Equal(t, int64(40), record.QuantityInStock)

		movements, err := NewGormStockMovementRepository(db).FindByProduct(ctx, productID, 10)
		require.NoError(t, err)
		assert.Len(t, movements, 1)
	})

	t.Run("rolls back both writes when the function fails", func(t *testing.T) {
		db := setupInventoryTestDB(t)
		scope := NewGormTransactionScope(db)
		productID := uuid.New()
		boom := shared.NewDomainError("BOOM", "forced failure")

		err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
			record, err := repos.RecordRepo().GetOrCreate(ctx, productID, inventory.LocationWarehouse)
			if err != nil {
				return err
			}
			if err := record.Receive(40, uuid.Nil); err != nil {
				return err
			}
			if err := repos.RecordRepo().SaveWithLock(ctx, record); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = NewGormInventoryRecordRepository(db).FindByProductAndLocation(ctx, productID, inventory.LocationWarehouse)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
