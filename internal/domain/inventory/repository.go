package inventory

import (
	"context"

	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InventoryRecordRepository defines persistence operations for inventory records.
// A missing (product, location) row is a valid zero-stock state, so the
// FindByProductAndLocation variants return shared.ErrNotFound rather than
// fabricating a record.
type InventoryRecordRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryRecord, error)
	FindByProductAndLocation(ctx context.Context, productID uuid.UUID, location string) (*InventoryRecord, error)
	// FindByProductAndLocationForUpdate locks the row for the duration of the
	// surrounding transaction so the read-validate-write sequence cannot race.
	FindByProductAndLocationForUpdate(ctx context.Context, productID uuid.UUID, location string) (*InventoryRecord, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]InventoryRecord, error)
	// FindAll lists records ordered by most recently updated first
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryRecord, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// GetOrCreate returns the record for the pair, lazily creating a
	// zero-quantity record when none exists
	GetOrCreate(ctx context.Context, productID uuid.UUID, location string) (*InventoryRecord, error)
	Save(ctx context.Context, record *InventoryRecord) error
	// SaveWithLock persists the record with an optimistic concurrency check on
	// the version column and returns shared.ErrConcurrencyConflict on a stale write
	SaveWithLock(ctx context.Context, record *InventoryRecord) error
}

// StockMovementRepository defines persistence operations for the movement
// ledger. The ledger is append-only: entries are never updated or deleted.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *StockMovement) error
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)
	// FindAll lists movements ordered by created_at descending
	FindAll(ctx context.Context, filter shared.Filter) ([]StockMovement, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]StockMovement, error)
}
