package inventory

import (
	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the inventory domain
const (
	EventTypeStockTransferred    = "inventory.stock_transferred"
	EventTypeStockAdjusted       = "inventory.stock_adjusted"
	EventTypeStockBelowThreshold = "inventory.stock_below_threshold"
	aggregateTypeInventoryRecord = "InventoryRecord"
)

// StockTransferredEvent is raised when a transfer between locations commits
type StockTransferredEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID `json:"product_id"`
	FromLocation string    `json:"from_location"`
	ToLocation   string    `json:"to_location"`
	Quantity     int64     `json:"quantity"`
}

// NewStockTransferredEvent creates a new stock transferred event
func NewStockTransferredEvent(source *InventoryRecord, toLocation string, quantity int64) *StockTransferredEvent {
	return &StockTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferred, aggregateTypeInventoryRecord, source.ID),
		ProductID:       source.ProductID,
		FromLocation:    source.Location,
		ToLocation:      toLocation,
		Quantity:        quantity,
	}
}

// StockAdjustedEvent is raised when a single-location adjustment commits
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID    `json:"product_id"`
	Location     string       `json:"location"`
	MovementType MovementType `json:"movement_type"`
	Quantity     int64        `json:"quantity"`
}

// NewStockAdjustedEvent creates a new stock adjusted event
func NewStockAdjustedEvent(record *InventoryRecord, movementType MovementType, quantity int64) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, aggregateTypeInventoryRecord, record.ID),
		ProductID:       record.ProductID,
		Location:        record.Location,
		MovementType:    movementType,
		Quantity:        quantity,
	}
}

// StockBelowThresholdEvent is raised when a mutation leaves stock at or below
// the record's reorder point. Consumed by the alerting hook outside the
// transactional core.
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ProductID       uuid.UUID `json:"product_id"`
	Location        string    `json:"location"`
	QuantityInStock int64     `json:"quantity_in_stock"`
	ReorderPoint    int64     `json:"reorder_point"`
}

// NewStockBelowThresholdEvent creates a new stock below threshold event
func NewStockBelowThresholdEvent(record *InventoryRecord) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, aggregateTypeInventoryRecord, record.ID),
		ProductID:       record.ProductID,
		Location:        record.Location,
		QuantityInStock: record.QuantityInStock,
		ReorderPoint:    record.ReorderPoint,
	}
}
