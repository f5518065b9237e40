package inventory

import (
	"time"

	"github.com/emart/backend/internal/domain/inventory"
	"github.com/google/uuid"
)

// TransferRequest describes a stock transfer between two locations
type TransferRequest struct {
	ProductID    uuid.UUID
	FromLocation string
	ToLocation   string
	Quantity     int64
	Reference    string
	Reason       string
	UserID       uuid.UUID
}

// TransferResult carries both updated records after a successful transfer
type TransferResult struct {
	Source      InventoryRecordResponse `json:"source"`
	Destination InventoryRecordResponse `json:"destination"`
	Movement    StockMovementResponse   `json:"movement"`
}

// AdjustRequest describes a single-location stock change
type AdjustRequest struct {
	ProductID    uuid.UUID
	Location     string
	MovementType inventory.MovementType
	Quantity     int64
	// Increase disambiguates manual corrections; it is ignored for in/out
	Increase bool
	// Damaged marks an outbound change as a damage write-off: units move from
	// the stock counter to the damaged counter instead of leaving the system
	Damaged   bool
	Reference string
	Reason    string
	UserID    uuid.UUID
}

// AdjustResult carries the updated record and the ledger entry
type AdjustResult struct {
	Record   InventoryRecordResponse `json:"record"`
	Movement StockMovementResponse   `json:"movement"`
}

// UpdateRecordRequest is a partial update of one inventory record. A changed
// stock quantity is applied as an adjustment so the ledger stays complete.
type UpdateRecordRequest struct {
	QuantityInStock *int64
	ReorderPoint    *int64
	Reason          string
	UserID          uuid.UUID
}

// ListRecordsQuery filters the inventory listing
type ListRecordsQuery struct {
	ProductID *uuid.UUID
	Location  string
	Page      int
	PageSize  int
}

// ListMovementsQuery filters the ledger listing
type ListMovementsQuery struct {
	ProductID *uuid.UUID
	Limit     int
}

// InventoryRecordResponse is the transport representation of a record
type InventoryRecordResponse struct {
	ID                uuid.UUID  `json:"id"`
	ProductID         uuid.UUID  `json:"product_id"`
	Location          string     `json:"location"`
	QuantityInStock   int64      `json:"quantity_in_stock"`
	ReservedQuantity  int64      `json:"reserved_quantity"`
	DamagedQuantity   int64      `json:"damaged_quantity"`
	AvailableQuantity int64      `json:"available_quantity"`
	ReorderPoint      int64      `json:"reorder_point"`
	UpdatedBy         *uuid.UUID `json:"updated_by,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// StockMovementResponse is the transport representation of a ledger entry
type StockMovementResponse struct {
	ID           uuid.UUID  `json:"id"`
	ProductID    uuid.UUID  `json:"product_id"`
	MovementType string     `json:"movement_type"`
	Quantity     int64      `json:"quantity"`
	FromLocation *string    `json:"from_location,omitempty"`
	ToLocation   *string    `json:"to_location,omitempty"`
	Reference    string     `json:"reference,omitempty"`
	Reason       string     `json:"reason,omitempty"`
	CreatedBy    *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToInventoryRecordResponse maps a domain record to its transport form
func ToInventoryRecordResponse(r *inventory.InventoryRecord) InventoryRecordResponse {
	return InventoryRecordResponse{
		ID:                r.ID,
		ProductID:         r.ProductID,
		Location:          r.Location,
		QuantityInStock:   r.QuantityInStock,
		ReservedQuantity:  r.ReservedQuantity,
		DamagedQuantity:   r.DamagedQuantity,
		AvailableQuantity: r.AvailableQuantity,
		ReorderPoint:      r.ReorderPoint,
		UpdatedBy:         r.UpdatedBy,
		UpdatedAt:         r.UpdatedAt,
	}
}

// ToStockMovementResponse maps a ledger entry to its transport form
func ToStockMovementResponse(m *inventory.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		MovementType: string(m.MovementType),
		Quantity:     m.Quantity,
		FromLocation: m.FromLocation,
		ToLocation:   m.ToLocation,
		Reference:    m.Reference,
		Reason:       m.Reason,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
	}
}
