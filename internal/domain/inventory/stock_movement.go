package inventory

import (
	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MovementType classifies a ledger entry
type MovementType string

const (
	// MovementTypeIn records goods received into a single location
	MovementTypeIn MovementType = "in"
	// MovementTypeOut records goods consumed or written off from a single location
	MovementTypeOut MovementType = "out"
	// MovementTypeTransfer records a paired move between two locations
	MovementTypeTransfer MovementType = "transfer"
	// MovementTypeAdjustment records a manual count correction
	MovementTypeAdjustment MovementType = "adjustment"
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeTransfer, MovementTypeAdjustment:
		return true
	}
	return false
}

// StockMovement is one immutable entry in the append-only movement ledger.
// Every counter mutation corresponds to exactly one movement, so replaying the
// ledger from an empty state reconstructs the inventory counters.
type StockMovement struct {
	shared.BaseEntity
	ProductID    uuid.UUID    `gorm:"type:uuid;not null;index:idx_stock_movements_product"`
	MovementType MovementType `gorm:"type:varchar(20);not null"`
	Quantity     int64        `gorm:"not null"`
	FromLocation *string      `gorm:"type:varchar(50)"`
	ToLocation   *string      `gorm:"type:varchar(50)"`
	Reference    string       `gorm:"type:varchar(100)"`
	Reason       string       `gorm:"type:varchar(255)"`
	CreatedBy    *uuid.UUID   `gorm:"type:uuid"`
}

// TableName returns the database table name
func (StockMovement) TableName() string {
	return "stock_movements"
}

func newStockMovement(productID uuid.UUID, movementType MovementType, quantity int64, createdBy uuid.UUID) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	m := &StockMovement{
		BaseEntity:   shared.NewBaseEntity(),
		ProductID:    productID,
		MovementType: movementType,
		Quantity:     quantity,
	}
	if createdBy != uuid.Nil {
		id := createdBy
		m.CreatedBy = &id
	}
	return m, nil
}

// NewTransferMovement creates a transfer ledger entry with both locations set
func NewTransferMovement(productID uuid.UUID, fromLocation, toLocation string, quantity int64, createdBy uuid.UUID) (*StockMovement, error) {
	m, err := newStockMovement(productID, MovementTypeTransfer, quantity, createdBy)
	if err != nil {
		return nil, err
	}
	m.FromLocation = &fromLocation
	m.ToLocation = &toLocation
	return m, nil
}

// NewInboundMovement creates an "in" ledger entry; only the destination is set
func NewInboundMovement(productID uuid.UUID, toLocation string, quantity int64, createdBy uuid.UUID) (*StockMovement, error) {
	m, err := newStockMovement(productID, MovementTypeIn, quantity, createdBy)
	if err != nil {
		return nil, err
	}
	m.ToLocation = &toLocation
	return m, nil
}

// NewOutboundMovement creates an "out" ledger entry; only the source is set
func NewOutboundMovement(productID uuid.UUID, fromLocation string, quantity int64, createdBy uuid.UUID) (*StockMovement, error) {
	m, err := newStockMovement(productID, MovementTypeOut, quantity, createdBy)
	if err != nil {
		return nil, err
	}
	m.FromLocation = &fromLocation
	return m, nil
}

// NewAdjustmentMovement creates an "adjustment" ledger entry for a manual
// correction at a single location. Increase sets the destination, decrease
// sets the source.
func NewAdjustmentMovement(productID uuid.UUID, location string, quantity int64, increase bool, createdBy uuid.UUID) (*StockMovement, error) {
	m, err := newStockMovement(productID, MovementTypeAdjustment, quantity, createdBy)
	if err != nil {
		return nil, err
	}
	if increase {
		m.ToLocation = &location
	} else {
		m.FromLocation = &location
	}
	return m, nil
}

// WithReference attaches a document reference (invoice number, import id, ...)
func (m *StockMovement) WithReference(reference string) *StockMovement {
	m.Reference = reference
	return m
}

// WithReason attaches a free-text reason
func (m *StockMovement) WithReason(reason string) *StockMovement {
	m.Reason = reason
	return m
}

// IsIncrease reports whether this movement adds stock to its destination
func (m *StockMovement) IsIncrease() bool {
	return m.ToLocation != nil
}

// IsDecrease reports whether this movement removes stock from its source
func (m *StockMovement) IsDecrease() bool {
	return m.FromLocation != nil
}
