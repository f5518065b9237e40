package inventory

import (
	"time"

	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Semantically special locations. The location dimension is an open set of
// strings; these two are seeded for every product but callers may introduce
// additional locations at any time.
const (
	LocationWarehouse = "warehouse"
	LocationShelf     = "shelf"
)

// DefaultReorderPoint is applied to lazily created records
const DefaultReorderPoint int64 = 10

// Inventory-specific domain errors
var (
	ErrInvalidQuantity = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a positive integer")
	ErrSameLocation    = shared.NewDomainError("SAME_LOCATION", "Source and destination locations must differ")
	ErrInvalidLocation = shared.NewDomainError("INVALID_LOCATION", "Location cannot be empty")
)

// InventoryRecord holds the stock counters for one (product, location) pair.
// At most one record exists per pair. Records are created lazily, mutated only
// through the inventory service, and never hard-deleted.
type InventoryRecord struct {
	shared.BaseAggregateRoot
	ProductID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_product_location"`
	Location          string     `gorm:"type:varchar(50);not null;default:'warehouse';uniqueIndex:idx_inventory_product_location"`
	QuantityInStock   int64      `gorm:"not null;default:0"`
	ReservedQuantity  int64      `gorm:"not null;default:0"`
	DamagedQuantity   int64      `gorm:"not null;default:0"`
	AvailableQuantity int64      `gorm:"not null;default:0"`
	ReorderPoint      int64      `gorm:"not null;default:10"`
	UpdatedBy         *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the database table name
func (InventoryRecord) TableName() string {
	return "inventory"
}

// NewInventoryRecord creates a zero-quantity record for a (product, location) pair
func NewInventoryRecord(productID uuid.UUID, location string) (*InventoryRecord, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if location == "" {
		return nil, ErrInvalidLocation
	}

	return &InventoryRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		Location:          location,
		ReorderPoint:      DefaultReorderPoint,
	}, nil
}

// recalculateAvailable keeps the denormalized available counter in sync.
// It is the single writer of AvailableQuantity.
func (r *InventoryRecord) recalculateAvailable() {
	r.AvailableQuantity = r.QuantityInStock - r.ReservedQuantity
}

func (r *InventoryRecord) touch(userID uuid.UUID) {
	r.recalculateAvailable()
	r.UpdatedAt = time.Now()
	if userID != uuid.Nil {
		id := userID
		r.UpdatedBy = &id
	}
	r.IncrementVersion()
}

// Receive adds quantity to stock (goods inward)
func (r *InventoryRecord) Receive(quantity int64, userID uuid.UUID) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	r.QuantityInStock += quantity
	r.touch(userID)
	return nil
}

// Consume removes quantity from stock (goods outward). Stock can never go
// negative; a missing record is equivalent to zero and handled by the caller.
func (r *InventoryRecord) Consume(quantity int64, userID uuid.UUID) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if r.QuantityInStock < quantity {
		return shared.ErrInsufficientStock
	}
	r.QuantityInStock -= quantity
	r.touch(userID)
	r.raiseThresholdEventIfNeeded()
	return nil
}

// WriteOffDamaged moves units from stock into the damaged counter. The total
// of the two counters is conserved so the loss stays auditable.
func (r *InventoryRecord) WriteOffDamaged(quantity int64, userID uuid.UUID) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if r.QuantityInStock < quantity {
		return shared.ErrInsufficientStock
	}
	r.QuantityInStock -= quantity
	r.DamagedQuantity += quantity
	r.touch(userID)
	r.raiseThresholdEventIfNeeded()
	return nil
}

// Reserve commits units to a pending outbound operation. Reserved units stay
// physically in stock but are excluded from the available counter.
func (r *InventoryRecord) Reserve(quantity int64, userID uuid.UUID) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if r.AvailableQuantity < quantity {
		return shared.ErrInsufficientStock
	}
	r.ReservedQuantity += quantity
	r.touch(userID)
	return nil
}

// Release returns reserved units to the available pool
func (r *InventoryRecord) Release(quantity int64, userID uuid.UUID) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if r.ReservedQuantity < quantity {
		return shared.NewDomainError("INVALID_RELEASE", "Cannot release more than is reserved")
	}
	r.ReservedQuantity -= quantity
	r.touch(userID)
	return nil
}

// SetReorderPoint updates the low-stock threshold consumed by alerting
func (r *InventoryRecord) SetReorderPoint(point int64, userID uuid.UUID) error {
	if point < 0 {
		return shared.NewDomainError("INVALID_REORDER_POINT", "Reorder point cannot be negative")
	}
	r.ReorderPoint = point
	r.touch(userID)
	return nil
}

// IsBelowReorderPoint reports whether stock has fallen to or below the threshold
func (r *InventoryRecord) IsBelowReorderPoint() bool {
	return r.QuantityInStock <= r.ReorderPoint
}

func (r *InventoryRecord) raiseThresholdEventIfNeeded() {
	if r.IsBelowReorderPoint() {
		r.AddDomainEvent(NewStockBelowThresholdEvent(r))
	}
}
