package catalog

import (
	"time"

	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item identified by a unique SKU. Min/max stock levels
// are thresholds consumed by alerting and reports; they are not enforced by
// the inventory core.
type Product struct {
	shared.BaseAggregateRoot
	Name          string          `gorm:"type:varchar(255);not null"`
	SKU           string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Barcode       string          `gorm:"type:varchar(100);index"`
	Description   string          `gorm:"type:text"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index"`
	Unit          string          `gorm:"type:varchar(20);not null;default:'pcs'"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	GSTRate       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	HSNCode       string          `gorm:"type:varchar(20)"`
	MinStockLevel int64           `gorm:"not null;default:10"`
	MaxStockLevel int64           `gorm:"not null;default:1000"`
	TrackExpiry   bool            `gorm:"not null;default:false"`
	IsActive      bool            `gorm:"not null;default:true"`
	DeactivatedAt *time.Time
}

// TableName returns the database table name
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product
func NewProduct(name, sku, unit string, sellingPrice decimal.Decimal) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}
	if unit == "" {
		unit = "pcs"
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SKU:               sku,
		Unit:              unit,
		SellingPrice:      sellingPrice,
		PurchasePrice:     decimal.Zero,
		GSTRate:           decimal.Zero,
		MinStockLevel:     10,
		MaxStockLevel:     1000,
		IsActive:          true,
	}, nil
}

// UpdateDetails updates the descriptive fields
func (p *Product) UpdateDetails(name, description, barcode, hsnCode string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	p.Name = name
	p.Description = description
	p.Barcode = barcode
	p.HSNCode = hsnCode
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// UpdatePricing updates prices and the GST rate
func (p *Product) UpdatePricing(purchasePrice, sellingPrice, gstRate decimal.Decimal) error {
	if purchasePrice.IsNegative() || sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if gstRate.IsNegative() || gstRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_GST_RATE", "GST rate must be between 0 and 100")
	}
	p.PurchasePrice = purchasePrice
	p.SellingPrice = sellingPrice
	p.GSTRate = gstRate
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// UpdateStockLevels updates the alerting thresholds
func (p *Product) UpdateStockLevels(minLevel, maxLevel int64) error {
	if minLevel < 0 {
		return shared.NewDomainError("INVALID_STOCK_LEVEL", "Minimum stock level cannot be negative")
	}
	if maxLevel < minLevel {
		return shared.NewDomainError("INVALID_STOCK_LEVEL", "Maximum stock level cannot be below minimum")
	}
	p.MinStockLevel = minLevel
	p.MaxStockLevel = maxLevel
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// AssignCategory places the product in a category
func (p *Product) AssignCategory(categoryID uuid.UUID) {
	p.CategoryID = &categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate soft-deletes the product. Inventory rows for the product are
// intentionally left in place so movement history stays reconstructable.
func (p *Product) Deactivate() error {
	if !p.IsActive {
		return shared.ErrInvalidState
	}
	now := time.Now()
	p.IsActive = false
	p.DeactivatedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// Activate restores a soft-deleted product
func (p *Product) Activate() error {
	if p.IsActive {
		return shared.ErrInvalidState
	}
	p.IsActive = true
	p.DeactivatedAt = nil
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}
