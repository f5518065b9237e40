package catalog

import (
	"time"

	"github.com/emart/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest carries the fields for creating a product
type CreateProductRequest struct {
	Name          string           `json:"name" binding:"required"`
	SKU           string           `json:"sku" binding:"required"`
	Barcode       string           `json:"barcode"`
	Description   string           `json:"description"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	Unit          string           `json:"unit"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal  `json:"selling_price" binding:"required"`
	GSTRate       *decimal.Decimal `json:"gst_rate"`
	HSNCode       string           `json:"hsn_code"`
	MinStockLevel *int64           `json:"min_stock_level"`
	MaxStockLevel *int64           `json:"max_stock_level"`
	TrackExpiry   bool             `json:"track_expiry"`
}

// UpdateProductRequest carries a partial product update
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Barcode       *string          `json:"barcode"`
	Description   *string          `json:"description"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	GSTRate       *decimal.Decimal `json:"gst_rate"`
	HSNCode       *string          `json:"hsn_code"`
	MinStockLevel *int64           `json:"min_stock_level"`
	MaxStockLevel *int64           `json:"max_stock_level"`
}

// ProductListFilter filters the product listing
type ProductListFilter struct {
	Search     string
	CategoryID *uuid.UUID
	ActiveOnly bool
	Page       int
	PageSize   int
}

// ProductResponse is the transport representation of a product
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Barcode       string          `json:"barcode,omitempty"`
	Description   string          `json:"description,omitempty"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	GSTRate       decimal.Decimal `json:"gst_rate"`
	HSNCode       string          `json:"hsn_code,omitempty"`
	MinStockLevel int64           `json:"min_stock_level"`
	MaxStockLevel int64           `json:"max_stock_level"`
	TrackExpiry   bool            `json:"track_expiry"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateCategoryRequest carries the fields for creating a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateCategoryRequest carries a category update
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CategoryResponse is the transport representation of a category
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProductResponse maps a product to its transport form
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Barcode:       p.Barcode,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		Unit:          p.Unit,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		GSTRate:       p.GSTRate,
		HSNCode:       p.HSNCode,
		MinStockLevel: p.MinStockLevel,
		MaxStockLevel: p.MaxStockLevel,
		TrackExpiry:   p.TrackExpiry,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToCategoryResponse maps a category to its transport form
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
