package catalog

import (
	"context"

	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	shared.Repository[Product]
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]Product, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
}

// CategoryRepository defines persistence operations for categories
type CategoryRepository interface {
	shared.Repository[Category]
	FindByName(ctx context.Context, name string) (*Category, error)
}
