package partner

import (
	"context"

	"github.com/emart/backend/internal/domain/shared"
)

// SupplierRepository defines persistence operations for suppliers
type SupplierRepository interface {
	shared.Repository[Supplier]
	FindByGSTNumber(ctx context.Context, gstNumber string) (*Supplier, error)
}
