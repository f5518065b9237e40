package finance

import (
	"context"
	"time"

	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository defines persistence operations for supplier invoices
type InvoiceRepository interface {
	shared.Repository[Invoice]
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	// FindDueBefore returns unpaid invoices whose due date is before the cutoff
	FindDueBefore(ctx context.Context, cutoff time.Time) ([]Invoice, error)
}
