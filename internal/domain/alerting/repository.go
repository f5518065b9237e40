package alerting

import (
	"context"

	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AlertRepository defines persistence operations for alerts
type AlertRepository interface {
	shared.Repository[Alert]
	FindUnresolved(ctx context.Context, filter shared.Filter) ([]Alert, error)
	CountUnresolved(ctx context.Context) (int64, error)
	// FindOpenByProductAndType returns an unresolved alert for the product and
	// type, used to avoid stacking duplicate low-stock alerts
	FindOpenByProductAndType(ctx context.Context, productID uuid.UUID, alertType AlertType) (*Alert, error)
}
