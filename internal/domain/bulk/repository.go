package bulk

import (
	"context"

	"github.com/emart/backend/internal/domain/shared"
)

// ImportJobRepository defines persistence operations for import jobs
type ImportJobRepository interface {
	shared.Repository[ImportJob]
	FindByStatus(ctx context.Context, status ImportStatus, filter shared.Filter) ([]ImportJob, error)
}
