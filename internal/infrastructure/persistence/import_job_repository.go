package persistence

import (
	"context"
	"errors"

	"github.com/emart/backend/internal/domain/bulk"
	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormImportJobRepository implements ImportJobRepository using GORM
type GormImportJobRepository struct {
	db *gorm.DB
}

// NewGormImportJobRepository creates a new GormImportJobRepository
func NewGormImportJobRepository(db *gorm.DB) *GormImportJobRepository {
	return &GormImportJobRepository{db: db}
}

// FindByID finds an import job by its ID
func (r *GormImportJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*bulk.ImportJob, error) {
	var job bulk.ImportJob
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// FindByStatus lists import jobs in a given maker/checker state
func (r *GormImportJobRepository) FindByStatus(ctx context.Context, status bulk.ImportStatus, filter shared.Filter) ([]bulk.ImportJob, error) {
	var jobs []bulk.ImportJob
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&bulk.ImportJob{}).Where("status = ?", status),
		filter,
	)
	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// FindAll lists import jobs matching the filter
func (r *GormImportJobRepository) FindAll(ctx context.Context, filter shared.Filter) ([]bulk.ImportJob, error) {
	var jobs []bulk.ImportJob
	query := r.applyFilter(r.db.WithContext(ctx).Model(&bulk.ImportJob{}), filter)
	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Count counts import jobs matching the filter
func (r *GormImportJobRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&bulk.ImportJob{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an import job
func (r *GormImportJobRepository) Save(ctx context.Context, job *bulk.ImportJob) error {
	return r.db.WithContext(ctx).Save(job).Error
}

// Delete deletes an import job
func (r *GormImportJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&bulk.ImportJob{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormImportJobRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ImportJobSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormImportJobRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "entity_type":
			query = query.Where("entity_type = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "uploaded_by":
			query = query.Where("uploaded_by = ?", value)
		}
	}
	return query
}

// Ensure GormImportJobRepository implements ImportJobRepository
var _ bulk.ImportJobRepository = (*GormImportJobRepository)(nil)
