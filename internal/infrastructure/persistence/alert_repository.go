package persistence

import (
	"context"
	"errors"

	"github.com/emart/backend/internal/domain/alerting"
	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAlertRepository implements AlertRepository using GORM
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GormAlertRepository
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// FindByID finds an alert by its ID
func (r *GormAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*alerting.Alert, error) {
	var alert alerting.Alert
	if err := r.db.WithContext(ctx).First(&alert, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindUnresolved lists open alerts, most recent first
func (r *GormAlertRepository) FindUnresolved(ctx context.Context, filter shared.Filter) ([]alerting.Alert, error) {
	var alerts []alerting.Alert
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&alerting.Alert{}).Where("is_resolved = ?", false),
		filter,
	)
	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// CountUnresolved counts open alerts
func (r *GormAlertRepository) CountUnresolved(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&alerting.Alert{}).
		Where("is_resolved = ?", false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindOpenByProductAndType returns an unresolved alert for the product and type
func (r *GormAlertRepository) FindOpenByProductAndType(ctx context.Context, productID uuid.UUID, alertType alerting.AlertType) (*alerting.Alert, error) {
	var alert alerting.Alert
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND type = ? AND is_resolved = ?", productID, alertType, false).
		Order("created_at DESC").
		First(&alert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindAll lists alerts matching the filter
func (r *GormAlertRepository) FindAll(ctx context.Context, filter shared.Filter) ([]alerting.Alert, error) {
	var alerts []alerting.Alert
	query := r.applyFilter(r.db.WithContext(ctx).Model(&alerting.Alert{}), filter)
	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// Count counts alerts matching the filter
func (r *GormAlertRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&alerting.Alert{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an alert
func (r *GormAlertRepository) Save(ctx context.Context, alert *alerting.Alert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

// Delete deletes an alert
func (r *GormAlertRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&alerting.Alert{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormAlertRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, AlertSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormAlertRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "severity":
			query = query.Where("severity = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "is_read":
			query = query.Where("is_read = ?", value)
		case "is_resolved":
			query = query.Where("is_resolved = ?", value)
		}
	}
	return query
}

// Ensure GormAlertRepository implements AlertRepository
var _ alerting.AlertRepository = (*GormAlertRepository)(nil)
