package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/emart/backend/internal/domain/inventory"
	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryRecordRepository implements InventoryRecordRepository using GORM
type GormInventoryRecordRepository struct {
	db *gorm.DB
}

// NewGormInventoryRecordRepository creates a new GormInventoryRecordRepository
func NewGormInventoryRecordRepository(db *gorm.DB) *GormInventoryRecordRepository {
	return &GormInventoryRecordRepository{db: db}
}

// FindByID finds an inventory record by its ID
func (r *GormInventoryRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryRecord, error) {
	var record inventory.InventoryRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByProductAndLocation finds the record for a product-location pair.
// A missing row is a valid zero-stock state and maps to shared.ErrNotFound.
func (r *GormInventoryRecordRepository) FindByProductAndLocation(ctx context.Context, productID uuid.UUID, location string) (*inventory.InventoryRecord, error) {
	var record inventory.InventoryRecord
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND location = ?", productID, location).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByProductAndLocationForUpdate locks the row for the duration of the
// surrounding transaction. Outside a transaction the lock is a no-op.
func (r *GormInventoryRecordRepository) FindByProductAndLocationForUpdate(ctx context.Context, productID uuid.UUID, location string) (*inventory.InventoryRecord, error) {
	var record inventory.InventoryRecord
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND location = ?", productID, location).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByProduct finds all records for a product across locations
func (r *GormInventoryRecordRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.InventoryRecord, error) {
	var records []inventory.InventoryRecord
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("location ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindAll lists inventory records ordered by most recently updated first
func (r *GormInventoryRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryRecord, error) {
	var records []inventory.InventoryRecord
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.InventoryRecord{}), filter)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Count counts inventory records matching the filter
func (r *GormInventoryRecordRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.InventoryRecord{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetOrCreate returns the record for the pair, lazily inserting a zero-quantity
// row when none exists. A concurrent insert of the same pair is absorbed by the
// unique index and the winner's row is read back.
func (r *GormInventoryRecordRepository) GetOrCreate(ctx context.Context, productID uuid.UUID, location string) (*inventory.InventoryRecord, error) {
	record, err := r.FindByProductAndLocation(ctx, productID, location)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	fresh, err := inventory.NewInventoryRecord(productID, location)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(fresh).Error; err != nil {
		return nil, err
	}

	return r.FindByProductAndLocation(ctx, productID, location)
}

// Save creates or updates an inventory record
func (r *GormInventoryRecordRepository) Save(ctx context.Context, record *inventory.InventoryRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// SaveWithLock saves with optimistic locking on the version column
func (r *GormInventoryRecordRepository) SaveWithLock(ctx context.Context, record *inventory.InventoryRecord) error {
	result := r.db.WithContext(ctx).
		Model(record).
		Where("id = ? AND version = ?", record.ID, record.Version-1).
		Updates(map[string]interface{}{
			"quantity_in_stock":  record.QuantityInStock,
			"reserved_quantity":  record.ReservedQuantity,
			"damaged_quantity":   record.DamagedQuantity,
			"available_quantity": record.AvailableQuantity,
			"reorder_point":      record.ReorderPoint,
			"updated_by":         record.UpdatedBy,
			"version":            record.Version,
			"updated_at":         record.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func (r *GormInventoryRecordRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InventorySortFields, "updated_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormInventoryRecordRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "location":
			query = query.Where("location = ?", value)
		case "below_reorder_point":
			if value == true {
				query = query.Where("quantity_in_stock <= reorder_point")
			}
		case "out_of_stock":
			if value == true {
				query = query.Where("quantity_in_stock = 0")
			}
		}
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("location LIKE ?", "%"+search+"%")
	}

	return query
}

// Ensure GormInventoryRecordRepository implements InventoryRecordRepository
var _ inventory.InventoryRecordRepository = (*GormInventoryRecordRepository)(nil)
