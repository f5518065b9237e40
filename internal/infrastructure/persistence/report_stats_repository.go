package persistence

import (
	"context"
	"time"

	"github.com/emart/backend/internal/application/report"
	"github.com/emart/backend/internal/domain/alerting"
	"github.com/emart/backend/internal/domain/bulk"
	"github.com/emart/backend/internal/domain/catalog"
	"github.com/emart/backend/internal/domain/finance"
	"github.com/emart/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStatsRepository implements the aggregate queries behind the reports
type GormStatsRepository struct {
	db *gorm.DB
}

// NewGormStatsRepository creates a new GormStatsRepository
func NewGormStatsRepository(db *gorm.DB) *GormStatsRepository {
	return &GormStatsRepository{db: db}
}

// DashboardStats collects the dashboard counters in one pass
func (r *GormStatsRepository) DashboardStats(ctx context.Context) (*report.DashboardStats, error) {
	db := r.db.WithContext(ctx)
	stats := &report.DashboardStats{
		StockValue:         decimal.Zero,
		OutstandingBalance: decimal.Zero,
	}

	if err := db.Model(&catalog.Product{}).
		Where("is_active = ?", true).
		Count(&stats.ActiveProducts).Error; err != nil {
		return nil, err
	}

	var stockUnits struct {
		Units int64
		Value decimal.Decimal
	}
	if err := db.Model(&inventory.InventoryRecord{}).
		Select("COALESCE(SUM(inventory.quantity_in_stock), 0) AS units, COALESCE(SUM(inventory.quantity_in_stock * products.purchase_price), 0) AS value").
		Joins("LEFT JOIN products ON products.id = inventory.product_id").
		Scan(&stockUnits).Error; err != nil {
		return nil, err
	}
	stats.TotalStockUnits = stockUnits.Units
	stats.StockValue = stockUnits.Value

	if err := db.Model(&inventory.InventoryRecord{}).
		Where("quantity_in_stock <= reorder_point").
		Count(&stats.LowStockRecords).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&inventory.InventoryRecord{}).
		Where("quantity_in_stock = 0").
		Count(&stats.OutOfStockRecords).Error; err != nil {
		return nil, err
	}

	startOfDay := time.Now().Truncate(24 * time.Hour)
	if err := db.Model(&inventory.StockMovement{}).
		Where("created_at >= ?", startOfDay).
		Count(&stats.MovementsToday).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&alerting.Alert{}).
		Where("is_resolved = ?", false).
		Count(&stats.UnresolvedAlerts).Error; err != nil {
		return nil, err
	}

	var outstanding struct {
		Invoices int64
		Balance  decimal.Decimal
	}
	if err := db.Model(&finance.Invoice{}).
		Select("COUNT(*) AS invoices, COALESCE(SUM(balance_amount), 0) AS balance").
		Where("balance_amount > 0").
		Scan(&outstanding).Error; err != nil {
		return nil, err
	}
	stats.OutstandingInvoices = outstanding.Invoices
	stats.OutstandingBalance = outstanding.Balance

	if err := db.Model(&bulk.ImportJob{}).
		Where("status = ?", bulk.ImportStatusPending).
		Count(&stats.PendingImports).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// StockByLocation aggregates the inventory counters per location
func (r *GormStatsRepository) StockByLocation(ctx context.Context) ([]report.StockByLocation, error) {
	var rows []report.StockByLocation
	if err := r.db.WithContext(ctx).Model(&inventory.InventoryRecord{}).
		Select("location, COUNT(*) AS records, COALESCE(SUM(quantity_in_stock), 0) AS quantity_in_stock, COALESCE(SUM(damaged_quantity), 0) AS damaged_quantity").
		Group("location").
		Order("location ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MovementSummary aggregates ledger entries per movement type since the cutoff
func (r *GormStatsRepository) MovementSummary(ctx context.Context, since time.Time) ([]report.MovementSummaryRow, error) {
	var rows []report.MovementSummaryRow
	if err := r.db.WithContext(ctx).Model(&inventory.StockMovement{}).
		Select("movement_type, COUNT(*) AS count, COALESCE(SUM(quantity), 0) AS total_units").
		Where("created_at >= ?", since).
		Group("movement_type").
		Order("movement_type ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Ensure GormStatsRepository implements StatsRepository
var _ report.StatsRepository = (*GormStatsRepository)(nil)
