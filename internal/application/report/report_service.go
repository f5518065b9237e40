package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DashboardStats is the operator dashboard snapshot
type DashboardStats struct {
	ActiveProducts      int64           `json:"active_products"`
	TotalStockUnits     int64           `json:"total_stock_units"`
	StockValue          decimal.Decimal `json:"stock_value"`
	LowStockRecords     int64           `json:"low_stock_records"`
	OutOfStockRecords   int64           `json:"out_of_stock_records"`
	MovementsToday      int64           `json:"movements_today"`
	UnresolvedAlerts    int64           `json:"unresolved_alerts"`
	OutstandingInvoices int64           `json:"outstanding_invoices"`
	OutstandingBalance  decimal.Decimal `json:"outstanding_balance"`
	PendingImports      int64           `json:"pending_imports"`
	GeneratedAt         time.Time       `json:"generated_at"`
}

// StockByLocation is one row of the stock distribution report
type StockByLocation struct {
	Location        string `json:"location"`
	Records         int64  `json:"records"`
	QuantityInStock int64  `json:"quantity_in_stock"`
	DamagedQuantity int64  `json:"damaged_quantity"`
}

// MovementSummaryRow aggregates ledger entries per movement type
type MovementSummaryRow struct {
	MovementType string `json:"movement_type"`
	Count        int64  `json:"count"`
	TotalUnits   int64  `json:"total_units"`
}

// StatsRepository exposes the aggregate queries behind the reports
type StatsRepository interface {
	DashboardStats(ctx context.Context) (*DashboardStats, error)
	StockByLocation(ctx context.Context) ([]StockByLocation, error)
	MovementSummary(ctx context.Context, since time.Time) ([]MovementSummaryRow, error)
}

// ReportService serves read-only aggregate reports
type ReportService struct {
	stats  StatsRepository
	logger *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(stats StatsRepository, logger *zap.Logger) *ReportService {
	return &ReportService{
		stats:  stats,
		logger: logger,
	}
}

// Dashboard returns the current dashboard snapshot
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats, err := s.stats.DashboardStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.GeneratedAt = time.Now()
	return stats, nil
}

// StockDistribution returns per-location stock totals
func (s *ReportService) StockDistribution(ctx context.Context) ([]StockByLocation, error) {
	return s.stats.StockByLocation(ctx)
}

// MovementSummary aggregates ledger entries per type since the given time.
// A zero time means the last 30 days.
func (s *ReportService) MovementSummary(ctx context.Context, since time.Time) ([]MovementSummaryRow, error) {
	if since.IsZero() {
		since = time.Now().AddDate(0, 0, -30)
	}
	return s.stats.MovementSummary(ctx, since)
}
