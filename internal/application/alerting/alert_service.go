package alerting

import (
	"context"
	"errors"
	"fmt"
	"time"

	inventoryapp "github.com/emart/backend/internal/application/inventory"
	"github.com/emart/backend/internal/domain/alerting"
	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlertService handles operator alert operations
type AlertService struct {
	alertRepo alerting.AlertRepository
	logger    *zap.Logger
}

// NewAlertService creates a new AlertService
func NewAlertService(alertRepo alerting.AlertRepository, logger *zap.Logger) *AlertService {
	return &AlertService{
		alertRepo: alertRepo,
		logger:    logger,
	}
}

// AlertResponse is the transport representation of an alert
type AlertResponse struct {
	ID         uuid.UUID  `json:"id"`
	Type       string     `json:"type"`
	Severity   string     `json:"severity"`
	Title      string     `json:"title"`
	Message    string     `json:"message,omitempty"`
	ProductID  *uuid.UUID `json:"product_id,omitempty"`
	IsRead     bool       `json:"is_read"`
	IsResolved bool       `json:"is_resolved"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToAlertResponse maps an alert to its transport form
func ToAlertResponse(a *alerting.Alert) AlertResponse {
	return AlertResponse{
		ID:         a.ID,
		Type:       string(a.Type),
		Severity:   string(a.Severity),
		Title:      a.Title,
		Message:    a.Message,
		ProductID:  a.ProductID,
		IsRead:     a.IsRead,
		IsResolved: a.IsResolved,
		ResolvedAt: a.ResolvedAt,
		CreatedAt:  a.CreatedAt,
	}
}

// ListUnresolved returns open alerts, newest first
func (s *AlertService) ListUnresolved(ctx context.Context, page, pageSize int) ([]AlertResponse, int64, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	alerts, err := s.alertRepo.FindUnresolved(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.alertRepo.CountUnresolved(ctx)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AlertResponse, 0, len(alerts))
	for i := range alerts {
		responses = append(responses, ToAlertResponse(&alerts[i]))
	}
	return responses, total, nil
}

// MarkRead flags an alert as seen
func (s *AlertService) MarkRead(ctx context.Context, alertID uuid.UUID) error {
	alert, err := s.alertRepo.FindByID(ctx, alertID)
	if err != nil {
		return err
	}
	alert.MarkRead()
	return s.alertRepo.Save(ctx, alert)
}

// Resolve closes an alert
func (s *AlertService) Resolve(ctx context.Context, alertID, userID uuid.UUID) error {
	alert, err := s.alertRepo.FindByID(ctx, alertID)
	if err != nil {
		return err
	}
	if err := alert.Resolve(userID); err != nil {
		return err
	}
	return s.alertRepo.Save(ctx, alert)
}

// RaiseOverduePayment records an overdue payment alert
func (s *AlertService) RaiseOverduePayment(ctx context.Context, invoiceNumber string, message string) error {
	alert, err := alerting.NewAlert(
		alerting.AlertTypeOverduePayment,
		alerting.SeverityWarning,
		fmt.Sprintf("Invoice %s is overdue", invoiceNumber),
		message,
	)
	if err != nil {
		return err
	}
	return s.alertRepo.Save(ctx, alert)
}

// PersistingLowStockNotifier turns low-stock notifications into persisted
// alerts. An open alert of the same type for the same product is updated in
// place instead of stacking a duplicate.
type PersistingLowStockNotifier struct {
	alertRepo alerting.AlertRepository
	logger    *zap.Logger
}

// NewPersistingLowStockNotifier creates a notifier backed by the alert store
func NewPersistingLowStockNotifier(alertRepo alerting.AlertRepository, logger *zap.Logger) *PersistingLowStockNotifier {
	return &PersistingLowStockNotifier{
		alertRepo: alertRepo,
		logger:    logger,
	}
}

// Notify persists one low-stock alert
func (n *PersistingLowStockNotifier) Notify(ctx context.Context, notification inventoryapp.LowStockAlert) error {
	productID, err := uuid.Parse(notification.ProductID)
	if err != nil {
		return err
	}

	severity := alerting.SeverityWarning
	if notification.OutOfStock {
		severity = alerting.SeverityCritical
	}
	title := fmt.Sprintf("Low stock at %s", notification.Location)
	if notification.OutOfStock {
		title = fmt.Sprintf("Out of stock at %s", notification.Location)
	}
	message := fmt.Sprintf("%d units in stock, reorder point is %d",
		notification.QuantityInStock, notification.ReorderPoint)

	existing, err := n.alertRepo.FindOpenByProductAndType(ctx, productID, alerting.AlertTypeLowStock)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if existing != nil {
		existing.Severity = severity
		existing.Title = title
		existing.Message = message
		existing.UpdatedAt = time.Now()
		existing.IncrementVersion()
		return n.alertRepo.Save(ctx, existing)
	}

	alert, err := alerting.NewAlert(alerting.AlertTypeLowStock, severity, title, message)
	if err != nil {
		return err
	}
	alert.ForProduct(productID)

	if err := n.alertRepo.Save(ctx, alert); err != nil {
		return err
	}
	n.logger.Info("low stock alert raised",
		zap.String("product_id", notification.ProductID),
		zap.String("location", notification.Location),
		zap.String("severity", string(severity)),
	)
	return nil
}

// Ensure PersistingLowStockNotifier implements the notifier interface
var _ inventoryapp.LowStockNotifier = (*PersistingLowStockNotifier)(nil)
