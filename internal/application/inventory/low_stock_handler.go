package inventory

import (
	"context"
	"fmt"

	"github.com/emart/backend/internal/domain/inventory"
	"github.com/emart/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockAlert is the payload handed to alert consumers when stock falls to
// or below a record's reorder point
type LowStockAlert struct {
	ProductID       string `json:"product_id"`
	Location        string `json:"location"`
	QuantityInStock int64  `json:"quantity_in_stock"`
	ReorderPoint    int64  `json:"reorder_point"`
	OutOfStock      bool   `json:"out_of_stock"`
}

// LowStockNotifier is the interface for delivering low-stock alerts.
// Implementations can support different channels (in-app, email, ...).
type LowStockNotifier interface {
	// Notify delivers one low-stock alert
	Notify(ctx context.Context, alert LowStockAlert) error
}

// LowStockHandler consumes StockBelowThreshold events raised by inventory
// mutations and forwards them to a notifier. It runs outside the mutation's
// transaction: alerting is an observer of inventory state, never a reason to
// fail a transfer.
type LowStockHandler struct {
	logger   *zap.Logger
	notifier LowStockNotifier
}

// NewLowStockHandler creates a handler for stock below threshold events
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{logger: logger}
}

// WithNotifier sets the notifier for delivering alerts
func (h *LowStockHandler) WithNotifier(notifier LowStockNotifier) *LowStockHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowThreshold}
}

// Handle processes a StockBelowThresholdEvent
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	thresholdEvent, ok := event.(*inventory.StockBelowThresholdEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inventory.EventTypeStockBelowThreshold),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockBelowThreshold, event.EventType())
	}

	h.logger.Warn("stock below reorder point",
		zap.String("product_id", thresholdEvent.ProductID.String()),
		zap.String("location", thresholdEvent.Location),
		zap.Int64("quantity_in_stock", thresholdEvent.QuantityInStock),
		zap.Int64("reorder_point", thresholdEvent.ReorderPoint),
	)

	if h.notifier == nil {
		return nil
	}

	alert := LowStockAlert{
		ProductID:       thresholdEvent.ProductID.String(),
		Location:        thresholdEvent.Location,
		QuantityInStock: thresholdEvent.QuantityInStock,
		ReorderPoint:    thresholdEvent.ReorderPoint,
		OutOfStock:      thresholdEvent.QuantityInStock == 0,
	}
	if err := h.notifier.Notify(ctx, alert); err != nil {
		// Notification failure must not fail the event handling
		h.logger.Error("failed to deliver low stock alert",
			zap.String("product_id", alert.ProductID),
			zap.Error(err),
		)
	}
	return nil
}

// Ensure LowStockHandler implements shared.EventHandler
var _ shared.EventHandler = (*LowStockHandler)(nil)

// LoggingLowStockNotifier is a notifier that only logs alerts.
// This is useful for development and testing.
type LoggingLowStockNotifier struct {
	logger *zap.Logger
}

// NewLoggingLowStockNotifier creates a new logging notifier
func NewLoggingLowStockNotifier(logger *zap.Logger) *LoggingLowStockNotifier {
	return &LoggingLowStockNotifier{logger: logger}
}

// Notify logs the low stock alert
func (n *LoggingLowStockNotifier) Notify(ctx context.Context, alert LowStockAlert) error {
	n.logger.Warn("LOW STOCK ALERT",
		zap.String("product_id", alert.ProductID),
		zap.String("location", alert.Location),
		zap.Int64("quantity_in_stock", alert.QuantityInStock),
		zap.Int64("reorder_point", alert.ReorderPoint),
		zap.Bool("out_of_stock", alert.OutOfStock),
	)
	return nil
}

// Ensure LoggingLowStockNotifier implements LowStockNotifier
var _ LowStockNotifier = (*LoggingLowStockNotifier)(nil)
