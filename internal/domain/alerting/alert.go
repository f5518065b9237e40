package alerting

import (
	"time"

	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AlertType classifies an alert
type AlertType string

const (
	AlertTypeLowStock       AlertType = "low_stock"
	AlertTypeExpiryWarning  AlertType = "expiry_warning"
	AlertTypeOverduePayment AlertType = "overdue_payment"
	AlertTypeSystem         AlertType = "system"
)

// IsValid checks if the alert type is valid
func (t AlertType) IsValid() bool {
	switch t {
	case AlertTypeLowStock, AlertTypeExpiryWarning, AlertTypeOverduePayment, AlertTypeSystem:
		return true
	}
	return false
}

// AlertSeverity ranks how urgent an alert is
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// IsValid checks if the severity is valid
func (s AlertSeverity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// Alert is a persisted notification for store operators
type Alert struct {
	shared.BaseAggregateRoot
	Type       AlertType     `gorm:"type:varchar(30);not null;index"`
	Severity   AlertSeverity `gorm:"type:varchar(20);not null;default:'info'"`
	Title      string        `gorm:"type:varchar(255);not null"`
	Message    string        `gorm:"type:text"`
	ProductID  *uuid.UUID    `gorm:"type:uuid;index"`
	IsRead     bool          `gorm:"not null;default:false"`
	IsResolved bool          `gorm:"not null;default:false"`
	ResolvedAt *time.Time
	ResolvedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the database table name
func (Alert) TableName() string {
	return "alerts"
}

// NewAlert creates an unread, unresolved alert
func NewAlert(alertType AlertType, severity AlertSeverity, title, message string) (*Alert, error) {
	if !alertType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ALERT_TYPE", "Invalid alert type")
	}
	if !severity.IsValid() {
		return nil, shared.NewDomainError("INVALID_SEVERITY", "Invalid alert severity")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Alert title cannot be empty")
	}

	return &Alert{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              alertType,
		Severity:          severity,
		Title:             title,
		Message:           message,
	}, nil
}

// ForProduct associates the alert with a product
func (a *Alert) ForProduct(productID uuid.UUID) *Alert {
	id := productID
	a.ProductID = &id
	return a
}

// MarkRead flags the alert as seen
func (a *Alert) MarkRead() {
	if a.IsRead {
		return
	}
	a.IsRead = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// Resolve closes the alert
func (a *Alert) Resolve(userID uuid.UUID) error {
	if a.IsResolved {
		return shared.ErrInvalidState
	}
	now := time.Now()
	a.IsResolved = true
	a.ResolvedAt = &now
	if userID != uuid.Nil {
		id := userID
		a.ResolvedBy = &id
	}
	a.UpdatedAt = now
	a.IncrementVersion()
	return nil
}
