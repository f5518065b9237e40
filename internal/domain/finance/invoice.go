package finance

import (
	"fmt"
	"time"

	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the payment state of a supplier invoice
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// IsValid checks if the status is valid
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// InvoiceItem is one line on a supplier invoice
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int64           `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	GSTRate   decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	GSTAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the database table name
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// NewInvoiceItem creates a line item and computes its GST amount and total
func NewInvoiceItem(productID uuid.UUID, quantity int64, unitPrice, gstRate decimal.Decimal) (*InvoiceItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a positive integer")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if gstRate.IsNegative() || gstRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_GST_RATE", "GST rate must be between 0 and 100")
	}

	base := unitPrice.Mul(decimal.NewFromInt(quantity))
	gstAmount := base.Mul(gstRate).Div(decimal.NewFromInt(100)).Round(2)

	return &InvoiceItem{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		GSTRate:    gstRate,
		GSTAmount:  gstAmount,
		LineTotal:  base.Add(gstAmount),
	}, nil
}

// Invoice is a supplier (purchase) invoice with GST breakup
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceDate   time.Time       `gorm:"not null"`
	DueDate       time.Time       `gorm:"not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	GSTAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	BalanceAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	Notes         string          `gorm:"type:text"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid"`
	Items         []InvoiceItem   `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the database table name
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates an invoice from its line items; totals are derived from
// the items, never accepted from the caller.
func NewInvoice(invoiceNumber string, supplierID uuid.UUID, invoiceDate, dueDate time.Time, items []InvoiceItem, createdBy uuid.UUID) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_INVOICE", "Invoice must have at least one line item")
	}
	if dueDate.Before(invoiceDate) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before invoice date")
	}

	subtotal := decimal.Zero
	gstAmount := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity)))
		gstAmount = gstAmount.Add(item.GSTAmount)
	}
	total := subtotal.Add(gstAmount)

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		SupplierID:        supplierID,
		InvoiceDate:       invoiceDate,
		DueDate:           dueDate,
		Subtotal:          subtotal,
		GSTAmount:         gstAmount,
		TotalAmount:       total,
		PaidAmount:        decimal.Zero,
		BalanceAmount:     total,
		Status:            InvoiceStatusPending,
		Items:             items,
	}
	if createdBy != uuid.Nil {
		id := createdBy
		inv.CreatedBy = &id
	}
	for i := range inv.Items {
		inv.Items[i].InvoiceID = inv.ID
	}
	return inv, nil
}

// RecordPayment applies a payment and advances the status. Overpayment is
// rejected so the balance never goes negative.
func (i *Invoice) RecordPayment(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_PAYMENT", "Payment amount must be positive")
	}
	if i.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already fully paid")
	}
	if amount.GreaterThan(i.BalanceAmount) {
		return shared.NewDomainError("OVERPAYMENT", fmt.Sprintf("Payment %s exceeds outstanding balance %s", amount, i.BalanceAmount))
	}

	i.PaidAmount = i.PaidAmount.Add(amount)
	i.BalanceAmount = i.TotalAmount.Sub(i.PaidAmount)
	if i.BalanceAmount.IsZero() {
		i.Status = InvoiceStatusPaid
	} else {
		i.Status = InvoiceStatusPartial
	}
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// MarkOverdue flags an unpaid invoice past its due date
func (i *Invoice) MarkOverdue(now time.Time) error {
	if i.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Paid invoice cannot become overdue")
	}
	if now.Before(i.DueDate) {
		return shared.NewDomainError("NOT_DUE", "Invoice is not past its due date")
	}
	i.Status = InvoiceStatusOverdue
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// IsOutstanding reports whether any balance remains
func (i *Invoice) IsOutstanding() bool {
	return i.BalanceAmount.GreaterThan(decimal.Zero)
}
