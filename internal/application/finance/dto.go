package finance

import (
	"time"

	"github.com/emart/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInvoiceItemRequest is one line of an incoming invoice
type CreateInvoiceItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
	GSTRate   decimal.Decimal `json:"gst_rate"`
}

// CreateInvoiceRequest carries the fields for recording a supplier invoice.
// Totals are computed from the items, never taken from the request.
type CreateInvoiceRequest struct {
	InvoiceNumber string                     `json:"invoice_number" binding:"required"`
	SupplierID    uuid.UUID                  `json:"supplier_id" binding:"required"`
	InvoiceDate   time.Time                  `json:"invoice_date" binding:"required"`
	DueDate       time.Time                  `json:"due_date" binding:"required"`
	Notes         string                     `json:"notes"`
	Items         []CreateInvoiceItemRequest `json:"items" binding:"required,min=1"`
	CreatedBy     uuid.UUID                  `json:"-"`
}

// RecordPaymentRequest applies a payment against an invoice
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// InvoiceListFilter filters the invoice listing
type InvoiceListFilter struct {
	SupplierID *uuid.UUID
	Status     string
	Page       int
	PageSize   int
}

// InvoiceItemResponse is the transport representation of an invoice line
type InvoiceItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	GSTRate   decimal.Decimal `json:"gst_rate"`
	GSTAmount decimal.Decimal `json:"gst_amount"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// InvoiceResponse is the transport representation of an invoice
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	SupplierID    uuid.UUID             `json:"supplier_id"`
	InvoiceDate   time.Time             `json:"invoice_date"`
	DueDate       time.Time             `json:"due_date"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	GSTAmount     decimal.Decimal       `json:"gst_amount"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	PaidAmount    decimal.Decimal       `json:"paid_amount"`
	BalanceAmount decimal.Decimal       `json:"balance_amount"`
	Status        string                `json:"status"`
	Notes         string                `json:"notes,omitempty"`
	Items         []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// ToInvoiceResponse maps an invoice to its transport form
func ToInvoiceResponse(inv *finance.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, InvoiceItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			GSTRate:   item.GSTRate,
			GSTAmount: item.GSTAmount,
			LineTotal: item.LineTotal,
		})
	}
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		SupplierID:    inv.SupplierID,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		Subtotal:      inv.Subtotal,
		GSTAmount:     inv.GSTAmount,
		TotalAmount:   inv.TotalAmount,
		PaidAmount:    inv.PaidAmount,
		BalanceAmount: inv.BalanceAmount,
		Status:        string(inv.Status),
		Notes:         inv.Notes,
		Items:         items,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}
