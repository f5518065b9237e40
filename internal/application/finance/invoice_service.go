package finance

import (
	"context"
	"errors"
	"time"

	"github.com/emart/backend/internal/domain/finance"
	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvoiceService handles supplier invoice operations
type InvoiceService struct {
	invoiceRepo finance.InvoiceRepository
	logger      *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo finance.InvoiceRepository, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// Create records a supplier invoice. Line GST amounts and invoice totals are
// computed here; the caller supplies only quantities, unit prices and rates.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if _, err := s.invoiceRepo.FindByInvoiceNumber(ctx, req.InvoiceNumber); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Invoice with this number already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	items := make([]finance.InvoiceItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		item, err := finance.NewInvoiceItem(itemReq.ProductID, itemReq.Quantity, itemReq.UnitPrice, itemReq.GSTRate)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	invoice, err := finance.NewInvoice(req.InvoiceNumber, req.SupplierID, req.InvoiceDate, req.DueDate, items, req.CreatedBy)
	if err != nil {
		return nil, err
	}
	invoice.Notes = req.Notes

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("invoice recorded",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("supplier_id", invoice.SupplierID.String()),
		zap.String("total", invoice.TotalAmount.String()),
	)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	repoFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		repoFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		repoFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		status := finance.InvoiceStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown invoice status")
		}
		repoFilter.Filters["status"] = string(status)
	}

	var (
		invoices []finance.Invoice
		err      error
	)
	if filter.SupplierID != nil {
		invoices, err = s.invoiceRepo.FindBySupplier(ctx, *filter.SupplierID, repoFilter)
	} else {
		invoices, err = s.invoiceRepo.FindAll(ctx, repoFilter)
	}
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, ToInvoiceResponse(&invoices[i]))
	}
	return responses, total, nil
}

// RecordPayment applies a payment against an invoice
func (s *InvoiceService) RecordPayment(ctx context.Context, invoiceID uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.RecordPayment(req.Amount); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("amount", req.Amount.String()),
		zap.String("status", string(invoice.Status)),
	)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// MarkOverdueInvoices sweeps unpaid invoices past their due date and flags
// them overdue. Returns the invoice numbers that were flagged.
func (s *InvoiceService) MarkOverdueInvoices(ctx context.Context, now time.Time) ([]string, error) {
	due, err := s.invoiceRepo.FindDueBefore(ctx, now)
	if err != nil {
		return nil, err
	}

	var flagged []string
	for i := range due {
		invoice := &due[i]
		if invoice.Status == finance.InvoiceStatusOverdue {
			continue
		}
		if err := invoice.MarkOverdue(now); err != nil {
			continue
		}
		if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
			s.logger.Error("failed to flag overdue invoice",
				zap.String("invoice_number", invoice.InvoiceNumber),
				zap.Error(err),
			)
			continue
		}
		flagged = append(flagged, invoice.InvoiceNumber)
	}

	if len(flagged) > 0 {
		s.logger.Warn("invoices flagged overdue", zap.Int("count", len(flagged)))
	}
	return flagged, nil
}
