package finance

import (
	"context"
	"testing"
	"time"

	"github.com/emart/backend/internal/domain/finance"
	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryInvoiceRepo struct {
	invoices map[uuid.UUID]finance.Invoice
}

func newMemoryInvoiceRepo() *memoryInvoiceRepo {
	return &memoryInvoiceRepo{invoices: make(map[uuid.UUID]finance.Invoice)}
}

func (r *memoryInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*finance.Invoice, error) {
	if inv, ok := r.invoices[id]; ok {
		out := inv
		return &out, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryInvoiceRepo) FindAll(_ context.Context, _ shared.Filter) ([]finance.Invoice, error) {
	out := make([]finance.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, inv)
	}
	return out, nil
}

func (r *memoryInvoiceRepo) Save(_ context.Context, invoice *finance.Invoice) error {
	r.invoices[invoice.ID] = *invoice
	return nil
}

func (r *memoryInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.invoices, id)
	return nil
}

func (r *memoryInvoiceRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.invoices)), nil
}

func (r *memoryInvoiceRepo) FindByInvoiceNumber(_ context.Context, invoiceNumber string) (*finance.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.InvoiceNumber == invoiceNumber {
			out := inv
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryInvoiceRepo) FindBySupplier(_ context.Context, supplierID uuid.UUID, _ shared.Filter) ([]finance.Invoice, error) {
	var out []finance.Invoice
	for _, inv := range r.invoices {
		if inv.SupplierID == supplierID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *memoryInvoiceRepo) FindDueBefore(_ context.Context, cutoff time.Time) ([]finance.Invoice, error) {
	var out []finance.Invoice
	for _, inv := range r.invoices {
		if inv.Status != finance.InvoiceStatusPaid && inv.DueDate.Before(cutoff) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func newInvoiceFixture() (*InvoiceService, *memoryInvoiceRepo) {
	repo := newMemoryInvoiceRepo()
	return NewInvoiceService(repo, zap.NewNop()), repo
}

func createRequest(invoiceNumber string, dueInDays int) CreateInvoiceRequest {
	now := time.Now()
	return CreateInvoiceRequest{
		InvoiceNumber: invoiceNumber,
		SupplierID:    uuid.New(),
		InvoiceDate:   now,
		DueDate:       now.AddDate(0, 0, dueInDays),
		Items: []CreateInvoiceItemRequest{
			{ProductID: uuid.New(), Quantity: 10, UnitPrice: decimal.NewFromInt(100), GSTRate: decimal.NewFromInt(18)},
			{ProductID: uuid.New(), Quantity: 3, UnitPrice: decimal.NewFromFloat(33.33), GSTRate: decimal.NewFromInt(5)},
		},
	}
}

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("derives totals from line items", func(t *testing.T) {
		service, _ := newInvoiceFixture()

		resp, err := service.Create(ctx, createRequest("INV-2026-001", 30))

		require.NoError(t, err)
		// 10x100 + 3x33.33 = 1099.99; GST 180.00 + 5.00
		assert.True(t, resp.Subtotal.Equal(decimal.NewFromFloat(1099.99)), resp.Subtotal.String())
		assert.True(t, resp.GSTAmount.Equal(decimal.NewFromInt(185)), resp.GSTAmount.String())
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromFloat(1284.99)), resp.TotalAmount.String())
		assert.True(t, resp.BalanceAmount.Equal(resp.TotalAmount))
		assert.Equal(t, string(finance.InvoiceStatusPending), resp.Status)
	})

	t.Run("rejects duplicate invoice number", func(t *testing.T) {
		service, _ := newInvoiceFixture()

		_, err := service.Create(ctx, createRequest("INV-2026-002", 30))
		require.NoError(t, err)

		_, err = service.Create(ctx, createRequest("INV-2026-002", 30))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})
}

func TestInvoiceService_RecordPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("walks pending through partial to paid", func(t *testing.T) {
		service, _ := newInvoiceFixture()
		created, err := service.Create(ctx, createRequest("INV-2026-010", 30))
		require.NoError(t, err)

		partial, err := service.RecordPayment(ctx, created.ID, RecordPaymentRequest{Amount: decimal.NewFromInt(1000)})
		require.NoError(t, err)
		assert.Equal(t, string(finance.InvoiceStatusPartial), partial.Status)

		paid, err := service.RecordPayment(ctx, created.ID, RecordPaymentRequest{Amount: partial.BalanceAmount})
		require.NoError(t, err)
		assert.Equal(t, string(finance.InvoiceStatusPaid), paid.Status)
		assert.True(t, paid.BalanceAmount.IsZero())
	})

	t.Run("rejects overpayment", func(t *testing.T) {
		service, _ := newInvoiceFixture()
		created, err := service.Create(ctx, createRequest("INV-2026-011", 30))
		require.NoError(t, err)

		_, err = service.RecordPayment(ctx, created.ID, RecordPaymentRequest{
			Amount: created.TotalAmount.Add(decimal.NewFromInt(1)),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OVERPAYMENT", domainErr.Code)
	})
}

func TestInvoiceService_MarkOverdueInvoices(t *testing.T) {
	ctx := context.Background()
	service, _ := newInvoiceFixture()

	overdue, err := service.Create(ctx, createRequest("INV-2026-020", 1))
	require.NoError(t, err)
	_, err = service.Create(ctx, createRequest("INV-2026-021", 60))
	require.NoError(t, err)

	flagged, err := service.MarkOverdueInvoices(ctx, time.Now().AddDate(0, 0, 7))

	require.NoError(t, err)
	assert.Equal(t, []string{"INV-2026-020"}, flagged)

	fetched, err := service.GetByID(ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, string(finance.InvoiceStatusOverdue), fetched.Status)
}
