package partner

import (
	"context"
	"testing"

	"github.com/emart/backend/internal/domain/partner"
	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySupplierRepo struct {
	suppliers map[uuid.UUID]partner.Supplier
}

func newMemorySupplierRepo() *memorySupplierRepo {
	return &memorySupplierRepo{suppliers: make(map[uuid.UUID]partner.Supplier)}
}

func (r *memorySupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Supplier, error) {
	if s, ok := r.suppliers[id]; ok {
		out := s
		return &out, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memorySupplierRepo) FindAll(_ context.Context, _ shared.Filter) ([]partner.Supplier, error) {
	out := make([]partner.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, s)
	}
	return out, nil
}

func (r *memorySupplierRepo) Save(_ context.Context, supplier *partner.Supplier) error {
	r.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *memorySupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.suppliers, id)
	return nil
}

func (r *memorySupplierRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.suppliers)), nil
}

func (r *memorySupplierRepo) FindByGSTNumber(_ context.Context, gstNumber string) (*partner.Supplier, error) {
	for _, s := range r.suppliers {
		if s.GSTNumber == gstNumber {
			out := s
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

const testGSTNumber = "29ABCDE1234F1Z5"

func TestSupplierService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a supplier with contact and GST details", func(t *testing.T) {
		repo := newMemorySupplierRepo()
		service := NewSupplierService(repo)

		created, err := service.Create(ctx, CreateSupplierRequest{
			Name:          "Sri Lakshmi Traders",
			ContactPerson: "Ravi Kumar",
			Phone:         "+91-9876543210",
			Email:         "ravi@srilakshmi.example",
			Address:       "14 Market Road, Mysuru",
			GSTNumber:     testGSTNumber,
		})

		require.NoError(t, err)
		assert.Equal(t, "Sri Lakshmi Traders", created.Name)
		assert.Equal(t, "14 Market Road, Mysuru", created.Address)
		assert.Equal(t, testGSTNumber, created.GSTNumber)
		assert.True(t, created.IsActive)

		stored, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, testGSTNumber, stored.GSTNumber)
	})

	t.Run("rejects a duplicate GST number", func(t *testing.T) {
		repo := newMemorySupplierRepo()
		service := NewSupplierService(repo)

		_, err := service.Create(ctx, CreateSupplierRequest{Name: "First", GSTNumber: testGSTNumber})
		require.NoError(t, err)

		_, err = service.Create(ctx, CreateSupplierRequest{Name: "Second", GSTNumber: testGSTNumber})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects an invalid GST number", func(t *testing.T) {
		service := NewSupplierService(newMemorySupplierRepo())

		_, err := service.Create(ctx, CreateSupplierRequest{Name: "Short GST", GSTNumber: "29ABC"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_GST_NUMBER", domainErr.Code)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		service := NewSupplierService(newMemorySupplierRepo())

		_, err := service.Create(ctx, CreateSupplierRequest{Name: ""})
		require.Error(t, err)
	})
}

func TestSupplierService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("changes contact details and GST number", func(t *testing.T) {
		repo := newMemorySupplierRepo()
		service := NewSupplierService(repo)

		created, err := service.Create(ctx, CreateSupplierRequest{Name: "Fresh Farms"})
		require.NoError(t, err)

		updated, err := service.Update(ctx, created.ID, UpdateSupplierRequest{
			ContactPerson: "Meena",
			Phone:         "+91-9000000001",
			Email:         "meena@freshfarms.example",
			Address:       "7 Canal Street, Salem",
			GSTNumber:     testGSTNumber,
		})

		require.NoError(t, err)
		assert.Equal(t, "Meena", updated.ContactPerson)
		assert.Equal(t, "7 Canal Street, Salem", updated.Address)
		assert.Equal(t, testGSTNumber, updated.GSTNumber)
	})

	t.Run("rejects stealing another supplier's GST number", func(t *testing.T) {
		repo := newMemorySupplierRepo()
		service := NewSupplierService(repo)

		_, err := service.Create(ctx, CreateSupplierRequest{Name: "Holder", GSTNumber: testGSTNumber})
		require.NoError(t, err)
		other, err := service.Create(ctx, CreateSupplierRequest{Name: "Other"})
		require.NoError(t, err)

		_, err = service.Update(ctx, other.ID, UpdateSupplierRequest{GSTNumber: testGSTNumber})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("unknown supplier is not found", func(t *testing.T) {
		service := NewSupplierService(newMemorySupplierRepo())

		_, err := service.Update(ctx, uuid.New(), UpdateSupplierRequest{ContactPerson: "Nobody"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestSupplierService_Deactivate(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySupplierRepo()
	service := NewSupplierService(repo)

	created, err := service.Create(ctx, CreateSupplierRequest{Name: "Closing Down"})
	require.NoError(t, err)

	require.NoError(t, service.Deactivate(ctx, created.ID))

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestSupplierService_List(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySupplierRepo()
	service := NewSupplierService(repo)

	for _, name := range []string{"Alpha Agencies", "Beta Distributors"} {
		_, err := service.Create(ctx, CreateSupplierRequest{Name: name})
		require.NoError(t, err)
	}

	suppliers, total, err := service.List(ctx, SupplierListFilter{Page: 1, PageSize: 10})

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, suppliers, 2)
}
