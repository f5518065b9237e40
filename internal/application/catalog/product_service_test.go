package catalog

import (
	"context"
	"testing"

	"github.com/emart/backend/internal/domain/catalog"
	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryProductRepo struct {
	products map[uuid.UUID]catalog.Product
}

func newMemoryProductRepo() *memoryProductRepo {
	return &memoryProductRepo{products: make(map[uuid.UUID]catalog.Product)}
}

func (r *memoryProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.products[id]; ok {
		out := p
		return &out, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *memoryProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.products[product.ID] = *product
	return nil
}

func (r *memoryProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *memoryProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *memoryProductRepo) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			out := p
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryProductRepo) FindByBarcode(_ context.Context, barcode string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.Barcode == barcode {
			out := p
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryProductRepo) FindByCategory(_ context.Context, categoryID uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryProductRepo) ExistsBySKU(_ context.Context, sku string) (bool, error) {
	_, err := r.FindBySKU(context.Background(), sku)
	if err == nil {
		return true, nil
	}
	return false, nil
}

type memoryCategoryRepo struct {
	categories map[uuid.UUID]catalog.Category
}

func newMemoryCategoryRepo() *memoryCategoryRepo {
	return &memoryCategoryRepo{categories: make(map[uuid.UUID]catalog.Category)}
}

func (r *memoryCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Category, error) {
	if c, ok := r.categories[id]; ok {
		out := c
		return &out, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryCategoryRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Category, error) {
	out := make([]catalog.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *memoryCategoryRepo) Save(_ context.Context, category *catalog.Category) error {
	r.categories[category.ID] = *category
	return nil
}

func (r *memoryCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

func (r *memoryCategoryRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.categories)), nil
}

func (r *memoryCategoryRepo) FindByName(_ context.Context, name string) (*catalog.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			out := c
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

type recordingSeeder struct {
	seeded []uuid.UUID
}

func (s *recordingSeeder) SeedRecords(_ context.Context, productID uuid.UUID) error {
	s.seeded = append(s.seeded, productID)
	return nil
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates product and seeds inventory", func(t *testing.T) {
		repo := newMemoryProductRepo()
		seeder := &recordingSeeder{}
		service := NewProductService(repo, newMemoryCategoryRepo(), seeder)

		gst := decimal.NewFromInt(5)
		resp, err := service.Create(ctx, CreateProductRequest{
			Name:         "Basmati Rice 5kg",
			SKU:          "RICE-BAS-5KG",
			Unit:         "bag",
			SellingPrice: decimal.NewFromFloat(450.00),
			GSTRate:      &gst,
			HSNCode:      "1006",
		})

		require.NoError(t, err)
		assert.Equal(t, "RICE-BAS-5KG", resp.SKU)
		assert.True(t, resp.GSTRate.Equal(gst))
		assert.True(t, resp.IsActive)
		require.Len(t, seeder.seeded, 1)
		assert.Equal(t, resp.ID, seeder.seeded[0])
	})

	t.Run("rejects duplicate SKU", func(t *testing.T) {
		repo := newMemoryProductRepo()
		service := NewProductService(repo, newMemoryCategoryRepo(), &recordingSeeder{})

		_, err := service.Create(ctx, CreateProductRequest{
			Name: "Sugar 1kg", SKU: "SUG-1KG", SellingPrice: decimal.NewFromInt(55),
		})
		require.NoError(t, err)

		_, err = service.Create(ctx, CreateProductRequest{
			Name: "Sugar 1kg Premium", SKU: "SUG-1KG", SellingPrice: decimal.NewFromInt(60),
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		service := NewProductService(newMemoryProductRepo(), newMemoryCategoryRepo(), &recordingSeeder{})

		missing := uuid.New()
		_, err := service.Create(ctx, CreateProductRequest{
			Name: "Milk 1L", SKU: "MILK-1L", SellingPrice: decimal.NewFromInt(62), CategoryID: &missing,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CATEGORY", domainErr.Code)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial pricing update keeps other fields", func(t *testing.T) {
		repo := newMemoryProductRepo()
		service := NewProductService(repo, newMemoryCategoryRepo(), &recordingSeeder{})

		created, err := service.Create(ctx, CreateProductRequest{
			Name: "Atta 10kg", SKU: "ATTA-10KG", SellingPrice: decimal.NewFromInt(480),
		})
		require.NoError(t, err)

		newPrice := decimal.NewFromInt(495)
		updated, err := service.Update(ctx, created.ID, UpdateProductRequest{SellingPrice: &newPrice})

		require.NoError(t, err)
		assert.True(t, updated.SellingPrice.Equal(newPrice))
		assert.Equal(t, "Atta 10kg", updated.Name)
	})

	t.Run("rejects inverted stock levels", func(t *testing.T) {
		repo := newMemoryProductRepo()
		service := NewProductService(repo, newMemoryCategoryRepo(), &recordingSeeder{})

		created, err := service.Create(ctx, CreateProductRequest{
			Name: "Salt 1kg", SKU: "SALT-1KG", SellingPrice: decimal.NewFromInt(25),
		})
		require.NoError(t, err)

		minLevel := int64(100)
		maxLevel := int64(50)
		_, err = service.Update(ctx, created.ID, UpdateProductRequest{
			MinStockLevel: &minLevel,
			MaxStockLevel: &maxLevel,
		})
		require.Error(t, err)
	})
}

func TestProductService_Deactivate(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryProductRepo()
	service := NewProductService(repo, newMemoryCategoryRepo(), &recordingSeeder{})

	created, err := service.Create(ctx, CreateProductRequest{
		Name: "Tea 250g", SKU: "TEA-250G", SellingPrice: decimal.NewFromInt(140),
	})
	require.NoError(t, err)

	require.NoError(t, service.Deactivate(ctx, created.ID))
	assert.ErrorIs(t, service.Deactivate(ctx, created.ID), shared.ErrInvalidState)

	fetched, err := service.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, fetched.IsActive)
}
