package catalog

import (
	"context"
	"errors"

	"github.com/emart/backend/internal/domain/catalog"
	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InventorySeeder creates the initial zero-quantity inventory records for a
// product. This decouples ProductService from the inventory service.
type InventorySeeder interface {
	SeedRecords(ctx context.Context, productID uuid.UUID) error
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	seeder       InventorySeeder
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	seeder InventorySeeder,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		seeder:       seeder,
	}
}

// Create creates a new product and seeds its inventory records
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	if req.CategoryID != nil {
		if _, err = s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
	}

	product, err := catalog.NewProduct(req.Name, req.SKU, req.Unit, req.SellingPrice)
	if err != nil {
		return nil, err
	}

	if req.Barcode != "" || req.Description != "" || req.HSNCode != "" {
		if err := product.UpdateDetails(req.Name, req.Description, req.Barcode, req.HSNCode); err != nil {
			return nil, err
		}
	}

	if req.PurchasePrice != nil || req.GSTRate != nil {
		purchasePrice := product.PurchasePrice
		gstRate := product.GSTRate
		if req.PurchasePrice != nil {
			purchasePrice = *req.PurchasePrice
		}
		if req.GSTRate != nil {
			gstRate = *req.GSTRate
		}
		if err := product.UpdatePricing(purchasePrice, req.SellingPrice, gstRate); err != nil {
			return nil, err
		}
	}

	if req.MinStockLevel != nil || req.MaxStockLevel != nil {
		minLevel := product.MinStockLevel
		maxLevel := product.MaxStockLevel
		if req.MinStockLevel != nil {
			minLevel = *req.MinStockLevel
		}
		if req.MaxStockLevel != nil {
			maxLevel = *req.MaxStockLevel
		}
		if err := product.UpdateStockLevels(minLevel, maxLevel); err != nil {
			return nil, err
		}
	}

	if req.CategoryID != nil {
		product.AssignCategory(*req.CategoryID)
	}
	product.TrackExpiry = req.TrackExpiry

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	if s.seeder != nil {
		if err := s.seeder.SeedRecords(ctx, product.ID); err != nil {
			return nil, err
		}
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by SKU
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByBarcode retrieves a product by barcode, for point-of-sale lookups
func (s *ProductService) GetByBarcode(ctx context.Context, barcode string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	repoFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		repoFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		repoFilter.PageSize = filter.PageSize
	}
	repoFilter.Search = filter.Search
	if filter.CategoryID != nil {
		repoFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.ActiveOnly {
		repoFilter.Filters["is_active"] = true
	}

	products, err := s.productRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses, total, nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil || req.Barcode != nil || req.HSNCode != nil {
		name := product.Name
		description := product.Description
		barcode := product.Barcode
		hsnCode := product.HSNCode
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if req.Barcode != nil {
			barcode = *req.Barcode
		}
		if req.HSNCode != nil {
			hsnCode = *req.HSNCode
		}
		if err := product.UpdateDetails(name, description, barcode, hsnCode); err != nil {
			return nil, err
		}
	}

	if req.PurchasePrice != nil || req.SellingPrice != nil || req.GSTRate != nil {
		purchasePrice := product.PurchasePrice
		sellingPrice := product.SellingPrice
		gstRate := product.GSTRate
		if req.PurchasePrice != nil {
			purchasePrice = *req.PurchasePrice
		}
		if req.SellingPrice != nil {
			sellingPrice = *req.SellingPrice
		}
		if req.GSTRate != nil {
			gstRate = *req.GSTRate
		}
		if err := product.UpdatePricing(purchasePrice, sellingPrice, gstRate); err != nil {
			return nil, err
		}
	}

	if req.MinStockLevel != nil || req.MaxStockLevel != nil {
		minLevel := product.MinStockLevel
		maxLevel := product.MaxStockLevel
		if req.MinStockLevel != nil {
			minLevel = *req.MinStockLevel
		}
		if req.MaxStockLevel != nil {
			maxLevel = *req.MaxStockLevel
		}
		if err := product.UpdateStockLevels(minLevel, maxLevel); err != nil {
			return nil, err
		}
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
		product.AssignCategory(*req.CategoryID)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Deactivate soft-deletes a product. Its inventory records and movement
// history are left intact.
func (s *ProductService) Deactivate(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if err := product.Deactivate(); err != nil {
		return err
	}
	return s.productRepo.Save(ctx, product)
}

// Activate restores a soft-deleted product
func (s *ProductService) Activate(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if err := product.Activate(); err != nil {
		return err
	}
	return s.productRepo.Save(ctx, product)
}
