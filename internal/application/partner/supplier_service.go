package partner

import (
	"context"
	"errors"

	"github.com/emart/backend/internal/domain/partner"
	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	if req.GSTNumber != "" {
		if _, err := s.supplierRepo.FindByGSTNumber(ctx, req.GSTNumber); err == nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Supplier with this GST number already exists")
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	supplier, err := partner.NewSupplier(req.Name, req.ContactPerson, req.Phone, req.Email)
	if err != nil {
		return nil, err
	}
	if req.Address != "" {
		supplier.UpdateContact(req.ContactPerson, req.Phone, req.Email, req.Address)
	}
	if req.GSTNumber != "" {
		if err := supplier.SetGSTNumber(req.GSTNumber); err != nil {
			return nil, err
		}
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, filter SupplierListFilter) ([]SupplierResponse, int64, error) {
	repoFilter := shared.DefaultFilter()
	repoFilter.OrderBy = "name"
	repoFilter.OrderDir = "asc"
	if filter.Page > 0 {
		repoFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		repoFilter.PageSize = filter.PageSize
	}
	repoFilter.Search = filter.Search
	if filter.ActiveOnly {
		repoFilter.Filters["is_active"] = true
	}

	suppliers, err := s.supplierRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		responses = append(responses, ToSupplierResponse(&suppliers[i]))
	}
	return responses, total, nil
}

// Update changes a supplier's contact details and GST number
func (s *SupplierService) Update(ctx context.Context, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	supplier.UpdateContact(req.ContactPerson, req.Phone, req.Email, req.Address)
	if req.GSTNumber != "" && req.GSTNumber != supplier.GSTNumber {
		if _, err := s.supplierRepo.FindByGSTNumber(ctx, req.GSTNumber); err == nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Supplier with this GST number already exists")
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if err := supplier.SetGSTNumber(req.GSTNumber); err != nil {
			return nil, err
		}
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Deactivate soft-deletes a supplier
func (s *SupplierService) Deactivate(ctx context.Context, supplierID uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return err
	}
	supplier.Deactivate()
	return s.supplierRepo.Save(ctx, supplier)
}
