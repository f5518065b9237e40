package partner

import (
	"time"

	"github.com/emart/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// CreateSupplierRequest carries the fields for creating a supplier
type CreateSupplierRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	GSTNumber     string `json:"gst_number"`
}

// UpdateSupplierRequest carries a supplier update
type UpdateSupplierRequest struct {
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	GSTNumber     string `json:"gst_number"`
}

// SupplierListFilter filters the supplier listing
type SupplierListFilter struct {
	Search     string
	ActiveOnly bool
	Page       int
	PageSize   int
}

// SupplierResponse is the transport representation of a supplier
type SupplierResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address,omitempty"`
	GSTNumber     string    `json:"gst_number,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToSupplierResponse maps a supplier to its transport form
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
		GSTNumber:     s.GSTNumber,
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
