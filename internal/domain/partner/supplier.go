package partner

import (
	"time"

	"github.com/emart/backend/internal/domain/shared"
)

// Supplier is a vendor the store purchases from. GSTNumber identifies the
// supplier on tax invoices.
type Supplier struct {
	shared.BaseAggregateRoot
	Name          string `gorm:"type:varchar(255);not null"`
	ContactPerson string `gorm:"type:varchar(100)"`
	Phone         string `gorm:"type:varchar(20)"`
	Email         string `gorm:"type:varchar(100)"`
	Address       string `gorm:"type:text"`
	GSTNumber     string `gorm:"type:varchar(20);index"`
	IsActive      bool   `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new active supplier
func NewSupplier(name, contactPerson, phone, email string) (*Supplier, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		ContactPerson:     contactPerson,
		Phone:             phone,
		Email:             email,
		IsActive:          true,
	}, nil
}

// UpdateContact updates the contact details
func (s *Supplier) UpdateContact(contactPerson, phone, email, address string) {
	s.ContactPerson = contactPerson
	s.Phone = phone
	s.Email = email
	s.Address = address
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// SetGSTNumber records the supplier's GST registration
func (s *Supplier) SetGSTNumber(gstNumber string) error {
	if len(gstNumber) != 15 {
		return shared.NewDomainError("INVALID_GST_NUMBER", "GST number must be 15 characters")
	}
	s.GSTNumber = gstNumber
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Deactivate soft-deletes the supplier
func (s *Supplier) Deactivate() {
	s.IsActive = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
