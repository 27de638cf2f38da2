package partner

import (
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// VendorStatus represents the status of a vendor
type VendorStatus string

const (
	VendorStatusActive   VendorStatus = "ACTIVE"
	VendorStatusInactive VendorStatus = "INACTIVE"
)

// Vendor is a supplier the organization purchases from. Bills, payments
// made and vendor credits all reference a vendor.
type Vendor struct {
	shared.OrgAggregateRoot
	Name    string
	Email   string
	Phone   string
	GSTIN   string
	Address string
	Status  VendorStatus
}

// NewVendor creates a new active vendor
func NewVendor(orgID uuid.UUID, name, email, phone, gstin string, actorID *uuid.UUID) (*Vendor, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Vendor name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Vendor name cannot exceed 200 characters")
	}

	v := &Vendor{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Name:             name,
		Email:            email,
		Phone:            phone,
		GSTIN:            gstin,
		Status:           VendorStatusActive,
	}
	if actorID != nil {
		v.SetCreatedBy(*actorID)
	}
	return v, nil
}

// UpdateContact updates the vendor's contact details
func (v *Vendor) UpdateContact(email, phone, address string) {
	v.Email = email
	v.Phone = phone
	v.Address = address
	v.Touch()
	v.IncrementVersion()
}

// Deactivate marks the vendor inactive. Existing documents keep their
// vendor reference; new documents should not target an inactive vendor.
func (v *Vendor) Deactivate() error {
	if v.Status == VendorStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Vendor is already inactive")
	}
	v.Status = VendorStatusInactive
	v.Touch()
	v.IncrementVersion()
	return nil
}

// IsActive returns true if the vendor is active
func (v *Vendor) IsActive() bool {
	return v.Status == VendorStatusActive
}
