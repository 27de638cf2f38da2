package partner

import (
	"context"
	"fmt"

	"github.com/finbooks/backend/internal/domain/partner"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DirectoryService manages the vendor and customer directory. Documents
// only reference parties by ID with a denormalized name stamp; the
// directory is the sole writer of party records.
type DirectoryService struct {
	vendorRepo   partner.VendorRepository
	customerRepo partner.CustomerRepository
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(
	vendorRepo partner.VendorRepository,
	customerRepo partner.CustomerRepository,
) *DirectoryService {
	return &DirectoryService{
		vendorRepo:   vendorRepo,
		customerRepo: customerRepo,
	}
}

// CreatePartyRequest represents a request to register a vendor or customer
type CreatePartyRequest struct {
	OrgID   uuid.UUID
	Name    string
	Email   string
	Phone   string
	GSTIN   string
	ActorID *uuid.UUID
}

// CreateVendor registers a new active vendor
func (s *DirectoryService) CreateVendor(ctx context.Context, req CreatePartyRequest) (*partner.Vendor, error) {
	vendor, err := partner.NewVendor(req.OrgID, req.Name, req.Email, req.Phone, req.GSTIN, req.ActorID)
	if err != nil {
		return nil, err
	}
	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to save vendor: %w", err)
	}
	return vendor, nil
}

// GetVendor returns a vendor by ID
func (s *DirectoryService) GetVendor(ctx context.Context, orgID, vendorID uuid.UUID) (*partner.Vendor, error) {
	vendor, err := s.vendorRepo.FindByIDForOrg(ctx, orgID, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	if vendor == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Vendor not found")
	}
	return vendor, nil
}

// ListVendors returns vendors for an organization
func (s *DirectoryService) ListVendors(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]partner.Vendor, error) {
	vendors, err := s.vendorRepo.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	return vendors, nil
}

// UpdateContactRequest carries the editable contact fields of a party
type UpdateContactRequest struct {
	Email   string
	Phone   string
	Address string
}

// UpdateVendorContact updates a vendor's contact details
func (s *DirectoryService) UpdateVendorContact(ctx context.Context, orgID, vendorID uuid.UUID, req UpdateContactRequest) (*partner.Vendor, error) {
	vendor, err := s.GetVendor(ctx, orgID, vendorID)
	if err != nil {
		return nil, err
	}
	vendor.UpdateContact(req.Email, req.Phone, req.Address)
	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to save vendor: %w", err)
	}
	return vendor, nil
}

// DeactivateVendor marks a vendor inactive; existing documents keep
// their vendor reference
func (s *DirectoryService) DeactivateVendor(ctx context.Context, orgID, vendorID uuid.UUID) (*partner.Vendor, error) {
	vendor, err := s.GetVendor(ctx, orgID, vendorID)
	if err != nil {
		return nil, err
	}
	if err := vendor.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to save vendor: %w", err)
	}
	return vendor, nil
}

// CreateCustomer registers a new active customer
func (s *DirectoryService) CreateCustomer(ctx context.Context, req CreatePartyRequest) (*partner.Customer, error) {
	customer, err := partner.NewCustomer(req.OrgID, req.Name, req.Email, req.Phone, req.GSTIN, req.ActorID)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}
	return customer, nil
}

// GetCustomer returns a customer by ID
func (s *DirectoryService) GetCustomer(ctx context.Context, orgID, customerID uuid.UUID) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByIDForOrg(ctx, orgID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	return customer, nil
}

// ListCustomers returns customers for an organization
func (s *DirectoryService) ListCustomers(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	customers, err := s.customerRepo.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// UpdateCustomerContact updates a customer's contact details
func (s *DirectoryService) UpdateCustomerContact(ctx context.Context, orgID, customerID uuid.UUID, req UpdateContactRequest) (*partner.Customer, error) {
	customer, err := s.GetCustomer(ctx, orgID, customerID)
	if err != nil {
		return nil, err
	}
	customer.UpdateContact(req.Email, req.Phone, req.Address)
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}
	return customer, nil
}

// DeactivateCustomer marks a customer inactive
func (s *DirectoryService) DeactivateCustomer(ctx context.Context, orgID, customerID uuid.UUID) (*partner.Customer, error) {
	customer, err := s.GetCustomer(ctx, orgID, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}
	return customer, nil
}
