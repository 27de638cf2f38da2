package partner

import (
	"context"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// VendorRepository defines the interface for vendor persistence
type VendorRepository interface {
	// FindByIDForOrg finds a vendor by ID for an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Vendor, error)

	// FindAllForOrg finds all vendors for an organization
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Vendor, error)

	// Save creates or updates a vendor
	Save(ctx context.Context, vendor *Vendor) error
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByIDForOrg finds a customer by ID for an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Customer, error)

	// FindAllForOrg finds all customers for an organization
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error
}
