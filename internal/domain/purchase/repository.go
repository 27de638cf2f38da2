package purchase

import (
	"context"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BillFilter defines filtering options for bill queries
type BillFilter struct {
	shared.Filter
	VendorID *uuid.UUID
	Status   *BillStatus
	FromDate *time.Time
	ToDate   *time.Time
	Overdue  *bool
}

// BillRepository defines the interface for bill persistence
type BillRepository interface {
	// FindByIDForOrg finds a bill by ID for an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Bill, error)

	// FindByNumber finds a bill by number for an organization
	FindByNumber(ctx context.Context, orgID uuid.UUID, billNumber string) (*Bill, error)

	// FindAllForOrg finds all bills for an organization with filtering
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter BillFilter) ([]Bill, error)

	// FindOutstandingByVendor finds all open or partially paid bills for a vendor
	FindOutstandingByVendor(ctx context.Context, orgID, vendorID uuid.UUID) ([]Bill, error)

	// Save creates or updates a bill
	Save(ctx context.Context, bill *Bill) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, bill *Bill) error

	// Delete removes a bill. Fails with a validation error if the bill
	// carries any applied payment or credit.
	Delete(ctx context.Context, orgID, id uuid.UUID) error

	// CountForOrg counts bills for an organization
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter BillFilter) (int64, error)

	// GenerateBillNumber generates a unique bill number for an organization
	GenerateBillNumber(ctx context.Context, orgID uuid.UUID) (string, error)
}

// PaymentMadeFilter defines filtering options for payment queries
type PaymentMadeFilter struct {
	shared.Filter
	VendorID *uuid.UUID
	FromDate *time.Time
	ToDate   *time.Time
}

// PaymentMadeRepository defines the interface for payment made persistence
type PaymentMadeRepository interface {
	// FindByIDForOrg finds a payment by ID for an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*PaymentMade, error)

	// FindAllForOrg finds all payments for an organization with filtering
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter PaymentMadeFilter) ([]PaymentMade, error)

	// Save creates or updates a payment
	Save(ctx context.Context, payment *PaymentMade) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payment *PaymentMade) error

	// Delete removes a payment. Fails with a validation error if the
	// payment still has live bill allocations.
	Delete(ctx context.Context, orgID, id uuid.UUID) error

	// CountForOrg counts payments for an organization
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter PaymentMadeFilter) (int64, error)

	// GeneratePaymentNumber generates a unique payment number for an organization
	GeneratePaymentNumber(ctx context.Context, orgID uuid.UUID) (string, error)
}

// VendorCreditFilter defines filtering options for vendor credit queries
type VendorCreditFilter struct {
	shared.Filter
	VendorID *uuid.UUID
	Status   *VendorCreditStatus
}

// VendorCreditRepository defines the interface for vendor credit persistence
type VendorCreditRepository interface {
	// FindByIDForOrg finds a vendor credit by ID for an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*VendorCredit, error)

	// FindAllForOrg finds all vendor credits for an organization with filtering
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter VendorCreditFilter) ([]VendorCredit, error)

	// FindOpenByVendor finds all open credits for a vendor
	FindOpenByVendor(ctx context.Context, orgID, vendorID uuid.UUID) ([]VendorCredit, error)

	// Save creates or updates a vendor credit
	Save(ctx context.Context, credit *VendorCredit) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, credit *VendorCredit) error

	// Delete removes a vendor credit. Fails with a validation error if the
	// credit has been applied to any bill.
	Delete(ctx context.Context, orgID, id uuid.UUID) error

	// CountForOrg counts vendor credits for an organization
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter VendorCreditFilter) (int64, error)

	// GenerateCreditNumber generates a unique credit number for an organization
	GenerateCreditNumber(ctx context.Context, orgID uuid.UUID) (string, error)
}
