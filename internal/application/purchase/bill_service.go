package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/partner"
	"github.com/finbooks/backend/internal/domain/purchase"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// BillService handles bill lifecycle operations
type BillService struct {
	uow        UnitOfWork
	billRepo   purchase.BillRepository
	vendorRepo partner.VendorRepository
	events     shared.EventPublisher
}

// NewBillService creates a new BillService
func NewBillService(
	uow UnitOfWork,
	billRepo purchase.BillRepository,
	vendorRepo partner.VendorRepository,
	events shared.EventPublisher,
) *BillService {
	return &BillService{
		uow:        uow,
		billRepo:   billRepo,
		vendorRepo: vendorRepo,
		events:     events,
	}
}

// CreateBillRequest represents a request to create a bill
type CreateBillRequest struct {
	OrgID       uuid.UUID
	VendorID    uuid.UUID
	TotalAmount valueobject.Money
	BillDate    time.Time
	DueDate     *time.Time
	Notes       string
	ActorID     *uuid.UUID
}

// CreateBill creates a new bill against an active vendor
func (s *BillService) CreateBill(ctx context.Context, req CreateBillRequest) (*purchase.Bill, error) {
	vendor, err := s.vendorRepo.FindByIDForOrg(ctx, req.OrgID, req.VendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	if vendor == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Vendor not found")
	}
	if !vendor.IsActive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Vendor %s is inactive", vendor.Name))
	}

	var bill *purchase.Bill
	err = s.uow.Do(ctx, func(repos Repos) error {
		billNumber, err := repos.Bills.GenerateBillNumber(ctx, req.OrgID)
		if err != nil {
			return fmt.Errorf("failed to generate bill number: %w", err)
		}

		bill, err = purchase.NewBill(req.OrgID, billNumber, vendor.ID, vendor.Name,
			req.TotalAmount, req.BillDate, req.DueDate, req.ActorID)
		if err != nil {
			return err
		}
		if req.Notes != "" {
			bill.SetRemark(req.Notes)
		}

		return repos.Bills.Save(ctx, bill)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, bill)

	return bill, nil
}

// GetBill returns a bill by ID
func (s *BillService) GetBill(ctx context.Context, orgID, billID uuid.UUID) (*purchase.Bill, error) {
	bill, err := s.billRepo.FindByIDForOrg(ctx, orgID, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	if bill == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Bill not found")
	}
	return bill, nil
}

// ListBills returns bills for an organization with filtering and pagination
func (s *BillService) ListBills(ctx context.Context, orgID uuid.UUID, filter purchase.BillFilter) (shared.Paginated[purchase.Bill], error) {
	bills, err := s.billRepo.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return shared.Paginated[purchase.Bill]{}, fmt.Errorf("failed to list bills: %w", err)
	}
	total, err := s.billRepo.CountForOrg(ctx, orgID, filter)
	if err != nil {
		return shared.Paginated[purchase.Bill]{}, fmt.Errorf("failed to count bills: %w", err)
	}
	return shared.NewPaginated(bills, total, filter.Page, filter.PageSize), nil
}

// VoidBill voids a bill that has no applied payments or credits
func (s *BillService) VoidBill(ctx context.Context, orgID, billID uuid.UUID, reason string, actorID *uuid.UUID) (*purchase.Bill, error) {
	var bill *purchase.Bill
	err := s.uow.Do(ctx, func(repos Repos) error {
		var err error
		bill, err = repos.Bills.FindByIDForOrg(ctx, orgID, billID)
		if err != nil {
			return fmt.Errorf("failed to get bill: %w", err)
		}
		if bill == nil {
			return shared.NewDomainError("NOT_FOUND", "Bill not found")
		}

		if err := bill.Void(reason, actorID); err != nil {
			return err
		}

		return repos.Bills.SaveWithLock(ctx, bill)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, bill)

	return bill, nil
}

// DeleteBill removes a bill. A bill carrying any payment or credit entry
// is never deleted; void or reverse first.
func (s *BillService) DeleteBill(ctx context.Context, orgID, billID uuid.UUID) error {
	bill, err := s.billRepo.FindByIDForOrg(ctx, orgID, billID)
	if err != nil {
		return fmt.Errorf("failed to get bill: %w", err)
	}
	if bill == nil {
		return shared.NewDomainError("NOT_FOUND", "Bill not found")
	}
	if bill.HasAllocations() {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Bill %s has applied payments or credits and cannot be deleted", bill.BillNumber))
	}

	return s.billRepo.Delete(ctx, orgID, billID)
}

func (s *BillService) publish(ctx context.Context, bill *purchase.Bill) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, bill.GetDomainEvents()...)
	bill.ClearDomainEvents()
}
