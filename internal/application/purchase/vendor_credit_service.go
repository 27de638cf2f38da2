package purchase

import (
	"context"
	"fmt"

	"github.com/finbooks/backend/internal/domain/partner"
	"github.com/finbooks/backend/internal/domain/purchase"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VendorCreditService issues vendor credits and applies them across bills
type VendorCreditService struct {
	uow        UnitOfWork
	creditRepo purchase.VendorCreditRepository
	vendorRepo partner.VendorRepository
	events     shared.EventPublisher
}

// NewVendorCreditService creates a new VendorCreditService
func NewVendorCreditService(
	uow UnitOfWork,
	creditRepo purchase.VendorCreditRepository,
	vendorRepo partner.VendorRepository,
	events shared.EventPublisher,
) *VendorCreditService {
	return &VendorCreditService{
		uow:        uow,
		creditRepo: creditRepo,
		vendorRepo: vendorRepo,
		events:     events,
	}
}

// CreateCreditRequest represents a request to issue a vendor credit
type CreateCreditRequest struct {
	OrgID    uuid.UUID
	VendorID uuid.UUID
	Amount   valueobject.Money
	Remark   string
	ActorID  *uuid.UUID
}

// CreateCredit issues a new vendor credit with its full amount available
func (s *VendorCreditService) CreateCredit(ctx context.Context, req CreateCreditRequest) (*purchase.VendorCredit, error) {
	vendor, err := s.vendorRepo.FindByIDForOrg(ctx, req.OrgID, req.VendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	if vendor == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Vendor not found")
	}

	var credit *purchase.VendorCredit
	err = s.uow.Do(ctx, func(repos Repos) error {
		creditNumber, err := repos.Credits.GenerateCreditNumber(ctx, req.OrgID)
		if err != nil {
			return fmt.Errorf("failed to generate credit number: %w", err)
		}

		credit, err = purchase.NewVendorCredit(req.OrgID, creditNumber, vendor.ID, vendor.Name,
			req.Amount, req.ActorID)
		if err != nil {
			return err
		}
		if req.Remark != "" {
			credit.SetRemark(req.Remark)
		}

		return repos.Credits.Save(ctx, credit)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, credit.GetDomainEvents())
	credit.ClearDomainEvents()

	return credit, nil
}

// ApplyCreditRequest represents a request to apply a credit across bills
type ApplyCreditRequest struct {
	OrgID    uuid.UUID
	CreditID uuid.UUID
	// Allocations maps bill ID to the amount of credit applied to that
	// bill. The sum must not exceed the credit's remaining balance and
	// every bill must belong to the credit's vendor.
	Allocations map[uuid.UUID]decimal.Decimal
	ActorID     *uuid.UUID
}

// ApplyCreditResult carries the updated credit and the bills it touched
type ApplyCreditResult struct {
	Credit *purchase.VendorCredit
	Bills  []*purchase.Bill
}

// ApplyCredit distributes a credit across bills, all-or-nothing. The
// credit balance is validated against its persisted state inside the
// transaction, so an exhausted credit rejects replays.
func (s *VendorCreditService) ApplyCredit(ctx context.Context, req ApplyCreditRequest) (*ApplyCreditResult, error) {
	if len(req.Allocations) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "At least one bill allocation is required")
	}
	total := decimal.Zero
	for billID, amount := range req.Allocations {
		if amount.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Allocation to bill %s must be positive", billID))
		}
		total = total.Add(amount)
	}

	var result *ApplyCreditResult
	err := s.uow.Do(ctx, func(repos Repos) error {
		credit, err := repos.Credits.FindByIDForOrg(ctx, req.OrgID, req.CreditID)
		if err != nil {
			return fmt.Errorf("failed to get credit: %w", err)
		}
		if credit == nil {
			return shared.NewDomainError("NOT_FOUND", "Vendor credit not found")
		}
		if total.GreaterThan(credit.Balance) {
			return shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Total allocation %s exceeds credit balance %s",
					total.StringFixed(2), credit.Balance.StringFixed(2)))
		}

		bills := make([]*purchase.Bill, 0, len(req.Allocations))
		for _, billID := range sortedBillIDs(req.Allocations) {
			amount := valueobject.NewMoneyINR(req.Allocations[billID])

			bill, err := repos.Bills.FindByIDForOrg(ctx, req.OrgID, billID)
			if err != nil {
				return fmt.Errorf("failed to get bill %s: %w", billID, err)
			}
			if bill == nil {
				return shared.NewDomainError("NOT_FOUND",
					fmt.Sprintf("Bill %s not found", billID))
			}
			if bill.VendorID != credit.VendorID {
				return shared.NewDomainError("VALIDATION_ERROR",
					fmt.Sprintf("Bill %s belongs to a different vendor than credit %s",
						bill.BillNumber, credit.CreditNumber))
			}

			if err := bill.ApplyCredit(credit.ID, amount, req.ActorID); err != nil {
				return err
			}
			if err := credit.Apply(bill.ID, bill.BillNumber, amount, req.ActorID); err != nil {
				return err
			}

			if err := repos.Bills.SaveWithLock(ctx, bill); err != nil {
				return err
			}
			bills = append(bills, bill)
		}

		if err := repos.Credits.SaveWithLock(ctx, credit); err != nil {
			return err
		}

		result = &ApplyCreditResult{Credit: credit, Bills: bills}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, result.Credit.GetDomainEvents())
	result.Credit.ClearDomainEvents()
	for _, bill := range result.Bills {
		s.publish(ctx, bill.GetDomainEvents())
		bill.ClearDomainEvents()
	}

	return result, nil
}

// DeleteCredit removes a vendor credit. A credit that has been applied to
// any bill is never deleted while those bills still reference it.
func (s *VendorCreditService) DeleteCredit(ctx context.Context, orgID, creditID uuid.UUID) error {
	credit, err := s.creditRepo.FindByIDForOrg(ctx, orgID, creditID)
	if err != nil {
		return fmt.Errorf("failed to get credit: %w", err)
	}
	if credit == nil {
		return shared.NewDomainError("NOT_FOUND", "Vendor credit not found")
	}
	if credit.IsApplied() {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Vendor credit %s has been applied to bills and cannot be deleted", credit.CreditNumber))
	}

	return s.creditRepo.Delete(ctx, orgID, creditID)
}

// GetCredit returns a vendor credit by ID
func (s *VendorCreditService) GetCredit(ctx context.Context, orgID, creditID uuid.UUID) (*purchase.VendorCredit, error) {
	credit, err := s.creditRepo.FindByIDForOrg(ctx, orgID, creditID)
	if err != nil {
		return nil, fmt.Errorf("failed to get credit: %w", err)
	}
	if credit == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Vendor credit not found")
	}
	return credit, nil
}

// ListCredits returns vendor credits for an organization with filtering and pagination
func (s *VendorCreditService) ListCredits(ctx context.Context, orgID uuid.UUID, filter purchase.VendorCreditFilter) (shared.Paginated[purchase.VendorCredit], error) {
	credits, err := s.creditRepo.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return shared.Paginated[purchase.VendorCredit]{}, fmt.Errorf("failed to list credits: %w", err)
	}
	total, err := s.creditRepo.CountForOrg(ctx, orgID, filter)
	if err != nil {
		return shared.Paginated[purchase.VendorCredit]{}, fmt.Errorf("failed to count credits: %w", err)
	}
	return shared.NewPaginated(credits, total, filter.Page, filter.PageSize), nil
}

func (s *VendorCreditService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.events == nil || len(events) == 0 {
		return
	}
	_ = s.events.Publish(ctx, events...)
}
