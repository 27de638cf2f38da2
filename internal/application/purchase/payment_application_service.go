package purchase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/finbooks/backend/internal/domain/partner"
	"github.com/finbooks/backend/internal/domain/purchase"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentApplicationService records payments to vendors and distributes
// them across bills. Every operation that touches a payment and its bills
// commits as one transaction.
type PaymentApplicationService struct {
	uow         UnitOfWork
	paymentRepo purchase.PaymentMadeRepository
	vendorRepo  partner.VendorRepository
	events      shared.EventPublisher
}

// NewPaymentApplicationService creates a new PaymentApplicationService
func NewPaymentApplicationService(
	uow UnitOfWork,
	paymentRepo purchase.PaymentMadeRepository,
	vendorRepo partner.VendorRepository,
	events shared.EventPublisher,
) *PaymentApplicationService {
	return &PaymentApplicationService{
		uow:         uow,
		paymentRepo: paymentRepo,
		vendorRepo:  vendorRepo,
		events:      events,
	}
}

// ApplyPaymentRequest represents a request to record and distribute a payment
type ApplyPaymentRequest struct {
	OrgID         uuid.UUID
	VendorID      uuid.UUID
	PaymentAmount valueobject.Money
	Mode          purchase.PaymentMode
	Reference     string
	PaymentDate   time.Time
	// Allocations maps bill ID to the amount applied to that bill. No
	// single allocation may exceed the bill's current balance due; the
	// sum is not required to match the payment amount, the remainder
	// stays on account.
	Allocations map[uuid.UUID]decimal.Decimal
	ActorID     *uuid.UUID
}

// ApplyPaymentResult carries the persisted payment and the bills it touched
type ApplyPaymentResult struct {
	Payment *purchase.PaymentMade
	Bills   []*purchase.Bill
}

// ApplyPayment creates a payment and applies each allocation to its bill.
// Either the payment record and every bill mutation are persisted, or
// none are.
func (s *PaymentApplicationService) ApplyPayment(ctx context.Context, req ApplyPaymentRequest) (*ApplyPaymentResult, error) {
	vendor, err := s.vendorRepo.FindByIDForOrg(ctx, req.OrgID, req.VendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	if vendor == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Vendor not found")
	}

	for billID, amount := range req.Allocations {
		if amount.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Allocation to bill %s must be positive", billID))
		}
	}

	var result *ApplyPaymentResult
	err = s.uow.Do(ctx, func(repos Repos) error {
		paymentNumber, err := repos.Payments.GeneratePaymentNumber(ctx, req.OrgID)
		if err != nil {
			return fmt.Errorf("failed to generate payment number: %w", err)
		}

		payment, err := purchase.NewPaymentMade(req.OrgID, paymentNumber, vendor.ID, vendor.Name,
			req.PaymentAmount, req.Mode, req.PaymentDate, req.ActorID)
		if err != nil {
			return err
		}
		if req.Reference != "" {
			if err := payment.SetReference(req.Reference); err != nil {
				return err
			}
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
			if bill.VendorID != vendor.ID {
				return shared.NewDomainError("VALIDATION_ERROR",
					fmt.Sprintf("Bill %s belongs to a different vendor", bill.BillNumber))
			}

			if err := bill.RecordPayment(payment.ID, amount, payment.Mode.String(), req.ActorID); err != nil {
				return err
			}
			if err := payment.AllocateToBill(bill.ID, bill.BillNumber, amount, bill.TotalAmount, bill.BalanceDue); err != nil {
				return err
			}

			if err := repos.Bills.SaveWithLock(ctx, bill); err != nil {
				return err
			}
			bills = append(bills, bill)
		}

		if err := repos.Payments.Save(ctx, payment); err != nil {
			return err
		}

		result = &ApplyPaymentResult{Payment: payment, Bills: bills}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, result.Payment)
	for _, bill := range result.Bills {
		s.publishBill(ctx, bill)
	}

	return result, nil
}

// ReversePayment backs every allocation out of its bill and marks the
// payment reversed. Fails closed: if any bill no longer carries a
// matching payment entry, nothing is changed.
func (s *PaymentApplicationService) ReversePayment(ctx context.Context, orgID, paymentID uuid.UUID, actorID *uuid.UUID) (*ApplyPaymentResult, error) {
	var result *ApplyPaymentResult
	err := s.uow.Do(ctx, func(repos Repos) error {
		payment, err := repos.Payments.FindByIDForOrg(ctx, orgID, paymentID)
		if err != nil {
			return fmt.Errorf("failed to get payment: %w", err)
		}
		if payment == nil {
			return shared.NewDomainError("NOT_FOUND", "Payment not found")
		}

		removed, err := payment.Reverse(actorID)
		if err != nil {
			return err
		}

		bills := make([]*purchase.Bill, 0, len(removed))
		for _, alloc := range removed {
			bill, err := repos.Bills.FindByIDForOrg(ctx, orgID, alloc.BillID)
			if err != nil {
				return fmt.Errorf("failed to get bill %s: %w", alloc.BillID, err)
			}
			if bill == nil {
				return shared.NewDomainError("VALIDATION_ERROR",
					fmt.Sprintf("Bill %s referenced by payment %s no longer exists", alloc.BillID, payment.PaymentNumber))
			}

			if _, err := bill.RemovePaymentsFrom(payment.ID, actorID); err != nil {
				return err
			}

			if err := repos.Bills.SaveWithLock(ctx, bill); err != nil {
				return err
			}
			bills = append(bills, bill)
		}

		if err := repos.Payments.SaveWithLock(ctx, payment); err != nil {
			return err
		}

		result = &ApplyPaymentResult{Payment: payment, Bills: bills}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, result.Payment)
	for _, bill := range result.Bills {
		s.publishBill(ctx, bill)
	}

	return result, nil
}

// DeletePayment removes a payment. A payment with live allocations is
// never deleted directly; it must be reversed first.
func (s *PaymentApplicationService) DeletePayment(ctx context.Context, orgID, paymentID uuid.UUID) error {
	payment, err := s.paymentRepo.FindByIDForOrg(ctx, orgID, paymentID)
	if err != nil {
		return fmt.Errorf("failed to get payment: %w", err)
	}
	if payment == nil {
		return shared.NewDomainError("NOT_FOUND", "Payment not found")
	}
	if payment.HasAllocations() {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Payment %s has bill allocations and cannot be deleted, reverse it first", payment.PaymentNumber))
	}

	return s.paymentRepo.Delete(ctx, orgID, paymentID)
}

// GetPayment returns a payment by ID
func (s *PaymentApplicationService) GetPayment(ctx context.Context, orgID, paymentID uuid.UUID) (*purchase.PaymentMade, error) {
	payment, err := s.paymentRepo.FindByIDForOrg(ctx, orgID, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if payment == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment not found")
	}
	return payment, nil
}

// ListPayments returns payments for an organization with filtering and pagination
func (s *PaymentApplicationService) ListPayments(ctx context.Context, orgID uuid.UUID, filter purchase.PaymentMadeFilter) (shared.Paginated[purchase.PaymentMade], error) {
	payments, err := s.paymentRepo.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return shared.Paginated[purchase.PaymentMade]{}, fmt.Errorf("failed to list payments: %w", err)
	}
	total, err := s.paymentRepo.CountForOrg(ctx, orgID, filter)
	if err != nil {
		return shared.Paginated[purchase.PaymentMade]{}, fmt.Errorf("failed to count payments: %w", err)
	}
	return shared.NewPaginated(payments, total, filter.Page, filter.PageSize), nil
}

func (s *PaymentApplicationService) publish(ctx context.Context, payment *purchase.PaymentMade) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, payment.GetDomainEvents()...)
	payment.ClearDomainEvents()
}

func (s *PaymentApplicationService) publishBill(ctx context.Context, bill *purchase.Bill) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, bill.GetDomainEvents()...)
	bill.ClearDomainEvents()
}

// sortedBillIDs returns the allocation bill IDs in a stable order so
// concurrent applications lock bills in the same sequence.
func sortedBillIDs(allocations map[uuid.UUID]decimal.Decimal) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(allocations))
	for id := range allocations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}
