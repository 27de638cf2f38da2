package purchase

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMode represents how a payment was made
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "CASH"
	PaymentModeBankTransfer PaymentMode = "BANK_TRANSFER"
	PaymentModeCheque       PaymentMode = "CHEQUE"
	PaymentModeCard         PaymentMode = "CARD"
	PaymentModeUPI          PaymentMode = "UPI"
)

// IsValid checks if the payment mode is valid
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeBankTransfer, PaymentModeCheque, PaymentModeCard, PaymentModeUPI:
		return true
	}
	return false
}

// String returns the string representation of PaymentMode
func (m PaymentMode) String() string {
	return string(m)
}

// BillAllocation is the canonical record of an amount from a payment made
// applied to a specific bill. The bill total and balance-after are snapshots
// taken at application time for audit; the bill remains authoritative.
type BillAllocation struct {
	ID               uuid.UUID       `json:"id"`
	BillID           uuid.UUID       `json:"bill_id"`
	BillNumber       string          `json:"bill_number"`
	Amount           decimal.Decimal `json:"amount"`
	BillTotal        decimal.Decimal `json:"bill_total"`
	BillBalanceAfter decimal.Decimal `json:"bill_balance_after"`
	AppliedAt        time.Time       `json:"applied_at"`
}

// BillAllocations is a JSONB-stored list of bill allocations
type BillAllocations []BillAllocation

// Value implements driver.Valuer
func (a BillAllocations) Value() (driver.Value, error) {
	if a == nil {
		a = BillAllocations{}
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *BillAllocations) Scan(value any) error {
	return shared.ScanJSON(value, a, "BillAllocations")
}

// PaymentMade represents a cash movement to a vendor, distributable across
// one or more of that vendor's bills. Any amount not allocated to a bill is
// carried as on-account (UnallocatedAmount) and is never lost.
type PaymentMade struct {
	shared.OrgAggregateRoot
	PaymentNumber     string
	VendorID          uuid.UUID
	VendorName        string
	Amount            decimal.Decimal
	AllocatedAmount   decimal.Decimal
	UnallocatedAmount decimal.Decimal
	Mode              PaymentMode
	Reference         string
	PaymentDate       time.Time
	Allocations       BillAllocations
	ActivityLog       shared.ActivityLog
	Remark            string
	ReversedAt        *time.Time
}

// NewPaymentMade creates a new payment made record
func NewPaymentMade(
	orgID uuid.UUID,
	paymentNumber string,
	vendorID uuid.UUID,
	vendorName string,
	amount valueobject.Money,
	mode PaymentMode,
	paymentDate time.Time,
	actorID *uuid.UUID,
) (*PaymentMade, error) {
	if paymentNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment number cannot be empty")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Vendor ID cannot be empty")
	}
	if vendorName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Vendor name cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment amount must be positive")
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment mode is not valid")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	p := &PaymentMade{
		OrgAggregateRoot:  shared.NewOrgAggregateRoot(orgID),
		PaymentNumber:     paymentNumber,
		VendorID:          vendorID,
		VendorName:        vendorName,
		Amount:            amount.Amount(),
		AllocatedAmount:   decimal.Zero,
		UnallocatedAmount: amount.Amount(),
		Mode:              mode,
		PaymentDate:       paymentDate,
		Allocations:       make(BillAllocations, 0),
		ActivityLog:       shared.ActivityLog{},
	}
	if actorID != nil {
		p.SetCreatedBy(*actorID)
	}
	p.ActivityLog = p.ActivityLog.Append("payment.created",
		fmt.Sprintf("Payment %s of %s recorded", paymentNumber, amount.String()), actorID)

	p.AddDomainEvent(NewPaymentMadeCreatedEvent(p))

	return p, nil
}

// AllocateToBill records an allocation of this payment to a bill, with
// snapshots of the bill's total and its balance after application.
// The per-bill cap (allocation must not exceed the bill's balance due) is
// enforced on the Bill aggregate; the sum of allocations is not required to
// match the payment amount, the remainder stays on account.
func (p *PaymentMade) AllocateToBill(billID uuid.UUID, billNumber string, amount valueobject.Money, billTotal, billBalanceAfter decimal.Decimal) error {
	if p.ReversedAt != nil {
		return shared.NewDomainError("INVALID_STATE", "Cannot allocate a reversed payment")
	}
	if billID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Bill ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Allocation amount must be positive")
	}
	for _, alloc := range p.Allocations {
		if alloc.BillID == billID {
			return shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Payment already allocated to bill %s", billNumber))
		}
	}

	p.Allocations = append(p.Allocations, BillAllocation{
		ID:               uuid.New(),
		BillID:           billID,
		BillNumber:       billNumber,
		Amount:           amount.Amount(),
		BillTotal:        billTotal,
		BillBalanceAfter: billBalanceAfter,
		AppliedAt:        time.Now(),
	})

	p.AllocatedAmount = p.AllocatedAmount.Add(amount.Amount())
	p.UnallocatedAmount = p.Amount.Sub(p.AllocatedAmount)
	if p.UnallocatedAmount.IsNegative() {
		p.UnallocatedAmount = decimal.Zero
	}

	p.Touch()
	p.IncrementVersion()

	return nil
}

// Reverse removes every allocation, returning them so the caller can back
// the matching entries out of each bill. A reversed payment keeps its
// on-account amount and becomes deletable.
func (p *PaymentMade) Reverse(actorID *uuid.UUID) (BillAllocations, error) {
	if p.ReversedAt != nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Payment is already reversed")
	}
	if len(p.Allocations) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment has no allocations to reverse")
	}

	removed := p.Allocations
	now := time.Now()
	p.Allocations = make(BillAllocations, 0)
	p.AllocatedAmount = decimal.Zero
	p.UnallocatedAmount = p.Amount
	p.ReversedAt = &now
	p.ActivityLog = p.ActivityLog.Append("payment.reversed",
		fmt.Sprintf("%d bill allocation(s) reversed", len(removed)), actorID)
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentMadeReversedEvent(p, removed))

	return removed, nil
}

// SetReference sets the external payment reference (bank txn, cheque number)
func (p *PaymentMade) SetReference(reference string) error {
	if len(reference) > 100 {
		return shared.NewDomainError("VALIDATION_ERROR", "Payment reference cannot exceed 100 characters")
	}
	p.Reference = reference
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetRemark sets the remark
func (p *PaymentMade) SetRemark(remark string) {
	p.Remark = remark
	p.Touch()
	p.IncrementVersion()
}

// HasAllocations returns true if the payment still has live bill allocations.
// A payment with live allocations must not be deleted; reverse it first.
func (p *PaymentMade) HasAllocations() bool {
	return len(p.Allocations) > 0
}

// IsReversed returns true if the payment has been reversed
func (p *PaymentMade) IsReversed() bool {
	return p.ReversedAt != nil
}

// GetAmountMoney returns the payment amount as Money
func (p *PaymentMade) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyINR(p.Amount)
}

// AllocationFor returns the allocation for a specific bill, or nil
func (p *PaymentMade) AllocationFor(billID uuid.UUID) *BillAllocation {
	for i := range p.Allocations {
		if p.Allocations[i].BillID == billID {
			return &p.Allocations[i]
		}
	}
	return nil
}
