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

// BillStatus represents the derived status of a bill
type BillStatus string

const (
	BillStatusOpen          BillStatus = "OPEN"           // Unpaid, balance due = total
	BillStatusPartiallyPaid BillStatus = "PARTIALLY_PAID" // 0 < paid < total
	BillStatusPaid          BillStatus = "PAID"           // Fully settled, balance due = 0
	BillStatusVoid          BillStatus = "VOID"           // Explicitly voided before any payment
)

// IsValid checks if the status is a valid BillStatus
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusOpen, BillStatusPartiallyPaid, BillStatusPaid, BillStatusVoid:
		return true
	}
	return false
}

// String returns the string representation of BillStatus
func (s BillStatus) String() string {
	return string(s)
}

// CanApplyPayment returns true if payments or credits can be applied in this status
func (s BillStatus) CanApplyPayment() bool {
	return s == BillStatusOpen || s == BillStatusPartiallyPaid
}

// PaymentEntry records money from a payment made applied against this bill
type PaymentEntry struct {
	ID            uuid.UUID       `json:"id"`
	PaymentMadeID uuid.UUID       `json:"payment_made_id"`
	Amount        decimal.Decimal `json:"amount"`
	Mode          string          `json:"mode"`
	AppliedAt     time.Time       `json:"applied_at"`
}

// NewPaymentEntry creates a new payment entry
func NewPaymentEntry(paymentMadeID uuid.UUID, amount valueobject.Money, mode string) PaymentEntry {
	return PaymentEntry{
		ID:            uuid.New(),
		PaymentMadeID: paymentMadeID,
		Amount:        amount.Amount(),
		Mode:          mode,
		AppliedAt:     time.Now(),
	}
}

// PaymentEntries is a JSONB-stored list of payment entries
type PaymentEntries []PaymentEntry

// Value implements driver.Valuer
func (e PaymentEntries) Value() (driver.Value, error) {
	if e == nil {
		e = PaymentEntries{}
	}
	return json.Marshal(e)
}

// Scan implements sql.Scanner
func (e *PaymentEntries) Scan(value any) error {
	return shared.ScanJSON(value, e, "PaymentEntries")
}

// CreditEntry records vendor credit applied against this bill
type CreditEntry struct {
	ID             uuid.UUID       `json:"id"`
	VendorCreditID uuid.UUID       `json:"vendor_credit_id"`
	Amount         decimal.Decimal `json:"amount"`
	AppliedAt      time.Time       `json:"applied_at"`
}

// NewCreditEntry creates a new credit entry
func NewCreditEntry(vendorCreditID uuid.UUID, amount valueobject.Money) CreditEntry {
	return CreditEntry{
		ID:             uuid.New(),
		VendorCreditID: vendorCreditID,
		Amount:         amount.Amount(),
		AppliedAt:      time.Now(),
	}
}

// CreditEntries is a JSONB-stored list of credit entries
type CreditEntries []CreditEntry

// Value implements driver.Valuer
func (e CreditEntries) Value() (driver.Value, error) {
	if e == nil {
		e = CreditEntries{}
	}
	return json.Marshal(e)
}

// Scan implements sql.Scanner
func (e *CreditEntries) Scan(value any) error {
	return shared.ScanJSON(value, e, "CreditEntries")
}

// Bill represents a purchase-side document: money owed to a vendor.
// PaidAmount, BalanceDue and Status are derived values; only the ledger
// recompute function writes them (VOID being an explicit transition).
type Bill struct {
	shared.OrgAggregateRoot
	BillNumber       string
	VendorID         uuid.UUID
	VendorName       string
	TotalAmount      decimal.Decimal
	PaidAmount       decimal.Decimal
	BalanceDue       decimal.Decimal
	Status           BillStatus
	PaymentsRecorded PaymentEntries
	CreditsApplied   CreditEntries
	ActivityLog      shared.ActivityLog
	BillDate         time.Time
	DueDate          *time.Time
	Remark           string
	VoidedAt         *time.Time
	VoidReason       string
}

// NewBill creates a new bill
func NewBill(
	orgID uuid.UUID,
	billNumber string,
	vendorID uuid.UUID,
	vendorName string,
	total valueobject.Money,
	billDate time.Time,
	dueDate *time.Time,
	actorID *uuid.UUID,
) (*Bill, error) {
	if billNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Bill number cannot be empty")
	}
	if len(billNumber) > 50 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Bill number cannot exceed 50 characters")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Vendor ID cannot be empty")
	}
	if vendorName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Vendor name cannot be empty")
	}
	if total.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Bill total must be positive")
	}
	if billDate.IsZero() {
		billDate = time.Now()
	}

	b := &Bill{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		BillNumber:       billNumber,
		VendorID:         vendorID,
		VendorName:       vendorName,
		TotalAmount:      total.Amount(),
		PaidAmount:       decimal.Zero,
		BalanceDue:       total.Amount(),
		Status:           BillStatusOpen,
		PaymentsRecorded: make(PaymentEntries, 0),
		CreditsApplied:   make(CreditEntries, 0),
		ActivityLog:      shared.ActivityLog{},
		BillDate:         billDate,
		DueDate:          dueDate,
	}
	if actorID != nil {
		b.SetCreatedBy(*actorID)
	}
	b.ActivityLog = b.ActivityLog.Append("bill.created",
		fmt.Sprintf("Bill %s created for %s", billNumber, total.String()), actorID)

	b.AddDomainEvent(NewBillCreatedEvent(b))

	return b, nil
}

// RecordPayment applies part of a payment made against this bill.
// The amount must not exceed the current balance due.
func (b *Bill) RecordPayment(paymentMadeID uuid.UUID, amount valueobject.Money, mode string, actorID *uuid.UUID) error {
	if !b.Status.CanApplyPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply payment to bill in %s status", b.Status))
	}
	if paymentMadeID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Payment ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Payment amount must be positive")
	}
	if amount.Amount().GreaterThan(b.BalanceDue) {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Payment amount %s exceeds balance due %s on bill %s",
				amount.StringFixed(2), b.BalanceDue.StringFixed(2), b.BillNumber))
	}

	b.PaymentsRecorded = append(b.PaymentsRecorded, NewPaymentEntry(paymentMadeID, amount, mode))
	RecomputeBill(b)

	b.ActivityLog = b.ActivityLog.Append("bill.payment_applied",
		fmt.Sprintf("Payment of %s applied", amount.String()), actorID)
	b.Touch()
	b.IncrementVersion()

	if b.Status == BillStatusPaid {
		b.AddDomainEvent(NewBillPaidEvent(b))
	} else {
		b.AddDomainEvent(NewBillPaymentAppliedEvent(b, amount))
	}

	return nil
}

// RemovePaymentsFrom removes every payment entry originating from the given
// payment made, returning the total amount removed. Used on payment reversal;
// matching is structural by payment ID, never inferred.
func (b *Bill) RemovePaymentsFrom(paymentMadeID uuid.UUID, actorID *uuid.UUID) (decimal.Decimal, error) {
	if paymentMadeID == uuid.Nil {
		return decimal.Zero, shared.NewDomainError("VALIDATION_ERROR", "Payment ID cannot be empty")
	}

	removed := decimal.Zero
	kept := make(PaymentEntries, 0, len(b.PaymentsRecorded))
	for _, entry := range b.PaymentsRecorded {
		if entry.PaymentMadeID == paymentMadeID {
			removed = removed.Add(entry.Amount)
			continue
		}
		kept = append(kept, entry)
	}
	if removed.IsZero() {
		return decimal.Zero, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Bill %s has no payment entries from payment %s", b.BillNumber, paymentMadeID))
	}

	b.PaymentsRecorded = kept
	RecomputeBill(b)

	b.ActivityLog = b.ActivityLog.Append("bill.payment_reversed",
		fmt.Sprintf("Payment of %s reversed", removed.StringFixed(2)), actorID)
	b.Touch()
	b.IncrementVersion()

	b.AddDomainEvent(NewBillPaymentReversedEvent(b, removed))

	return removed, nil
}

// ApplyCredit applies vendor credit against this bill.
// The amount must not exceed the current balance due.
func (b *Bill) ApplyCredit(vendorCreditID uuid.UUID, amount valueobject.Money, actorID *uuid.UUID) error {
	if !b.Status.CanApplyPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply credit to bill in %s status", b.Status))
	}
	if vendorCreditID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Vendor credit ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Credit amount must be positive")
	}
	if amount.Amount().GreaterThan(b.BalanceDue) {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Credit amount %s exceeds balance due %s on bill %s",
				amount.StringFixed(2), b.BalanceDue.StringFixed(2), b.BillNumber))
	}

	b.CreditsApplied = append(b.CreditsApplied, NewCreditEntry(vendorCreditID, amount))
	RecomputeBill(b)

	b.ActivityLog = b.ActivityLog.Append("bill.credit_applied",
		fmt.Sprintf("Vendor credit of %s applied", amount.String()), actorID)
	b.Touch()
	b.IncrementVersion()

	if b.Status == BillStatusPaid {
		b.AddDomainEvent(NewBillPaidEvent(b))
	} else {
		b.AddDomainEvent(NewBillCreditAppliedEvent(b, amount))
	}

	return nil
}

// Void voids the bill. Rejected once any payment or credit has been applied.
func (b *Bill) Void(reason string, actorID *uuid.UUID) error {
	if b.Status == BillStatusVoid {
		return shared.NewDomainError("INVALID_STATE", "Bill is already void")
	}
	if b.HasAllocations() {
		return shared.NewDomainError("VALIDATION_ERROR", "Cannot void bill with applied payments or credits")
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Void reason is required")
	}

	now := time.Now()
	b.Status = BillStatusVoid
	b.VoidedAt = &now
	b.VoidReason = reason
	b.BalanceDue = decimal.Zero
	b.ActivityLog = b.ActivityLog.Append("bill.voided", reason, actorID)
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillVoidedEvent(b))

	return nil
}

// SetRemark sets the remark
func (b *Bill) SetRemark(remark string) {
	b.Remark = remark
	b.Touch()
	b.IncrementVersion()
}

// HasAllocations returns true if any payment or credit has been applied
func (b *Bill) HasAllocations() bool {
	return len(b.PaymentsRecorded) > 0 || len(b.CreditsApplied) > 0
}

// IsVoid returns true if the bill is void
func (b *Bill) IsVoid() bool {
	return b.Status == BillStatusVoid
}

// IsPaid returns true if the bill is fully settled
func (b *Bill) IsPaid() bool {
	return b.Status == BillStatusPaid
}

// GetTotalAmountMoney returns the total as Money
func (b *Bill) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyINR(b.TotalAmount)
}

// GetBalanceDueMoney returns the balance due as Money
func (b *Bill) GetBalanceDueMoney() valueobject.Money {
	return valueobject.NewMoneyINR(b.BalanceDue)
}

// IsOverdue returns true if the bill is past due date and not settled
func (b *Bill) IsOverdue() bool {
	if b.DueDate == nil || !b.Status.CanApplyPayment() {
		return false
	}
	return time.Now().After(*b.DueDate)
}
