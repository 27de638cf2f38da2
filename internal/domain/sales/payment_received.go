package sales

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

// PaymentMode represents how a payment was received
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

// InvoiceAllocation is the canonical record of an amount from a payment
// received applied to a specific invoice, with audit snapshots.
type InvoiceAllocation struct {
	ID                  uuid.UUID       `json:"id"`
	InvoiceID           uuid.UUID       `json:"invoice_id"`
	InvoiceNumber       string          `json:"invoice_number"`
	Amount              decimal.Decimal `json:"amount"`
	InvoiceTotal        decimal.Decimal `json:"invoice_total"`
	InvoiceBalanceAfter decimal.Decimal `json:"invoice_balance_after"`
	AppliedAt           time.Time       `json:"applied_at"`
}

// InvoiceAllocations is a JSONB-stored list of invoice allocations
type InvoiceAllocations []InvoiceAllocation

// Value implements driver.Valuer
func (a InvoiceAllocations) Value() (driver.Value, error) {
	if a == nil {
		a = InvoiceAllocations{}
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *InvoiceAllocations) Scan(value any) error {
	return shared.ScanJSON(value, a, "InvoiceAllocations")
}

// PaymentReceived represents a cash movement from a customer. A refund is
// recorded as a negative-amount entry with IsRefund set and an optional
// link to the payment being refunded.
type PaymentReceived struct {
	shared.OrgAggregateRoot
	PaymentNumber     string
	CustomerID        uuid.UUID
	CustomerName      string
	Amount            decimal.Decimal
	AllocatedAmount   decimal.Decimal
	UnallocatedAmount decimal.Decimal
	RefundedAmount    decimal.Decimal
	Mode              PaymentMode
	Reference         string
	IsRefund          bool
	SourcePaymentID   *uuid.UUID
	PaymentDate       time.Time
	Allocations       InvoiceAllocations
	ActivityLog       shared.ActivityLog
	Remark            string
	ReversedAt        *time.Time
}

// NewPaymentReceived creates a new payment received record
func NewPaymentReceived(
	orgID uuid.UUID,
	paymentNumber string,
	customerID uuid.UUID,
	customerName string,
	amount valueobject.Money,
	mode PaymentMode,
	paymentDate time.Time,
	actorID *uuid.UUID,
) (*PaymentReceived, error) {
	if paymentNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer name cannot be empty")
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

	p := &PaymentReceived{
		OrgAggregateRoot:  shared.NewOrgAggregateRoot(orgID),
		PaymentNumber:     paymentNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		Amount:            amount.Amount(),
		AllocatedAmount:   decimal.Zero,
		UnallocatedAmount: amount.Amount(),
		RefundedAmount:    decimal.Zero,
		Mode:              mode,
		PaymentDate:       paymentDate,
		Allocations:       make(InvoiceAllocations, 0),
		ActivityLog:       shared.ActivityLog{},
	}
	if actorID != nil {
		p.SetCreatedBy(*actorID)
	}
	p.ActivityLog = p.ActivityLog.Append("payment.created",
		fmt.Sprintf("Payment %s of %s received", paymentNumber, amount.String()), actorID)

	p.AddDomainEvent(NewPaymentReceivedCreatedEvent(p))

	return p, nil
}

// NewRefundRecord creates the negative-amount counterpart of a refund so
// the payment trail stays symmetric. sourcePaymentID links the payment
// being refunded, when known.
func NewRefundRecord(
	orgID uuid.UUID,
	paymentNumber string,
	customerID uuid.UUID,
	customerName string,
	amount valueobject.Money,
	sourcePaymentID *uuid.UUID,
	actorID *uuid.UUID,
) (*PaymentReceived, error) {
	if paymentNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Refund amount must be positive")
	}

	p := &PaymentReceived{
		OrgAggregateRoot:  shared.NewOrgAggregateRoot(orgID),
		PaymentNumber:     paymentNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		Amount:            amount.Amount().Neg(),
		AllocatedAmount:   decimal.Zero,
		UnallocatedAmount: decimal.Zero,
		RefundedAmount:    decimal.Zero,
		Mode:              PaymentModeBankTransfer,
		IsRefund:          true,
		SourcePaymentID:   sourcePaymentID,
		PaymentDate:       time.Now(),
		Allocations:       make(InvoiceAllocations, 0),
		ActivityLog:       shared.ActivityLog{},
	}
	if actorID != nil {
		p.SetCreatedBy(*actorID)
	}
	p.ActivityLog = p.ActivityLog.Append("payment.refund_recorded",
		fmt.Sprintf("Refund %s of %s recorded", paymentNumber, amount.String()), actorID)

	p.AddDomainEvent(NewPaymentReceivedCreatedEvent(p))

	return p, nil
}

// AllocateToInvoice records an allocation of this payment to an invoice,
// with snapshots of the invoice's total and its balance after application.
func (p *PaymentReceived) AllocateToInvoice(invoiceID uuid.UUID, invoiceNumber string, amount valueobject.Money, invoiceTotal, invoiceBalanceAfter decimal.Decimal) error {
	if p.IsRefund {
		return shared.NewDomainError("INVALID_STATE", "Cannot allocate a refund record to invoices")
	}
	if p.ReversedAt != nil {
		return shared.NewDomainError("INVALID_STATE", "Cannot allocate a reversed payment")
	}
	if invoiceID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Invoice ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Allocation amount must be positive")
	}
	for _, alloc := range p.Allocations {
		if alloc.InvoiceID == invoiceID {
			return shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Payment already allocated to invoice %s", invoiceNumber))
		}
	}

	p.Allocations = append(p.Allocations, InvoiceAllocation{
		ID:                  uuid.New(),
		InvoiceID:           invoiceID,
		InvoiceNumber:       invoiceNumber,
		Amount:              amount.Amount(),
		InvoiceTotal:        invoiceTotal,
		InvoiceBalanceAfter: invoiceBalanceAfter,
		AppliedAt:           time.Now(),
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
// the matching entries out of each invoice.
func (p *PaymentReceived) Reverse(actorID *uuid.UUID) (InvoiceAllocations, error) {
	if p.ReversedAt != nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Payment is already reversed")
	}
	if len(p.Allocations) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment has no allocations to reverse")
	}

	removed := p.Allocations
	now := time.Now()
	p.Allocations = make(InvoiceAllocations, 0)
	p.AllocatedAmount = decimal.Zero
	p.UnallocatedAmount = p.Amount
	p.ReversedAt = &now
	p.ActivityLog = p.ActivityLog.Append("payment.reversed",
		fmt.Sprintf("%d invoice allocation(s) reversed", len(removed)), actorID)
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentReceivedReversedEvent(p, removed))

	return removed, nil
}

// DrawDownRefundable marks part of this payment as refunded. The drawdown
// must not exceed the remaining refundable amount.
func (p *PaymentReceived) DrawDownRefundable(amount valueobject.Money, actorID *uuid.UUID) error {
	if p.IsRefund {
		return shared.NewDomainError("INVALID_STATE", "Refund records have no refundable amount")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Drawdown amount must be positive")
	}
	refundable := p.Amount.Sub(p.RefundedAmount)
	if amount.Amount().GreaterThan(refundable) {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Refund amount %s exceeds refundable amount %s on payment %s",
				amount.StringFixed(2), refundable.StringFixed(2), p.PaymentNumber))
	}

	p.RefundedAmount = p.RefundedAmount.Add(amount.Amount())
	p.ActivityLog = p.ActivityLog.Append("payment.refund_drawdown",
		fmt.Sprintf("%s of payment %s refunded", amount.String(), p.PaymentNumber), actorID)
	p.Touch()
	p.IncrementVersion()

	return nil
}

// RefundableAmount returns the amount still available to refund
func (p *PaymentReceived) RefundableAmount() decimal.Decimal {
	if p.IsRefund {
		return decimal.Zero
	}
	return p.Amount.Sub(p.RefundedAmount)
}

// SetReference sets the external payment reference
func (p *PaymentReceived) SetReference(reference string) error {
	if len(reference) > 100 {
		return shared.NewDomainError("VALIDATION_ERROR", "Payment reference cannot exceed 100 characters")
	}
	p.Reference = reference
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetRemark sets the remark
func (p *PaymentReceived) SetRemark(remark string) {
	p.Remark = remark
	p.Touch()
	p.IncrementVersion()
}

// HasAllocations returns true if the payment still has live invoice
// allocations. Such a payment must not be deleted; reverse it first.
func (p *PaymentReceived) HasAllocations() bool {
	return len(p.Allocations) > 0
}

// IsReversed returns true if the payment has been reversed
func (p *PaymentReceived) IsReversed() bool {
	return p.ReversedAt != nil
}

// AllocationFor returns the allocation for a specific invoice, or nil
func (p *PaymentReceived) AllocationFor(invoiceID uuid.UUID) *InvoiceAllocation {
	for i := range p.Allocations {
		if p.Allocations[i].InvoiceID == invoiceID {
			return &p.Allocations[i]
		}
	}
	return nil
}
