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

// InvoiceStatus represents the derived status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"
	InvoiceStatusPending       InvoiceStatus = "PENDING"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	// SENT marks an invoice that carries an outstanding balance again
	// after refunds wiped out every payment it had received.
	InvoiceStatusSent InvoiceStatus = "SENT"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusPartiallyPaid,
		InvoiceStatusPaid, InvoiceStatusSent:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanRecordPayment checks if a payment can be recorded in this status
func (s InvoiceStatus) CanRecordPayment() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartiallyPaid, InvoiceStatusSent:
		return true
	}
	return false
}

// DiscountType distinguishes percentage discounts from flat amounts
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFlat       DiscountType = "FLAT"
)

// IsValid checks if the discount type is valid
func (d DiscountType) IsValid() bool {
	return d == DiscountTypePercentage || d == DiscountTypeFlat
}

// InvoiceItem is a priced line on an invoice. Amount is the line net
// after discount, before tax.
type InvoiceItem struct {
	ID            uuid.UUID       `json:"id"`
	SourceItemID  *uuid.UUID      `json:"source_item_id,omitempty"`
	Name          string          `json:"name"`
	Quantity      decimal.Decimal `json:"quantity"`
	Rate          decimal.Decimal `json:"rate"`
	DiscountType  DiscountType    `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Amount        decimal.Decimal `json:"amount"`
}

// InvoiceItems is a JSONB-stored list of invoice items
type InvoiceItems []InvoiceItem

// Value implements driver.Valuer
func (i InvoiceItems) Value() (driver.Value, error) {
	if i == nil {
		i = InvoiceItems{}
	}
	return json.Marshal(i)
}

// Scan implements sql.Scanner
func (i *InvoiceItems) Scan(value any) error {
	return shared.ScanJSON(value, i, "InvoiceItems")
}

// PaymentEntry records money received against an invoice
type PaymentEntry struct {
	ID                uuid.UUID       `json:"id"`
	PaymentReceivedID uuid.UUID       `json:"payment_received_id"`
	Amount            decimal.Decimal `json:"amount"`
	Mode              string          `json:"mode"`
	ReceivedAt        time.Time       `json:"received_at"`
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

// RefundEntry records money returned to the customer
type RefundEntry struct {
	ID              uuid.UUID       `json:"id"`
	SourcePaymentID *uuid.UUID      `json:"source_payment_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Reason          string          `json:"reason"`
	RefundedAt      time.Time       `json:"refunded_at"`
}

// RefundEntries is a JSONB-stored list of refund entries
type RefundEntries []RefundEntry

// Value implements driver.Valuer
func (e RefundEntries) Value() (driver.Value, error) {
	if e == nil {
		e = RefundEntries{}
	}
	return json.Marshal(e)
}

// Scan implements sql.Scanner
func (e *RefundEntries) Scan(value any) error {
	return shared.ScanJSON(value, e, "RefundEntries")
}

// Invoice is the sales-side ledger aggregate. AmountPaid, AmountRefunded,
// BalanceDue and Status are derived from the payments and refunds lists by
// RecomputeInvoice and must not be written anywhere else.
type Invoice struct {
	shared.OrgAggregateRoot
	InvoiceNumber  string
	CustomerID     uuid.UUID
	CustomerName   string
	Items          InvoiceItems
	SubTotal       decimal.Decimal
	IGST           decimal.Decimal
	CGST           decimal.Decimal
	SGST           decimal.Decimal
	TotalAmount    decimal.Decimal
	AmountPaid     decimal.Decimal
	AmountRefunded decimal.Decimal
	BalanceDue     decimal.Decimal
	Status         InvoiceStatus
	Payments       PaymentEntries
	Refunds        RefundEntries
	ActivityLog    shared.ActivityLog
	InvoiceDate    time.Time
	DueDate        *time.Time
	Notes          string
}

// NewInvoice creates a new invoice with precomputed totals. The invoice
// opens PENDING with the full total due.
func NewInvoice(
	orgID uuid.UUID,
	invoiceNumber string,
	customerID uuid.UUID,
	customerName string,
	items InvoiceItems,
	subTotal, igst, cgst, sgst valueobject.Money,
	invoiceDate time.Time,
	dueDate *time.Time,
	actorID *uuid.UUID,
) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invoice number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer name cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invoice must have at least one item")
	}

	total := subTotal.Amount().Add(igst.Amount()).Add(cgst.Amount()).Add(sgst.Amount())
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invoice total must be positive")
	}
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}

	inv := &Invoice{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		InvoiceNumber:    invoiceNumber,
		CustomerID:       customerID,
		CustomerName:     customerName,
		Items:            items,
		SubTotal:         subTotal.Amount(),
		IGST:             igst.Amount(),
		CGST:             cgst.Amount(),
		SGST:             sgst.Amount(),
		TotalAmount:      total,
		AmountPaid:       decimal.Zero,
		AmountRefunded:   decimal.Zero,
		BalanceDue:       total,
		Status:           InvoiceStatusPending,
		Payments:         make(PaymentEntries, 0),
		Refunds:          make(RefundEntries, 0),
		ActivityLog:      shared.ActivityLog{},
		InvoiceDate:      invoiceDate,
		DueDate:          dueDate,
	}
	if actorID != nil {
		inv.SetCreatedBy(*actorID)
	}
	inv.ActivityLog = inv.ActivityLog.Append("invoice.created",
		fmt.Sprintf("Invoice %s for %s created, total %s", invoiceNumber, customerName, total.StringFixed(2)), actorID)

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// RecordPayment appends a payment entry and recomputes the ledger.
// The amount must not exceed the current balance due.
func (inv *Invoice) RecordPayment(paymentReceivedID uuid.UUID, amount valueobject.Money, mode string, actorID *uuid.UUID) error {
	if !inv.Status.CanRecordPayment() {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Cannot record payment on invoice %s in status %s", inv.InvoiceNumber, inv.Status))
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Payment amount must be positive")
	}
	if amount.Amount().GreaterThan(inv.BalanceDue) {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Payment amount %s exceeds balance due %s on invoice %s",
				amount.StringFixed(2), inv.BalanceDue.StringFixed(2), inv.InvoiceNumber))
	}

	inv.Payments = append(inv.Payments, PaymentEntry{
		ID:                uuid.New(),
		PaymentReceivedID: paymentReceivedID,
		Amount:            amount.Amount(),
		Mode:              mode,
		ReceivedAt:        time.Now(),
	})

	RecomputeInvoice(inv)

	inv.ActivityLog = inv.ActivityLog.Append("invoice.payment_recorded",
		fmt.Sprintf("Payment of %s recorded, balance due %s", amount.String(), inv.BalanceDue.StringFixed(2)), actorID)
	inv.Touch()
	inv.IncrementVersion()

	if inv.Status == InvoiceStatusPaid {
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	} else {
		inv.AddDomainEvent(NewInvoicePaymentRecordedEvent(inv, amount))
	}

	return nil
}

// Refund appends a refund entry and recomputes the ledger, which may
// reopen the invoice. The amount must not exceed the net amount paid.
func (inv *Invoice) Refund(amount valueobject.Money, reason string, sourcePaymentID *uuid.UUID, actorID *uuid.UUID) error {
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Refund amount must be positive")
	}
	if amount.Amount().GreaterThan(inv.AmountPaid) {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Refund amount %s exceeds amount paid %s on invoice %s",
				amount.StringFixed(2), inv.AmountPaid.StringFixed(2), inv.InvoiceNumber))
	}

	inv.Refunds = append(inv.Refunds, RefundEntry{
		ID:              uuid.New(),
		SourcePaymentID: sourcePaymentID,
		Amount:          amount.Amount(),
		Reason:          reason,
		RefundedAt:      time.Now(),
	})

	RecomputeInvoice(inv)

	inv.ActivityLog = inv.ActivityLog.Append("invoice.refunded",
		fmt.Sprintf("Refund of %s issued, balance due %s", amount.String(), inv.BalanceDue.StringFixed(2)), actorID)
	inv.Touch()
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceRefundedEvent(inv, amount))

	return nil
}

// RemovePaymentsFrom backs out every payment entry that came from the
// given payment received record and recomputes. Returns the total amount
// removed. Fails closed if no entry matches.
func (inv *Invoice) RemovePaymentsFrom(paymentReceivedID uuid.UUID, actorID *uuid.UUID) (decimal.Decimal, error) {
	kept := make(PaymentEntries, 0, len(inv.Payments))
	removed := decimal.Zero
	for _, entry := range inv.Payments {
		if entry.PaymentReceivedID == paymentReceivedID {
			removed = removed.Add(entry.Amount)
			continue
		}
		kept = append(kept, entry)
	}
	if removed.IsZero() {
		return decimal.Zero, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Invoice %s has no payment entries from payment %s", inv.InvoiceNumber, paymentReceivedID))
	}

	inv.Payments = kept
	RecomputeInvoice(inv)

	inv.ActivityLog = inv.ActivityLog.Append("invoice.payment_reversed",
		fmt.Sprintf("Payment of %s reversed, balance due %s", removed.StringFixed(2), inv.BalanceDue.StringFixed(2)), actorID)
	inv.Touch()
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoicePaymentReversedEvent(inv, removed))

	return removed, nil
}

// Finalize moves a draft invoice to PENDING so payments can be recorded
func (inv *Invoice) Finalize(actorID *uuid.UUID) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Invoice %s is not a draft", inv.InvoiceNumber))
	}
	inv.Status = InvoiceStatusPending
	inv.ActivityLog = inv.ActivityLog.Append("invoice.finalized", "Invoice finalized", actorID)
	inv.Touch()
	inv.IncrementVersion()
	return nil
}

// SetNotes sets free-form notes
func (inv *Invoice) SetNotes(notes string) {
	inv.Notes = notes
	inv.Touch()
	inv.IncrementVersion()
}

// HasAllocations returns true if the invoice carries any payment or
// refund entry. Such an invoice must not be deleted.
func (inv *Invoice) HasAllocations() bool {
	return len(inv.Payments) > 0 || len(inv.Refunds) > 0
}

// IsPaid returns true if the invoice is fully settled
func (inv *Invoice) IsPaid() bool {
	return inv.Status == InvoiceStatusPaid
}

// IsOverdue returns true if the invoice is past due with a balance remaining
func (inv *Invoice) IsOverdue() bool {
	if inv.DueDate == nil || inv.BalanceDue.IsZero() {
		return false
	}
	return time.Now().After(*inv.DueDate)
}

// GetTotalAmountMoney returns the total as Money
func (inv *Invoice) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyINR(inv.TotalAmount)
}

// GetBalanceDueMoney returns the balance due as Money
func (inv *Invoice) GetBalanceDueMoney() valueobject.Money {
	return valueobject.NewMoneyINR(inv.BalanceDue)
}
