package purchase

import (
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillCreatedEvent is raised when a new bill is created
type BillCreatedEvent struct {
	shared.BaseDomainEvent
	BillID      uuid.UUID       `json:"bill_id"`
	BillNumber  string          `json:"bill_number"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	VendorName  string          `json:"vendor_name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// EventType returns the event type name
func (e *BillCreatedEvent) EventType() string {
	return "BillCreated"
}

// NewBillCreatedEvent creates a new BillCreatedEvent
func NewBillCreatedEvent(b *Bill) *BillCreatedEvent {
	return &BillCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BillCreated", "Bill", b.ID, b.OrgID),
		BillID:          b.ID,
		BillNumber:      b.BillNumber,
		VendorID:        b.VendorID,
		VendorName:      b.VendorName,
		TotalAmount:     b.TotalAmount,
	}
}

// BillPaymentAppliedEvent is raised when a partial payment is applied to a bill
type BillPaymentAppliedEvent struct {
	shared.BaseDomainEvent
	BillID        uuid.UUID       `json:"bill_id"`
	BillNumber    string          `json:"bill_number"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
}

// EventType returns the event type name
func (e *BillPaymentAppliedEvent) EventType() string {
	return "BillPaymentApplied"
}

// NewBillPaymentAppliedEvent creates a new BillPaymentAppliedEvent
func NewBillPaymentAppliedEvent(b *Bill, amount valueobject.Money) *BillPaymentAppliedEvent {
	return &BillPaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BillPaymentApplied", "Bill", b.ID, b.OrgID),
		BillID:          b.ID,
		BillNumber:      b.BillNumber,
		PaymentAmount:   amount.Amount(),
		PaidAmount:      b.PaidAmount,
		BalanceDue:      b.BalanceDue,
	}
}

// BillPaidEvent is raised when a bill becomes fully settled
type BillPaidEvent struct {
	shared.BaseDomainEvent
	BillID      uuid.UUID       `json:"bill_id"`
	BillNumber  string          `json:"bill_number"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// EventType returns the event type name
func (e *BillPaidEvent) EventType() string {
	return "BillPaid"
}

// NewBillPaidEvent creates a new BillPaidEvent
func NewBillPaidEvent(b *Bill) *BillPaidEvent {
	return &BillPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BillPaid", "Bill", b.ID, b.OrgID),
		BillID:          b.ID,
		BillNumber:      b.BillNumber,
		VendorID:        b.VendorID,
		TotalAmount:     b.TotalAmount,
	}
}

// BillPaymentReversedEvent is raised when payment entries are backed out of a bill
type BillPaymentReversedEvent struct {
	shared.BaseDomainEvent
	BillID         uuid.UUID       `json:"bill_id"`
	BillNumber     string          `json:"bill_number"`
	ReversedAmount decimal.Decimal `json:"reversed_amount"`
	BalanceDue     decimal.Decimal `json:"balance_due"`
}

// EventType returns the event type name
func (e *BillPaymentReversedEvent) EventType() string {
	return "BillPaymentReversed"
}

// NewBillPaymentReversedEvent creates a new BillPaymentReversedEvent
func NewBillPaymentReversedEvent(b *Bill, reversed decimal.Decimal) *BillPaymentReversedEvent {
	return &BillPaymentReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BillPaymentReversed", "Bill", b.ID, b.OrgID),
		BillID:          b.ID,
		BillNumber:      b.BillNumber,
		ReversedAmount:  reversed,
		BalanceDue:      b.BalanceDue,
	}
}

// BillCreditAppliedEvent is raised when vendor credit is applied to a bill
type BillCreditAppliedEvent struct {
	shared.BaseDomainEvent
	BillID       uuid.UUID       `json:"bill_id"`
	BillNumber   string          `json:"bill_number"`
	CreditAmount decimal.Decimal `json:"credit_amount"`
	BalanceDue   decimal.Decimal `json:"balance_due"`
}

// EventType returns the event type name
func (e *BillCreditAppliedEvent) EventType() string {
	return "BillCreditApplied"
}

// NewBillCreditAppliedEvent creates a new BillCreditAppliedEvent
func NewBillCreditAppliedEvent(b *Bill, amount valueobject.Money) *BillCreditAppliedEvent {
	return &BillCreditAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BillCreditApplied", "Bill", b.ID, b.OrgID),
		BillID:          b.ID,
		BillNumber:      b.BillNumber,
		CreditAmount:    amount.Amount(),
		BalanceDue:      b.BalanceDue,
	}
}

// BillVoidedEvent is raised when a bill is voided
type BillVoidedEvent struct {
	shared.BaseDomainEvent
	BillID     uuid.UUID `json:"bill_id"`
	BillNumber string    `json:"bill_number"`
	Reason     string    `json:"reason"`
}

// EventType returns the event type name
func (e *BillVoidedEvent) EventType() string {
	return "BillVoided"
}

// NewBillVoidedEvent creates a new BillVoidedEvent
func NewBillVoidedEvent(b *Bill) *BillVoidedEvent {
	return &BillVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BillVoided", "Bill", b.ID, b.OrgID),
		BillID:          b.ID,
		BillNumber:      b.BillNumber,
		Reason:          b.VoidReason,
	}
}

// PaymentMadeCreatedEvent is raised when a payment to a vendor is recorded
type PaymentMadeCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentNumber string          `json:"payment_number"`
	VendorID      uuid.UUID       `json:"vendor_id"`
	VendorName    string          `json:"vendor_name"`
	Amount        decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *PaymentMadeCreatedEvent) EventType() string {
	return "PaymentMadeCreated"
}

// NewPaymentMadeCreatedEvent creates a new PaymentMadeCreatedEvent
func NewPaymentMadeCreatedEvent(p *PaymentMade) *PaymentMadeCreatedEvent {
	return &PaymentMadeCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentMadeCreated", "PaymentMade", p.ID, p.OrgID),
		PaymentID:       p.ID,
		PaymentNumber:   p.PaymentNumber,
		VendorID:        p.VendorID,
		VendorName:      p.VendorName,
		Amount:          p.Amount,
	}
}

// PaymentMadeReversedEvent is raised when a payment's allocations are reversed
type PaymentMadeReversedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentNumber string          `json:"payment_number"`
	Allocations   BillAllocations `json:"allocations"`
}

// EventType returns the event type name
func (e *PaymentMadeReversedEvent) EventType() string {
	return "PaymentMadeReversed"
}

// NewPaymentMadeReversedEvent creates a new PaymentMadeReversedEvent
func NewPaymentMadeReversedEvent(p *PaymentMade, removed BillAllocations) *PaymentMadeReversedEvent {
	return &PaymentMadeReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentMadeReversed", "PaymentMade", p.ID, p.OrgID),
		PaymentID:       p.ID,
		PaymentNumber:   p.PaymentNumber,
		Allocations:     removed,
	}
}

// VendorCreditCreatedEvent is raised when a vendor credit is issued
type VendorCreditCreatedEvent struct {
	shared.BaseDomainEvent
	CreditID     uuid.UUID       `json:"credit_id"`
	CreditNumber string          `json:"credit_number"`
	VendorID     uuid.UUID       `json:"vendor_id"`
	Amount       decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *VendorCreditCreatedEvent) EventType() string {
	return "VendorCreditCreated"
}

// NewVendorCreditCreatedEvent creates a new VendorCreditCreatedEvent
func NewVendorCreditCreatedEvent(vc *VendorCredit) *VendorCreditCreatedEvent {
	return &VendorCreditCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("VendorCreditCreated", "VendorCredit", vc.ID, vc.OrgID),
		CreditID:        vc.ID,
		CreditNumber:    vc.CreditNumber,
		VendorID:        vc.VendorID,
		Amount:          vc.Amount,
	}
}

// VendorCreditAppliedEvent is raised when credit is applied to a bill
type VendorCreditAppliedEvent struct {
	shared.BaseDomainEvent
	CreditID      uuid.UUID       `json:"credit_id"`
	CreditNumber  string          `json:"credit_number"`
	BillID        uuid.UUID       `json:"bill_id"`
	AppliedAmount decimal.Decimal `json:"applied_amount"`
	Balance       decimal.Decimal `json:"balance"`
}

// EventType returns the event type name
func (e *VendorCreditAppliedEvent) EventType() string {
	return "VendorCreditApplied"
}

// NewVendorCreditAppliedEvent creates a new VendorCreditAppliedEvent
func NewVendorCreditAppliedEvent(vc *VendorCredit, billID uuid.UUID, amount valueobject.Money) *VendorCreditAppliedEvent {
	return &VendorCreditAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("VendorCreditApplied", "VendorCredit", vc.ID, vc.OrgID),
		CreditID:        vc.ID,
		CreditNumber:    vc.CreditNumber,
		BillID:          billID,
		AppliedAmount:   amount.Amount(),
		Balance:         vc.Balance,
	}
}

// VendorCreditClosedEvent is raised when a credit balance reaches zero
type VendorCreditClosedEvent struct {
	shared.BaseDomainEvent
	CreditID     uuid.UUID       `json:"credit_id"`
	CreditNumber string          `json:"credit_number"`
	Amount       decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *VendorCreditClosedEvent) EventType() string {
	return "VendorCreditClosed"
}

// NewVendorCreditClosedEvent creates a new VendorCreditClosedEvent
func NewVendorCreditClosedEvent(vc *VendorCredit) *VendorCreditClosedEvent {
	return &VendorCreditClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("VendorCreditClosed", "VendorCredit", vc.ID, vc.OrgID),
		CreditID:        vc.ID,
		CreditNumber:    vc.CreditNumber,
		Amount:          vc.Amount,
	}
}
