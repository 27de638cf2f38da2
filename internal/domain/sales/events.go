package sales

import (
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceCreatedEvent is raised when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// EventType returns the event type name
func (e *InvoiceCreatedEvent) EventType() string {
	return "InvoiceCreated"
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceCreated", "Invoice", inv.ID, inv.OrgID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		CustomerName:    inv.CustomerName,
		TotalAmount:     inv.TotalAmount,
	}
}

// InvoicePaymentRecordedEvent is raised when a partial payment lands on an invoice
type InvoicePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
}

// EventType returns the event type name
func (e *InvoicePaymentRecordedEvent) EventType() string {
	return "InvoicePaymentRecorded"
}

// NewInvoicePaymentRecordedEvent creates a new InvoicePaymentRecordedEvent
func NewInvoicePaymentRecordedEvent(inv *Invoice, amount valueobject.Money) *InvoicePaymentRecordedEvent {
	return &InvoicePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoicePaymentRecorded", "Invoice", inv.ID, inv.OrgID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		PaymentAmount:   amount.Amount(),
		AmountPaid:      inv.AmountPaid,
		BalanceDue:      inv.BalanceDue,
	}
}

// InvoicePaidEvent is raised when an invoice becomes fully settled
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// EventType returns the event type name
func (e *InvoicePaidEvent) EventType() string {
	return "InvoicePaid"
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoicePaid", "Invoice", inv.ID, inv.OrgID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		TotalAmount:     inv.TotalAmount,
	}
}

// InvoiceRefundedEvent is raised when a refund is issued against an invoice
type InvoiceRefundedEvent struct {
	shared.BaseDomainEvent
	InvoiceID      uuid.UUID       `json:"invoice_id"`
	InvoiceNumber  string          `json:"invoice_number"`
	RefundAmount   decimal.Decimal `json:"refund_amount"`
	AmountRefunded decimal.Decimal `json:"amount_refunded"`
	BalanceDue     decimal.Decimal `json:"balance_due"`
	Status         InvoiceStatus   `json:"status"`
}

// EventType returns the event type name
func (e *InvoiceRefundedEvent) EventType() string {
	return "InvoiceRefunded"
}

// NewInvoiceRefundedEvent creates a new InvoiceRefundedEvent
func NewInvoiceRefundedEvent(inv *Invoice, amount valueobject.Money) *InvoiceRefundedEvent {
	return &InvoiceRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceRefunded", "Invoice", inv.ID, inv.OrgID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		RefundAmount:    amount.Amount(),
		AmountRefunded:  inv.AmountRefunded,
		BalanceDue:      inv.BalanceDue,
		Status:          inv.Status,
	}
}

// InvoicePaymentReversedEvent is raised when payment entries are backed out of an invoice
type InvoicePaymentReversedEvent struct {
	shared.BaseDomainEvent
	InvoiceID      uuid.UUID       `json:"invoice_id"`
	InvoiceNumber  string          `json:"invoice_number"`
	ReversedAmount decimal.Decimal `json:"reversed_amount"`
	BalanceDue     decimal.Decimal `json:"balance_due"`
}

// EventType returns the event type name
func (e *InvoicePaymentReversedEvent) EventType() string {
	return "InvoicePaymentReversed"
}

// NewInvoicePaymentReversedEvent creates a new InvoicePaymentReversedEvent
func NewInvoicePaymentReversedEvent(inv *Invoice, reversed decimal.Decimal) *InvoicePaymentReversedEvent {
	return &InvoicePaymentReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoicePaymentReversed", "Invoice", inv.ID, inv.OrgID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		ReversedAmount:  reversed,
		BalanceDue:      inv.BalanceDue,
	}
}

// PaymentReceivedCreatedEvent is raised when a payment from a customer is recorded
type PaymentReceivedCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentNumber string          `json:"payment_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	IsRefund      bool            `json:"is_refund"`
}

// EventType returns the event type name
func (e *PaymentReceivedCreatedEvent) EventType() string {
	return "PaymentReceivedCreated"
}

// NewPaymentReceivedCreatedEvent creates a new PaymentReceivedCreatedEvent
func NewPaymentReceivedCreatedEvent(p *PaymentReceived) *PaymentReceivedCreatedEvent {
	return &PaymentReceivedCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentReceivedCreated", "PaymentReceived", p.ID, p.OrgID),
		PaymentID:       p.ID,
		PaymentNumber:   p.PaymentNumber,
		CustomerID:      p.CustomerID,
		Amount:          p.Amount,
		IsRefund:        p.IsRefund,
	}
}

// PaymentReceivedReversedEvent is raised when a payment's allocations are reversed
type PaymentReceivedReversedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID          `json:"payment_id"`
	PaymentNumber string             `json:"payment_number"`
	Allocations   InvoiceAllocations `json:"allocations"`
}

// EventType returns the event type name
func (e *PaymentReceivedReversedEvent) EventType() string {
	return "PaymentReceivedReversed"
}

// NewPaymentReceivedReversedEvent creates a new PaymentReceivedReversedEvent
func NewPaymentReceivedReversedEvent(p *PaymentReceived, removed InvoiceAllocations) *PaymentReceivedReversedEvent {
	return &PaymentReceivedReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentReceivedReversed", "PaymentReceived", p.ID, p.OrgID),
		PaymentID:       p.ID,
		PaymentNumber:   p.PaymentNumber,
		Allocations:     removed,
	}
}

// SalesOrderCreatedEvent is raised when a new sales order is created
type SalesOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  uuid.UUID `json:"customer_id"`
	ItemCount   int       `json:"item_count"`
}

// EventType returns the event type name
func (e *SalesOrderCreatedEvent) EventType() string {
	return "SalesOrderCreated"
}

// NewSalesOrderCreatedEvent creates a new SalesOrderCreatedEvent
func NewSalesOrderCreatedEvent(so *SalesOrder) *SalesOrderCreatedEvent {
	return &SalesOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SalesOrderCreated", "SalesOrder", so.ID, so.OrgID),
		OrderID:         so.ID,
		OrderNumber:     so.OrderNumber,
		CustomerID:      so.CustomerID,
		ItemCount:       len(so.Items),
	}
}

// SalesOrderConfirmedEvent is raised when a draft order is confirmed
type SalesOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
}

// EventType returns the event type name
func (e *SalesOrderConfirmedEvent) EventType() string {
	return "SalesOrderConfirmed"
}

// NewSalesOrderConfirmedEvent creates a new SalesOrderConfirmedEvent
func NewSalesOrderConfirmedEvent(so *SalesOrder) *SalesOrderConfirmedEvent {
	return &SalesOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SalesOrderConfirmed", "SalesOrder", so.ID, so.OrgID),
		OrderID:         so.ID,
		OrderNumber:     so.OrderNumber,
	}
}

// SalesOrderClosedEvent is raised when every item is fully invoiced
type SalesOrderClosedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
}

// EventType returns the event type name
func (e *SalesOrderClosedEvent) EventType() string {
	return "SalesOrderClosed"
}

// NewSalesOrderClosedEvent creates a new SalesOrderClosedEvent
func NewSalesOrderClosedEvent(so *SalesOrder) *SalesOrderClosedEvent {
	return &SalesOrderClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SalesOrderClosed", "SalesOrder", so.ID, so.OrgID),
		OrderID:         so.ID,
		OrderNumber:     so.OrderNumber,
	}
}

// SalesOrderCancelledEvent is raised when an order is cancelled
type SalesOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Reason      string    `json:"reason"`
}

// EventType returns the event type name
func (e *SalesOrderCancelledEvent) EventType() string {
	return "SalesOrderCancelled"
}

// NewSalesOrderCancelledEvent creates a new SalesOrderCancelledEvent
func NewSalesOrderCancelledEvent(so *SalesOrder) *SalesOrderCancelledEvent {
	return &SalesOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SalesOrderCancelled", "SalesOrder", so.ID, so.OrgID),
		OrderID:         so.ID,
		OrderNumber:     so.OrderNumber,
		Reason:          so.CancelReason,
	}
}
