package sales

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrderStatus represents the status of a sales order
type SalesOrderStatus string

const (
	SalesOrderStatusDraft     SalesOrderStatus = "DRAFT"
	SalesOrderStatusConfirmed SalesOrderStatus = "CONFIRMED"
	SalesOrderStatusClosed    SalesOrderStatus = "CLOSED"
	SalesOrderStatusCancelled SalesOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid SalesOrderStatus
func (s SalesOrderStatus) IsValid() bool {
	switch s {
	case SalesOrderStatusDraft, SalesOrderStatusConfirmed, SalesOrderStatusClosed, SalesOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SalesOrderStatus
func (s SalesOrderStatus) String() string {
	return string(s)
}

// ItemInvoiceStatus marks whether a line item has been carried into an invoice
type ItemInvoiceStatus string

const (
	ItemNotInvoiced ItemInvoiceStatus = "NOT_INVOICED"
	ItemInvoiced    ItemInvoiceStatus = "INVOICED"
)

// SalesOrderItem is an ordered line. InvoicedQty accumulates as the item
// is carried into invoices; it never exceeds Quantity and never decreases.
type SalesOrderItem struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Quantity      decimal.Decimal   `json:"quantity"`
	InvoicedQty   decimal.Decimal   `json:"invoiced_qty"`
	Rate          decimal.Decimal   `json:"rate"`
	DiscountType  DiscountType      `json:"discount_type"`
	DiscountValue decimal.Decimal   `json:"discount_value"`
	TaxRate       decimal.Decimal   `json:"tax_rate"`
	InvoiceStatus ItemInvoiceStatus `json:"invoice_status"`
}

// RemainingQty returns the quantity not yet invoiced
func (i SalesOrderItem) RemainingQty() decimal.Decimal {
	return i.Quantity.Sub(i.InvoicedQty)
}

// SalesOrderItems is a JSONB-stored list of order items
type SalesOrderItems []SalesOrderItem

// Value implements driver.Valuer
func (i SalesOrderItems) Value() (driver.Value, error) {
	if i == nil {
		i = SalesOrderItems{}
	}
	return json.Marshal(i)
}

// Scan implements sql.Scanner
func (i *SalesOrderItems) Scan(value any) error {
	return shared.ScanJSON(value, i, "SalesOrderItems")
}

// InvoiceRef is a denormalized summary of an invoice produced from this
// order. It is a read-side cache; the invoice remains authoritative for
// its own balance.
type InvoiceRef struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	CreatedAt     time.Time       `json:"created_at"`
}

// InvoiceRefs is a JSONB-stored list of invoice summaries
type InvoiceRefs []InvoiceRef

// Value implements driver.Valuer
func (r InvoiceRefs) Value() (driver.Value, error) {
	if r == nil {
		r = InvoiceRefs{}
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner
func (r *InvoiceRefs) Scan(value any) error {
	return shared.ScanJSON(value, r, "InvoiceRefs")
}

// ConvertedLine describes a line carried out of a sales order by a
// conversion, priced by the caller into an invoice item.
type ConvertedLine struct {
	SourceItemID  uuid.UUID
	Name          string
	Quantity      decimal.Decimal
	Rate          decimal.Decimal
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	TaxRate       decimal.Decimal
}

// SalesOrder is an order of line items convertible into invoices.
// Conversion is all-or-nothing per item: a selected item is always
// invoiced to its full remaining quantity.
type SalesOrder struct {
	shared.OrgAggregateRoot
	OrderNumber  string
	CustomerID   uuid.UUID
	CustomerName string
	Status       SalesOrderStatus
	InterState   bool
	Items        SalesOrderItems
	Invoices     InvoiceRefs
	ActivityLog  shared.ActivityLog
	OrderDate    time.Time
	CancelledAt  *time.Time
	CancelReason string
}

// NewSalesOrder creates a new draft sales order
func NewSalesOrder(
	orgID uuid.UUID,
	orderNumber string,
	customerID uuid.UUID,
	customerName string,
	interState bool,
	items SalesOrderItems,
	orderDate time.Time,
	actorID *uuid.UUID,
) (*SalesOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer name cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Sales order must have at least one item")
	}
	for idx := range items {
		item := &items[idx]
		if item.Name == "" {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Order item name cannot be empty")
		}
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Order item %s quantity must be positive", item.Name))
		}
		if item.Rate.IsNegative() {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Order item %s rate cannot be negative", item.Name))
		}
		if item.DiscountType != "" && !item.DiscountType.IsValid() {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Order item %s has an invalid discount type", item.Name))
		}
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.InvoicedQty = decimal.Zero
		item.InvoiceStatus = ItemNotInvoiced
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	so := &SalesOrder{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		OrderNumber:      orderNumber,
		CustomerID:       customerID,
		CustomerName:     customerName,
		Status:           SalesOrderStatusDraft,
		InterState:       interState,
		Items:            items,
		Invoices:         make(InvoiceRefs, 0),
		ActivityLog:      shared.ActivityLog{},
		OrderDate:        orderDate,
	}
	if actorID != nil {
		so.SetCreatedBy(*actorID)
	}
	so.ActivityLog = so.ActivityLog.Append("order.created",
		fmt.Sprintf("Sales order %s with %d item(s) created", orderNumber, len(items)), actorID)

	so.AddDomainEvent(NewSalesOrderCreatedEvent(so))

	return so, nil
}

// Confirm moves a draft order to CONFIRMED so it can be converted
func (so *SalesOrder) Confirm(actorID *uuid.UUID) error {
	if so.Status != SalesOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Sales order %s is not a draft", so.OrderNumber))
	}
	so.Status = SalesOrderStatusConfirmed
	so.ActivityLog = so.ActivityLog.Append("order.confirmed", "Sales order confirmed", actorID)
	so.Touch()
	so.IncrementVersion()

	so.AddDomainEvent(NewSalesOrderConfirmedEvent(so))

	return nil
}

// Cancel cancels the order. An order with any invoiced item cannot be
// cancelled.
func (so *SalesOrder) Cancel(reason string, actorID *uuid.UUID) error {
	if so.Status == SalesOrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Sales order %s is already cancelled", so.OrderNumber))
	}
	if so.Status == SalesOrderStatusClosed {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Sales order %s is closed", so.OrderNumber))
	}
	for _, item := range so.Items {
		if item.InvoicedQty.GreaterThan(decimal.Zero) {
			return shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Cannot cancel sales order %s, item %s has been invoiced", so.OrderNumber, item.Name))
		}
	}

	now := time.Now()
	so.Status = SalesOrderStatusCancelled
	so.CancelledAt = &now
	so.CancelReason = reason
	so.ActivityLog = so.ActivityLog.Append("order.cancelled",
		fmt.Sprintf("Sales order cancelled: %s", reason), actorID)
	so.UpdatedAt = now
	so.IncrementVersion()

	so.AddDomainEvent(NewSalesOrderCancelledEvent(so))

	return nil
}

// ConvertItems marks the selected items fully invoiced and returns the
// lines to carry into the new invoice. An empty selection means every
// item. Items already fully invoiced are rejected, never re-invoiced.
// The order closes exactly when every item is fully invoiced.
func (so *SalesOrder) ConvertItems(itemIDs []uuid.UUID, actorID *uuid.UUID) ([]ConvertedLine, error) {
	if so.Status != SalesOrderStatusConfirmed {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Sales order %s must be confirmed before conversion, current status %s", so.OrderNumber, so.Status))
	}

	selected := make(map[uuid.UUID]bool, len(itemIDs))
	for _, id := range itemIDs {
		found := false
		for i := range so.Items {
			if so.Items[i].ID == id {
				found = true
				break
			}
		}
		if !found {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Item %s does not belong to sales order %s", id, so.OrderNumber))
		}
		selected[id] = true
	}

	lines := make([]ConvertedLine, 0, len(so.Items))
	for i := range so.Items {
		item := &so.Items[i]
		if len(selected) > 0 && !selected[item.ID] {
			continue
		}
		remaining := item.RemainingQty()
		if remaining.LessThanOrEqual(decimal.Zero) {
			if len(selected) > 0 {
				return nil, shared.NewDomainError("VALIDATION_ERROR",
					fmt.Sprintf("Item %s is already fully invoiced", item.Name))
			}
			continue
		}
		lines = append(lines, ConvertedLine{
			SourceItemID:  item.ID,
			Name:          item.Name,
			Quantity:      remaining,
			Rate:          item.Rate,
			DiscountType:  item.DiscountType,
			DiscountValue: item.DiscountValue,
			TaxRate:       item.TaxRate,
		})
		item.InvoicedQty = item.Quantity
		item.InvoiceStatus = ItemInvoiced
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Sales order %s has no remaining quantity to invoice", so.OrderNumber))
	}

	if so.IsFullyInvoiced() {
		so.Status = SalesOrderStatusClosed
		so.AddDomainEvent(NewSalesOrderClosedEvent(so))
	}

	so.ActivityLog = so.ActivityLog.Append("order.converted",
		fmt.Sprintf("%d item(s) converted to invoice", len(lines)), actorID)
	so.Touch()
	so.IncrementVersion()

	return lines, nil
}

// AttachInvoice appends a denormalized invoice summary to the order
func (so *SalesOrder) AttachInvoice(ref InvoiceRef) {
	so.Invoices = append(so.Invoices, ref)
	so.Touch()
}

// IsFullyInvoiced returns true when every item's invoiced quantity equals
// its ordered quantity
func (so *SalesOrder) IsFullyInvoiced() bool {
	for _, item := range so.Items {
		if item.InvoicedQty.LessThan(item.Quantity) {
			return false
		}
	}
	return true
}

// ItemByID returns the item with the given ID, or nil
func (so *SalesOrder) ItemByID(id uuid.UUID) *SalesOrderItem {
	for i := range so.Items {
		if so.Items[i].ID == id {
			return &so.Items[i]
		}
	}
	return nil
}
