package sales

import (
	"context"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	shared.Filter
	CustomerID *uuid.UUID
	Status     *InvoiceStatus
	FromDate   *time.Time
	ToDate     *time.Time
	Overdue    *bool
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByIDForOrg finds an invoice by ID for an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Invoice, error)

	// FindByNumber finds an invoice by number for an organization
	FindByNumber(ctx context.Context, orgID uuid.UUID, invoiceNumber string) (*Invoice, error)

	// FindAllForOrg finds all invoices for an organization with filtering
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)

	// FindOutstandingByCustomer finds all invoices with a balance due for a customer
	FindOutstandingByCustomer(ctx context.Context, orgID, customerID uuid.UUID) ([]Invoice, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// Delete removes an invoice. Fails with a validation error if the
	// invoice carries any payment or refund entry.
	Delete(ctx context.Context, orgID, id uuid.UUID) error

	// CountForOrg counts invoices for an organization
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter InvoiceFilter) (int64, error)

	// GenerateInvoiceNumber generates a unique invoice number for an organization
	GenerateInvoiceNumber(ctx context.Context, orgID uuid.UUID) (string, error)
}

// PaymentReceivedFilter defines filtering options for payment queries
type PaymentReceivedFilter struct {
	shared.Filter
	CustomerID *uuid.UUID
	IsRefund   *bool
	FromDate   *time.Time
	ToDate     *time.Time
}

// PaymentReceivedRepository defines the interface for payment received persistence
type PaymentReceivedRepository interface {
	// FindByIDForOrg finds a payment by ID for an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*PaymentReceived, error)

	// FindAllForOrg finds all payments for an organization with filtering
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter PaymentReceivedFilter) ([]PaymentReceived, error)

	// Save creates or updates a payment
	Save(ctx context.Context, payment *PaymentReceived) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payment *PaymentReceived) error

	// Delete removes a payment. Fails with a validation error if the
	// payment still has live invoice allocations.
	Delete(ctx context.Context, orgID, id uuid.UUID) error

	// CountForOrg counts payments for an organization
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter PaymentReceivedFilter) (int64, error)

	// GenerateReceiptNumber generates a unique receipt number for an organization
	GenerateReceiptNumber(ctx context.Context, orgID uuid.UUID) (string, error)
}

// SalesOrderFilter defines filtering options for sales order queries
type SalesOrderFilter struct {
	shared.Filter
	CustomerID *uuid.UUID
	Status     *SalesOrderStatus
	FromDate   *time.Time
	ToDate     *time.Time
}

// SalesOrderRepository defines the interface for sales order persistence
type SalesOrderRepository interface {
	// FindByIDForOrg finds a sales order by ID for an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*SalesOrder, error)

	// FindByNumber finds a sales order by number for an organization
	FindByNumber(ctx context.Context, orgID uuid.UUID, orderNumber string) (*SalesOrder, error)

	// FindAllForOrg finds all sales orders for an organization with filtering
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter SalesOrderFilter) ([]SalesOrder, error)

	// Save creates or updates a sales order
	Save(ctx context.Context, order *SalesOrder) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *SalesOrder) error

	// Delete removes a sales order. Fails with a validation error if any
	// item has been invoiced.
	Delete(ctx context.Context, orgID, id uuid.UUID) error

	// CountForOrg counts sales orders for an organization
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter SalesOrderFilter) (int64, error)

	// GenerateOrderNumber generates a unique order number for an organization
	GenerateOrderNumber(ctx context.Context, orgID uuid.UUID) (string, error)
}
