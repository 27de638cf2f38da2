package sales

import (
	"context"

	"github.com/finbooks/backend/internal/domain/sales"
)

// Repos bundles the sales-side repositories bound to one transaction
type Repos struct {
	Invoices sales.InvoiceRepository
	Receipts sales.PaymentReceivedRepository
	Orders   sales.SalesOrderRepository
}

// UnitOfWork runs a function against transaction-bound repositories.
// A conversion that writes an order and a new invoice, or a refund that
// writes an invoice and a receipt, commits or rolls back as one unit.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos Repos) error) error
}
