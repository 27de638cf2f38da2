package sales

import (
	"context"
	"fmt"

	"github.com/finbooks/backend/internal/domain/partner"
	"github.com/finbooks/backend/internal/domain/sales"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

type invoiceRepoFake struct {
	invoices map[uuid.UUID]sales.Invoice
	seq      int
}

func newInvoiceRepoFake() *invoiceRepoFake {
	return &invoiceRepoFake{invoices: make(map[uuid.UUID]sales.Invoice)}
}

func (r *invoiceRepoFake) FindByIDForOrg(_ context.Context, orgID, id uuid.UUID) (*sales.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok || inv.OrgID != orgID {
		return nil, nil
	}
	copied := inv
	return &copied, nil
}

func (r *invoiceRepoFake) FindByNumber(_ context.Context, orgID uuid.UUID, number string) (*sales.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.OrgID == orgID && inv.InvoiceNumber == number {
			copied := inv
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *invoiceRepoFake) FindAllForOrg(_ context.Context, orgID uuid.UUID, _ sales.InvoiceFilter) ([]sales.Invoice, error) {
	var out []sales.Invoice
	for _, inv := range r.invoices {
		if inv.OrgID == orgID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *invoiceRepoFake) FindOutstandingByCustomer(_ context.Context, orgID, customerID uuid.UUID) ([]sales.Invoice, error) {
	var out []sales.Invoice
	for _, inv := range r.invoices {
		if inv.OrgID == orgID && inv.CustomerID == customerID && !inv.BalanceDue.IsZero() {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *invoiceRepoFake) Save(_ context.Context, inv *sales.Invoice) error {
	r.invoices[inv.ID] = *inv
	return nil
}

func (r *invoiceRepoFake) SaveWithLock(_ context.Context, inv *sales.Invoice) error {
	stored, ok := r.invoices[inv.ID]
	if ok && stored.Version >= inv.Version {
		return shared.ErrConcurrencyConflict
	}
	r.invoices[inv.ID] = *inv
	return nil
}

func (r *invoiceRepoFake) Delete(_ context.Context, orgID, id uuid.UUID) error {
	inv, ok := r.invoices[id]
	if !ok || inv.OrgID != orgID {
		return shared.ErrNotFound
	}
	delete(r.invoices, id)
	return nil
}

func (r *invoiceRepoFake) CountForOrg(_ context.Context, orgID uuid.UUID, _ sales.InvoiceFilter) (int64, error) {
	var n int64
	for _, inv := range r.invoices {
		if inv.OrgID == orgID {
			n++
		}
	}
	return n, nil
}

func (r *invoiceRepoFake) GenerateInvoiceNumber(_ context.Context, _ uuid.UUID) (string, error) {
	r.seq++
	return fmt.Sprintf("INV-%05d", r.seq), nil
}

type receiptRepoFake struct {
	receipts map[uuid.UUID]sales.PaymentReceived
	seq      int
}

func newReceiptRepoFake() *receiptRepoFake {
	return &receiptRepoFake{receipts: make(map[uuid.UUID]sales.PaymentReceived)}
}

func (r *receiptRepoFake) FindByIDForOrg(_ context.Context, orgID, id uuid.UUID) (*sales.PaymentReceived, error) {
	p, ok := r.receipts[id]
	if !ok || p.OrgID != orgID {
		return nil, nil
	}
	copied := p
	return &copied, nil
}

func (r *receiptRepoFake) FindAllForOrg(_ context.Context, orgID uuid.UUID, _ sales.PaymentReceivedFilter) ([]sales.PaymentReceived, error) {
	var out []sales.PaymentReceived
	for _, p := range r.receipts {
		if p.OrgID == orgID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *receiptRepoFake) Save(_ context.Context, p *sales.PaymentReceived) error {
	r.receipts[p.ID] = *p
	return nil
}

func (r *receiptRepoFake) SaveWithLock(_ context.Context, p *sales.PaymentReceived) error {
	stored, ok := r.receipts[p.ID]
	if ok && stored.Version >= p.Version {
		return shared.ErrConcurrencyConflict
	}
	r.receipts[p.ID] = *p
	return nil
}

func (r *receiptRepoFake) Delete(_ context.Context, orgID, id uuid.UUID) error {
	p, ok := r.receipts[id]
	if !ok || p.OrgID != orgID {
		return shared.ErrNotFound
	}
	delete(r.receipts, id)
	return nil
}

func (r *receiptRepoFake) CountForOrg(_ context.Context, orgID uuid.UUID, _ sales.PaymentReceivedFilter) (int64, error) {
	var n int64
	for _, p := range r.receipts {
		if p.OrgID == orgID {
			n++
		}
	}
	return n, nil
}

func (r *receiptRepoFake) GenerateReceiptNumber(_ context.Context, _ uuid.UUID) (string, error) {
	r.seq++
	return fmt.Sprintf("RCPT-%05d", r.seq), nil
}

type orderRepoFake struct {
	orders map[uuid.UUID]sales.SalesOrder
	seq    int
}

func newOrderRepoFake() *orderRepoFake {
	return &orderRepoFake{orders: make(map[uuid.UUID]sales.SalesOrder)}
}

func (r *orderRepoFake) FindByIDForOrg(_ context.Context, orgID, id uuid.UUID) (*sales.SalesOrder, error) {
	so, ok := r.orders[id]
	if !ok || so.OrgID != orgID {
		return nil, nil
	}
	copied := so
	copied.Items = append(sales.SalesOrderItems{}, so.Items...)
	copied.Invoices = append(sales.InvoiceRefs{}, so.Invoices...)
	return &copied, nil
}

func (r *orderRepoFake) FindByNumber(_ context.Context, orgID uuid.UUID, number string) (*sales.SalesOrder, error) {
	for _, so := range r.orders {
		if so.OrgID == orgID && so.OrderNumber == number {
			copied := so
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *orderRepoFake) FindAllForOrg(_ context.Context, orgID uuid.UUID, _ sales.SalesOrderFilter) ([]sales.SalesOrder, error) {
	var out []sales.SalesOrder
	for _, so := range r.orders {
		if so.OrgID == orgID {
			out = append(out, so)
		}
	}
	return out, nil
}

func (r *orderRepoFake) Save(_ context.Context, so *sales.SalesOrder) error {
	r.orders[so.ID] = *so
	return nil
}

func (r *orderRepoFake) SaveWithLock(_ context.Context, so *sales.SalesOrder) error {
	stored, ok := r.orders[so.ID]
	if ok && stored.Version >= so.Version {
		return shared.ErrConcurrencyConflict
	}
	r.orders[so.ID] = *so
	return nil
}

func (r *orderRepoFake) Delete(_ context.Context, orgID, id uuid.UUID) error {
	so, ok := r.orders[id]
	if !ok || so.OrgID != orgID {
		return shared.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *orderRepoFake) CountForOrg(_ context.Context, orgID uuid.UUID, _ sales.SalesOrderFilter) (int64, error) {
	var n int64
	for _, so := range r.orders {
		if so.OrgID == orgID {
			n++
		}
	}
	return n, nil
}

func (r *orderRepoFake) GenerateOrderNumber(_ context.Context, _ uuid.UUID) (string, error) {
	r.seq++
	return fmt.Sprintf("SO-%05d", r.seq), nil
}

type customerRepoFake struct {
	customers map[uuid.UUID]partner.Customer
}

func newCustomerRepoFake() *customerRepoFake {
	return &customerRepoFake{customers: make(map[uuid.UUID]partner.Customer)}
}

func (r *customerRepoFake) FindByIDForOrg(_ context.Context, orgID, id uuid.UUID) (*partner.Customer, error) {
	c, ok := r.customers[id]
	if !ok || c.OrgID != orgID {
		return nil, nil
	}
	copied := c
	return &copied, nil
}

func (r *customerRepoFake) FindAllForOrg(_ context.Context, orgID uuid.UUID, _ shared.Filter) ([]partner.Customer, error) {
	var out []partner.Customer
	for _, c := range r.customers {
		if c.OrgID == orgID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *customerRepoFake) Save(_ context.Context, c *partner.Customer) error {
	r.customers[c.ID] = *c
	return nil
}

// fakeUow snapshots every repository before running fn and restores the
// snapshots when fn fails.
type fakeUow struct {
	invoices *invoiceRepoFake
	receipts *receiptRepoFake
	orders   *orderRepoFake
}

func (u *fakeUow) Do(_ context.Context, fn func(repos Repos) error) error {
	invSnap := make(map[uuid.UUID]sales.Invoice, len(u.invoices.invoices))
	for k, v := range u.invoices.invoices {
		invSnap[k] = v
	}
	rcptSnap := make(map[uuid.UUID]sales.PaymentReceived, len(u.receipts.receipts))
	for k, v := range u.receipts.receipts {
		rcptSnap[k] = v
	}
	orderSnap := make(map[uuid.UUID]sales.SalesOrder, len(u.orders.orders))
	for k, v := range u.orders.orders {
		orderSnap[k] = v
	}

	err := fn(Repos{Invoices: u.invoices, Receipts: u.receipts, Orders: u.orders})
	if err != nil {
		u.invoices.invoices = invSnap
		u.receipts.receipts = rcptSnap
		u.orders.orders = orderSnap
	}
	return err
}

type eventRecorder struct {
	events []shared.DomainEvent
}

func (r *eventRecorder) Publish(_ context.Context, events ...shared.DomainEvent) error {
	r.events = append(r.events, events...)
	return nil
}

func (r *eventRecorder) typeNames() []string {
	names := make([]string, 0, len(r.events))
	for _, e := range r.events {
		names = append(names, e.EventType())
	}
	return names
}
