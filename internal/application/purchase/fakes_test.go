package purchase

import (
	"context"
	"fmt"

	"github.com/finbooks/backend/internal/domain/partner"
	"github.com/finbooks/backend/internal/domain/purchase"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// In-memory repositories for service tests. Find returns a copy so
// mutations only become visible through Save, mirroring a real store.

type billRepoFake struct {
	bills map[uuid.UUID]purchase.Bill
	seq   int
}

func newBillRepoFake() *billRepoFake {
	return &billRepoFake{bills: make(map[uuid.UUID]purchase.Bill)}
}

func (r *billRepoFake) FindByIDForOrg(_ context.Context, orgID, id uuid.UUID) (*purchase.Bill, error) {
	bill, ok := r.bills[id]
	if !ok || bill.OrgID != orgID {
		return nil, nil
	}
	copied := bill
	return &copied, nil
}

func (r *billRepoFake) FindByNumber(_ context.Context, orgID uuid.UUID, number string) (*purchase.Bill, error) {
	for _, bill := range r.bills {
		if bill.OrgID == orgID && bill.BillNumber == number {
			copied := bill
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *billRepoFake) FindAllForOrg(_ context.Context, orgID uuid.UUID, _ purchase.BillFilter) ([]purchase.Bill, error) {
	var out []purchase.Bill
	for _, bill := range r.bills {
		if bill.OrgID == orgID {
			out = append(out, bill)
		}
	}
	return out, nil
}

func (r *billRepoFake) FindOutstandingByVendor(_ context.Context, orgID, vendorID uuid.UUID) ([]purchase.Bill, error) {
	var out []purchase.Bill
	for _, bill := range r.bills {
		if bill.OrgID == orgID && bill.VendorID == vendorID && bill.Status.CanApplyPayment() {
			out = append(out, bill)
		}
	}
	return out, nil
}

func (r *billRepoFake) Save(_ context.Context, bill *purchase.Bill) error {
	r.bills[bill.ID] = *bill
	return nil
}

func (r *billRepoFake) SaveWithLock(_ context.Context, bill *purchase.Bill) error {
	stored, ok := r.bills[bill.ID]
	if ok && stored.Version >= bill.Version {
		return shared.ErrConcurrencyConflict
	}
	r.bills[bill.ID] = *bill
	return nil
}

func (r *billRepoFake) Delete(_ context.Context, orgID, id uuid.UUID) error {
	bill, ok := r.bills[id]
	if !ok || bill.OrgID != orgID {
		return shared.ErrNotFound
	}
	delete(r.bills, id)
	return nil
}

func (r *billRepoFake) CountForOrg(_ context.Context, orgID uuid.UUID, _ purchase.BillFilter) (int64, error) {
	var n int64
	for _, bill := range r.bills {
		if bill.OrgID == orgID {
			n++
		}
	}
	return n, nil
}

func (r *billRepoFake) GenerateBillNumber(_ context.Context, _ uuid.UUID) (string, error) {
	r.seq++
	return fmt.Sprintf("BILL-%05d", r.seq), nil
}

type paymentRepoFake struct {
	payments map[uuid.UUID]purchase.PaymentMade
	seq      int
}

func newPaymentRepoFake() *paymentRepoFake {
	return &paymentRepoFake{payments: make(map[uuid.UUID]purchase.PaymentMade)}
}

func (r *paymentRepoFake) FindByIDForOrg(_ context.Context, orgID, id uuid.UUID) (*purchase.PaymentMade, error) {
	p, ok := r.payments[id]
	if !ok || p.OrgID != orgID {
		return nil, nil
	}
	copied := p
	return &copied, nil
}

func (r *paymentRepoFake) FindAllForOrg(_ context.Context, orgID uuid.UUID, _ purchase.PaymentMadeFilter) ([]purchase.PaymentMade, error) {
	var out []purchase.PaymentMade
	for _, p := range r.payments {
		if p.OrgID == orgID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *paymentRepoFake) Save(_ context.Context, p *purchase.PaymentMade) error {
	r.payments[p.ID] = *p
	return nil
}

func (r *paymentRepoFake) SaveWithLock(_ context.Context, p *purchase.PaymentMade) error {
	stored, ok := r.payments[p.ID]
	if ok && stored.Version >= p.Version {
		return shared.ErrConcurrencyConflict
	}
	r.payments[p.ID] = *p
	return nil
}

func (r *paymentRepoFake) Delete(_ context.Context, orgID, id uuid.UUID) error {
	p, ok := r.payments[id]
	if !ok || p.OrgID != orgID {
		return shared.ErrNotFound
	}
	delete(r.payments, id)
	return nil
}

func (r *paymentRepoFake) CountForOrg(_ context.Context, orgID uuid.UUID, _ purchase.PaymentMadeFilter) (int64, error) {
	var n int64
	for _, p := range r.payments {
		if p.OrgID == orgID {
			n++
		}
	}
	return n, nil
}

func (r *paymentRepoFake) GeneratePaymentNumber(_ context.Context, _ uuid.UUID) (string, error) {
	r.seq++
	return fmt.Sprintf("PAY-%05d", r.seq), nil
}

type creditRepoFake struct {
	credits map[uuid.UUID]purchase.VendorCredit
	seq     int
}

func newCreditRepoFake() *creditRepoFake {
	return &creditRepoFake{credits: make(map[uuid.UUID]purchase.VendorCredit)}
}

func (r *creditRepoFake) FindByIDForOrg(_ context.Context, orgID, id uuid.UUID) (*purchase.VendorCredit, error) {
	c, ok := r.credits[id]
	if !ok || c.OrgID != orgID {
		return nil, nil
	}
	copied := c
	return &copied, nil
}

func (r *creditRepoFake) FindAllForOrg(_ context.Context, orgID uuid.UUID, _ purchase.VendorCreditFilter) ([]purchase.VendorCredit, error) {
	var out []purchase.VendorCredit
	for _, c := range r.credits {
		if c.OrgID == orgID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *creditRepoFake) FindOpenByVendor(_ context.Context, orgID, vendorID uuid.UUID) ([]purchase.VendorCredit, error) {
	var out []purchase.VendorCredit
	for _, c := range r.credits {
		if c.OrgID == orgID && c.VendorID == vendorID && !c.IsClosed() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *creditRepoFake) Save(_ context.Context, c *purchase.VendorCredit) error {
	r.credits[c.ID] = *c
	return nil
}

func (r *creditRepoFake) SaveWithLock(_ context.Context, c *purchase.VendorCredit) error {
	stored, ok := r.credits[c.ID]
	if ok && stored.Version >= c.Version {
		return shared.ErrConcurrencyConflict
	}
	r.credits[c.ID] = *c
	return nil
}

func (r *creditRepoFake) Delete(_ context.Context, orgID, id uuid.UUID) error {
	c, ok := r.credits[id]
	if !ok || c.OrgID != orgID {
		return shared.ErrNotFound
	}
	delete(r.credits, id)
	return nil
}

func (r *creditRepoFake) CountForOrg(_ context.Context, orgID uuid.UUID, _ purchase.VendorCreditFilter) (int64, error) {
	var n int64
	for _, c := range r.credits {
		if c.OrgID == orgID {
			n++
		}
	}
	return n, nil
}

func (r *creditRepoFake) GenerateCreditNumber(_ context.Context, _ uuid.UUID) (string, error) {
	r.seq++
	return fmt.Sprintf("VC-%05d", r.seq), nil
}

type vendorRepoFake struct {
	vendors map[uuid.UUID]partner.Vendor
}

func newVendorRepoFake() *vendorRepoFake {
	return &vendorRepoFake{vendors: make(map[uuid.UUID]partner.Vendor)}
}

func (r *vendorRepoFake) FindByIDForOrg(_ context.Context, orgID, id uuid.UUID) (*partner.Vendor, error) {
	v, ok := r.vendors[id]
	if !ok || v.OrgID != orgID {
		return nil, nil
	}
	copied := v
	return &copied, nil
}

func (r *vendorRepoFake) FindAllForOrg(_ context.Context, orgID uuid.UUID, _ shared.Filter) ([]partner.Vendor, error) {
	var out []partner.Vendor
	for _, v := range r.vendors {
		if v.OrgID == orgID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *vendorRepoFake) Save(_ context.Context, v *partner.Vendor) error {
	r.vendors[v.ID] = *v
	return nil
}

// fakeUow snapshots every repository before running fn and restores the
// snapshots when fn fails, so all-or-nothing behavior is observable.
type fakeUow struct {
	bills    *billRepoFake
	payments *paymentRepoFake
	credits  *creditRepoFake
}

func (u *fakeUow) Do(_ context.Context, fn func(repos Repos) error) error {
	billSnap := make(map[uuid.UUID]purchase.Bill, len(u.bills.bills))
	for k, v := range u.bills.bills {
		billSnap[k] = v
	}
	paySnap := make(map[uuid.UUID]purchase.PaymentMade, len(u.payments.payments))
	for k, v := range u.payments.payments {
		paySnap[k] = v
	}
	creditSnap := make(map[uuid.UUID]purchase.VendorCredit, len(u.credits.credits))
	for k, v := range u.credits.credits {
		creditSnap[k] = v
	}

	err := fn(Repos{Bills: u.bills, Payments: u.payments, Credits: u.credits})
	if err != nil {
		u.bills.bills = billSnap
		u.payments.payments = paySnap
		u.credits.credits = creditSnap
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
