package purchase

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks/backend/internal/domain/partner"
	"github.com/finbooks/backend/internal/domain/purchase"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type purchaseFixture struct {
	orgID    uuid.UUID
	vendor   *partner.Vendor
	bills    *billRepoFake
	payments *paymentRepoFake
	credits  *creditRepoFake
	vendors  *vendorRepoFake
	uow      *fakeUow
	events   *eventRecorder
}

func newPurchaseFixture(t *testing.T) *purchaseFixture {
	t.Helper()
	orgID := uuid.New()
	vendor, err := partner.NewVendor(orgID, "Acme Supplies", "ap@acme.example", "", "", nil)
	require.NoError(t, err)

	f := &purchaseFixture{
		orgID:    orgID,
		vendor:   vendor,
		bills:    newBillRepoFake(),
		payments: newPaymentRepoFake(),
		credits:  newCreditRepoFake(),
		vendors:  newVendorRepoFake(),
		events:   &eventRecorder{},
	}
	f.uow = &fakeUow{bills: f.bills, payments: f.payments, credits: f.credits}
	require.NoError(t, f.vendors.Save(context.Background(), vendor))
	return f
}

func (f *purchaseFixture) seedBill(t *testing.T, total float64) *purchase.Bill {
	t.Helper()
	bill, err := purchase.NewBill(f.orgID, "BILL-SEED-"+uuid.NewString()[:8], f.vendor.ID, f.vendor.Name,
		valueobject.NewMoneyINRFromFloat(total), time.Now(), nil, nil)
	require.NoError(t, err)
	bill.ClearDomainEvents()
	require.NoError(t, f.bills.Save(context.Background(), bill))
	return bill
}

func (f *purchaseFixture) paymentService() *PaymentApplicationService {
	return NewPaymentApplicationService(f.uow, f.payments, f.vendors, f.events)
}

func TestApplyPayment_DistributesAcrossBills(t *testing.T) {
	f := newPurchaseFixture(t)
	bill1 := f.seedBill(t, 1000.00)
	bill2 := f.seedBill(t, 250.00)
	svc := f.paymentService()

	result, err := svc.ApplyPayment(context.Background(), ApplyPaymentRequest{
		OrgID:         f.orgID,
		VendorID:      f.vendor.ID,
		PaymentAmount: valueobject.NewMoneyINRFromFloat(1500.00),
		Mode:          purchase.PaymentModeBankTransfer,
		Allocations: map[uuid.UUID]decimal.Decimal{
			bill1.ID: decimal.NewFromFloat(400.00),
			bill2.ID: decimal.NewFromFloat(250.00),
		},
	})
	require.NoError(t, err)

	assert.Len(t, result.Payment.Allocations, 2)
	assert.True(t, result.Payment.AllocatedAmount.Equal(decimal.NewFromFloat(650.00)))
	assert.True(t, result.Payment.UnallocatedAmount.Equal(decimal.NewFromFloat(850.00)))

	saved1, _ := f.bills.FindByIDForOrg(context.Background(), f.orgID, bill1.ID)
	assert.Equal(t, purchase.BillStatusPartiallyPaid, saved1.Status)
	assert.True(t, saved1.BalanceDue.Equal(decimal.NewFromFloat(600.00)))

	saved2, _ := f.bills.FindByIDForOrg(context.Background(), f.orgID, bill2.ID)
	assert.Equal(t, purchase.BillStatusPaid, saved2.Status)
	assert.True(t, saved2.BalanceDue.IsZero())

	assert.Contains(t, f.events.typeNames(), "PaymentMadeCreated")
	assert.Contains(t, f.events.typeNames(), "BillPaid")
}

func TestApplyPayment_RejectsAllocationOverBillBalance(t *testing.T) {
	f := newPurchaseFixture(t)
	bill := f.seedBill(t, 1000.00)
	svc := f.paymentService()

	_, err := svc.ApplyPayment(context.Background(), ApplyPaymentRequest{
		OrgID:         f.orgID,
		VendorID:      f.vendor.ID,
		PaymentAmount: valueobject.NewMoneyINRFromFloat(2000.00),
		Mode:          purchase.PaymentModeCash,
		Allocations: map[uuid.UUID]decimal.Decimal{
			bill.ID: decimal.NewFromFloat(1000.01),
		},
	})
	require.Error(t, err)

	saved, _ := f.bills.FindByIDForOrg(context.Background(), f.orgID, bill.ID)
	assert.True(t, saved.PaidAmount.IsZero())
	assert.Empty(t, f.payments.payments)
}

func TestApplyPayment_AtomicAcrossBills(t *testing.T) {
	// Second allocation fails, so the first bill's mutation rolls back.
	f := newPurchaseFixture(t)
	bill1 := f.seedBill(t, 1000.00)
	bill2 := f.seedBill(t, 100.00)
	svc := f.paymentService()

	_, err := svc.ApplyPayment(context.Background(), ApplyPaymentRequest{
		OrgID:         f.orgID,
		VendorID:      f.vendor.ID,
		PaymentAmount: valueobject.NewMoneyINRFromFloat(1000.00),
		Mode:          purchase.PaymentModeCash,
		Allocations: map[uuid.UUID]decimal.Decimal{
			bill1.ID: decimal.NewFromFloat(400.00),
			bill2.ID: decimal.NewFromFloat(500.00),
		},
	})
	require.Error(t, err)

	saved1, _ := f.bills.FindByIDForOrg(context.Background(), f.orgID, bill1.ID)
	assert.True(t, saved1.PaidAmount.IsZero())
	assert.Equal(t, purchase.BillStatusOpen, saved1.Status)

	saved2, _ := f.bills.FindByIDForOrg(context.Background(), f.orgID, bill2.ID)
	assert.True(t, saved2.PaidAmount.IsZero())

	assert.Empty(t, f.payments.payments)
}

func TestApplyPayment_VendorMismatch(t *testing.T) {
	f := newPurchaseFixture(t)
	other, err := partner.NewVendor(f.orgID, "Other Vendor", "", "", "", nil)
	require.NoError(t, err)
	require.NoError(t, f.vendors.Save(context.Background(), other))

	bill := f.seedBill(t, 500.00)
	svc := f.paymentService()

	_, err = svc.ApplyPayment(context.Background(), ApplyPaymentRequest{
		OrgID:         f.orgID,
		VendorID:      other.ID,
		PaymentAmount: valueobject.NewMoneyINRFromFloat(500.00),
		Mode:          purchase.PaymentModeCash,
		Allocations: map[uuid.UUID]decimal.Decimal{
			bill.ID: decimal.NewFromFloat(500.00),
		},
	})
	assert.Error(t, err)
}

func TestReversePayment_RestoresBillBalances(t *testing.T) {
	f := newPurchaseFixture(t)
	bill := f.seedBill(t, 1000.00)
	svc := f.paymentService()

	applied, err := svc.ApplyPayment(context.Background(), ApplyPaymentRequest{
		OrgID:         f.orgID,
		VendorID:      f.vendor.ID,
		PaymentAmount: valueobject.NewMoneyINRFromFloat(400.00),
		Mode:          purchase.PaymentModeUPI,
		Allocations: map[uuid.UUID]decimal.Decimal{
			bill.ID: decimal.NewFromFloat(400.00),
		},
	})
	require.NoError(t, err)

	reversed, err := svc.ReversePayment(context.Background(), f.orgID, applied.Payment.ID, nil)
	require.NoError(t, err)

	assert.True(t, reversed.Payment.IsReversed())
	assert.False(t, reversed.Payment.HasAllocations())

	saved, _ := f.bills.FindByIDForOrg(context.Background(), f.orgID, bill.ID)
	assert.True(t, saved.PaidAmount.IsZero())
	assert.True(t, saved.BalanceDue.Equal(decimal.NewFromFloat(1000.00)))
	assert.Equal(t, purchase.BillStatusOpen, saved.Status)

	// A reversed payment becomes deletable.
	require.NoError(t, svc.DeletePayment(context.Background(), f.orgID, applied.Payment.ID))
}

func TestDeletePayment_WithLiveAllocations(t *testing.T) {
	f := newPurchaseFixture(t)
	bill := f.seedBill(t, 1000.00)
	svc := f.paymentService()

	applied, err := svc.ApplyPayment(context.Background(), ApplyPaymentRequest{
		OrgID:         f.orgID,
		VendorID:      f.vendor.ID,
		PaymentAmount: valueobject.NewMoneyINRFromFloat(400.00),
		Mode:          purchase.PaymentModeCash,
		Allocations: map[uuid.UUID]decimal.Decimal{
			bill.ID: decimal.NewFromFloat(400.00),
		},
	})
	require.NoError(t, err)

	err = svc.DeletePayment(context.Background(), f.orgID, applied.Payment.ID)
	assert.Error(t, err)

	stored, _ := f.payments.FindByIDForOrg(context.Background(), f.orgID, applied.Payment.ID)
	assert.NotNil(t, stored)
}
