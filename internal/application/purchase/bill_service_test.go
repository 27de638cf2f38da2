package purchase

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks/backend/internal/domain/purchase"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *purchaseFixture) billService() *BillService {
	return NewBillService(f.uow, f.bills, f.vendors, f.events)
}

func TestCreateBill_GeneratesNumberAndPublishes(t *testing.T) {
	f := newPurchaseFixture(t)
	svc := f.billService()

	bill, err := svc.CreateBill(context.Background(), CreateBillRequest{
		OrgID:       f.orgID,
		VendorID:    f.vendor.ID,
		TotalAmount: valueobject.NewMoneyINRFromFloat(1200.00),
		BillDate:    time.Now(),
		Notes:       "office supplies",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, bill.BillNumber)
	assert.Equal(t, f.vendor.Name, bill.VendorName)
	assert.Equal(t, purchase.BillStatusOpen, bill.Status)
	assert.True(t, bill.BalanceDue.Equal(decimal.NewFromFloat(1200.00)))
	assert.Equal(t, "office supplies", bill.Remark)

	saved, _ := f.bills.FindByIDForOrg(context.Background(), f.orgID, bill.ID)
	require.NotNil(t, saved)
	assert.Contains(t, f.events.typeNames(), "BillCreated")
}

func TestCreateBill_RejectsInactiveVendor(t *testing.T) {
	f := newPurchaseFixture(t)
	require.NoError(t, f.vendor.Deactivate())
	require.NoError(t, f.vendors.Save(context.Background(), f.vendor))
	svc := f.billService()

	_, err := svc.CreateBill(context.Background(), CreateBillRequest{
		OrgID:       f.orgID,
		VendorID:    f.vendor.ID,
		TotalAmount: valueobject.NewMoneyINRFromFloat(500.00),
		BillDate:    time.Now(),
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	assert.Empty(t, f.bills.bills)
}

func TestCreateBill_UnknownVendorNotFound(t *testing.T) {
	f := newPurchaseFixture(t)
	svc := f.billService()

	_, err := svc.CreateBill(context.Background(), CreateBillRequest{
		OrgID:       f.orgID,
		VendorID:    uuid.New(),
		TotalAmount: valueobject.NewMoneyINRFromFloat(500.00),
		BillDate:    time.Now(),
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestVoidBill_TransitionsAndPublishes(t *testing.T) {
	f := newPurchaseFixture(t)
	bill := f.seedBill(t, 750.00)
	svc := f.billService()

	voided, err := svc.VoidBill(context.Background(), f.orgID, bill.ID, "duplicate entry", nil)
	require.NoError(t, err)

	assert.Equal(t, purchase.BillStatusVoid, voided.Status)
	assert.True(t, voided.BalanceDue.IsZero())
	assert.Equal(t, "duplicate entry", voided.VoidReason)

	saved, _ := f.bills.FindByIDForOrg(context.Background(), f.orgID, bill.ID)
	assert.Equal(t, purchase.BillStatusVoid, saved.Status)
	assert.Contains(t, f.events.typeNames(), "BillVoided")
}

func TestVoidBill_RejectedAfterPaymentApplied(t *testing.T) {
	f := newPurchaseFixture(t)
	bill := f.seedBill(t, 1000.00)

	_, err := f.paymentService().ApplyPayment(context.Background(), ApplyPaymentRequest{
		OrgID:         f.orgID,
		VendorID:      f.vendor.ID,
		PaymentAmount: valueobject.NewMoneyINRFromFloat(400.00),
		Mode:          purchase.PaymentModeCash,
		Allocations: map[uuid.UUID]decimal.Decimal{
			bill.ID: decimal.NewFromFloat(400.00),
		},
	})
	require.NoError(t, err)

	_, err = f.billService().VoidBill(context.Background(), f.orgID, bill.ID, "mistake", nil)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)

	saved, _ := f.bills.FindByIDForOrg(context.Background(), f.orgID, bill.ID)
	assert.Equal(t, purchase.BillStatusPartiallyPaid, saved.Status)
}

func TestDeleteBill_BlockedWhileAllocated(t *testing.T) {
	f := newPurchaseFixture(t)
	bill := f.seedBill(t, 1000.00)

	_, err := f.paymentService().ApplyPayment(context.Background(), ApplyPaymentRequest{
		OrgID:         f.orgID,
		VendorID:      f.vendor.ID,
		PaymentAmount: valueobject.NewMoneyINRFromFloat(250.00),
		Mode:          purchase.PaymentModeUPI,
		Allocations: map[uuid.UUID]decimal.Decimal{
			bill.ID: decimal.NewFromFloat(250.00),
		},
	})
	require.NoError(t, err)
	svc := f.billService()

	err = svc.DeleteBill(context.Background(), f.orgID, bill.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)

	clean := f.seedBill(t, 300.00)
	require.NoError(t, svc.DeleteBill(context.Background(), f.orgID, clean.ID))
	saved, _ := f.bills.FindByIDForOrg(context.Background(), f.orgID, clean.ID)
	assert.Nil(t, saved)
}

func TestListBills_Paginates(t *testing.T) {
	f := newPurchaseFixture(t)
	for i := 0; i < 3; i++ {
		f.seedBill(t, 100.00)
	}
	svc := f.billService()

	page, err := svc.ListBills(context.Background(), f.orgID, purchase.BillFilter{
		Filter: shared.Filter{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 3)
}
