package purchase

import (
	"context"
	"testing"

	"github.com/finbooks/backend/internal/domain/partner"
	"github.com/finbooks/backend/internal/domain/purchase"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *purchaseFixture) creditService() *VendorCreditService {
	return NewVendorCreditService(f.uow, f.credits, f.vendors, f.events)
}

func TestApplyCredit_SettlesBillAfterPartialPayment(t *testing.T) {
	// Bill 1000.00: payment 400.00 then credit 600.00 leaves the bill
	// PAID and the credit CLOSED.
	f := newPurchaseFixture(t)
	bill := f.seedBill(t, 1000.00)

	_, err := f.paymentService().ApplyPayment(context.Background(), ApplyPaymentRequest{
		OrgID:         f.orgID,
		VendorID:      f.vendor.ID,
		PaymentAmount: valueobject.NewMoneyINRFromFloat(400.00),
		Mode:          purchase.PaymentModeBankTransfer,
		Allocations: map[uuid.UUID]decimal.Decimal{
			bill.ID: decimal.NewFromFloat(400.00),
		},
	})
	require.NoError(t, err)

	svc := f.creditService()
	credit, err := svc.CreateCredit(context.Background(), CreateCreditRequest{
		OrgID:    f.orgID,
		VendorID: f.vendor.ID,
		Amount:   valueobject.NewMoneyINRFromFloat(600.00),
	})
	require.NoError(t, err)

	result, err := svc.ApplyCredit(context.Background(), ApplyCreditRequest{
		OrgID:    f.orgID,
		CreditID: credit.ID,
		Allocations: map[uuid.UUID]decimal.Decimal{
			bill.ID: decimal.NewFromFloat(600.00),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, purchase.VendorCreditStatusClosed, result.Credit.Status)
	assert.True(t, result.Credit.Balance.IsZero())

	saved, _ := f.bills.FindByIDForOrg(context.Background(), f.orgID, bill.ID)
	assert.Equal(t, purchase.BillStatusPaid, saved.Status)
	assert.True(t, saved.PaidAmount.Equal(decimal.NewFromFloat(1000.00)))
	assert.True(t, saved.BalanceDue.IsZero())
}

func TestApplyCredit_AcrossMultipleBills(t *testing.T) {
	f := newPurchaseFixture(t)
	bill1 := f.seedBill(t, 300.00)
	bill2 := f.seedBill(t, 200.00)
	svc := f.creditService()

	credit, err := svc.CreateCredit(context.Background(), CreateCreditRequest{
		OrgID:    f.orgID,
		VendorID: f.vendor.ID,
		Amount:   valueobject.NewMoneyINRFromFloat(450.00),
	})
	require.NoError(t, err)

	result, err := svc.ApplyCredit(context.Background(), ApplyCreditRequest{
		OrgID:    f.orgID,
		CreditID: credit.ID,
		Allocations: map[uuid.UUID]decimal.Decimal{
			bill1.ID: decimal.NewFromFloat(300.00),
			bill2.ID: decimal.NewFromFloat(100.00),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, purchase.VendorCreditStatusOpen, result.Credit.Status)
	assert.True(t, result.Credit.Balance.Equal(decimal.NewFromFloat(50.00)))

	saved1, _ := f.bills.FindByIDForOrg(context.Background(), f.orgID, bill1.ID)
	assert.Equal(t, purchase.BillStatusPaid, saved1.Status)
	saved2, _ := f.bills.FindByIDForOrg(context.Background(), f.orgID, bill2.ID)
	assert.Equal(t, purchase.BillStatusPartiallyPaid, saved2.Status)
}

func TestApplyCredit_RejectsSumOverBalance(t *testing.T) {
	f := newPurchaseFixture(t)
	bill1 := f.seedBill(t, 300.00)
	bill2 := f.seedBill(t, 300.00)
	svc := f.creditService()

	credit, err := svc.CreateCredit(context.Background(), CreateCreditRequest{
		OrgID:    f.orgID,
		VendorID: f.vendor.ID,
		Amount:   valueobject.NewMoneyINRFromFloat(400.00),
	})
	require.NoError(t, err)

	_, err = svc.ApplyCredit(context.Background(), ApplyCreditRequest{
		OrgID:    f.orgID,
		CreditID: credit.ID,
		Allocations: map[uuid.UUID]decimal.Decimal{
			bill1.ID: decimal.NewFromFloat(300.00),
			bill2.ID: decimal.NewFromFloat(200.00),
		},
	})
	require.Error(t, err)

	// No partial application is observable.
	saved1, _ := f.bills.FindByIDForOrg(context.Background(), f.orgID, bill1.ID)
	assert.True(t, saved1.PaidAmount.IsZero())
	saved2, _ := f.bills.FindByIDForOrg(context.Background(), f.orgID, bill2.ID)
	assert.True(t, saved2.PaidAmount.IsZero())
	storedCredit, _ := f.credits.FindByIDForOrg(context.Background(), f.orgID, credit.ID)
	assert.True(t, storedCredit.Balance.Equal(decimal.NewFromFloat(400.00)))
}

func TestApplyCredit_ExhaustedCreditRejectsReplay(t *testing.T) {
	f := newPurchaseFixture(t)
	bill1 := f.seedBill(t, 500.00)
	bill2 := f.seedBill(t, 500.00)
	svc := f.creditService()

	credit, err := svc.CreateCredit(context.Background(), CreateCreditRequest{
		OrgID:    f.orgID,
		VendorID: f.vendor.ID,
		Amount:   valueobject.NewMoneyINRFromFloat(500.00),
	})
	require.NoError(t, err)

	_, err = svc.ApplyCredit(context.Background(), ApplyCreditRequest{
		OrgID:    f.orgID,
		CreditID: credit.ID,
		Allocations: map[uuid.UUID]decimal.Decimal{
			bill1.ID: decimal.NewFromFloat(500.00),
		},
	})
	require.NoError(t, err)

	_, err = svc.ApplyCredit(context.Background(), ApplyCreditRequest{
		OrgID:    f.orgID,
		CreditID: credit.ID,
		Allocations: map[uuid.UUID]decimal.Decimal{
			bill2.ID: decimal.NewFromFloat(500.00),
		},
	})
	assert.Error(t, err)
}

func TestApplyCredit_VendorMismatch(t *testing.T) {
	f := newPurchaseFixture(t)
	bill := f.seedBill(t, 500.00)

	other, err := partner.NewVendor(f.orgID, "Other Vendor", "", "", "", nil)
	require.NoError(t, err)
	require.NoError(t, f.vendors.Save(context.Background(), other))

	svc := f.creditService()
	credit, err := svc.CreateCredit(context.Background(), CreateCreditRequest{
		OrgID:    f.orgID,
		VendorID: other.ID,
		Amount:   valueobject.NewMoneyINRFromFloat(500.00),
	})
	require.NoError(t, err)

	_, err = svc.ApplyCredit(context.Background(), ApplyCreditRequest{
		OrgID:    f.orgID,
		CreditID: credit.ID,
		Allocations: map[uuid.UUID]decimal.Decimal{
			bill.ID: decimal.NewFromFloat(100.00),
		},
	})
	assert.Error(t, err)
}

func TestDeleteCredit_Guard(t *testing.T) {
	f := newPurchaseFixture(t)
	bill := f.seedBill(t, 500.00)
	svc := f.creditService()

	credit, err := svc.CreateCredit(context.Background(), CreateCreditRequest{
		OrgID:    f.orgID,
		VendorID: f.vendor.ID,
		Amount:   valueobject.NewMoneyINRFromFloat(300.00),
	})
	require.NoError(t, err)

	// Unapplied credit deletes cleanly.
	fresh, err := svc.CreateCredit(context.Background(), CreateCreditRequest{
		OrgID:    f.orgID,
		VendorID: f.vendor.ID,
		Amount:   valueobject.NewMoneyINRFromFloat(100.00),
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCredit(context.Background(), f.orgID, fresh.ID))

	_, err = svc.ApplyCredit(context.Background(), ApplyCreditRequest{
		OrgID:    f.orgID,
		CreditID: credit.ID,
		Allocations: map[uuid.UUID]decimal.Decimal{
			bill.ID: decimal.NewFromFloat(100.00),
		},
	})
	require.NoError(t, err)

	err = svc.DeleteCredit(context.Background(), f.orgID, credit.ID)
	assert.Error(t, err)
}
