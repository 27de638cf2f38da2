package sales

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks/backend/internal/domain/partner"
	"github.com/finbooks/backend/internal/domain/sales"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type salesFixture struct {
	orgID     uuid.UUID
	customer  *partner.Customer
	invoices  *invoiceRepoFake
	receipts  *receiptRepoFake
	orders    *orderRepoFake
	customers *customerRepoFake
	uow       *fakeUow
	events    *eventRecorder
}

func newSalesFixture(t *testing.T) *salesFixture {
	t.Helper()
	orgID := uuid.New()
	customer, err := partner.NewCustomer(orgID, "Globex Traders", "ar@globex.example", "", "", nil)
	require.NoError(t, err)

	f := &salesFixture{
		orgID:     orgID,
		customer:  customer,
		invoices:  newInvoiceRepoFake(),
		receipts:  newReceiptRepoFake(),
		orders:    newOrderRepoFake(),
		customers: newCustomerRepoFake(),
		events:    &eventRecorder{},
	}
	f.uow = &fakeUow{invoices: f.invoices, receipts: f.receipts, orders: f.orders}
	require.NoError(t, f.customers.Save(context.Background(), customer))
	return f
}

func (f *salesFixture) seedInvoice(t *testing.T, total float64) *sales.Invoice {
	t.Helper()
	items := sales.InvoiceItems{{
		ID:       uuid.New(),
		Name:     "Consulting",
		Quantity: decimal.NewFromInt(1),
		Rate:     decimal.NewFromFloat(total),
		Amount:   decimal.NewFromFloat(total),
	}}
	inv, err := sales.NewInvoice(f.orgID, "INV-SEED-"+uuid.NewString()[:8], f.customer.ID, f.customer.Name,
		items, valueobject.NewMoneyINRFromFloat(total),
		valueobject.ZeroINR(), valueobject.ZeroINR(), valueobject.ZeroINR(),
		time.Now(), nil, nil)
	require.NoError(t, err)
	inv.ClearDomainEvents()
	require.NoError(t, f.invoices.Save(context.Background(), inv))
	return inv
}

func (f *salesFixture) paymentService() *InvoicePaymentService {
	return NewInvoicePaymentService(f.uow, f.invoices, f.receipts, f.events)
}

func TestRecordPayment_CreatesReceipt(t *testing.T) {
	f := newSalesFixture(t)
	invoice := f.seedInvoice(t, 500.00)
	svc := f.paymentService()

	result, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		OrgID:     f.orgID,
		InvoiceID: invoice.ID,
		Amount:    valueobject.NewMoneyINRFromFloat(200.00),
		Mode:      sales.PaymentModeUPI,
	})
	require.NoError(t, err)

	assert.Equal(t, sales.InvoiceStatusPartiallyPaid, result.Invoice.Status)
	assert.True(t, result.Invoice.BalanceDue.Equal(decimal.NewFromFloat(300.00)))

	require.Len(t, result.Receipt.Allocations, 1)
	assert.Equal(t, invoice.ID, result.Receipt.Allocations[0].InvoiceID)
	assert.False(t, result.Receipt.IsRefund)

	stored, _ := f.receipts.FindByIDForOrg(context.Background(), f.orgID, result.Receipt.ID)
	require.NotNil(t, stored)

	assert.Contains(t, f.events.typeNames(), "InvoicePaymentRecorded")
	assert.Contains(t, f.events.typeNames(), "PaymentReceivedCreated")
}

func TestRecordPayment_OverBalanceRollsBack(t *testing.T) {
	f := newSalesFixture(t)
	invoice := f.seedInvoice(t, 500.00)
	svc := f.paymentService()

	_, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		OrgID:     f.orgID,
		InvoiceID: invoice.ID,
		Amount:    valueobject.NewMoneyINRFromFloat(500.01),
		Mode:      sales.PaymentModeCash,
	})
	require.Error(t, err)

	saved, _ := f.invoices.FindByIDForOrg(context.Background(), f.orgID, invoice.ID)
	assert.True(t, saved.AmountPaid.IsZero())
	assert.Empty(t, f.receipts.receipts)
}

func TestRefund_ReopensInvoiceAndRecordsNegativeReceipt(t *testing.T) {
	// Invoice 500.00 fully paid, refund 200.00: balance due 200.00, a
	// negative receipt appears, and the source payment draws down.
	f := newSalesFixture(t)
	invoice := f.seedInvoice(t, 500.00)
	svc := f.paymentService()

	paid, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		OrgID:     f.orgID,
		InvoiceID: invoice.ID,
		Amount:    valueobject.NewMoneyINRFromFloat(500.00),
		Mode:      sales.PaymentModeBankTransfer,
	})
	require.NoError(t, err)
	require.Equal(t, sales.InvoiceStatusPaid, paid.Invoice.Status)

	result, err := svc.Refund(context.Background(), RefundRequest{
		OrgID:           f.orgID,
		InvoiceID:       invoice.ID,
		Amount:          valueobject.NewMoneyINRFromFloat(200.00),
		Reason:          "damaged goods",
		SourcePaymentID: &paid.Receipt.ID,
	})
	require.NoError(t, err)

	assert.True(t, result.Invoice.AmountPaid.Equal(decimal.NewFromFloat(300.00)))
	assert.True(t, result.Invoice.AmountRefunded.Equal(decimal.NewFromFloat(200.00)))
	assert.True(t, result.Invoice.BalanceDue.Equal(decimal.NewFromFloat(200.00)))
	assert.Equal(t, sales.InvoiceStatusPartiallyPaid, result.Invoice.Status)

	assert.True(t, result.RefundRecord.IsRefund)
	assert.True(t, result.RefundRecord.Amount.Equal(decimal.NewFromFloat(-200.00)))

	source, _ := f.receipts.FindByIDForOrg(context.Background(), f.orgID, paid.Receipt.ID)
	assert.True(t, source.RefundedAmount.Equal(decimal.NewFromFloat(200.00)))
	assert.True(t, source.RefundableAmount().Equal(decimal.NewFromFloat(300.00)))
}

func TestRefund_ExceedsAmountPaid(t *testing.T) {
	f := newSalesFixture(t)
	invoice := f.seedInvoice(t, 500.00)
	svc := f.paymentService()

	_, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		OrgID:     f.orgID,
		InvoiceID: invoice.ID,
		Amount:    valueobject.NewMoneyINRFromFloat(300.00),
		Mode:      sales.PaymentModeCash,
	})
	require.NoError(t, err)

	_, err = svc.Refund(context.Background(), RefundRequest{
		OrgID:     f.orgID,
		InvoiceID: invoice.ID,
		Amount:    valueobject.NewMoneyINRFromFloat(300.01),
		Reason:    "too much",
	})
	require.Error(t, err)

	saved, _ := f.invoices.FindByIDForOrg(context.Background(), f.orgID, invoice.ID)
	assert.True(t, saved.AmountRefunded.IsZero())
}

func TestRefund_SourceDrawdownExceedsRefundable(t *testing.T) {
	f := newSalesFixture(t)
	inv1 := f.seedInvoice(t, 500.00)
	inv2 := f.seedInvoice(t, 500.00)
	svc := f.paymentService()

	// 100.00 payment on inv1 is the refund source; inv2 is paid in full
	// so the invoice-level precondition passes while the source cannot
	// cover the drawdown.
	paid, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		OrgID:     f.orgID,
		InvoiceID: inv1.ID,
		Amount:    valueobject.NewMoneyINRFromFloat(100.00),
		Mode:      sales.PaymentModeCash,
	})
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), RecordPaymentRequest{
		OrgID:     f.orgID,
		InvoiceID: inv2.ID,
		Amount:    valueobject.NewMoneyINRFromFloat(500.00),
		Mode:      sales.PaymentModeCash,
	})
	require.NoError(t, err)

	_, err = svc.Refund(context.Background(), RefundRequest{
		OrgID:           f.orgID,
		InvoiceID:       inv2.ID,
		Amount:          valueobject.NewMoneyINRFromFloat(200.00),
		Reason:          "wrong source",
		SourcePaymentID: &paid.Receipt.ID,
	})
	require.Error(t, err)

	source, _ := f.receipts.FindByIDForOrg(context.Background(), f.orgID, paid.Receipt.ID)
	assert.True(t, source.RefundedAmount.IsZero())
}

func TestReverseReceipt_RestoresInvoice(t *testing.T) {
	f := newSalesFixture(t)
	invoice := f.seedInvoice(t, 500.00)
	svc := f.paymentService()

	paid, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		OrgID:     f.orgID,
		InvoiceID: invoice.ID,
		Amount:    valueobject.NewMoneyINRFromFloat(200.00),
		Mode:      sales.PaymentModeUPI,
	})
	require.NoError(t, err)

	receipt, err := svc.ReverseReceipt(context.Background(), f.orgID, paid.Receipt.ID, nil)
	require.NoError(t, err)
	assert.True(t, receipt.IsReversed())

	saved, _ := f.invoices.FindByIDForOrg(context.Background(), f.orgID, invoice.ID)
	assert.True(t, saved.AmountPaid.IsZero())
	assert.True(t, saved.BalanceDue.Equal(decimal.NewFromFloat(500.00)))
	assert.Equal(t, sales.InvoiceStatusPending, saved.Status)

	require.NoError(t, svc.DeleteReceipt(context.Background(), f.orgID, paid.Receipt.ID))
}

func TestDeleteReceipt_WithLiveAllocations(t *testing.T) {
	f := newSalesFixture(t)
	invoice := f.seedInvoice(t, 500.00)
	svc := f.paymentService()

	paid, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		OrgID:     f.orgID,
		InvoiceID: invoice.ID,
		Amount:    valueobject.NewMoneyINRFromFloat(200.00),
		Mode:      sales.PaymentModeCash,
	})
	require.NoError(t, err)

	err = svc.DeleteReceipt(context.Background(), f.orgID, paid.Receipt.ID)
	assert.Error(t, err)
}
