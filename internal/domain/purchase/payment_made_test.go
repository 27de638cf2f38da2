package purchase

import (
	"testing"
	"time"

	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayment(t *testing.T, amount float64) *PaymentMade {
	t.Helper()
	p, err := NewPaymentMade(
		uuid.New(),
		"PAY-20260830-00001",
		uuid.New(),
		"Acme Supplies",
		valueobject.NewMoneyINRFromFloat(amount),
		PaymentModeBankTransfer,
		time.Now(),
		nil,
	)
	require.NoError(t, err)
	return p
}

func TestPaymentMode_IsValid(t *testing.T) {
	tests := []struct {
		mode     PaymentMode
		expected bool
	}{
		{PaymentModeCash, true},
		{PaymentModeBankTransfer, true},
		{PaymentModeCheque, true},
		{PaymentModeCard, true},
		{PaymentModeUPI, true},
		{PaymentMode("WIRE"), false},
		{PaymentMode(""), false},
	}

	for _, tc := range tests {
		t.Run(string(tc.mode), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.mode.IsValid())
		})
	}
}

func TestNewPaymentMade(t *testing.T) {
	p := newTestPayment(t, 1000.00)

	assert.True(t, p.AllocatedAmount.IsZero())
	assert.True(t, p.UnallocatedAmount.Equal(decimal.NewFromFloat(1000.00)))
	assert.Empty(t, p.Allocations)
	assert.Nil(t, p.ReversedAt)
	assert.Len(t, p.GetDomainEvents(), 1)
}

func TestNewPaymentMade_Invalid(t *testing.T) {
	orgID := uuid.New()
	vendorID := uuid.New()

	tests := []struct {
		name   string
		number string
		vendor uuid.UUID
		amount float64
		mode   PaymentMode
	}{
		{"empty number", "", vendorID, 100, PaymentModeCash},
		{"nil vendor", "PAY-1", uuid.Nil, 100, PaymentModeCash},
		{"zero amount", "PAY-1", vendorID, 0, PaymentModeCash},
		{"negative amount", "PAY-1", vendorID, -10, PaymentModeCash},
		{"bad mode", "PAY-1", vendorID, 100, PaymentMode("WIRE")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPaymentMade(orgID, tc.number, tc.vendor, "Acme",
				valueobject.NewMoneyINRFromFloat(tc.amount), tc.mode, time.Now(), nil)
			assert.Error(t, err)
		})
	}
}

func TestPaymentMade_AllocateToBill(t *testing.T) {
	p := newTestPayment(t, 1000.00)
	billID := uuid.New()

	err := p.AllocateToBill(billID, "BILL-1",
		valueobject.NewMoneyINRFromFloat(400.00),
		decimal.NewFromFloat(1000.00), decimal.NewFromFloat(600.00))
	require.NoError(t, err)

	assert.True(t, p.AllocatedAmount.Equal(decimal.NewFromFloat(400.00)))
	assert.True(t, p.UnallocatedAmount.Equal(decimal.NewFromFloat(600.00)))
	require.Len(t, p.Allocations, 1)

	alloc := p.AllocationFor(billID)
	require.NotNil(t, alloc)
	assert.Equal(t, "BILL-1", alloc.BillNumber)
	assert.True(t, alloc.BillBalanceAfter.Equal(decimal.NewFromFloat(600.00)))
}

func TestPaymentMade_AllocateToBill_DuplicateBill(t *testing.T) {
	p := newTestPayment(t, 1000.00)
	billID := uuid.New()

	require.NoError(t, p.AllocateToBill(billID, "BILL-1",
		valueobject.NewMoneyINRFromFloat(400.00),
		decimal.NewFromFloat(1000.00), decimal.NewFromFloat(600.00)))

	err := p.AllocateToBill(billID, "BILL-1",
		valueobject.NewMoneyINRFromFloat(100.00),
		decimal.NewFromFloat(1000.00), decimal.NewFromFloat(500.00))
	assert.Error(t, err)
	assert.Len(t, p.Allocations, 1)
}

func TestPaymentMade_AllocateToBill_OverPaymentAmount(t *testing.T) {
	// Allocations may exceed the payment amount; on-account floors at zero.
	p := newTestPayment(t, 500.00)

	require.NoError(t, p.AllocateToBill(uuid.New(), "BILL-1",
		valueobject.NewMoneyINRFromFloat(400.00),
		decimal.NewFromFloat(400.00), decimal.Zero))
	require.NoError(t, p.AllocateToBill(uuid.New(), "BILL-2",
		valueobject.NewMoneyINRFromFloat(300.00),
		decimal.NewFromFloat(300.00), decimal.Zero))

	assert.True(t, p.AllocatedAmount.Equal(decimal.NewFromFloat(700.00)))
	assert.True(t, p.UnallocatedAmount.IsZero())
}

func TestPaymentMade_Reverse(t *testing.T) {
	p := newTestPayment(t, 1000.00)
	require.NoError(t, p.AllocateToBill(uuid.New(), "BILL-1",
		valueobject.NewMoneyINRFromFloat(400.00),
		decimal.NewFromFloat(1000.00), decimal.NewFromFloat(600.00)))
	require.NoError(t, p.AllocateToBill(uuid.New(), "BILL-2",
		valueobject.NewMoneyINRFromFloat(250.00),
		decimal.NewFromFloat(250.00), decimal.Zero))

	removed, err := p.Reverse(nil)
	require.NoError(t, err)

	assert.Len(t, removed, 2)
	assert.Empty(t, p.Allocations)
	assert.True(t, p.AllocatedAmount.IsZero())
	assert.True(t, p.UnallocatedAmount.Equal(decimal.NewFromFloat(1000.00)))
	assert.True(t, p.IsReversed())
	assert.False(t, p.HasAllocations())
}

func TestPaymentMade_Reverse_Twice(t *testing.T) {
	p := newTestPayment(t, 1000.00)
	require.NoError(t, p.AllocateToBill(uuid.New(), "BILL-1",
		valueobject.NewMoneyINRFromFloat(400.00),
		decimal.NewFromFloat(1000.00), decimal.NewFromFloat(600.00)))

	_, err := p.Reverse(nil)
	require.NoError(t, err)

	_, err = p.Reverse(nil)
	assert.Error(t, err)
}

func TestPaymentMade_Reverse_NoAllocations(t *testing.T) {
	p := newTestPayment(t, 1000.00)

	_, err := p.Reverse(nil)
	assert.Error(t, err)
}

func TestPaymentMade_AllocateAfterReverse(t *testing.T) {
	p := newTestPayment(t, 1000.00)
	require.NoError(t, p.AllocateToBill(uuid.New(), "BILL-1",
		valueobject.NewMoneyINRFromFloat(400.00),
		decimal.NewFromFloat(1000.00), decimal.NewFromFloat(600.00)))
	_, err := p.Reverse(nil)
	require.NoError(t, err)

	err = p.AllocateToBill(uuid.New(), "BILL-2",
		valueobject.NewMoneyINRFromFloat(100.00),
		decimal.NewFromFloat(100.00), decimal.Zero)
	assert.Error(t, err)
}

func TestPaymentMade_SetReference(t *testing.T) {
	p := newTestPayment(t, 100.00)

	require.NoError(t, p.SetReference("NEFT-99281"))
	assert.Equal(t, "NEFT-99281", p.Reference)

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	assert.Error(t, p.SetReference(string(long)))
}
