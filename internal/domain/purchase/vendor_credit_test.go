package purchase

import (
	"testing"

	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCredit(t *testing.T, amount float64) *VendorCredit {
	t.Helper()
	vc, err := NewVendorCredit(
		uuid.New(),
		"VC-20260830-00001",
		uuid.New(),
		"Acme Supplies",
		valueobject.NewMoneyINRFromFloat(amount),
		nil,
	)
	require.NoError(t, err)
	return vc
}

func TestNewVendorCredit(t *testing.T) {
	vc := newTestCredit(t, 600.00)

	assert.Equal(t, VendorCreditStatusOpen, vc.Status)
	assert.True(t, vc.Balance.Equal(decimal.NewFromFloat(600.00)))
	assert.False(t, vc.IsApplied())
	assert.Empty(t, vc.Applications)
	assert.Len(t, vc.GetDomainEvents(), 1)
}

func TestNewVendorCredit_Invalid(t *testing.T) {
	orgID := uuid.New()
	vendorID := uuid.New()

	tests := []struct {
		name   string
		number string
		vendor uuid.UUID
		amount float64
	}{
		{"empty number", "", vendorID, 100},
		{"nil vendor", "VC-1", uuid.Nil, 100},
		{"zero amount", "VC-1", vendorID, 0},
		{"negative amount", "VC-1", vendorID, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewVendorCredit(orgID, tc.number, tc.vendor, "Acme",
				valueobject.NewMoneyINRFromFloat(tc.amount), nil)
			assert.Error(t, err)
		})
	}
}

func TestVendorCredit_Apply_Partial(t *testing.T) {
	vc := newTestCredit(t, 600.00)

	err := vc.Apply(uuid.New(), "BILL-1", valueobject.NewMoneyINRFromFloat(200.00), nil)
	require.NoError(t, err)

	assert.True(t, vc.Balance.Equal(decimal.NewFromFloat(400.00)))
	assert.Equal(t, VendorCreditStatusOpen, vc.Status)
	assert.True(t, vc.IsApplied())
	assert.True(t, vc.AppliedTotal().Equal(decimal.NewFromFloat(200.00)))
}

func TestVendorCredit_Apply_ExhaustsBalance(t *testing.T) {
	vc := newTestCredit(t, 600.00)

	require.NoError(t, vc.Apply(uuid.New(), "BILL-1", valueobject.NewMoneyINRFromFloat(600.00), nil))

	assert.True(t, vc.Balance.IsZero())
	assert.Equal(t, VendorCreditStatusClosed, vc.Status)
	assert.NotNil(t, vc.ClosedAt)
	assert.True(t, vc.IsClosed())
}

func TestVendorCredit_Apply_ExceedsBalance(t *testing.T) {
	vc := newTestCredit(t, 600.00)

	err := vc.Apply(uuid.New(), "BILL-1", valueobject.NewMoneyINRFromFloat(600.01), nil)
	assert.Error(t, err)
	assert.True(t, vc.Balance.Equal(decimal.NewFromFloat(600.00)))
	assert.Empty(t, vc.Applications)
}

func TestVendorCredit_Apply_WhenClosed(t *testing.T) {
	vc := newTestCredit(t, 100.00)
	require.NoError(t, vc.Apply(uuid.New(), "BILL-1", valueobject.NewMoneyINRFromFloat(100.00), nil))

	err := vc.Apply(uuid.New(), "BILL-2", valueobject.NewMoneyINRFromFloat(1.00), nil)
	assert.Error(t, err)
}

func TestVendorCredit_Apply_AcrossBills(t *testing.T) {
	vc := newTestCredit(t, 500.00)

	require.NoError(t, vc.Apply(uuid.New(), "BILL-1", valueobject.NewMoneyINRFromFloat(150.00), nil))
	require.NoError(t, vc.Apply(uuid.New(), "BILL-2", valueobject.NewMoneyINRFromFloat(250.00), nil))

	assert.Len(t, vc.Applications, 2)
	assert.True(t, vc.Balance.Equal(decimal.NewFromFloat(100.00)))
	assert.True(t, vc.AppliedTotal().Equal(decimal.NewFromFloat(400.00)))
	assert.Equal(t, VendorCreditStatusOpen, vc.Status)
}
