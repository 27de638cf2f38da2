package sales

import (
	"testing"

	"github.com/finbooks/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPriceLines(t *testing.T) {
	tests := []struct {
		name       string
		line       sales.ConvertedLine
		interState bool
		wantNet    string
		wantIGST   string
		wantCGST   string
		wantSGST   string
	}{
		{
			name: "plain line intra-state",
			line: sales.ConvertedLine{
				Name: "Widget", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromFloat(150.00),
				TaxRate: decimal.NewFromInt(18),
			},
			wantNet: "300.00", wantIGST: "0", wantCGST: "27.00", wantSGST: "27.00",
		},
		{
			name: "percentage discount before tax",
			line: sales.ConvertedLine{
				Name: "Widget", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromFloat(1000.00),
				DiscountType: sales.DiscountTypePercentage, DiscountValue: decimal.NewFromInt(25),
				TaxRate: decimal.NewFromInt(12),
			},
			interState: true,
			wantNet:    "750.00", wantIGST: "90.00", wantCGST: "0", wantSGST: "0",
		},
		{
			name: "flat discount larger than gross floors at zero",
			line: sales.ConvertedLine{
				Name: "Freebie", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromFloat(40.00),
				DiscountType: sales.DiscountTypeFlat, DiscountValue: decimal.NewFromFloat(50.00),
				TaxRate: decimal.NewFromInt(18),
			},
			wantNet: "0.00", wantIGST: "0", wantCGST: "0.00", wantSGST: "0.00",
		},
		{
			name: "zero tax rate",
			line: sales.ConvertedLine{
				Name: "Exempt", Quantity: decimal.NewFromInt(3), Rate: decimal.NewFromFloat(10.00),
			},
			wantNet: "30.00", wantIGST: "0", wantCGST: "0.00", wantSGST: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priced := priceLines([]sales.ConvertedLine{tt.line}, tt.interState)
			assert.True(t, priced.SubTotal.Equal(decimal.RequireFromString(tt.wantNet)),
				"subtotal = %s", priced.SubTotal)
			assert.True(t, priced.IGST.Equal(decimal.RequireFromString(tt.wantIGST)),
				"igst = %s", priced.IGST)
			assert.True(t, priced.CGST.Equal(decimal.RequireFromString(tt.wantCGST)),
				"cgst = %s", priced.CGST)
			assert.True(t, priced.SGST.Equal(decimal.RequireFromString(tt.wantSGST)),
				"sgst = %s", priced.SGST)
		})
	}
}

func TestPriceLines_OddTaxSplitsExactly(t *testing.T) {
	// 333.33 at 5% gives 16.67 of tax, which does not halve cleanly. The
	// two components must still sum to the tax total.
	priced := priceLines([]sales.ConvertedLine{{
		Name: "Odd", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromFloat(333.33),
		TaxRate: decimal.NewFromInt(5),
	}}, false)

	taxTotal := priced.CGST.Add(priced.SGST)
	assert.True(t, taxTotal.Equal(decimal.NewFromFloat(16.67)), "tax = %s", taxTotal)
	assert.True(t, priced.CGST.Equal(decimal.NewFromFloat(8.34)) || priced.CGST.Equal(decimal.NewFromFloat(8.33)))
}
