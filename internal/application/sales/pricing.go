package sales

import (
	"github.com/finbooks/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PricedLines is the tax summary of a set of invoice lines
type PricedLines struct {
	Items    sales.InvoiceItems
	SubTotal decimal.Decimal
	IGST     decimal.Decimal
	CGST     decimal.Decimal
	SGST     decimal.Decimal
}

// Total returns subtotal plus all tax components
func (p PricedLines) Total() decimal.Decimal {
	return p.SubTotal.Add(p.IGST).Add(p.CGST).Add(p.SGST)
}

// priceLines prices converted order lines into invoice items. Per line:
// gross = quantity x rate, the discount (percentage of gross, or a flat
// amount) comes off before tax, and the line tax is net x rate. An
// inter-state supply carries the tax as IGST; otherwise it splits evenly
// into CGST and SGST.
func priceLines(lines []sales.ConvertedLine, interState bool) PricedLines {
	items := make(sales.InvoiceItems, 0, len(lines))
	subTotal := decimal.Zero
	taxTotal := decimal.Zero

	for _, line := range lines {
		gross := line.Quantity.Mul(line.Rate)

		discount := decimal.Zero
		switch line.DiscountType {
		case sales.DiscountTypePercentage:
			discount = gross.Mul(line.DiscountValue).Div(hundred)
		case sales.DiscountTypeFlat:
			discount = line.DiscountValue
		}

		net := gross.Sub(discount)
		if net.IsNegative() {
			net = decimal.Zero
		}
		net = net.Round(2)

		tax := net.Mul(line.TaxRate).Div(hundred).Round(2)

		sourceID := line.SourceItemID
		var sourceRef *uuid.UUID
		if sourceID != uuid.Nil {
			sourceRef = &sourceID
		}
		items = append(items, sales.InvoiceItem{
			ID:            uuid.New(),
			SourceItemID:  sourceRef,
			Name:          line.Name,
			Quantity:      line.Quantity,
			Rate:          line.Rate,
			DiscountType:  line.DiscountType,
			DiscountValue: line.DiscountValue,
			TaxRate:       line.TaxRate,
			Amount:        net,
		})

		subTotal = subTotal.Add(net)
		taxTotal = taxTotal.Add(tax)
	}

	priced := PricedLines{Items: items, SubTotal: subTotal}
	if interState {
		priced.IGST = taxTotal
	} else {
		// Split keeps the component sum exact after rounding.
		priced.CGST = taxTotal.Div(decimal.NewFromInt(2)).Round(2)
		priced.SGST = taxTotal.Sub(priced.CGST)
	}
	return priced
}
