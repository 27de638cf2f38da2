package sales

import "github.com/shopspring/decimal"

// RecomputeInvoice rederives AmountPaid, AmountRefunded, BalanceDue and
// Status from the payments and refunds lists. It is pure over those lists
// and idempotent; it is the only writer of the derived fields.
//
// A refund that raises the balance due back above zero reopens the
// invoice: PARTIALLY_PAID while net payments remain, SENT once refunds
// have returned everything that was paid.
func RecomputeInvoice(inv *Invoice) {
	paid := decimal.Zero
	for _, entry := range inv.Payments {
		paid = paid.Add(entry.Amount)
	}
	refunded := decimal.Zero
	for _, entry := range inv.Refunds {
		refunded = refunded.Add(entry.Amount)
	}

	netPaid := paid.Sub(refunded)
	if netPaid.IsNegative() {
		netPaid = decimal.Zero
	}

	inv.AmountPaid = netPaid
	inv.AmountRefunded = refunded

	inv.BalanceDue = inv.TotalAmount.Sub(netPaid)
	if inv.BalanceDue.IsNegative() {
		inv.BalanceDue = decimal.Zero
	}

	// DRAFT is an explicit input state, not derived; it survives until
	// the first entry lands or the invoice is finalized.
	if inv.Status == InvoiceStatusDraft && len(inv.Payments) == 0 && len(inv.Refunds) == 0 {
		return
	}

	switch {
	case inv.BalanceDue.IsZero() && netPaid.GreaterThan(decimal.Zero):
		inv.Status = InvoiceStatusPaid
	case netPaid.GreaterThan(decimal.Zero):
		inv.Status = InvoiceStatusPartiallyPaid
	case refunded.GreaterThan(decimal.Zero):
		inv.Status = InvoiceStatusSent
	default:
		inv.Status = InvoiceStatusPending
	}
}
