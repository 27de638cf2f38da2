package purchase

import "github.com/shopspring/decimal"

// RecomputeBill derives PaidAmount, BalanceDue and Status from the bill's
// payment and credit entry lists. It is pure over those inputs and
// idempotent: recomputing an already-recomputed bill changes nothing.
// This is the only writer of derived bill state; the VOID transition is an
// explicit input handled by Bill.Void and preserved here.
func RecomputeBill(b *Bill) {
	paid := decimal.Zero
	for _, entry := range b.PaymentsRecorded {
		paid = paid.Add(entry.Amount)
	}
	for _, entry := range b.CreditsApplied {
		paid = paid.Add(entry.Amount)
	}

	b.PaidAmount = paid

	due := b.TotalAmount.Sub(paid)
	if due.IsNegative() {
		due = decimal.Zero
	}
	b.BalanceDue = due

	if b.Status == BillStatusVoid {
		b.BalanceDue = decimal.Zero
		return
	}

	switch {
	case paid.IsZero():
		b.Status = BillStatusOpen
	case due.IsZero():
		b.Status = BillStatusPaid
	default:
		b.Status = BillStatusPartiallyPaid
	}
}
