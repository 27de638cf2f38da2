package purchase

import (
	"context"

	"github.com/finbooks/backend/internal/domain/purchase"
)

// Repos bundles the purchase-side repositories bound to one transaction
type Repos struct {
	Bills    purchase.BillRepository
	Payments purchase.PaymentMadeRepository
	Credits  purchase.VendorCreditRepository
}

// UnitOfWork runs a function against transaction-bound repositories.
// Everything the function saves commits or rolls back as one unit, so a
// payment and every bill it touches are never persisted partially.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos Repos) error) error
}
