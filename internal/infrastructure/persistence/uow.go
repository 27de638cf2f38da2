package persistence

import (
	"context"

	purchaseapp "github.com/finbooks/backend/internal/application/purchase"
	salesapp "github.com/finbooks/backend/internal/application/sales"
	"gorm.io/gorm"
)

// GormPurchaseUnitOfWork runs purchase-side operations inside one
// database transaction. Every repository handed to the callback shares
// the transaction, so a payment and the bills it touches commit or roll
// back together.
type GormPurchaseUnitOfWork struct {
	db *gorm.DB
}

// NewGormPurchaseUnitOfWork creates a new GormPurchaseUnitOfWork
func NewGormPurchaseUnitOfWork(db *gorm.DB) *GormPurchaseUnitOfWork {
	return &GormPurchaseUnitOfWork{db: db}
}

// Do executes fn against transaction-bound repositories
func (u *GormPurchaseUnitOfWork) Do(ctx context.Context, fn func(repos purchaseapp.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(purchaseapp.Repos{
			Bills:    NewGormBillRepository(tx),
			Payments: NewGormPaymentMadeRepository(tx),
			Credits:  NewGormVendorCreditRepository(tx),
		})
	})
}

// GormSalesUnitOfWork runs sales-side operations inside one database
// transaction.
type GormSalesUnitOfWork struct {
	db *gorm.DB
}

// NewGormSalesUnitOfWork creates a new GormSalesUnitOfWork
func NewGormSalesUnitOfWork(db *gorm.DB) *GormSalesUnitOfWork {
	return &GormSalesUnitOfWork{db: db}
}

// Do executes fn against transaction-bound repositories
func (u *GormSalesUnitOfWork) Do(ctx context.Context, fn func(repos salesapp.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(salesapp.Repos{
			Invoices: NewGormInvoiceRepository(tx),
			Receipts: NewGormPaymentReceivedRepository(tx),
			Orders:   NewGormSalesOrderRepository(tx),
		})
	})
}

var (
	_ purchaseapp.UnitOfWork = (*GormPurchaseUnitOfWork)(nil)
	_ salesapp.UnitOfWork    = (*GormSalesUnitOfWork)(nil)
)
