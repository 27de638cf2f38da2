package router

import (
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/interfaces/http/handler"
	"github.com/finbooks/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler the API exposes
type Handlers struct {
	Bill            *handler.BillHandler
	PaymentMade     *handler.PaymentMadeHandler
	VendorCredit    *handler.VendorCreditHandler
	Invoice         *handler.InvoiceHandler
	PaymentReceived *handler.PaymentReceivedHandler
	SalesOrder      *handler.SalesOrderHandler
	Partner         *handler.PartnerHandler
	System          *handler.SystemHandler
}

// Config carries the router-level settings the route table needs
type Config struct {
	// Idempotency guards the money-moving endpoints against replays.
	Idempotency gin.HandlerFunc
}

// Setup registers all API routes under /api/v1 plus the unversioned
// health endpoints.
func Setup(engine *gin.Engine, h Handlers, cfg Config) {
	engine.GET("/health", h.System.Health)
	engine.GET("/ping", h.System.Ping)

	api := engine.Group("/api/v1")

	bills := api.Group("/bills")
	{
		bills.POST("", h.Bill.Create)
		bills.GET("", h.Bill.List)
		bills.GET("/:id", h.Bill.Get)
		bills.POST("/:id/void", h.Bill.Void)
		bills.DELETE("/:id", h.Bill.Delete)
	}

	payments := api.Group("/payments-made")
	{
		payments.POST("", cfg.Idempotency, h.PaymentMade.Apply)
		payments.GET("", h.PaymentMade.List)
		payments.GET("/:id", h.PaymentMade.Get)
		payments.POST("/:id/reverse", h.PaymentMade.Reverse)
		payments.DELETE("/:id", h.PaymentMade.Delete)
	}

	credits := api.Group("/vendor-credits")
	{
		credits.POST("", h.VendorCredit.Create)
		credits.GET("", h.VendorCredit.List)
		credits.GET("/:id", h.VendorCredit.Get)
		credits.POST("/:id/apply-to-bills", cfg.Idempotency, h.VendorCredit.ApplyToBills)
		credits.DELETE("/:id", h.VendorCredit.Delete)
	}

	invoices := api.Group("/invoices")
	{
		invoices.POST("", h.Invoice.Create)
		invoices.GET("", h.Invoice.List)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.POST("/:id/payments", cfg.Idempotency, h.Invoice.RecordPayment)
		invoices.POST("/:id/refunds", h.Invoice.Refund)
		invoices.DELETE("/:id", h.Invoice.Delete)
	}

	receipts := api.Group("/payments-received")
	{
		receipts.GET("", h.PaymentReceived.List)
		receipts.GET("/:id", h.PaymentReceived.Get)
		receipts.POST("/:id/reverse", h.PaymentReceived.Reverse)
		receipts.DELETE("/:id", h.PaymentReceived.Delete)
	}

	orders := api.Group("/sales-orders")
	{
		orders.POST("", h.SalesOrder.Create)
		orders.GET("", h.SalesOrder.List)
		orders.GET("/:id", h.SalesOrder.Get)
		orders.POST("/:id/confirm", h.SalesOrder.Confirm)
		orders.POST("/:id/convert-to-invoice", h.SalesOrder.ConvertToInvoice)
		orders.POST("/:id/cancel", h.SalesOrder.Cancel)
	}

	vendors := api.Group("/vendors")
	{
		vendors.POST("", h.Partner.CreateVendor)
		vendors.GET("", h.Partner.ListVendors)
		vendors.GET("/:id", h.Partner.GetVendor)
		vendors.PUT("/:id/contact", h.Partner.UpdateVendorContact)
		vendors.POST("/:id/deactivate", h.Partner.DeactivateVendor)
	}

	customers := api.Group("/customers")
	{
		customers.POST("", h.Partner.CreateCustomer)
		customers.GET("", h.Partner.ListCustomers)
		customers.GET("/:id", h.Partner.GetCustomer)
		customers.PUT("/:id/contact", h.Partner.UpdateCustomerContact)
		customers.POST("/:id/deactivate", h.Partner.DeactivateCustomer)
	}
}

// IdempotencyFor builds the replay-protection middleware from a store.
// A nil store disables it without punching a hole in the route table.
func IdempotencyFor(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	if store == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.Idempotency(store, ttl)
}
