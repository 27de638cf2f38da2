package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finbooks/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testHandlers() Handlers {
	return Handlers{
		Bill:            handler.NewBillHandler(nil),
		PaymentMade:     handler.NewPaymentMadeHandler(nil),
		VendorCredit:    handler.NewVendorCreditHandler(nil),
		Invoice:         handler.NewInvoiceHandler(nil, nil),
		PaymentReceived: handler.NewPaymentReceivedHandler(nil),
		SalesOrder:      handler.NewSalesOrderHandler(nil),
		Partner:         handler.NewPartnerHandler(nil),
		System:          handler.NewSystemHandler(nil),
	}
}

func routeSet(engine *gin.Engine) map[string]bool {
	routes := make(map[string]bool)
	for _, r := range engine.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	return routes
}

func TestSetupRegistersDocumentRoutes(t *testing.T) {
	engine := gin.New()
	Setup(engine, testHandlers(), Config{Idempotency: IdempotencyFor(nil, 0)})

	routes := routeSet(engine)

	expected := []string{
		"POST /api/v1/bills",
		"GET /api/v1/bills",
		"GET /api/v1/bills/:id",
		"POST /api/v1/bills/:id/void",
		"DELETE /api/v1/bills/:id",
		"POST /api/v1/payments-made",
		"POST /api/v1/payments-made/:id/reverse",
		"POST /api/v1/vendor-credits/:id/apply-to-bills",
		"POST /api/v1/invoices",
		"POST /api/v1/invoices/:id/payments",
		"POST /api/v1/invoices/:id/refunds",
		"POST /api/v1/payments-received/:id/reverse",
		"POST /api/v1/sales-orders/:id/confirm",
		"POST /api/v1/sales-orders/:id/convert-to-invoice",
		"POST /api/v1/sales-orders/:id/cancel",
		"POST /api/v1/vendors",
		"PUT /api/v1/customers/:id/contact",
		"GET /health",
		"GET /ping",
	}
	for _, route := range expected {
		assert.True(t, routes[route], "missing route %s", route)
	}
}

func TestHealthEndpoint(t *testing.T) {
	engine := gin.New()
	Setup(engine, testHandlers(), Config{Idempotency: IdempotencyFor(nil, 0)})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestIdempotencyForNilStorePassesThrough(t *testing.T) {
	engine := gin.New()
	engine.POST("/pay", IdempotencyFor(nil, 0), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/pay", nil)
	req.Header.Set("Idempotency-Key", "key-1")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
