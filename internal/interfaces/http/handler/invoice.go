package handler

import (
	"time"

	salesapp "github.com/finbooks/backend/internal/application/sales"
	"github.com/finbooks/backend/internal/domain/sales"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/finbooks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceHandler handles invoice HTTP endpoints, including payments and
// refunds recorded against invoices
type InvoiceHandler struct {
	BaseHandler
	invoiceService *salesapp.InvoiceService
	paymentService *salesapp.InvoicePaymentService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(
	invoiceService *salesapp.InvoiceService,
	paymentService *salesapp.InvoicePaymentService,
) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		paymentService: paymentService,
	}
}

// InvoiceLineRequest is one line on a directly created invoice
type InvoiceLineRequest struct {
	Name          string          `json:"name" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	Rate          decimal.Decimal `json:"rate" binding:"required"`
	DiscountType  string          `json:"discountType" binding:"omitempty,oneof=PERCENTAGE FLAT"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	TaxRate       decimal.Decimal `json:"taxRate"`
}

// CreateInvoiceRequest is the wire request for creating an invoice
type CreateInvoiceRequest struct {
	CustomerID  string               `json:"customerId" binding:"required,uuid"`
	InterState  bool                 `json:"interState"`
	Lines       []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
	InvoiceDate *time.Time           `json:"invoiceDate"`
	DueDate     *time.Time           `json:"dueDate"`
	Notes       string               `json:"notes"`
}

// Create handles POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lines := make([]sales.ConvertedLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		discountType := sales.DiscountType(line.DiscountType)
		if line.DiscountType == "" {
			discountType = sales.DiscountTypeFlat
		}
		lines = append(lines, sales.ConvertedLine{
			Name:          line.Name,
			Quantity:      line.Quantity,
			Rate:          line.Rate,
			DiscountType:  discountType,
			DiscountValue: line.DiscountValue,
			TaxRate:       line.TaxRate,
		})
	}

	invoiceDate := time.Now()
	if req.InvoiceDate != nil {
		invoiceDate = *req.InvoiceDate
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), salesapp.CreateInvoiceRequest{
		OrgID:       orgID,
		CustomerID:  uuid.MustParse(req.CustomerID),
		InterState:  req.InterState,
		Lines:       lines,
		InvoiceDate: invoiceDate,
		DueDate:     req.DueDate,
		Notes:       req.Notes,
		ActorID:     getActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// Get handles GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), orgID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List handles GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var list dto.ListRequest
	if err := c.ShouldBindQuery(&list); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	list.Normalize()

	filter := sales.InvoiceFilter{}
	filter.Page = list.Page
	filter.PageSize = list.PageSize
	filter.OrderBy = list.OrderBy
	filter.OrderDir = list.OrderDir
	filter.Search = list.Search
	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		customerID, err := uuid.Parse(customerIDStr)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		filter.CustomerID = &customerID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := sales.InvoiceStatus(statusStr)
		filter.Status = &status
	}
	if filter.FromDate, err = parseDateQuery(c, "from_date"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.ToDate, err = parseDateQuery(c, "to_date"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.Overdue = parseBoolQuery(c, "overdue")

	page, err := h.invoiceService.ListInvoices(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// RecordPaymentRequest is the wire request for recording a payment on an invoice
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Mode      string          `json:"mode" binding:"omitempty,paymentmode"`
	Reference string          `json:"reference"`
}

// RecordPayment handles POST /invoices/:id/payments
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	mode := sales.PaymentMode(req.Mode)
	if req.Mode == "" {
		mode = sales.PaymentModeBankTransfer
	}

	result, err := h.paymentService.RecordPayment(c.Request.Context(), salesapp.RecordPaymentRequest{
		OrgID:     orgID,
		InvoiceID: invoiceID,
		Amount:    valueobject.NewMoneyINR(req.Amount),
		Mode:      mode,
		Reference: req.Reference,
		ActorID:   getActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"invoice": result.Invoice,
		"receipt": result.Receipt,
	})
}

// RefundRequest is the wire request for refunding part of an invoice
type RefundRequest struct {
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Reason          string          `json:"reason"`
	SourcePaymentID *string         `json:"sourcePaymentId" binding:"omitempty,uuid"`
}

// Refund handles POST /invoices/:id/refunds
func (h *InvoiceHandler) Refund(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var sourcePaymentID *uuid.UUID
	if req.SourcePaymentID != nil {
		id := uuid.MustParse(*req.SourcePaymentID)
		sourcePaymentID = &id
	}

	result, err := h.paymentService.Refund(c.Request.Context(), salesapp.RefundRequest{
		OrgID:           orgID,
		InvoiceID:       invoiceID,
		Amount:          valueobject.NewMoneyINR(req.Amount),
		Reason:          req.Reason,
		SourcePaymentID: sourcePaymentID,
		ActorID:         getActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"invoice":      result.Invoice,
		"refundRecord": result.RefundRecord,
	})
}

// Delete handles DELETE /invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), orgID, invoiceID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
