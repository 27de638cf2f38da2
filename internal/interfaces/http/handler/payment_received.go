package handler

import (
	salesapp "github.com/finbooks/backend/internal/application/sales"
	"github.com/finbooks/backend/internal/domain/sales"
	"github.com/finbooks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentReceivedHandler handles customer payment (receipt) HTTP endpoints
type PaymentReceivedHandler struct {
	BaseHandler
	paymentService *salesapp.InvoicePaymentService
}

// NewPaymentReceivedHandler creates a new PaymentReceivedHandler
func NewPaymentReceivedHandler(paymentService *salesapp.InvoicePaymentService) *PaymentReceivedHandler {
	return &PaymentReceivedHandler{paymentService: paymentService}
}

// Get handles GET /payments-received/:id
func (h *PaymentReceivedHandler) Get(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	receiptID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.paymentService.GetReceipt(c.Request.Context(), orgID, receiptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// List handles GET /payments-received
func (h *PaymentReceivedHandler) List(c *gin.Context) {
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

	filter := sales.PaymentReceivedFilter{}
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
	filter.IsRefund = parseBoolQuery(c, "is_refund")
	if filter.FromDate, err = parseDateQuery(c, "from_date"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.ToDate, err = parseDateQuery(c, "to_date"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.paymentService.ListReceipts(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Reverse handles POST /payments-received/:id/reverse
func (h *PaymentReceivedHandler) Reverse(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	receiptID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.paymentService.ReverseReceipt(c.Request.Context(), orgID, receiptID, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// Delete handles DELETE /payments-received/:id
func (h *PaymentReceivedHandler) Delete(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	receiptID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.paymentService.DeleteReceipt(c.Request.Context(), orgID, receiptID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
