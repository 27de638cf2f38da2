package handler

import (
	"time"

	purchaseapp "github.com/finbooks/backend/internal/application/purchase"
	"github.com/finbooks/backend/internal/domain/purchase"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/finbooks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMadeHandler handles vendor payment HTTP endpoints
type PaymentMadeHandler struct {
	BaseHandler
	paymentService *purchaseapp.PaymentApplicationService
}

// NewPaymentMadeHandler creates a new PaymentMadeHandler
func NewPaymentMadeHandler(paymentService *purchaseapp.PaymentApplicationService) *PaymentMadeHandler {
	return &PaymentMadeHandler{paymentService: paymentService}
}

// BillPaymentInput is one allocation in the apply-payment request
type BillPaymentInput struct {
	Payment decimal.Decimal `json:"payment" binding:"required"`
}

// ApplyPaymentRequest is the wire request for recording and distributing
// a vendor payment. billPayments maps bill ID to the amount applied.
type ApplyPaymentRequest struct {
	VendorID      string                      `json:"vendorId" binding:"required,uuid"`
	PaymentAmount decimal.Decimal             `json:"paymentAmount" binding:"required"`
	Mode          string                      `json:"mode" binding:"omitempty,paymentmode"`
	Reference     string                      `json:"reference"`
	PaymentDate   *time.Time                  `json:"paymentDate"`
	BillPayments  map[string]BillPaymentInput `json:"billPayments"`
}

// BillPaymentResult is one touched bill in the apply-payment response
type BillPaymentResult struct {
	BillID     uuid.UUID       `json:"billId"`
	BillNumber string          `json:"billNumber"`
	BillAmount decimal.Decimal `json:"billAmount"`
	AmountPaid decimal.Decimal `json:"amountPaid"`
}

// ApplyPaymentResponse is the wire response for a recorded payment
type ApplyPaymentResponse struct {
	ID                uuid.UUID                       `json:"id"`
	PaymentNumber     string                          `json:"paymentNumber"`
	VendorID          uuid.UUID                       `json:"vendorId"`
	VendorName        string                          `json:"vendorName"`
	Amount            decimal.Decimal                 `json:"amount"`
	AllocatedAmount   decimal.Decimal                 `json:"allocatedAmount"`
	UnallocatedAmount decimal.Decimal                 `json:"unallocatedAmount"`
	BillPayments      map[uuid.UUID]BillPaymentResult `json:"billPayments"`
}

// Apply handles POST /payments-made
func (h *PaymentMadeHandler) Apply(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	mode := purchase.PaymentMode(req.Mode)
	if req.Mode == "" {
		mode = purchase.PaymentModeBankTransfer
	}

	allocations := make(map[uuid.UUID]decimal.Decimal, len(req.BillPayments))
	for billIDStr, input := range req.BillPayments {
		billID, err := uuid.Parse(billIDStr)
		if err != nil {
			h.BadRequest(c, "invalid bill ID in billPayments: "+billIDStr)
			return
		}
		allocations[billID] = input.Payment
	}

	paymentDate := time.Now()
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	result, err := h.paymentService.ApplyPayment(c.Request.Context(), purchaseapp.ApplyPaymentRequest{
		OrgID:         orgID,
		VendorID:      uuid.MustParse(req.VendorID),
		PaymentAmount: valueobject.NewMoneyINR(req.PaymentAmount),
		Mode:          mode,
		Reference:     req.Reference,
		PaymentDate:   paymentDate,
		Allocations:   allocations,
		ActorID:       getActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, newApplyPaymentResponse(result))
}

func newApplyPaymentResponse(result *purchaseapp.ApplyPaymentResult) ApplyPaymentResponse {
	billsByID := make(map[uuid.UUID]*purchase.Bill, len(result.Bills))
	for _, bill := range result.Bills {
		billsByID[bill.ID] = bill
	}

	billPayments := make(map[uuid.UUID]BillPaymentResult, len(result.Payment.Allocations))
	for _, alloc := range result.Payment.Allocations {
		entry := BillPaymentResult{
			BillID:     alloc.BillID,
			BillNumber: alloc.BillNumber,
			BillAmount: alloc.BillTotal,
			AmountPaid: alloc.Amount,
		}
		if bill, ok := billsByID[alloc.BillID]; ok {
			entry.BillAmount = bill.TotalAmount
		}
		billPayments[alloc.BillID] = entry
	}

	return ApplyPaymentResponse{
		ID:                result.Payment.ID,
		PaymentNumber:     result.Payment.PaymentNumber,
		VendorID:          result.Payment.VendorID,
		VendorName:        result.Payment.VendorName,
		Amount:            result.Payment.Amount,
		AllocatedAmount:   result.Payment.AllocatedAmount,
		UnallocatedAmount: result.Payment.UnallocatedAmount,
		BillPayments:      billPayments,
	}
}

// Get handles GET /payments-made/:id
func (h *PaymentMadeHandler) Get(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	paymentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), orgID, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// List handles GET /payments-made
func (h *PaymentMadeHandler) List(c *gin.Context) {
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

	filter := purchase.PaymentMadeFilter{}
	filter.Page = list.Page
	filter.PageSize = list.PageSize
	filter.OrderBy = list.OrderBy
	filter.OrderDir = list.OrderDir
	filter.Search = list.Search
	if vendorIDStr := c.Query("vendor_id"); vendorIDStr != "" {
		vendorID, err := uuid.Parse(vendorIDStr)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		filter.VendorID = &vendorID
	}
	if filter.FromDate, err = parseDateQuery(c, "from_date"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.ToDate, err = parseDateQuery(c, "to_date"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.paymentService.ListPayments(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Reverse handles POST /payments-made/:id/reverse
func (h *PaymentMadeHandler) Reverse(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	paymentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.paymentService.ReversePayment(c.Request.Context(), orgID, paymentID, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"payment": result.Payment,
		"bills":   result.Bills,
	})
}

// Delete handles DELETE /payments-made/:id
func (h *PaymentMadeHandler) Delete(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	paymentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.paymentService.DeletePayment(c.Request.Context(), orgID, paymentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
