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

// BillHandler handles bill HTTP endpoints
type BillHandler struct {
	BaseHandler
	billService *purchaseapp.BillService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billService *purchaseapp.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// CreateBillRequest is the wire request for creating a bill
type CreateBillRequest struct {
	VendorID    string          `json:"vendorId" binding:"required,uuid"`
	TotalAmount decimal.Decimal `json:"totalAmount" binding:"required"`
	BillDate    *time.Time      `json:"billDate"`
	DueDate     *time.Time      `json:"dueDate"`
	Notes       string          `json:"notes"`
}

// Create handles POST /bills
func (h *BillHandler) Create(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	billDate := time.Now()
	if req.BillDate != nil {
		billDate = *req.BillDate
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), purchaseapp.CreateBillRequest{
		OrgID:       orgID,
		VendorID:    uuid.MustParse(req.VendorID),
		TotalAmount: valueobject.NewMoneyINR(req.TotalAmount),
		BillDate:    billDate,
		DueDate:     req.DueDate,
		Notes:       req.Notes,
		ActorID:     getActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, bill)
}

// Get handles GET /bills/:id
func (h *BillHandler) Get(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	billID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), orgID, billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// List handles GET /bills
func (h *BillHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	filter, err := h.parseFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.billService.ListBills(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// VoidBillRequest is the wire request for voiding a bill
type VoidBillRequest struct {
	Reason string `json:"reason"`
}

// Void handles POST /bills/:id/void
func (h *BillHandler) Void(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	billID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req VoidBillRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billService.VoidBill(c.Request.Context(), orgID, billID, req.Reason, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// Delete handles DELETE /bills/:id
func (h *BillHandler) Delete(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	billID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.billService.DeleteBill(c.Request.Context(), orgID, billID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *BillHandler) parseFilter(c *gin.Context) (purchase.BillFilter, error) {
	var list dto.ListRequest
	if err := c.ShouldBindQuery(&list); err != nil {
		return purchase.BillFilter{}, err
	}
	list.Normalize()

	filter := purchase.BillFilter{}
	filter.Page = list.Page
	filter.PageSize = list.PageSize
	filter.OrderBy = list.OrderBy
	filter.OrderDir = list.OrderDir
	filter.Search = list.Search

	if vendorIDStr := c.Query("vendor_id"); vendorIDStr != "" {
		vendorID, err := uuid.Parse(vendorIDStr)
		if err != nil {
			return purchase.BillFilter{}, err
		}
		filter.VendorID = &vendorID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := purchase.BillStatus(statusStr)
		filter.Status = &status
	}
	var err error
	if filter.FromDate, err = parseDateQuery(c, "from_date"); err != nil {
		return purchase.BillFilter{}, err
	}
	if filter.ToDate, err = parseDateQuery(c, "to_date"); err != nil {
		return purchase.BillFilter{}, err
	}
	filter.Overdue = parseBoolQuery(c, "overdue")

	return filter, nil
}
