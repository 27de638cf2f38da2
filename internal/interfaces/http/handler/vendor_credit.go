package handler

import (
	purchaseapp "github.com/finbooks/backend/internal/application/purchase"
	"github.com/finbooks/backend/internal/domain/purchase"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/finbooks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VendorCreditHandler handles vendor credit HTTP endpoints
type VendorCreditHandler struct {
	BaseHandler
	creditService *purchaseapp.VendorCreditService
}

// NewVendorCreditHandler creates a new VendorCreditHandler
func NewVendorCreditHandler(creditService *purchaseapp.VendorCreditService) *VendorCreditHandler {
	return &VendorCreditHandler{creditService: creditService}
}

// CreateCreditRequest is the wire request for issuing a vendor credit
type CreateCreditRequest struct {
	VendorID string          `json:"vendorId" binding:"required,uuid"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Remark   string          `json:"remark"`
}

// Create handles POST /vendor-credits
func (h *VendorCreditHandler) Create(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req CreateCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	credit, err := h.creditService.CreateCredit(c.Request.Context(), purchaseapp.CreateCreditRequest{
		OrgID:    orgID,
		VendorID: uuid.MustParse(req.VendorID),
		Amount:   valueobject.NewMoneyINR(req.Amount),
		Remark:   req.Remark,
		ActorID:  getActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, credit)
}

// ApplyCreditRequest is the wire request for applying a credit across
// bills. creditsToApply maps bill ID to the credit amount applied.
type ApplyCreditRequest struct {
	CreditsToApply map[string]decimal.Decimal `json:"creditsToApply" binding:"required"`
}

// ApplyToBills handles POST /vendor-credits/:id/apply-to-bills
func (h *VendorCreditHandler) ApplyToBills(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	creditID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req ApplyCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	allocations, err := parseAllocations(req.CreditsToApply)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.creditService.ApplyCredit(c.Request.Context(), purchaseapp.ApplyCreditRequest{
		OrgID:       orgID,
		CreditID:    creditID,
		Allocations: allocations,
		ActorID:     getActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"credit": result.Credit,
		"bills":  result.Bills,
	})
}

// Get handles GET /vendor-credits/:id
func (h *VendorCreditHandler) Get(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	creditID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	credit, err := h.creditService.GetCredit(c.Request.Context(), orgID, creditID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, credit)
}

// List handles GET /vendor-credits
func (h *VendorCreditHandler) List(c *gin.Context) {
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

	filter := purchase.VendorCreditFilter{}
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
	if statusStr := c.Query("status"); statusStr != "" {
		status := purchase.VendorCreditStatus(statusStr)
		filter.Status = &status
	}

	page, err := h.creditService.ListCredits(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Delete handles DELETE /vendor-credits/:id
func (h *VendorCreditHandler) Delete(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	creditID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.creditService.DeleteCredit(c.Request.Context(), orgID, creditID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
