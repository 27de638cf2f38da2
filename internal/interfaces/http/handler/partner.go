package handler

import (
	partnerapp "github.com/finbooks/backend/internal/application/partner"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// PartnerHandler handles vendor and customer directory HTTP endpoints
type PartnerHandler struct {
	BaseHandler
	directoryService *partnerapp.DirectoryService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(directoryService *partnerapp.DirectoryService) *PartnerHandler {
	return &PartnerHandler{directoryService: directoryService}
}

// CreatePartyRequest is the wire request for registering a vendor or customer
type CreatePartyRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
	GSTIN string `json:"gstin"`
}

// UpdateContactRequest is the wire request for updating party contact details
type UpdateContactRequest struct {
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func partyFilter(c *gin.Context, h *PartnerHandler) (shared.Filter, bool) {
	var list dto.ListRequest
	if err := c.ShouldBindQuery(&list); err != nil {
		h.BadRequest(c, err.Error())
		return shared.Filter{}, false
	}
	list.Normalize()
	return shared.Filter{
		Page:     list.Page,
		PageSize: list.PageSize,
		OrderBy:  list.OrderBy,
		OrderDir: list.OrderDir,
		Search:   list.Search,
	}, true
}

// CreateVendor handles POST /vendors
func (h *PartnerHandler) CreateVendor(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	vendor, err := h.directoryService.CreateVendor(c.Request.Context(), partnerapp.CreatePartyRequest{
		OrgID:   orgID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		GSTIN:   req.GSTIN,
		ActorID: getActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, vendor)
}

// GetVendor handles GET /vendors/:id
func (h *PartnerHandler) GetVendor(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	vendorID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	vendor, err := h.directoryService.GetVendor(c.Request.Context(), orgID, vendorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendor)
}

// ListVendors handles GET /vendors
func (h *PartnerHandler) ListVendors(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	filter, ok := partyFilter(c, h)
	if !ok {
		return
	}

	vendors, err := h.directoryService.ListVendors(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendors)
}

// UpdateVendorContact handles PUT /vendors/:id/contact
func (h *PartnerHandler) UpdateVendorContact(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	vendorID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	vendor, err := h.directoryService.UpdateVendorContact(c.Request.Context(), orgID, vendorID, partnerapp.UpdateContactRequest{
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendor)
}

// DeactivateVendor handles POST /vendors/:id/deactivate
func (h *PartnerHandler) DeactivateVendor(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	vendorID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	vendor, err := h.directoryService.DeactivateVendor(c.Request.Context(), orgID, vendorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendor)
}

// CreateCustomer handles POST /customers
func (h *PartnerHandler) CreateCustomer(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.directoryService.CreateCustomer(c.Request.Context(), partnerapp.CreatePartyRequest{
		OrgID:   orgID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		GSTIN:   req.GSTIN,
		ActorID: getActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, customer)
}

// GetCustomer handles GET /customers/:id
func (h *PartnerHandler) GetCustomer(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	customerID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.directoryService.GetCustomer(c.Request.Context(), orgID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// ListCustomers handles GET /customers
func (h *PartnerHandler) ListCustomers(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	filter, ok := partyFilter(c, h)
	if !ok {
		return
	}

	customers, err := h.directoryService.ListCustomers(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customers)
}

// UpdateCustomerContact handles PUT /customers/:id/contact
func (h *PartnerHandler) UpdateCustomerContact(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	customerID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.directoryService.UpdateCustomerContact(c.Request.Context(), orgID, customerID, partnerapp.UpdateContactRequest{
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// DeactivateCustomer handles POST /customers/:id/deactivate
func (h *PartnerHandler) DeactivateCustomer(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	customerID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.directoryService.DeactivateCustomer(c.Request.Context(), orgID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}
