package handler

import (
	"time"

	salesapp "github.com/finbooks/backend/internal/application/sales"
	"github.com/finbooks/backend/internal/domain/sales"
	"github.com/finbooks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrderHandler handles sales order HTTP endpoints
type SalesOrderHandler struct {
	BaseHandler
	orderService *salesapp.OrderInvoicingService
}

// NewSalesOrderHandler creates a new SalesOrderHandler
func NewSalesOrderHandler(orderService *salesapp.OrderInvoicingService) *SalesOrderHandler {
	return &SalesOrderHandler{orderService: orderService}
}

// OrderItemRequest is one line on a new sales order
type OrderItemRequest struct {
	Name          string          `json:"name" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	Rate          decimal.Decimal `json:"rate" binding:"required"`
	DiscountType  string          `json:"discountType" binding:"omitempty,oneof=PERCENTAGE FLAT"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	TaxRate       decimal.Decimal `json:"taxRate"`
}

// CreateOrderRequest is the wire request for creating a sales order
type CreateOrderRequest struct {
	CustomerID string             `json:"customerId" binding:"required,uuid"`
	InterState bool               `json:"interState"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	OrderDate  *time.Time         `json:"orderDate"`
}

// Create handles POST /sales-orders
func (h *SalesOrderHandler) Create(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items := make(sales.SalesOrderItems, 0, len(req.Items))
	for _, item := range req.Items {
		discountType := sales.DiscountType(item.DiscountType)
		if item.DiscountType == "" {
			discountType = sales.DiscountTypeFlat
		}
		items = append(items, sales.SalesOrderItem{
			ID:            uuid.New(),
			Name:          item.Name,
			Quantity:      item.Quantity,
			InvoicedQty:   decimal.Zero,
			Rate:          item.Rate,
			DiscountType:  discountType,
			DiscountValue: item.DiscountValue,
			TaxRate:       item.TaxRate,
			InvoiceStatus: sales.ItemNotInvoiced,
		})
	}

	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), salesapp.CreateOrderRequest{
		OrgID:      orgID,
		CustomerID: uuid.MustParse(req.CustomerID),
		InterState: req.InterState,
		Items:      items,
		OrderDate:  orderDate,
		ActorID:    getActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// Get handles GET /sales-orders/:id
func (h *SalesOrderHandler) Get(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orgID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List handles GET /sales-orders
func (h *SalesOrderHandler) List(c *gin.Context) {
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

	filter := sales.SalesOrderFilter{}
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
		status := sales.SalesOrderStatus(statusStr)
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

	page, err := h.orderService.ListOrders(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Confirm handles POST /sales-orders/:id/confirm
func (h *SalesOrderHandler) Confirm(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.ConfirmOrder(c.Request.Context(), orgID, orderID, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// ConvertRequest is the wire request for converting order items into an
// invoice. An empty selectedItemIds converts every remaining item.
type ConvertRequest struct {
	SelectedItemIDs []string   `json:"selectedItemIds" binding:"omitempty,dive,uuid"`
	DueDate         *time.Time `json:"dueDate"`
}

// ConvertToInvoice handles POST /sales-orders/:id/convert-to-invoice
func (h *SalesOrderHandler) ConvertToInvoice(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}

	selected := make([]uuid.UUID, 0, len(req.SelectedItemIDs))
	for _, idStr := range req.SelectedItemIDs {
		selected = append(selected, uuid.MustParse(idStr))
	}

	result, err := h.orderService.ConvertToInvoice(c.Request.Context(), salesapp.ConvertRequest{
		OrgID:           orgID,
		OrderID:         orderID,
		SelectedItemIDs: selected,
		DueDate:         req.DueDate,
		ActorID:         getActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"salesOrder": result.Order,
		"invoice":    result.Invoice,
	})
}

// CancelOrderRequest is the wire request for cancelling a sales order
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// Cancel handles POST /sales-orders/:id/cancel
func (h *SalesOrderHandler) Cancel(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), orgID, orderID, req.Reason, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
