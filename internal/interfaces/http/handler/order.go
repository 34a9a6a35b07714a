package handler

import (
	"github.com/gin-gonic/gin"

	orderapp "github.com/oms/backend/internal/application/ordering"
	reportapp "github.com/oms/backend/internal/application/report"
)

// OrderHandler handles order-related API endpoints
type OrderHandler struct {
	BaseHandler
	orderService  *orderapp.OrderService
	reportService *reportapp.ReconciliationService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService, reportService *reportapp.ReconciliationService) *OrderHandler {
	return &OrderHandler{
		orderService:  orderService,
		reportService: reportService,
	}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.PATCH("/:id/delivery", h.UpdateDelivery)
		orders.DELETE("/:id", h.Delete)
	}
}

// Create creates an order from a submitted cart
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orderService.CreateOrderFromCart(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns an order with totals reconciled from its line items
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return
	}

	resp, err := h.reportService.GetReconciledOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns orders matching the query filters
func (h *OrderHandler) List(c *gin.Context) {
	var query orderapp.OrderListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orderService.ListOrders(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateDelivery toggles the order's delivered flag
func (h *OrderHandler) UpdateDelivery(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return
	}

	var req orderapp.UpdateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orderService.UpdateDeliveryStatus(c.Request.Context(), id, *req.Delivered)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes an order and its items and addresses
func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
