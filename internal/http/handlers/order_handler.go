package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/http/middleware"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/services"
)

// OrderListResponse is a paginated page of orders.
type OrderListResponse struct {
	Orders     any        `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// StatusRequest carries a single target order status.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder godoc
// @ID          createOrder
// @Summary     Place an order
// @Description Prices are resolved server-side from the current menu. Works
// @Description for both signed-in customers and anonymous walk-ins. Repeating
// @Description a request with the same Idempotency-Key returns the original
// @Description order instead of creating a duplicate.
// @Tags        Orders
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string                 false  "Client-chosen dedupe key"
// @Param       body             body    services.OrderInput    true   "Order"
// @Success     201  {object}  domain.Order
// @Success     200  {object}  domain.Order  "Replayed from an earlier identical request"
// @Failure     409  {object}  handlers.ErrorResponse "Business day is closed"
// @Failure     422  {object}  handlers.ErrorResponse "An item is sold out"
// @Router      /orders [post]
func (h *Handlers) CreateOrder(c *gin.Context) {
	var in services.OrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	userID := middleware.UserID(c)
	idemKey, _ := middleware.GetIdempotencyKey(c)

	order, replayed, err := h.orderSvc.Create(c.Request.Context(), userID, idemKey, in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDayClosed):
			fail(c, http.StatusConflict, ErrCodeDayClosed, "the business day is not open")
		case errors.Is(err, services.ErrEmptyOrder):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "order has no items")
		case errors.Is(err, services.ErrMenuItemNotFound):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "an ordered item does not exist")
		case errors.Is(err, services.ErrItemUnavailable):
			fail(c, http.StatusUnprocessableEntity, ErrCodeItemUnavailable, "an ordered item is sold out")
		case errors.Is(err, services.ErrInvalidSetting):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid order details")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not place order")
		}
		return
	}

	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	ok(c, status, order)
}

// GetOrder godoc
// @ID          getOrder
// @Summary     Fetch an order
// @Description Customers can only see their own orders; staff see any order.
// @Tags        Orders
// @Produce     json
// @Param       id  path  string  true  "Order ID"
// @Success     200  {object}  domain.Order
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /orders/{id} [get]
func (h *Handlers) GetOrder(c *gin.Context) {
	// Customers are scoped to their own orders. Staff, and anonymous
	// walk-ins holding an unguessable order ID, read unrestricted.
	requesterID := ""
	if !domain.StaffRole(middleware.UserRole(c)) {
		requesterID = middleware.UserID(c)
	}
	order, err := h.orderSvc.Get(c.Request.Context(), c.Param("id"), requesterID)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "order not found")
		return
	}
	ok(c, http.StatusOK, order)
}

// TrackOrder godoc
// @ID          trackOrder
// @Summary     Track an order by its human-friendly number
// @Tags        Orders
// @Produce     json
// @Param       number  path  string  true  "Order number"
// @Success     200  {object}  domain.Order
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /orders/track/{number} [get]
func (h *Handlers) TrackOrder(c *gin.Context) {
	order, err := h.orderSvc.Track(c.Request.Context(), c.Param("number"))
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "order not found")
		return
	}
	ok(c, http.StatusOK, order)
}

// ListMyOrders godoc
// @ID          listMyOrders
// @Summary     List the signed-in customer's orders
// @Tags        Orders
// @Produce     json
// @Param       page       query  int  false  "Page, 1-based"
// @Param       page_size  query  int  false  "Page size, max 100"
// @Success     200  {object}  handlers.OrderListResponse
// @Router      /orders/mine [get]
func (h *Handlers) ListMyOrders(c *gin.Context) {
	page, pageSize := clampPagination(c)
	orders, total, err := h.orderSvc.ListMine(c.Request.Context(), middleware.UserID(c), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not list orders")
		return
	}
	ok(c, http.StatusOK, OrderListResponse{Orders: orders, Pagination: paginate(page, pageSize, total)})
}

// ListOrders godoc
// @ID          listOrders
// @Summary     List orders by status (staff)
// @Tags        Orders
// @Produce     json
// @Param       status     query  string  false  "Order status; omit for all"
// @Param       page       query  int     false  "Page, 1-based"
// @Param       page_size  query  int     false  "Page size, max 100"
// @Success     200  {object}  handlers.OrderListResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /staff/orders [get]
func (h *Handlers) ListOrders(c *gin.Context) {
	page, pageSize := clampPagination(c)
	orders, total, err := h.orderSvc.ListByStatus(c.Request.Context(), c.Query("status"), page, pageSize)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown order status")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not list orders")
		return
	}
	ok(c, http.StatusOK, OrderListResponse{Orders: orders, Pagination: paginate(page, pageSize, total)})
}

// CancelOrder godoc
// @ID          cancelOrder
// @Summary     Cancel an order
// @Description Customers may cancel their own orders while still pending.
// @Description Staff may cancel any non-terminal order.
// @Tags        Orders
// @Produce     json
// @Param       id  path  string  true  "Order ID"
// @Success     200  {object}  domain.Order
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse "Already completed or cancelled"
// @Router      /orders/{id}/cancel [post]
func (h *Handlers) CancelOrder(c *gin.Context) {
	requesterID := ""
	if !domain.StaffRole(middleware.UserRole(c)) {
		requesterID = middleware.UserID(c)
		if requesterID == "" {
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "sign in to cancel an order")
			return
		}
	}
	order, err := h.orderSvc.Cancel(c.Request.Context(), c.Param("id"), requesterID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "order not found")
		case errors.Is(err, services.ErrTerminalOrder):
			fail(c, http.StatusConflict, ErrCodeOrderFinalized, "order is already completed or cancelled")
		case errors.Is(err, services.ErrInvalidStatus):
			fail(c, http.StatusConflict, ErrCodeConflict, "order can no longer be cancelled")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not cancel order")
		}
		return
	}
	ok(c, http.StatusOK, order)
}

// KitchenQueue godoc
// @ID          kitchenQueue
// @Summary     Active orders for the kitchen display
// @Tags        Kitchen
// @Produce     json
// @Success     200  {array}  domain.Order
// @Router      /kitchen/queue [get]
func (h *Handlers) KitchenQueue(c *gin.Context) {
	orders, err := h.orderSvc.KitchenQueue(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not load queue")
		return
	}
	ok(c, http.StatusOK, orders)
}

// UpdateOrderStatus godoc
// @ID          updateOrderStatus
// @Summary     Advance an order through its lifecycle (staff)
// @Tags        Kitchen
// @Accept      json
// @Produce     json
// @Param       id    path  string                  true  "Order ID"
// @Param       body  body  handlers.StatusRequest  true  "Target status"
// @Success     200  {object}  domain.Order
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse "Order already finalized"
// @Router      /staff/orders/{id}/status [put]
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status required")
		return
	}
	order, err := h.orderSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "order not found")
		case errors.Is(err, services.ErrInvalidStatus):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown order status")
		case errors.Is(err, services.ErrTerminalOrder):
			fail(c, http.StatusConflict, ErrCodeOrderFinalized, "order is already completed or cancelled")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update order")
		}
		return
	}
	ok(c, http.StatusOK, order)
}

// OrderDashboardStats godoc
// @ID          orderDashboardStats
// @Summary     Order counts for today's session (staff)
// @Description Per-status totals for the current day session. Responses carry
// @Description a weak ETag so dashboards can poll cheaply with If-None-Match.
// @Tags        orders
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  services.OrderStats
// @Success     304  "Not modified"
// @Failure     404  {object}  handlers.ErrorResponse "No session open today"
// @Router      /staff/orders/stats [get]
func (h *Handlers) OrderDashboardStats(c *gin.Context) {
	stats, err := h.orderSvc.Stats(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "no session open today")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not load order stats")
		return
	}
	var stamp int64
	if stats.LastUpdated != nil {
		stamp = stats.LastUpdated.Unix()
	}
	etag := fmt.Sprintf(`W/"%d-%d"`, stats.Total, stamp)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Header("ETag", etag)
	ok(c, http.StatusOK, stats)
}
