package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/http/middleware"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/services"
)

// Paystack signs webhook deliveries with this header.
const paystackSignatureHeader = "x-paystack-signature"

// Webhook bodies are small JSON documents. Anything bigger is not a
// legitimate gateway event.
const maxWebhookBytes = 1 << 20

// InitPaymentRequest starts a card charge for an order.
type InitPaymentRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
}

// InitPaymentResponse returns the gateway checkout handle plus the
// pending payment row.
type InitPaymentResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
	Payment          any    `json:"payment"`
}

// CashPaymentRequest records an in-person cash settlement.
type CashPaymentRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

// InitPayment godoc
// @ID          initPayment
// @Summary     Start a card payment for an order
// @Tags        Payments
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.InitPaymentRequest  true  "Order and payer email"
// @Success     200  {object}  handlers.InitPaymentResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse "Order cancelled or already paid"
// @Router      /payments/init [post]
func (h *Handlers) InitPayment(c *gin.Context) {
	var req InitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "order_id and a valid email are required")
		return
	}
	res, payment, err := h.paymentSvc.InitCharge(c.Request.Context(), req.OrderID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "order not found")
		case errors.Is(err, services.ErrTerminalOrder):
			fail(c, http.StatusConflict, ErrCodeOrderFinalized, "order was cancelled")
		case errors.Is(err, services.ErrAlreadyPaid):
			fail(c, http.StatusConflict, ErrCodeAlreadyPaid, "order is already paid")
		default:
			fail(c, http.StatusBadGateway, ErrCodeInternal, "payment gateway unavailable")
		}
		return
	}
	ok(c, http.StatusOK, InitPaymentResponse{
		AuthorizationURL: res.AuthorizationURL,
		AccessCode:       res.AccessCode,
		Reference:        res.Reference,
		Payment:          payment,
	})
}

// VerifyPayment godoc
// @ID          verifyPayment
// @Summary     Verify a payment reference against the gateway
// @Description Safe to call repeatedly. A reference that already settled is
// @Description returned as stored without contacting the gateway again.
// @Tags        Payments
// @Produce     json
// @Param       reference  path  string  true  "Payment reference"
// @Success     200  {object}  domain.Payment
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse "Gateway amount or currency mismatch"
// @Router      /payments/verify/{reference} [get]
func (h *Handlers) VerifyPayment(c *gin.Context) {
	payment, err := h.paymentSvc.VerifyCharge(c.Request.Context(), c.Param("reference"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "payment not found")
		case errors.Is(err, services.ErrPaymentMismatch):
			fail(c, http.StatusConflict, ErrCodePaymentMismatch, "gateway settlement does not match the charge")
		default:
			fail(c, http.StatusBadGateway, ErrCodeInternal, "payment gateway unavailable")
		}
		return
	}
	ok(c, http.StatusOK, payment)
}

// RecordCashPayment godoc
// @ID          recordCashPayment
// @Summary     Record a cash settlement (staff)
// @Tags        Payments
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CashPaymentRequest  true  "Order"
// @Success     201  {object}  domain.Payment
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse "Order already paid"
// @Router      /staff/payments/cash [post]
func (h *Handlers) RecordCashPayment(c *gin.Context) {
	var req CashPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "order_id required")
		return
	}
	payment, err := h.paymentSvc.RecordCash(c.Request.Context(), req.OrderID, middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "order not found")
		case errors.Is(err, services.ErrTerminalOrder):
			fail(c, http.StatusConflict, ErrCodeOrderFinalized, "order was cancelled")
		case errors.Is(err, services.ErrAlreadyPaid):
			fail(c, http.StatusConflict, ErrCodeAlreadyPaid, "order is already paid")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not record payment")
		}
		return
	}
	ok(c, http.StatusCreated, payment)
}

// ListOrderPayments godoc
// @ID          listOrderPayments
// @Summary     List payment attempts for an order (staff)
// @Tags        Payments
// @Produce     json
// @Param       id  path  string  true  "Order ID"
// @Success     200  {array}  domain.Payment
// @Router      /staff/orders/{id}/payments [get]
func (h *Handlers) ListOrderPayments(c *gin.Context) {
	payments, err := h.paymentSvc.ListForOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not list payments")
		return
	}
	ok(c, http.StatusOK, payments)
}

// PaystackWebhook godoc
// @ID          paystackWebhook
// @Summary     Gateway webhook receiver
// @Description Verifies the HMAC signature before acting. Events for unknown
// @Description references are acknowledged so the gateway stops retrying.
// @Tags        Payments
// @Accept      json
// @Success     200  {object}  map[string]string
// @Failure     401  {object}  handlers.ErrorResponse "Bad signature"
// @Router      /webhooks/paystack [post]
func (h *Handlers) PaystackWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unreadable body")
		return
	}
	signature := c.GetHeader(paystackSignatureHeader)

	if err := h.paymentSvc.HandleWebhook(c.Request.Context(), body, signature); err != nil {
		switch {
		case errors.Is(err, services.ErrBadSignature):
			fail(c, http.StatusUnauthorized, ErrCodeBadSignature, "invalid webhook signature")
		case errors.Is(err, services.ErrPaymentMismatch):
			fail(c, http.StatusConflict, ErrCodePaymentMismatch, "settlement does not match the charge")
		default:
			// Transient failure; a non-2xx makes the gateway retry later.
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not process event")
		}
		return
	}
	ok(c, http.StatusOK, gin.H{"status": "ok"})
}
