// Package services – PaymentService
//
// This file implements PaymentService, which settles orders either through
// the Paystack gateway (initialize, verify, webhook) or as cash at the POS.
//
// Settlement is idempotent end to end: the payment reference is unique, the
// pending→success transition only ever applies once, and re-verifying or
// replaying a webhook for an already-settled reference is a no-op that still
// reports success to the caller.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/paystack"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/repo"
)

// Payment providers.
const (
	providerPaystack = "paystack"
	providerCash     = "cash"
)

// Gateway is the card-payment contract consumed by PaymentService. The
// Paystack client satisfies it; tests substitute a fake.
type Gateway interface {
	Initialize(ctx context.Context, email string, amount int64, reference, currency, callbackURL string) (*paystack.InitResult, error)
	Verify(ctx context.Context, reference string) (*paystack.Transaction, error)
	ValidSignature(body []byte, signature string) bool
}

// PaymentService coordinates charges, settlements, and payment fan-out.
type PaymentService struct {
	DB      *gorm.DB
	Gateway Gateway
	Orders  *OrderService

	// Currency is the ISO code charged for every order (e.g. NGN).
	Currency string
	// CallbackURL is where Paystack redirects the customer after checkout.
	CallbackURL string

	now func() time.Time
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(db *gorm.DB, gw Gateway, orders *OrderService, currency, callbackURL string) *PaymentService {
	return &PaymentService{
		DB:          db,
		Gateway:     gw,
		Orders:      orders,
		Currency:    currency,
		CallbackURL: callbackURL,
		now:         time.Now,
	}
}

// InitCharge starts a Paystack checkout for an unpaid order. It records a
// pending payment row under a fresh reference and returns the gateway's
// authorization URL for the frontend to redirect to.
func (s *PaymentService) InitCharge(ctx context.Context, orderID, email string) (*paystack.InitResult, *domain.Payment, error) {
	tr := otel.Tracer("services/PaymentService")
	ctx, span := tr.Start(ctx, "InitCharge",
		trace.WithAttributes(attribute.String("order.id", orderID)),
	)
	defer span.End()

	o, err := repo.GetOrder(ctx, s.DB, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, err
	}
	if o.Status == domain.StatusCancelled {
		return nil, nil, ErrTerminalOrder
	}
	if o.PaymentStatus == domain.PayPaid {
		return nil, nil, ErrAlreadyPaid
	}

	reference := "PAY_" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	p := &domain.Payment{
		OrderID:   o.ID,
		Provider:  providerPaystack,
		Reference: reference,
		Amount:    o.Total,
		Currency:  s.Currency,
		Status:    "pending",
	}
	if _, err := repo.CreatePayment(ctx, s.DB, p); err != nil {
		return nil, nil, err
	}

	res, err := s.Gateway.Initialize(ctx, email, o.Total, reference, s.Currency, s.CallbackURL)
	if err != nil {
		return nil, nil, err
	}
	_ = repo.SetOrderPaymentStatus(ctx, s.DB, o.ID, domain.PayPending)
	return res, p, nil
}

// VerifyCharge confirms a Paystack reference with the gateway and settles
// the recorded payment. Replaying a reference that already settled returns
// the stored payment without touching the order again.
func (s *PaymentService) VerifyCharge(ctx context.Context, reference string) (*domain.Payment, error) {
	tr := otel.Tracer("services/PaymentService")
	ctx, span := tr.Start(ctx, "VerifyCharge",
		trace.WithAttributes(attribute.String("payment.reference", reference)),
	)
	defer span.End()

	p, err := repo.GetPaymentByReference(ctx, s.DB, reference)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if p.Status != "pending" {
		return p, nil
	}

	tx, err := s.Gateway.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}
	return s.settle(ctx, p, tx)
}

// HandleWebhook processes a raw Paystack webhook delivery. The signature is
// validated before the body is parsed; only charge.success events settle
// anything, everything else is acknowledged and dropped.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.Gateway.ValidSignature(body, signature) {
		return ErrBadSignature
	}

	var evt paystack.WebhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return ErrBadSignature
	}
	if evt.Event != "charge.success" {
		return nil
	}

	p, err := repo.GetPaymentByReference(ctx, s.DB, evt.Data.Reference)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Unknown reference. Acknowledge so Paystack stops retrying.
			return nil
		}
		return err
	}
	if p.Status != "pending" {
		return nil
	}
	_, err = s.settle(ctx, p, &evt.Data)
	return err
}

// RecordCash settles an order as paid in cash at the register. The payment
// row is created already successful and the order is marked paid.
func (s *PaymentService) RecordCash(ctx context.Context, orderID, actorID string) (*domain.Payment, error) {
	o, err := repo.GetOrder(ctx, s.DB, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if o.PaymentStatus == domain.PayPaid {
		return nil, ErrAlreadyPaid
	}

	now := s.now().UTC()
	p := &domain.Payment{
		OrderID:   o.ID,
		Provider:  providerCash,
		Reference: "CASH_" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")),
		Amount:    o.Total,
		Currency:  s.Currency,
		Status:    "success",
		Channel:   "cash",
		PaidAt:    &now,
	}
	if _, err := repo.CreatePayment(ctx, s.DB, p); err != nil {
		return nil, err
	}
	if _, err := s.Orders.MarkPaid(ctx, o.ID); err != nil {
		return nil, err
	}
	_ = repo.AppendAudit(ctx, s.DB, actorID, "payment.cash", "order", o.ID, p.Reference)
	return p, nil
}

// ListForOrder returns every payment attempt recorded against an order.
func (s *PaymentService) ListForOrder(ctx context.Context, orderID string) ([]domain.Payment, error) {
	return repo.ListPaymentsForOrder(ctx, s.DB, orderID)
}

// settle applies a verified gateway transaction to a pending payment row.
// Amount and currency must match what was charged; a mismatch marks the
// payment failed and surfaces an error instead of paying the order.
func (s *PaymentService) settle(ctx context.Context, p *domain.Payment, tx *paystack.Transaction) (*domain.Payment, error) {
	if !tx.Success() {
		_, err := repo.SettlePayment(ctx, s.DB, p.Reference, "failed", tx.Channel, tx.GatewayResponse, nil)
		if err != nil {
			return nil, err
		}
		p.Status = "failed"
		return p, nil
	}
	if tx.Amount != p.Amount || !strings.EqualFold(tx.Currency, p.Currency) {
		_, _ = repo.SettlePayment(ctx, s.DB, p.Reference, "failed", tx.Channel, "amount mismatch", nil)
		return nil, ErrPaymentMismatch
	}

	paidAt := tx.PaidAt
	if paidAt == nil {
		now := s.now().UTC()
		paidAt = &now
	}
	applied, err := repo.SettlePayment(ctx, s.DB, p.Reference, "success", tx.Channel, tx.GatewayResponse, paidAt)
	if err != nil {
		return nil, err
	}
	if applied {
		if _, err := s.Orders.MarkPaid(ctx, p.OrderID); err != nil {
			return nil, err
		}
	}
	return repo.GetPaymentByReference(ctx, s.DB, p.Reference)
}
