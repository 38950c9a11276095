package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/paystack"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/repo"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/ws"
)

// ----- Fake gateway -----

type fakeGateway struct {
	initRes  *paystack.InitResult
	initErr  error
	verify   map[string]*paystack.Transaction
	verified []string
	sigOK    bool
}

func (f *fakeGateway) Initialize(ctx context.Context, email string, amount int64, reference, currency, callbackURL string) (*paystack.InitResult, error) {
	if f.initErr != nil {
		return nil, f.initErr
	}
	if f.initRes != nil {
		return f.initRes, nil
	}
	return &paystack.InitResult{AuthorizationURL: "https://checkout.test/" + reference, Reference: reference}, nil
}

func (f *fakeGateway) Verify(ctx context.Context, reference string) (*paystack.Transaction, error) {
	f.verified = append(f.verified, reference)
	tx, ok := f.verify[reference]
	if !ok {
		return nil, paystack.ErrGateway
	}
	return tx, nil
}

func (f *fakeGateway) ValidSignature(body []byte, signature string) bool { return f.sigOK }

func newPaymentSvc(t *testing.T) (*PaymentService, *fakeGateway, *recorderHub, *gorm.DB) {
	t.Helper()
	db := newSvcDB(t)
	hub := &recorderHub{}
	orders := NewOrderService(db, hub, 24*time.Hour)
	orders.now = fixedNow
	gw := &fakeGateway{verify: map[string]*paystack.Transaction{}}
	svc := NewPaymentService(db, gw, orders, "NGN", "https://app.test/pay/done")
	svc.now = fixedNow
	return svc, gw, hub, db
}

func placeOrder(t *testing.T, svc *PaymentService, db *gorm.DB) *domain.Order {
	t.Helper()
	openDay(t, db, "2025-06-15")
	item := seedMenuItem(t, db, "Jollof Rice", 2500, true)
	o, _, err := svc.Orders.Create(context.Background(), "", "", OrderInput{
		Type:  domain.OrderDineIn,
		Lines: []OrderLine{{MenuItemID: item.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	return o
}

func TestInitCharge_RecordsPendingPayment(t *testing.T) {
	svc, _, _, db := newPaymentSvc(t)
	ctx := context.Background()
	o := placeOrder(t, svc, db)

	res, p, err := svc.InitCharge(ctx, o.ID, "ama@b.com")
	if err != nil {
		t.Fatalf("InitCharge: %v", err)
	}
	if res.AuthorizationURL == "" {
		t.Fatal("no authorization URL")
	}
	if p.Amount != o.Total || p.Currency != "NGN" || p.Status != "pending" {
		t.Fatalf("payment row: %+v", p)
	}

	got, err := repo.GetOrder(ctx, db, o.ID)
	if err != nil || got.PaymentStatus != domain.PayPending {
		t.Fatalf("order payment status = %q, %v", got.PaymentStatus, err)
	}

	if _, _, err := svc.InitCharge(ctx, "missing", "ama@b.com"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing order: err = %v", err)
	}
}

func TestVerifyCharge_SettlesOnceAndNotifies(t *testing.T) {
	svc, gw, hub, db := newPaymentSvc(t)
	ctx := context.Background()
	o := placeOrder(t, svc, db)

	_, p, err := svc.InitCharge(ctx, o.ID, "ama@b.com")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	paid := fixedNow()
	gw.verify[p.Reference] = &paystack.Transaction{
		Status:    "success",
		Reference: p.Reference,
		Amount:    o.Total,
		Currency:  "NGN",
		Channel:   "card",
		PaidAt:    &paid,
	}

	settled, err := svc.VerifyCharge(ctx, p.Reference)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if settled.Status != "success" || settled.Channel != "card" {
		t.Fatalf("settled: %+v", settled)
	}
	got, _ := repo.GetOrder(ctx, db, o.ID)
	if got.PaymentStatus != domain.PayPaid {
		t.Fatalf("order not marked paid: %q", got.PaymentStatus)
	}
	if hub.count(ws.EventPaymentConfirmed) == 0 {
		t.Fatal("no payment:confirmed broadcast")
	}

	// Replay does not re-verify or re-notify.
	before := hub.count(ws.EventPaymentConfirmed)
	again, err := svc.VerifyCharge(ctx, p.Reference)
	if err != nil || again.Status != "success" {
		t.Fatalf("replay: %+v, %v", again, err)
	}
	if len(gw.verified) != 1 {
		t.Fatalf("gateway verified %d times, want 1", len(gw.verified))
	}
	if hub.count(ws.EventPaymentConfirmed) != before {
		t.Fatal("replay broadcast payment:confirmed again")
	}
}

func TestVerifyCharge_AmountMismatchFailsPayment(t *testing.T) {
	svc, gw, _, db := newPaymentSvc(t)
	ctx := context.Background()
	o := placeOrder(t, svc, db)

	_, p, err := svc.InitCharge(ctx, o.ID, "ama@b.com")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	gw.verify[p.Reference] = &paystack.Transaction{
		Status:    "success",
		Reference: p.Reference,
		Amount:    o.Total - 100,
		Currency:  "NGN",
	}

	if _, err := svc.VerifyCharge(ctx, p.Reference); !errors.Is(err, ErrPaymentMismatch) {
		t.Fatalf("err = %v, want ErrPaymentMismatch", err)
	}
	row, _ := repo.GetPaymentByReference(ctx, db, p.Reference)
	if row.Status != "failed" {
		t.Fatalf("payment status = %q, want failed", row.Status)
	}
	got, _ := repo.GetOrder(ctx, db, o.ID)
	if got.PaymentStatus == domain.PayPaid {
		t.Fatal("order marked paid on mismatch")
	}
}

func TestVerifyCharge_GatewayFailureRecorded(t *testing.T) {
	svc, gw, _, db := newPaymentSvc(t)
	ctx := context.Background()
	o := placeOrder(t, svc, db)

	_, p, err := svc.InitCharge(ctx, o.ID, "ama@b.com")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	gw.verify[p.Reference] = &paystack.Transaction{
		Status:          "failed",
		Reference:       p.Reference,
		Amount:          o.Total,
		Currency:        "NGN",
		GatewayResponse: "Declined",
	}

	settled, err := svc.VerifyCharge(ctx, p.Reference)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if settled.Status != "failed" {
		t.Fatalf("status = %q, want failed", settled.Status)
	}
}

func TestHandleWebhook(t *testing.T) {
	svc, gw, _, db := newPaymentSvc(t)
	ctx := context.Background()
	o := placeOrder(t, svc, db)

	_, p, err := svc.InitCharge(ctx, o.ID, "ama@b.com")
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	body, _ := json.Marshal(map[string]any{
		"event": "charge.success",
		"data": map[string]any{
			"status":    "success",
			"reference": p.Reference,
			"amount":    o.Total,
			"currency":  "NGN",
			"channel":   "bank",
		},
	})

	gw.sigOK = false
	if err := svc.HandleWebhook(ctx, body, "bad"); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("bad signature: err = %v", err)
	}

	gw.sigOK = true
	if err := svc.HandleWebhook(ctx, body, "good"); err != nil {
		t.Fatalf("webhook: %v", err)
	}
	row, _ := repo.GetPaymentByReference(ctx, db, p.Reference)
	if row.Status != "success" {
		t.Fatalf("payment status = %q", row.Status)
	}

	// Replay and unrelated events are acknowledged quietly.
	if err := svc.HandleWebhook(ctx, body, "good"); err != nil {
		t.Fatalf("replay: %v", err)
	}
	other, _ := json.Marshal(map[string]any{"event": "transfer.success", "data": map[string]any{}})
	if err := svc.HandleWebhook(ctx, other, "good"); err != nil {
		t.Fatalf("unrelated event: %v", err)
	}
	unknown, _ := json.Marshal(map[string]any{
		"event": "charge.success",
		"data":  map[string]any{"reference": "nope", "status": "success"},
	})
	if err := svc.HandleWebhook(ctx, unknown, "good"); err != nil {
		t.Fatalf("unknown reference: %v", err)
	}
}

func TestRecordCash(t *testing.T) {
	svc, _, hub, db := newPaymentSvc(t)
	ctx := context.Background()
	o := placeOrder(t, svc, db)

	p, err := svc.RecordCash(ctx, o.ID, "pos-1")
	if err != nil {
		t.Fatalf("RecordCash: %v", err)
	}
	if p.Provider != "cash" || p.Status != "success" || p.Amount != o.Total {
		t.Fatalf("cash payment: %+v", p)
	}
	got, _ := repo.GetOrder(ctx, db, o.ID)
	if got.PaymentStatus != domain.PayPaid {
		t.Fatalf("order payment status = %q", got.PaymentStatus)
	}
	if hub.count(ws.EventPaymentConfirmed) == 0 {
		t.Fatal("no payment:confirmed broadcast")
	}

	if _, err := svc.RecordCash(ctx, o.ID, "pos-1"); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("double cash: err = %v", err)
	}

	list, err := svc.ListForOrder(ctx, o.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListForOrder = %d, %v", len(list), err)
	}
}
