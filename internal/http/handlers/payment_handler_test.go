package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/paystack"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/services"
)

func TestInitPayment_Flow(t *testing.T) {
	r := newRouter(t)
	h := newStubHandlers(stubs{})
	r.POST("/payments/init", h.InitPayment)

	// Missing email -> 400
	w := doJSON(t, r, http.MethodPost, "/payments/init", `{"order_id":"o1"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing email -> %d", w.Code)
	}

	// Success carries the checkout URL
	w = doJSON(t, r, http.MethodPost, "/payments/init", `{"order_id":"o1","email":"pay@example.com"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("init -> %d body=%s", w.Code, w.Body.String())
	}
	var out InitPaymentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if out.AuthorizationURL == "" || out.Reference == "" {
		t.Fatalf("incomplete init response: %s", w.Body.String())
	}
}

func TestInitPayment_AlreadyPaid(t *testing.T) {
	h := newStubHandlers(stubs{payments: stubPaymentSvc{
		initCharge: func(context.Context, string, string) (*paystack.InitResult, *domain.Payment, error) {
			return nil, nil, services.ErrAlreadyPaid
		},
	}})
	r := newRouter(t)
	r.POST("/payments/init", h.InitPayment)

	w := doJSON(t, r, http.MethodPost, "/payments/init", `{"order_id":"o1","email":"pay@example.com"}`, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("already paid -> %d", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil || er.Code != ErrCodeAlreadyPaid {
		t.Fatalf("error body: %s", w.Body.String())
	}
}

func TestVerifyPayment_MismatchAndGatewayDown(t *testing.T) {
	h := newStubHandlers(stubs{payments: stubPaymentSvc{
		verifyCharge: func(_ context.Context, ref string) (*domain.Payment, error) {
			switch ref {
			case "PAY_MISMATCH":
				return nil, services.ErrPaymentMismatch
			case "PAY_DOWN":
				return nil, paystack.ErrGateway
			}
			return &domain.Payment{Reference: ref, Status: "success"}, nil
		},
	}})
	r := newRouter(t)
	r.GET("/payments/verify/:reference", h.VerifyPayment)

	w := doJSON(t, r, http.MethodGet, "/payments/verify/PAY_OK", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("verify ok -> %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/payments/verify/PAY_MISMATCH", "", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("mismatch -> %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/payments/verify/PAY_DOWN", "", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("gateway down -> %d", w.Code)
	}
}

func TestPaystackWebhook_SignatureGate(t *testing.T) {
	var gotSig string
	h := newStubHandlers(stubs{payments: stubPaymentSvc{
		handleWebhook: func(_ context.Context, _ []byte, sig string) error {
			gotSig = sig
			if sig != "good" {
				return services.ErrBadSignature
			}
			return nil
		},
	}})
	r := newRouter(t)
	r.POST("/webhooks/paystack", h.PaystackWebhook)

	body := `{"event":"charge.success","data":{"reference":"PAY_X","status":"success"}}`

	w := doJSON(t, r, http.MethodPost, "/webhooks/paystack", body,
		map[string]string{"x-paystack-signature": "good"})
	if w.Code != http.StatusOK {
		t.Fatalf("signed webhook -> %d", w.Code)
	}
	if gotSig != "good" {
		t.Fatalf("signature not forwarded: %q", gotSig)
	}

	w = doJSON(t, r, http.MethodPost, "/webhooks/paystack", body,
		map[string]string{"x-paystack-signature": "forged"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("forged webhook -> %d", w.Code)
	}
}

func TestRecordCashPayment_UsesActor(t *testing.T) {
	var gotActor string
	h := newStubHandlers(stubs{payments: stubPaymentSvc{
		recordCash: func(_ context.Context, orderID, actorID string) (*domain.Payment, error) {
			gotActor = actorID
			return &domain.Payment{ID: "p1", OrderID: orderID, Status: "success"}, nil
		},
	}})
	r := newRouter(t)
	r.POST("/staff/payments/cash", asUser("pos1", domain.RolePOS), h.RecordCashPayment)

	w := doJSON(t, r, http.MethodPost, "/staff/payments/cash", `{"order_id":"o1"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("cash -> %d body=%s", w.Code, w.Body.String())
	}
	if gotActor != "pos1" {
		t.Fatalf("actor = %q", gotActor)
	}
}
