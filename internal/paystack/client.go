// Package paystack implements a minimal client for the Paystack
// transactions API: initializing a checkout, verifying a transaction by
// reference, and validating webhook signatures.
//
// Amounts are Paystack subunits (kobo for NGN), matching the minor-unit
// representation used across the order and payment models.
package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/config"
)

// ErrGateway wraps any non-2xx or status=false response from Paystack.
var ErrGateway = errors.New("paystack gateway error")

// Client talks to the Paystack REST API. The zero value is not usable;
// construct with New.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// New builds a Client from gateway config. The HTTP client carries a 15s
// timeout; per-call contexts can shorten it further.
func New(cfg config.PaystackConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// envelope is Paystack's standard response wrapper.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitResult is the checkout handle returned by transaction initialization.
type InitResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// Transaction is the verification payload for a transaction reference.
type Transaction struct {
	Status          string     `json:"status"` // "success", "failed", "abandoned"...
	Reference       string     `json:"reference"`
	Amount          int64      `json:"amount"` // subunits
	Currency        string     `json:"currency"`
	Channel         string     `json:"channel"`
	GatewayResponse string     `json:"gateway_response"`
	PaidAt          *time.Time `json:"paid_at"`
}

// Success reports whether the transaction settled successfully.
func (t *Transaction) Success() bool { return t.Status == "success" }

// Initialize creates a Paystack transaction for the given email and amount
// (subunits) under our own reference, returning the hosted checkout URL.
func (c *Client) Initialize(ctx context.Context, email string, amount int64, reference, currency, callbackURL string) (*InitResult, error) {
	body := map[string]any{
		"email":     email,
		"amount":    amount,
		"reference": reference,
		"currency":  currency,
	}
	if callbackURL != "" {
		body["callback_url"] = callbackURL
	}
	var out InitResult
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Verify fetches the authoritative state of a transaction by reference.
func (c *Client) Verify(ctx context.Context, reference string) (*Transaction, error) {
	var out Transaction
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidSignature checks a webhook body against the x-paystack-signature
// header: hex(HMAC-SHA512(body, secret key)). Comparison is constant-time.
func (c *Client) ValidSignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// do performs one API call and decodes the data payload into out.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: unparseable response (http %d)", ErrGateway, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Status {
		return fmt.Errorf("%w: %s (http %d)", ErrGateway, env.Message, resp.StatusCode)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: bad data payload: %v", ErrGateway, err)
		}
	}
	return nil
}

// WebhookEvent is the envelope Paystack posts to the webhook endpoint.
type WebhookEvent struct {
	Event string      `json:"event"` // e.g. "charge.success"
	Data  Transaction `json:"data"`
}
