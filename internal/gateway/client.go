package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the hosted-payment gateway. Order creation is the
// gateway's three-step handshake: authenticate, register the order, then
// obtain a short-lived payment key that parameterizes the hosted page.
type Client struct {
	baseURL    string
	apiKey     string
	hmacSecret string
	iframeID   string
	httpClient *http.Client
}

type Config struct {
	BaseURL    string
	APIKey     string
	HMACSecret string
	IframeID   string
	Timeout    time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		hmacSecret: cfg.HMACSecret,
		iframeID:   cfg.IframeID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// HMACSecret exposes the shared webhook secret for callback verification.
func (c *Client) HMACSecret() string {
	return c.hmacSecret
}

type LineItem struct {
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	Quantity    int    `json:"quantity"`
}

type BillingInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone_number"`
}

type OrderRequest struct {
	AmountCents int64
	Currency    string
	MerchantRef string
	Items       []LineItem
	Billing     BillingInfo
	Metadata    Metadata
}

// Order is the result of a successful handshake: the gateway-side order id
// and the hosted payment page the client is redirected to.
type Order struct {
	OrderID    string
	PaymentURL string
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("gateway call %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response %s: %w", path, err)
	}
	return nil
}

func (c *Client) authenticate(ctx context.Context) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.post(ctx, "/api/auth/tokens", map[string]string{"api_key": c.apiKey}, &resp)
	if err != nil {
		return "", fmt.Errorf("auth token: %w", err)
	}
	return resp.Token, nil
}

// CreateOrder runs the full handshake. Any step failing aborts the whole
// call; the caller records the payment attempt as failed so no attempt is
// left pending on a partial handshake.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	token, err := c.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	var orderResp struct {
		ID int64 `json:"id"`
	}
	err = c.post(ctx, "/api/ecommerce/orders", map[string]any{
		"auth_token":        token,
		"amount_cents":      req.AmountCents,
		"currency":          req.Currency,
		"merchant_order_id": req.MerchantRef,
		"items":             req.Items,
		"metadata":          req.Metadata,
	}, &orderResp)
	if err != nil {
		return nil, fmt.Errorf("register order: %w", err)
	}

	var keyResp struct {
		Token string `json:"token"`
	}
	err = c.post(ctx, "/api/acceptance/payment_keys", map[string]any{
		"auth_token":   token,
		"order_id":     orderResp.ID,
		"amount_cents": req.AmountCents,
		"currency":     req.Currency,
		"billing_data": req.Billing,
		"expiration":   3600,
	}, &keyResp)
	if err != nil {
		return nil, fmt.Errorf("payment key: %w", err)
	}

	return &Order{
		OrderID:    fmt.Sprintf("%d", orderResp.ID),
		PaymentURL: fmt.Sprintf("%s/api/acceptance/iframes/%s?payment_token=%s", c.baseURL, c.iframeID, keyResp.Token),
	}, nil
}

// Refund asks the gateway to reverse a settled transaction. Runs outside the
// cancellation transaction; a failure here never reinstates the booking.
func (c *Client) Refund(ctx context.Context, transactionID string, amountCents int64) (string, error) {
	token, err := c.authenticate(ctx)
	if err != nil {
		return "", err
	}

	var resp struct {
		ID int64 `json:"id"`
	}
	err = c.post(ctx, "/api/acceptance/void_refund/refund", map[string]any{
		"auth_token":     token,
		"transaction_id": transactionID,
		"amount_cents":   amountCents,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("refund: %w", err)
	}
	return fmt.Sprintf("%d", resp.ID), nil
}

// ToCents converts a domain EGP amount to gateway integer cents.
func ToCents(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

// FromCents converts gateway cents back to a domain amount.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}
