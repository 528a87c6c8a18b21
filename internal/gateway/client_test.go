package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway replays the three-step order handshake and records what each
// step received.
func fakeGateway(t *testing.T) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var received []map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/tokens", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		received = append(received, body)
		json.NewEncoder(w).Encode(map[string]string{"token": "auth-token-1"})
	})
	mux.HandleFunc("/api/ecommerce/orders", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		received = append(received, body)
		json.NewEncoder(w).Encode(map[string]int64{"id": 887341})
	})
	mux.HandleFunc("/api/acceptance/payment_keys", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		received = append(received, body)
		json.NewEncoder(w).Encode(map[string]string{"token": "pay-key-1"})
	})
	mux.HandleFunc("/api/acceptance/void_refund/refund", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		received = append(received, body)
		json.NewEncoder(w).Encode(map[string]int64{"id": 555001})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &received
}

func TestCreateOrderHandshake(t *testing.T) {
	srv, received := fakeGateway(t)
	client := NewClient(Config{
		BaseURL:  srv.URL,
		APIKey:   "api-key-1",
		IframeID: "77001",
	})

	order, err := client.CreateOrder(context.Background(), OrderRequest{
		AmountCents: 12000,
		Currency:    "EGP",
		MerchantRef: "mref-1",
		Items: []LineItem{{
			Name:        "stadium slot 5",
			AmountCents: 12000,
			Quantity:    1,
		}},
		Billing: BillingInfo{Email: "p@example.com"},
		Metadata: Metadata{
			BookingID: 42,
			UserID:    "user-17",
			StadiumID: 3,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "887341", order.OrderID)
	assert.Equal(t, srv.URL+"/api/acceptance/iframes/77001?payment_token=pay-key-1", order.PaymentURL)

	require.Len(t, *received, 3)
	auth := (*received)[0]
	assert.Equal(t, "api-key-1", auth["api_key"])

	reg := (*received)[1]
	assert.Equal(t, "auth-token-1", reg["auth_token"])
	assert.Equal(t, "mref-1", reg["merchant_order_id"])
	meta := reg["metadata"].(map[string]any)
	assert.Equal(t, float64(42), meta["booking_id"])
	assert.Equal(t, "user-17", meta["user_id"])

	key := (*received)[2]
	assert.Equal(t, float64(887341), key["order_id"])
	assert.Equal(t, float64(12000), key["amount_cents"])
}

func TestCreateOrderAbortsOnAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "bad"})
	_, err := client.CreateOrder(context.Background(), OrderRequest{AmountCents: 100})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth token")
}

func TestCreateOrderAbortsOnPaymentKeyFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/tokens", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "auth-token-1"})
	})
	mux.HandleFunc("/api/ecommerce/orders", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int64{"id": 887341})
	})
	mux.HandleFunc("/api/acceptance/payment_keys", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	_, err := client.CreateOrder(context.Background(), OrderRequest{AmountCents: 100})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment key")
}

func TestRefund(t *testing.T) {
	srv, received := fakeGateway(t)
	client := NewClient(Config{BaseURL: srv.URL, APIKey: "api-key-1"})

	refundID, err := client.Refund(context.Background(), "4472913", 6000)

	require.NoError(t, err)
	assert.Equal(t, "555001", refundID)

	require.Len(t, *received, 2)
	refund := (*received)[1]
	assert.Equal(t, "4472913", refund["transaction_id"])
	assert.Equal(t, float64(6000), refund["amount_cents"])
}
