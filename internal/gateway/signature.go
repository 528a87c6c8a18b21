package gateway

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strconv"
)

// Callback is the payload the gateway POSTs after a payment attempt resolves.
// The metadata under Obj.Order was supplied at order creation and echoed
// back; it is the only correlation between the gateway transaction and the
// internal booking.
type Callback struct {
	Type string              `json:"type"`
	HMAC string              `json:"hmac"`
	Obj  CallbackTransaction `json:"obj"`
}

type CallbackTransaction struct {
	ID          int64         `json:"id"`
	Success     bool          `json:"success"`
	AmountCents int64         `json:"amount_cents"`
	Currency    string        `json:"currency"`
	Order       CallbackOrder `json:"order"`
}

type CallbackOrder struct {
	ID              int64    `json:"id"`
	MerchantOrderID string   `json:"merchant_order_id"`
	Metadata        Metadata `json:"metadata"`
}

// Metadata travels to the gateway at order creation and comes back verbatim
// in every callback for that transaction.
type Metadata struct {
	BookingID uint   `json:"booking_id"`
	UserID    string `json:"user_id"`
	StadiumID uint   `json:"stadium_id"`
}

// signatureInput concatenates the gateway-defined fields in their documented
// order. The order is part of the gateway contract; changing it breaks every
// verification.
func signatureInput(t CallbackTransaction) string {
	return strconv.FormatInt(t.AmountCents, 10) +
		t.Currency +
		strconv.FormatInt(t.Order.ID, 10) +
		strconv.FormatBool(t.Success) +
		strconv.FormatInt(t.ID, 10)
}

// Sign computes the hex HMAC-SHA512 the gateway expects over a transaction.
func Sign(t CallbackTransaction, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(signatureInput(t)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the callback HMAC and compares in constant
// time. A false return means the payload must be rejected before any state
// change.
func VerifySignature(cb Callback, secret string) bool {
	expected := Sign(cb.Obj, secret)
	return hmac.Equal([]byte(expected), []byte(cb.HMAC))
}
