package models

import "time"

type PaymentAttemptStatus string

const (
	AttemptPending PaymentAttemptStatus = "pending"
	AttemptSuccess PaymentAttemptStatus = "success"
	AttemptFailed  PaymentAttemptStatus = "failed"
)

// PaymentAttempt is one initiated payment try against the gateway. It is
// immutable once it reaches success or failed.
type PaymentAttempt struct {
	ID             uint                 `gorm:"primaryKey" json:"id"`
	BookingID      uint                 `gorm:"not null;index" json:"booking_id"`
	Amount         float64              `gorm:"not null" json:"amount"`
	Method         string               `gorm:"type:varchar(20);not null" json:"method"`
	Status         PaymentAttemptStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	MerchantRef    string               `gorm:"type:varchar(64);uniqueIndex;not null" json:"merchant_ref"`
	GatewayOrderID string               `gorm:"type:varchar(64);index" json:"gateway_order_id"`
	TransactionID  string               `gorm:"type:varchar(64)" json:"transaction_id"`
	ErrorDetail    string               `gorm:"type:text" json:"error_detail,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// Payment is a settled, successful charge. Append-only: a booking can carry
// several payments (deposit then balance). TransactionID is the idempotency
// anchor for webhook redelivery.
type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BookingID     uint      `gorm:"not null;index" json:"booking_id"`
	Amount        float64   `gorm:"not null" json:"amount"`
	Method        string    `gorm:"type:varchar(20);not null" json:"method"`
	TransactionID string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"transaction_id"`
	Refunded      bool      `gorm:"not null;default:false" json:"refunded"`
	RefundAmount  float64   `gorm:"not null;default:0" json:"refund_amount"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
