package models

import "time"

type RefundType string

const (
	RefundFull        RefundType = "full"
	RefundPartial     RefundType = "partial"
	RefundDepositOnly RefundType = "deposit_only"
)

type RefundStatus string

const (
	RefundPending   RefundStatus = "pending"
	RefundCompleted RefundStatus = "completed"
	RefundFailed    RefundStatus = "failed"
)

// Refund records one cancellation. The booking cancellation and slot release
// are final once the row exists; the gateway-side refund advances Status
// afterwards and may lag or fail without reinstating the booking.
type Refund struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	BookingID       uint         `gorm:"not null;index" json:"booking_id"`
	Amount          float64      `gorm:"not null" json:"amount"`
	Reason          string       `gorm:"type:text" json:"reason"`
	Type            RefundType   `gorm:"type:varchar(20);not null" json:"type"`
	Status          RefundStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Initiator       string       `gorm:"type:varchar(64);not null" json:"initiator"`
	GatewayRefundID string       `gorm:"type:varchar(64)" json:"gateway_refund_id,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
