package models

import "time"

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
)

// Notification is an outbox row: written inside the same transaction as the
// business mutation that caused it, delivered to sinks after commit by the
// outbox dispatcher. A sink failure leaves the row pending for the next sweep.
type Notification struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	UserID    string             `gorm:"not null;index" json:"user_id"`
	Kind      string             `gorm:"type:varchar(40);not null" json:"kind"`
	Payload   string             `gorm:"type:text;not null" json:"payload"`
	Status    NotificationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	SentAt    *time.Time         `json:"sent_at,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// Notification kinds; routing keys on the notifications exchange reuse them.
const (
	NotifBookingConfirmed = "booking.confirmed"
	NotifBookingCancelled = "booking.cancelled"
	NotifBookingExpired   = "booking.expired"
	NotifRefundIssued     = "refund.issued"
	NotifOperatorBooked   = "operator.slot_booked"
	NotifOperatorFreed    = "operator.slot_freed"
)
