package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Booking is a player's claim on a Slot. At most one non-cancelled booking
// may reference a slot; the partial unique index in pkg/database backs this.
type Booking struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	StadiumID      uint          `gorm:"not null;index" json:"stadium_id"`
	SlotID         uint          `gorm:"not null" json:"slot_id"`
	UserID         string        `gorm:"not null;index" json:"user_id"`
	Date           time.Time     `gorm:"not null" json:"date"`
	StartTime      time.Time     `gorm:"not null" json:"start_time"`
	EndTime        time.Time     `gorm:"not null" json:"end_time"`
	BasePrice      float64       `gorm:"not null" json:"base_price"`
	DepositAmount  float64       `gorm:"not null;default:0" json:"deposit_amount"`
	DiscountAmount float64       `gorm:"not null;default:0" json:"discount_amount"`
	FinalAmount    float64       `gorm:"not null" json:"final_amount"`
	VoucherCode    *string       `gorm:"type:varchar(20)" json:"voucher_code,omitempty"`
	Status         BookingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ConfirmedAt    *time.Time    `json:"confirmed_at,omitempty"`
	CancelledAt    *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	Slot *Slot `gorm:"foreignKey:SlotID" json:"slot,omitempty"`
}
