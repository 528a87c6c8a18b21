package models

import "time"

type VoucherType string

const (
	VoucherPercentage VoucherType = "percentage"
	VoucherFixed      VoucherType = "fixed"
	VoucherFull       VoucherType = "full"
)

// Voucher is a discount code. UsedCount only ever grows, and only through
// the voucher service's conditional redeem.
type Voucher struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Code      string      `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Type      VoucherType `gorm:"type:varchar(20);not null" json:"type"`
	Value     float64     `gorm:"not null" json:"value"`
	MaxUses   int         `gorm:"not null;default:0" json:"max_uses"` // 0 = unlimited
	UsedCount int         `gorm:"not null;default:0" json:"used_count"`
	MinAmount float64     `gorm:"not null;default:0" json:"min_amount"`
	UserID    *string     `gorm:"type:varchar(64)" json:"user_id,omitempty"` // restricted to one user when set
	ExpiresAt time.Time   `gorm:"not null" json:"expires_at"`
	IsActive  bool        `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// VoucherUsage is one row per successful redemption; append-only audit trail.
type VoucherUsage struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	VoucherID      uint      `gorm:"not null;index" json:"voucher_id"`
	BookingID      uint      `gorm:"not null;uniqueIndex" json:"booking_id"`
	UserID         string    `gorm:"not null" json:"user_id"`
	DiscountAmount float64   `gorm:"not null" json:"discount_amount"`
	CreatedAt      time.Time `json:"created_at"`
}
