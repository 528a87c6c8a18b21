package models

import "time"

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotReserved  SlotStatus = "reserved"
	SlotBooked    SlotStatus = "booked"
)

// Slot is a bookable time window at a stadium. Rows are created by schedule
// generation and only ever transition status; they are never deleted.
type Slot struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	StadiumID uint       `gorm:"not null;index" json:"stadium_id"`
	Date      time.Time  `gorm:"not null" json:"date"`
	StartTime time.Time  `gorm:"not null" json:"start_time"`
	EndTime   time.Time  `gorm:"not null" json:"end_time"`
	Price     float64    `gorm:"not null" json:"price"`
	Capacity  int        `gorm:"not null;default:1" json:"capacity"`
	Status    SlotStatus `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
