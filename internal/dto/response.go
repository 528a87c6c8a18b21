package dto

import (
	"time"

	"github.com/playmena/stadium-booking/internal/models"
)

type BookingResponse struct {
	ID             uint                 `json:"id"`
	StadiumID      uint                 `json:"stadium_id"`
	SlotID         uint                 `json:"slot_id"`
	UserID         string               `json:"user_id"`
	Date           time.Time            `json:"date"`
	StartTime      time.Time            `json:"start_time"`
	EndTime        time.Time            `json:"end_time"`
	BasePrice      float64              `json:"base_price"`
	DiscountAmount float64              `json:"discount_amount"`
	FinalAmount    float64              `json:"final_amount"`
	VoucherCode    *string              `json:"voucher_code,omitempty"`
	Status         models.BookingStatus `json:"status"`
	CreatedAt      time.Time            `json:"created_at"`
}

type SlotResponse struct {
	ID        uint              `json:"id"`
	StadiumID uint              `json:"stadium_id"`
	Date      time.Time         `json:"date"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time"`
	Price     float64           `json:"price"`
	Status    models.SlotStatus `json:"status"`
}

type RefundResponse struct {
	ID        uint                `json:"id"`
	BookingID uint                `json:"booking_id"`
	Amount    float64             `json:"amount"`
	Type      models.RefundType   `json:"type"`
	Status    models.RefundStatus `json:"status"`
	Reason    string              `json:"reason"`
	CreatedAt time.Time           `json:"created_at"`
}

type VoucherValidationResponse struct {
	Valid          bool    `json:"valid"`
	DiscountAmount float64 `json:"discount_amount"`
	Reason         string  `json:"reason,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:             b.ID,
		StadiumID:      b.StadiumID,
		SlotID:         b.SlotID,
		UserID:         b.UserID,
		Date:           b.Date,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		BasePrice:      b.BasePrice,
		DiscountAmount: b.DiscountAmount,
		FinalAmount:    b.FinalAmount,
		VoucherCode:    b.VoucherCode,
		Status:         b.Status,
		CreatedAt:      b.CreatedAt,
	}
}

func ToSlotResponse(s *models.Slot) SlotResponse {
	return SlotResponse{
		ID:        s.ID,
		StadiumID: s.StadiumID,
		Date:      s.Date,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Price:     s.Price,
		Status:    s.Status,
	}
}

func ToRefundResponse(r *models.Refund) RefundResponse {
	return RefundResponse{
		ID:        r.ID,
		BookingID: r.BookingID,
		Amount:    r.Amount,
		Type:      r.Type,
		Status:    r.Status,
		Reason:    r.Reason,
		CreatedAt: r.CreatedAt,
	}
}
