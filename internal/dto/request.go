package dto

type CreateBookingRequest struct {
	SlotID      uint   `json:"slot_id"`
	VoucherCode string `json:"voucher_code,omitempty"`
}

type CheckoutRequest struct {
	BookingID uint   `json:"booking_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type CancelBookingRequest struct {
	Reason        string  `json:"reason"`
	RefundType    string  `json:"refund_type,omitempty"`    // full (default), partial, deposit_only
	PartialAmount float64 `json:"partial_amount,omitempty"` // cap for refund_type=partial
}

type ValidateVoucherRequest struct {
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
}
