package service

import "errors"

// Expected business outcomes. Losing a slot or voucher race is a normal
// result, not a system error; handlers surface these directly to users.
var (
	ErrSlotNotFound      = errors.New("slot not found")
	ErrSlotUnavailable   = errors.New("slot is no longer available")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBookingNotPending = errors.New("booking is not pending")
	ErrNotBookingOwner   = errors.New("booking belongs to another user")
	ErrNothingToPay      = errors.New("booking has nothing left to pay")
	ErrRefundNotEligible = errors.New("booking is not eligible for a refund")

	ErrInvalidVoucher   = errors.New("voucher code is invalid")
	ErrVoucherInactive  = errors.New("voucher is not active")
	ErrVoucherExpired   = errors.New("voucher has expired")
	ErrVoucherExhausted = errors.New("voucher usage limit reached")
	ErrVoucherMinAmount = errors.New("order amount below voucher minimum")
	ErrVoucherWrongUser = errors.New("voucher is restricted to another user")
)

// External-dependency failures.
var (
	ErrSignatureInvalid   = errors.New("callback signature mismatch")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)
