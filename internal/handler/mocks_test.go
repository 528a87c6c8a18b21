package handler

import (
	"context"
	"time"

	"github.com/playmena/stadium-booking/internal/gateway"
	"github.com/playmena/stadium-booking/internal/models"
	"github.com/playmena/stadium-booking/internal/service"
	"gorm.io/gorm"
)

type mockBookingService struct {
	createFn        func(ctx context.Context, userID string, slotID uint, voucherCode string) (*models.Booking, error)
	getFn           func(ctx context.Context, id uint) (*models.Booking, error)
	listFn          func(ctx context.Context, userID string) ([]models.Booking, error)
	confirmByCashFn func(ctx context.Context, bookingID uint, operatorID string) (*models.Booking, error)
	cancelFn        func(ctx context.Context, bookingID uint, userID, reason string, refundType models.RefundType, partialCap float64) (*models.Refund, error)
}

func (m *mockBookingService) CreateBooking(ctx context.Context, userID string, slotID uint, voucherCode string) (*models.Booking, error) {
	return m.createFn(ctx, userID, slotID, voucherCode)
}
func (m *mockBookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	return m.getFn(ctx, id)
}
func (m *mockBookingService) ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return m.listFn(ctx, userID)
}
func (m *mockBookingService) ConfirmByCash(ctx context.Context, bookingID uint, operatorID string) (*models.Booking, error) {
	return m.confirmByCashFn(ctx, bookingID, operatorID)
}
func (m *mockBookingService) Cancel(ctx context.Context, bookingID uint, userID, reason string, refundType models.RefundType, partialCap float64) (*models.Refund, error) {
	return m.cancelFn(ctx, bookingID, userID, reason, refundType, partialCap)
}
func (m *mockBookingService) ExpireStale(ctx context.Context, window time.Duration, batch int) (int, error) {
	return 0, nil
}

type mockSlotLedger struct {
	getFn func(ctx context.Context, slotID uint) (*models.Slot, error)
}

func (m *mockSlotLedger) Reserve(ctx context.Context, tx *gorm.DB, slotID uint) error { return nil }
func (m *mockSlotLedger) Confirm(ctx context.Context, tx *gorm.DB, slotID uint) error { return nil }
func (m *mockSlotLedger) Release(ctx context.Context, tx *gorm.DB, slotID uint) error { return nil }
func (m *mockSlotLedger) Get(ctx context.Context, slotID uint) (*models.Slot, error) {
	return m.getFn(ctx, slotID)
}

type mockSettlementService struct {
	checkoutFn func(ctx context.Context, bookingID uint, userID string, billing gateway.BillingInfo) (*service.CheckoutResult, error)
	callbackFn func(ctx context.Context, cb gateway.Callback) error
}

func (m *mockSettlementService) Checkout(ctx context.Context, bookingID uint, userID string, billing gateway.BillingInfo) (*service.CheckoutResult, error) {
	return m.checkoutFn(ctx, bookingID, userID, billing)
}
func (m *mockSettlementService) HandleCallback(ctx context.Context, cb gateway.Callback) error {
	return m.callbackFn(ctx, cb)
}

type mockVoucherService struct {
	validateFn func(ctx context.Context, tx *gorm.DB, code string, amount float64, userID string) (*models.Voucher, float64, error)
}

func (m *mockVoucherService) Validate(ctx context.Context, tx *gorm.DB, code string, amount float64, userID string) (*models.Voucher, float64, error) {
	return m.validateFn(ctx, tx, code, amount, userID)
}
func (m *mockVoucherService) Redeem(ctx context.Context, tx *gorm.DB, voucher *models.Voucher, bookingID uint, userID string, discountAmount float64) error {
	return nil
}
