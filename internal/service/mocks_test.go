package service

import (
	"context"
	"time"

	"github.com/playmena/stadium-booking/internal/gateway"
	"github.com/playmena/stadium-booking/internal/models"
	"gorm.io/gorm"
)

// Shared function-field mocks for the repository interfaces.

type mockBookingRepo struct {
	createFn             func(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	findByIDFn           func(ctx context.Context, id uint) (*models.Booking, error)
	findByIDWithSlotFn   func(ctx context.Context, id uint) (*models.Booking, error)
	findByUserFn         func(ctx context.Context, userID string) ([]models.Booking, error)
	transitionFn         func(ctx context.Context, tx *gorm.DB, bookingID uint, from []models.BookingStatus, to models.BookingStatus) (bool, error)
	findExpiredPendingFn func(ctx context.Context, cutoff time.Time, limit int) ([]models.Booking, error)
	db                   *gorm.DB
}

func (m *mockBookingRepo) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return m.createFn(ctx, tx, booking)
}
func (m *mockBookingRepo) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockBookingRepo) FindByIDWithSlot(ctx context.Context, id uint) (*models.Booking, error) {
	return m.findByIDWithSlotFn(ctx, id)
}
func (m *mockBookingRepo) FindByUserID(ctx context.Context, userID string) ([]models.Booking, error) {
	return m.findByUserFn(ctx, userID)
}
func (m *mockBookingRepo) TransitionStatus(ctx context.Context, tx *gorm.DB, bookingID uint, from []models.BookingStatus, to models.BookingStatus) (bool, error) {
	return m.transitionFn(ctx, tx, bookingID, from, to)
}
func (m *mockBookingRepo) FindExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]models.Booking, error) {
	return m.findExpiredPendingFn(ctx, cutoff, limit)
}
func (m *mockBookingRepo) GetDB() *gorm.DB { return m.db }

type mockPaymentRepo struct {
	createAttemptFn   func(ctx context.Context, attempt *models.PaymentAttempt) error
	findAttemptFn     func(ctx context.Context, gatewayOrderID string) (*models.PaymentAttempt, error)
	markAttemptFn     func(ctx context.Context, tx *gorm.DB, attemptID uint, status models.PaymentAttemptStatus, transactionID, errDetail string) error
	setGatewayOrderFn func(ctx context.Context, attemptID uint, gatewayOrderID string) error
	createPaymentFn   func(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	findByTxnFn       func(ctx context.Context, transactionID string) (*models.Payment, error)
	findUnrefundedFn  func(ctx context.Context, bookingID uint) ([]models.Payment, error)
	markRefundedFn    func(ctx context.Context, tx *gorm.DB, paymentID uint, refundAmount float64) error
}

func (m *mockPaymentRepo) CreateAttempt(ctx context.Context, attempt *models.PaymentAttempt) error {
	return m.createAttemptFn(ctx, attempt)
}
func (m *mockPaymentRepo) FindAttemptByGatewayOrder(ctx context.Context, gatewayOrderID string) (*models.PaymentAttempt, error) {
	return m.findAttemptFn(ctx, gatewayOrderID)
}
func (m *mockPaymentRepo) MarkAttempt(ctx context.Context, tx *gorm.DB, attemptID uint, status models.PaymentAttemptStatus, transactionID, errDetail string) error {
	return m.markAttemptFn(ctx, tx, attemptID, status, transactionID, errDetail)
}
func (m *mockPaymentRepo) SetGatewayOrder(ctx context.Context, attemptID uint, gatewayOrderID string) error {
	if m.setGatewayOrderFn != nil {
		return m.setGatewayOrderFn(ctx, attemptID, gatewayOrderID)
	}
	return nil
}
func (m *mockPaymentRepo) CreatePayment(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	return m.createPaymentFn(ctx, tx, payment)
}
func (m *mockPaymentRepo) FindPaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	return m.findByTxnFn(ctx, transactionID)
}
func (m *mockPaymentRepo) FindUnrefundedByBooking(ctx context.Context, bookingID uint) ([]models.Payment, error) {
	return m.findUnrefundedFn(ctx, bookingID)
}
func (m *mockPaymentRepo) MarkRefunded(ctx context.Context, tx *gorm.DB, paymentID uint, refundAmount float64) error {
	return m.markRefundedFn(ctx, tx, paymentID, refundAmount)
}
func (m *mockPaymentRepo) GetDB() *gorm.DB { return nil }

type mockRefundRepo struct {
	createFn       func(ctx context.Context, tx *gorm.DB, refund *models.Refund) error
	updateStatusFn func(ctx context.Context, refundID uint, status models.RefundStatus, gatewayRefundID string) error
}

func (m *mockRefundRepo) Create(ctx context.Context, tx *gorm.DB, refund *models.Refund) error {
	return m.createFn(ctx, tx, refund)
}
func (m *mockRefundRepo) FindByID(ctx context.Context, id uint) (*models.Refund, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockRefundRepo) FindByBookingID(ctx context.Context, bookingID uint) ([]models.Refund, error) {
	return nil, nil
}
func (m *mockRefundRepo) UpdateStatus(ctx context.Context, refundID uint, status models.RefundStatus, gatewayRefundID string) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, refundID, status, gatewayRefundID)
	}
	return nil
}
func (m *mockRefundRepo) GetDB() *gorm.DB { return nil }

type mockOutboxRepo struct {
	created []models.Notification
}

func (m *mockOutboxRepo) Create(ctx context.Context, tx *gorm.DB, n *models.Notification) error {
	m.created = append(m.created, *n)
	return nil
}
func (m *mockOutboxRepo) FindPending(ctx context.Context, limit int) ([]models.Notification, error) {
	return nil, nil
}
func (m *mockOutboxRepo) MarkSent(ctx context.Context, id uint) error { return nil }
func (m *mockOutboxRepo) GetDB() *gorm.DB                             { return nil }

type mockGateway struct {
	createOrderFn func(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error)
	refundFn      func(ctx context.Context, transactionID string, amountCents int64) (string, error)
}

func (m *mockGateway) CreateOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
	return m.createOrderFn(ctx, req)
}
func (m *mockGateway) Refund(ctx context.Context, transactionID string, amountCents int64) (string, error) {
	return m.refundFn(ctx, transactionID, amountCents)
}
