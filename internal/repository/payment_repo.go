package repository

import (
	"context"

	"github.com/playmena/stadium-booking/internal/models"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	CreateAttempt(ctx context.Context, attempt *models.PaymentAttempt) error
	FindAttemptByGatewayOrder(ctx context.Context, gatewayOrderID string) (*models.PaymentAttempt, error)
	MarkAttempt(ctx context.Context, tx *gorm.DB, attemptID uint, status models.PaymentAttemptStatus, transactionID, errDetail string) error
	SetGatewayOrder(ctx context.Context, attemptID uint, gatewayOrderID string) error
	CreatePayment(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	FindPaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	FindUnrefundedByBooking(ctx context.Context, bookingID uint) ([]models.Payment, error)
	MarkRefunded(ctx context.Context, tx *gorm.DB, paymentID uint, refundAmount float64) error
	GetDB() *gorm.DB
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *paymentRepository) CreateAttempt(ctx context.Context, attempt *models.PaymentAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *paymentRepository) FindAttemptByGatewayOrder(ctx context.Context, gatewayOrderID string) (*models.PaymentAttempt, error) {
	var attempt models.PaymentAttempt
	err := r.db.WithContext(ctx).
		Where("gateway_order_id = ?", gatewayOrderID).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// MarkAttempt finalizes an attempt. Attempts already success/failed are left
// untouched; they are immutable once settled.
func (r *paymentRepository) MarkAttempt(ctx context.Context, tx *gorm.DB, attemptID uint, status models.PaymentAttemptStatus, transactionID, errDetail string) error {
	return tx.WithContext(ctx).
		Model(&models.PaymentAttempt{}).
		Where("id = ? AND status = ?", attemptID, models.AttemptPending).
		Updates(map[string]any{
			"status":         status,
			"transaction_id": transactionID,
			"error_detail":   errDetail,
		}).Error
}

func (r *paymentRepository) SetGatewayOrder(ctx context.Context, attemptID uint, gatewayOrderID string) error {
	return r.db.WithContext(ctx).
		Model(&models.PaymentAttempt{}).
		Where("id = ?", attemptID).
		Update("gateway_order_id", gatewayOrderID).Error
}

func (r *paymentRepository) CreatePayment(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	return tx.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) FindPaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindUnrefundedByBooking(ctx context.Context, bookingID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ? AND refunded = false", bookingID).
		Order("id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) MarkRefunded(ctx context.Context, tx *gorm.DB, paymentID uint, refundAmount float64) error {
	return tx.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Updates(map[string]any{
			"refunded":      true,
			"refund_amount": refundAmount,
		}).Error
}
