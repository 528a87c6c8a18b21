package repository

import (
	"context"

	"github.com/playmena/stadium-booking/internal/models"
	"gorm.io/gorm"
)

type RefundRepository interface {
	Create(ctx context.Context, tx *gorm.DB, refund *models.Refund) error
	FindByID(ctx context.Context, id uint) (*models.Refund, error)
	FindByBookingID(ctx context.Context, bookingID uint) ([]models.Refund, error)
	UpdateStatus(ctx context.Context, refundID uint, status models.RefundStatus, gatewayRefundID string) error
	GetDB() *gorm.DB
}

type refundRepository struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) RefundRepository {
	return &refundRepository{db: db}
}

func (r *refundRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *refundRepository) Create(ctx context.Context, tx *gorm.DB, refund *models.Refund) error {
	return tx.WithContext(ctx).Create(refund).Error
}

func (r *refundRepository) FindByID(ctx context.Context, id uint) (*models.Refund, error) {
	var refund models.Refund
	if err := r.db.WithContext(ctx).First(&refund, id).Error; err != nil {
		return nil, err
	}
	return &refund, nil
}

func (r *refundRepository) FindByBookingID(ctx context.Context, bookingID uint) ([]models.Refund, error) {
	var refunds []models.Refund
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&refunds).Error
	if err != nil {
		return nil, err
	}
	return refunds, nil
}

// UpdateStatus runs outside the cancellation transaction: the gateway-side
// refund is a separate system of record and its outcome must not roll back
// the cancellation.
func (r *refundRepository) UpdateStatus(ctx context.Context, refundID uint, status models.RefundStatus, gatewayRefundID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Refund{}).
		Where("id = ?", refundID).
		Updates(map[string]any{
			"status":            status,
			"gateway_refund_id": gatewayRefundID,
		}).Error
}
