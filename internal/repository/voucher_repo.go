package repository

import (
	"context"

	"github.com/playmena/stadium-booking/internal/models"
	"gorm.io/gorm"
)

type VoucherRepository interface {
	FindByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Voucher, error)
	// IncrementUsageIf bumps used_count only while the cap still has room
	// (cap skipped when maxUses is 0). Returns false when the voucher is
	// exhausted or gone.
	IncrementUsageIf(ctx context.Context, tx *gorm.DB, voucherID uint, maxUses int) (bool, error)
	CreateUsage(ctx context.Context, tx *gorm.DB, usage *models.VoucherUsage) error
	GetDB() *gorm.DB
}

type voucherRepository struct {
	db *gorm.DB
}

func NewVoucherRepository(db *gorm.DB) VoucherRepository {
	return &voucherRepository{db: db}
}

func (r *voucherRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *voucherRepository) FindByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Voucher, error) {
	if tx == nil {
		tx = r.db
	}
	var voucher models.Voucher
	if err := tx.WithContext(ctx).Where("code = ?", code).First(&voucher).Error; err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *voucherRepository) IncrementUsageIf(ctx context.Context, tx *gorm.DB, voucherID uint, maxUses int) (bool, error) {
	q := tx.WithContext(ctx).
		Model(&models.Voucher{}).
		Where("id = ? AND is_active = true", voucherID)
	if maxUses > 0 {
		q = q.Where("used_count < max_uses")
	}
	res := q.Update("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *voucherRepository) CreateUsage(ctx context.Context, tx *gorm.DB, usage *models.VoucherUsage) error {
	return tx.WithContext(ctx).Create(usage).Error
}
