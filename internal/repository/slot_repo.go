package repository

import (
	"context"

	"github.com/playmena/stadium-booking/internal/models"
	"gorm.io/gorm"
)

type SlotRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Slot, error)
	// UpdateStatusIf flips status from one value to another in a single
	// conditional UPDATE and reports whether the row was won.
	UpdateStatusIf(ctx context.Context, tx *gorm.DB, slotID uint, from []models.SlotStatus, to models.SlotStatus) (bool, error)
	GetDB() *gorm.DB
}

type slotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) SlotRepository {
	return &slotRepository{db: db}
}

func (r *slotRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *slotRepository) FindByID(ctx context.Context, id uint) (*models.Slot, error) {
	var slot models.Slot
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepository) UpdateStatusIf(ctx context.Context, tx *gorm.DB, slotID uint, from []models.SlotStatus, to models.SlotStatus) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.Slot{}).
		Where("id = ? AND status IN ?", slotID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
