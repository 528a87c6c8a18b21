package repository

import (
	"context"
	"time"

	"github.com/playmena/stadium-booking/internal/models"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByIDWithSlot(ctx context.Context, id uint) (*models.Booking, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Booking, error)
	// TransitionStatus guards the state machine with a conditional UPDATE
	// on the current status; false means the booking was not in any of the
	// expected states.
	TransitionStatus(ctx context.Context, tx *gorm.DB, bookingID uint, from []models.BookingStatus, to models.BookingStatus) (bool, error)
	FindExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]models.Booking, error)
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByIDWithSlot(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Preload("Slot").First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) TransitionStatus(ctx context.Context, tx *gorm.DB, bookingID uint, from []models.BookingStatus, to models.BookingStatus) (bool, error) {
	updates := map[string]any{"status": to}
	now := time.Now()
	switch to {
	case models.BookingConfirmed:
		updates["confirmed_at"] = &now
	case models.BookingCancelled:
		updates["cancelled_at"] = &now
	}
	res := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status IN ?", bookingID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// FindExpiredPending returns pending bookings created before cutoff, oldest
// first, for the reservation expiry sweep.
func (r *bookingRepository) FindExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.BookingPending, cutoff).
		Order("id ASC").
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
