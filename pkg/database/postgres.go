package database

import (
	"log"

	"github.com/playmena/stadium-booking/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Slot{},
		&models.Booking{},
		&models.PaymentAttempt{},
		&models.Payment{},
		&models.Voucher{},
		&models.VoucherUsage{},
		&models.Refund{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Partial unique index: at most one non-cancelled booking per slot.
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_booking_active_slot
		ON bookings (slot_id)
		WHERE status <> 'cancelled'
	`)

	return db
}
