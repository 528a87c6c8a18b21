package repository

import (
	"context"
	"time"

	"github.com/playmena/stadium-booking/internal/models"
	"gorm.io/gorm"
)

type OutboxRepository interface {
	Create(ctx context.Context, tx *gorm.DB, n *models.Notification) error
	FindPending(ctx context.Context, limit int) ([]models.Notification, error)
	MarkSent(ctx context.Context, id uint) error
	GetDB() *gorm.DB
}

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *outboxRepository) Create(ctx context.Context, tx *gorm.DB, n *models.Notification) error {
	return tx.WithContext(ctx).Create(n).Error
}

func (r *outboxRepository) FindPending(ctx context.Context, limit int) ([]models.Notification, error) {
	var rows []models.Notification
	err := r.db.WithContext(ctx).
		Where("status = ?", models.NotificationPending).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":  models.NotificationSent,
			"sent_at": &now,
		}).Error
}
