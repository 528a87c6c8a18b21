package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/playmena/stadium-booking/internal/models"
	"github.com/playmena/stadium-booking/internal/repository"
	"gorm.io/gorm"
)

// enqueueNotification writes an outbox row inside the caller's transaction.
// Delivery happens post-commit in the outbox dispatcher, so a sink failure
// can never roll back the business mutation.
func enqueueNotification(ctx context.Context, tx *gorm.DB, repo repository.OutboxRepository, userID, kind string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	return repo.Create(ctx, tx, &models.Notification{
		UserID:  userID,
		Kind:    kind,
		Payload: string(body),
	})
}

// operatorRecipient addresses the stadium operator; the notification service
// resolves it to the operator's actual contact downstream.
func operatorRecipient(stadiumID uint) string {
	return fmt.Sprintf("operator:%d", stadiumID)
}
