// Package notifier delivers outbox notifications to external channels.
// Sinks are fire-and-forget from the business flow's point of view:
// failures are logged and retried by the dispatcher, never propagated.
package notifier

import (
	"context"
	"errors"

	"github.com/playmena/stadium-booking/internal/models"
)

type NotificationSink interface {
	Notify(ctx context.Context, n models.Notification) error
}

// ErrUnknownRecipient tells a sink the recipient is not addressable on its
// channel; the sink skips the notification without failing it.
var ErrUnknownRecipient = errors.New("no recipient on this channel")

// DirectoryFunc adapts a function to the UserDirectory interface.
type DirectoryFunc func(ctx context.Context, userID string) (string, error)

func (f DirectoryFunc) EmailFor(ctx context.Context, userID string) (string, error) {
	return f(ctx, userID)
}
