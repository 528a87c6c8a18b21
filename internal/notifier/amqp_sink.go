package notifier

import (
	"context"
	"encoding/json"

	"github.com/playmena/stadium-booking/internal/models"
	"github.com/playmena/stadium-booking/pkg/rabbitmq"
)

// AMQPSink publishes notifications to the notifications topic exchange; the
// standalone notification service consumes them for SMS/push delivery.
type AMQPSink struct {
	publisher *rabbitmq.Publisher
}

func NewAMQPSink(publisher *rabbitmq.Publisher) *AMQPSink {
	return &AMQPSink{publisher: publisher}
}

func (s *AMQPSink) Notify(_ context.Context, n models.Notification) error {
	var payload map[string]any
	if err := json.Unmarshal([]byte(n.Payload), &payload); err != nil {
		payload = map[string]any{"raw": n.Payload}
	}
	return s.publisher.Publish(n.Kind, map[string]any{
		"user_id": n.UserID,
		"kind":    n.Kind,
		"data":    payload,
	})
}
