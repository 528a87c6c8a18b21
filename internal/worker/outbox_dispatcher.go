package worker

import (
	"context"
	"time"

	"github.com/playmena/stadium-booking/internal/notifier"
	"github.com/playmena/stadium-booking/internal/repository"
	"go.uber.org/zap"
)

// OutboxDispatcher drains pending notification rows after their business
// transactions commit and fans them out to the configured sinks. A row is
// marked sent once at least one sink accepted it; otherwise it stays pending
// for the next sweep.
type OutboxDispatcher struct {
	repo     repository.OutboxRepository
	sinks    []notifier.NotificationSink
	interval time.Duration
	batch    int
	logger   *zap.Logger
}

func NewOutboxDispatcher(repo repository.OutboxRepository, sinks []notifier.NotificationSink, interval time.Duration, logger *zap.Logger) *OutboxDispatcher {
	return &OutboxDispatcher{
		repo:     repo,
		sinks:    sinks,
		interval: interval,
		batch:    100,
		logger:   logger,
	}
}

func (d *OutboxDispatcher) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				d.logger.Info("outbox dispatcher stopping")
				return
			case <-ticker.C:
				d.Sweep(ctx)
			}
		}
	}()
}

func (d *OutboxDispatcher) Sweep(ctx context.Context) {
	rows, err := d.repo.FindPending(ctx, d.batch)
	if err != nil {
		d.logger.Error("outbox query", zap.Error(err))
		return
	}

	for _, row := range rows {
		delivered := false
		for _, sink := range d.sinks {
			if err := sink.Notify(ctx, row); err != nil {
				d.logger.Warn("notification sink failed",
					zap.Uint("notification_id", row.ID),
					zap.String("kind", row.Kind),
					zap.Error(err))
				continue
			}
			delivered = true
		}
		if !delivered {
			continue
		}
		if err := d.repo.MarkSent(ctx, row.ID); err != nil {
			d.logger.Error("mark notification sent", zap.Uint("notification_id", row.ID), zap.Error(err))
		}
	}
}
