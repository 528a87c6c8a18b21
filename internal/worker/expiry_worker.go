package worker

import (
	"context"
	"time"

	"github.com/playmena/stadium-booking/internal/service"
	"go.uber.org/zap"
)

// ExpiryWorker sweeps pending bookings that outlived the reservation window
// and returns their slots to the pool.
type ExpiryWorker struct {
	bookings service.BookingService
	window   time.Duration
	interval time.Duration
	batch    int
	logger   *zap.Logger
}

func NewExpiryWorker(bookings service.BookingService, window, interval time.Duration, logger *zap.Logger) *ExpiryWorker {
	return &ExpiryWorker{
		bookings: bookings,
		window:   window,
		interval: interval,
		batch:    200,
		logger:   logger,
	}
}

func (w *ExpiryWorker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("expiry worker stopping")
				return
			case <-ticker.C:
				n, err := w.bookings.ExpireStale(ctx, w.window, w.batch)
				if err != nil {
					w.logger.Error("expiry sweep", zap.Error(err))
					continue
				}
				if n > 0 {
					w.logger.Info("expired stale reservations", zap.Int("count", n))
				}
			}
		}
	}()
}
