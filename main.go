package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/playmena/stadium-booking/config"
	"github.com/playmena/stadium-booking/internal/gateway"
	"github.com/playmena/stadium-booking/internal/handler"
	"github.com/playmena/stadium-booking/internal/middleware"
	"github.com/playmena/stadium-booking/internal/notifier"
	"github.com/playmena/stadium-booking/internal/repository"
	"github.com/playmena/stadium-booking/internal/service"
	"github.com/playmena/stadium-booking/internal/worker"
	"github.com/playmena/stadium-booking/pkg/database"
	"github.com/playmena/stadium-booking/pkg/rabbitmq"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	db := database.NewPostgresDB(cfg.DSN())

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		logger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer publisher.Close()

	// Repositories
	slotRepo := repository.NewSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	voucherRepo := repository.NewVoucherRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	// External collaborators
	gw := gateway.NewClient(gateway.Config{
		BaseURL:    cfg.GatewayBaseURL,
		APIKey:     cfg.GatewayAPIKey,
		HMACSecret: cfg.GatewayHMACSecret,
		IframeID:   cfg.GatewayIframeID,
		Timeout:    cfg.GatewayTimeout,
	})

	// Services
	slots := service.NewSlotLedger(slotRepo)
	vouchers := service.NewVoucherService(voucherRepo)
	refunds := service.NewRefundService(bookingRepo, paymentRepo, refundRepo, outboxRepo, slots, gw, logger)
	bookings := service.NewBookingService(bookingRepo, outboxRepo, paymentRepo, slots, vouchers, refunds, logger)
	settlement := service.NewSettlementService(bookingRepo, paymentRepo, outboxRepo, slots, gw, cfg.GatewayHMACSecret, cfg.Currency, logger)

	// Notification sinks: AMQP always, operator email when SMTP is set.
	sinks := []notifier.NotificationSink{notifier.NewAMQPSink(publisher)}
	if cfg.SMTPHost != "" {
		opsInbox := os.Getenv("OPERATOR_INBOX")
		directory := notifier.DirectoryFunc(func(_ context.Context, userID string) (string, error) {
			if strings.HasPrefix(userID, "operator:") && opsInbox != "" {
				return opsInbox, nil
			}
			return "", notifier.ErrUnknownRecipient
		})
		sinks = append(sinks, notifier.NewMailSink(notifier.MailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, directory))
	}

	// Background workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.NewOutboxDispatcher(outboxRepo, sinks, cfg.OutboxSweepEvery, logger).Start(ctx)
	worker.NewExpiryWorker(bookings, cfg.ReservationWindow, cfg.ExpirySweepEvery, logger).Start(ctx)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status))
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "stadium-booking"})
	})

	handler.NewBookingHandler(bookings, slots).RegisterRoutes(e)
	handler.NewPaymentHandler(settlement).RegisterRoutes(e)
	handler.NewVoucherHandler(vouchers).RegisterRoutes(e)

	logger.Info("stadium booking service starting", zap.String("port", cfg.ServerPort))
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
