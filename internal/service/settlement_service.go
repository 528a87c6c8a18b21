package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/playmena/stadium-booking/internal/gateway"
	"github.com/playmena/stadium-booking/internal/models"
	"github.com/playmena/stadium-booking/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderGateway is the slice of the payment gateway checkout needs.
type OrderGateway interface {
	CreateOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error)
}

type CheckoutResult struct {
	Success    bool    `json:"success"`
	PaymentURL string  `json:"paymentUrl"`
	OrderID    string  `json:"orderId"`
	Amount     float64 `json:"amount"`
}

// SettlementService initiates gateway checkouts and reconciles the
// asynchronous payment callbacks the gateway delivers at least once.
type SettlementService interface {
	Checkout(ctx context.Context, bookingID uint, userID string, billing gateway.BillingInfo) (*CheckoutResult, error)
	// HandleCallback verifies, deduplicates and settles one webhook
	// delivery. Safe to call any number of times with the same payload.
	HandleCallback(ctx context.Context, cb gateway.Callback) error
}

type settlementService struct {
	bookingRepo repository.BookingRepository
	paymentRepo repository.PaymentRepository
	outboxRepo  repository.OutboxRepository
	slots       SlotLedger
	gw          OrderGateway
	hmacSecret  string
	currency    string
	logger      *zap.Logger
}

func NewSettlementService(
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentRepository,
	outboxRepo repository.OutboxRepository,
	slots SlotLedger,
	gw OrderGateway,
	hmacSecret string,
	currency string,
	logger *zap.Logger,
) SettlementService {
	return &settlementService{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		outboxRepo:  outboxRepo,
		slots:       slots,
		gw:          gw,
		hmacSecret:  hmacSecret,
		currency:    currency,
		logger:      logger,
	}
}

func (s *settlementService) Checkout(ctx context.Context, bookingID uint, userID string, billing gateway.BillingInfo) (*CheckoutResult, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	if booking.Status != models.BookingPending {
		return nil, ErrBookingNotPending
	}
	if booking.FinalAmount <= 0 {
		return nil, ErrNothingToPay
	}

	attempt := &models.PaymentAttempt{
		BookingID:   bookingID,
		Amount:      booking.FinalAmount,
		Method:      "card",
		Status:      models.AttemptPending,
		MerchantRef: uuid.NewString(),
	}
	if err := s.paymentRepo.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	order, err := s.gw.CreateOrder(ctx, gateway.OrderRequest{
		AmountCents: gateway.ToCents(booking.FinalAmount),
		Currency:    s.currency,
		MerchantRef: attempt.MerchantRef,
		Items: []gateway.LineItem{{
			Name:        fmt.Sprintf("stadium slot %d", booking.SlotID),
			AmountCents: gateway.ToCents(booking.FinalAmount),
			Quantity:    1,
		}},
		Billing: billing,
		Metadata: gateway.Metadata{
			BookingID: booking.ID,
			UserID:    booking.UserID,
			StadiumID: booking.StadiumID,
		},
	})
	if err != nil {
		// A partial handshake must not leave the attempt pending forever.
		if markErr := s.paymentRepo.MarkAttempt(ctx, s.paymentRepo.GetDB(), attempt.ID, models.AttemptFailed, "", err.Error()); markErr != nil {
			s.logger.Error("mark attempt failed", zap.Uint("attempt_id", attempt.ID), zap.Error(markErr))
		}
		s.logger.Warn("gateway order creation failed",
			zap.Uint("booking_id", bookingID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if err := s.paymentRepo.SetGatewayOrder(ctx, attempt.ID, order.OrderID); err != nil {
		return nil, err
	}

	return &CheckoutResult{
		Success:    true,
		PaymentURL: order.PaymentURL,
		OrderID:    order.OrderID,
		Amount:     booking.FinalAmount,
	}, nil
}

func (s *settlementService) HandleCallback(ctx context.Context, cb gateway.Callback) error {
	if !gateway.VerifySignature(cb, s.hmacSecret) {
		return ErrSignatureInvalid
	}

	txnID := strconv.FormatInt(cb.Obj.ID, 10)
	gatewayOrderID := strconv.FormatInt(cb.Obj.Order.ID, 10)
	bookingID := cb.Obj.Order.Metadata.BookingID

	if !cb.Obj.Success {
		return s.recordFailure(ctx, gatewayOrderID, txnID)
	}

	// Idempotency anchor: one Payment per gateway transaction. Redeliveries
	// short-circuit here with no further mutation.
	if _, err := s.paymentRepo.FindPaymentByTransactionID(ctx, txnID); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("callback for unknown booking %d: %w", bookingID, err)
	}

	amount := gateway.FromCents(cb.Obj.AmountCents)

	return s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempt, err := s.paymentRepo.FindAttemptByGatewayOrder(ctx, gatewayOrderID)
		if err == nil {
			if err := s.paymentRepo.MarkAttempt(ctx, tx, attempt.ID, models.AttemptSuccess, txnID, ""); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := s.paymentRepo.CreatePayment(ctx, tx, &models.Payment{
			BookingID:     bookingID,
			Amount:        amount,
			Method:        "card",
			TransactionID: txnID,
		}); err != nil {
			return err
		}

		won, err := s.bookingRepo.TransitionStatus(ctx, tx, bookingID,
			[]models.BookingStatus{models.BookingPending}, models.BookingConfirmed)
		if err != nil {
			return err
		}
		if !won {
			// Late delivery: the booking settled or was cancelled while the
			// charge was in flight. Keep the payment on record so the money
			// is visible to the refund flow, skip confirmation.
			s.logger.Error("settled payment for non-pending booking",
				zap.Uint("booking_id", bookingID),
				zap.String("transaction_id", txnID),
				zap.String("booking_status", string(booking.Status)))
			return nil
		}

		if err := s.slots.Confirm(ctx, tx, booking.SlotID); err != nil {
			return err
		}

		if err := enqueueNotification(ctx, tx, s.outboxRepo, booking.UserID, models.NotifBookingConfirmed, map[string]any{
			"booking_id": bookingID,
			"amount":     amount,
			"method":     "card",
		}); err != nil {
			return err
		}
		return enqueueNotification(ctx, tx, s.outboxRepo, operatorRecipient(booking.StadiumID), models.NotifOperatorBooked, map[string]any{
			"booking_id": bookingID,
			"slot_id":    booking.SlotID,
		})
	})
}

func (s *settlementService) recordFailure(ctx context.Context, gatewayOrderID, txnID string) error {
	attempt, err := s.paymentRepo.FindAttemptByGatewayOrder(ctx, gatewayOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("failure callback for unknown order", zap.String("gateway_order_id", gatewayOrderID))
			return nil
		}
		return err
	}
	return s.paymentRepo.MarkAttempt(ctx, s.paymentRepo.GetDB(), attempt.ID, models.AttemptFailed, txnID, "declined by gateway")
}
