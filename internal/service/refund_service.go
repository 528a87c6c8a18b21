package service

import (
	"context"
	"errors"
	"time"

	"github.com/playmena/stadium-booking/internal/gateway"
	"github.com/playmena/stadium-booking/internal/models"
	"github.com/playmena/stadium-booking/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RefundGateway is the slice of the payment gateway the refund engine needs.
type RefundGateway interface {
	Refund(ctx context.Context, transactionID string, amountCents int64) (string, error)
}

type RefundQuote struct {
	EligibleAmount float64 `json:"eligible_amount"`
	TierPercent    int     `json:"tier_percent"`
	TotalPaid      float64 `json:"total_paid"`
}

type RefundService interface {
	Quote(ctx context.Context, bookingID uint, refundType models.RefundType, partialCap float64) (*RefundQuote, error)
	// Execute cancels the booking, releases the slot and marks payments
	// refunded in one transaction, then attempts the gateway-side refund
	// outside it. Callable for pending and confirmed bookings.
	Execute(ctx context.Context, bookingID uint, reason string, refundType models.RefundType, partialCap float64, initiator string) (*models.Refund, error)
}

type refundService struct {
	bookingRepo repository.BookingRepository
	paymentRepo repository.PaymentRepository
	refundRepo  repository.RefundRepository
	outboxRepo  repository.OutboxRepository
	slots       SlotLedger
	gw          RefundGateway
	logger      *zap.Logger
}

func NewRefundService(
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentRepository,
	refundRepo repository.RefundRepository,
	outboxRepo repository.OutboxRepository,
	slots SlotLedger,
	gw RefundGateway,
	logger *zap.Logger,
) RefundService {
	return &refundService{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		refundRepo:  refundRepo,
		outboxRepo:  outboxRepo,
		slots:       slots,
		gw:          gw,
		logger:      logger,
	}
}

// RefundTierPercent maps hours remaining before slot start to the refund
// percentage. The table is an external contract and must not drift.
func RefundTierPercent(hoursUntilStart float64) int {
	switch {
	case hoursUntilStart > 24:
		return 100
	case hoursUntilStart > 12:
		return 50
	case hoursUntilStart > 6:
		return 25
	default:
		return 0
	}
}

func (s *refundService) Quote(ctx context.Context, bookingID uint, refundType models.RefundType, partialCap float64) (*RefundQuote, error) {
	booking, err := s.bookingRepo.FindByIDWithSlot(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return s.quote(ctx, booking, refundType, partialCap)
}

func (s *refundService) quote(ctx context.Context, booking *models.Booking, refundType models.RefundType, partialCap float64) (*RefundQuote, error) {
	if booking.Status != models.BookingPending && booking.Status != models.BookingConfirmed {
		return nil, ErrRefundNotEligible
	}

	payments, err := s.paymentRepo.FindUnrefundedByBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	var paid float64
	for _, p := range payments {
		paid += p.Amount
	}

	start := booking.StartTime
	if booking.Slot != nil {
		start = booking.Slot.StartTime
	}
	tier := RefundTierPercent(time.Until(start).Hours())

	eligible := paid * float64(tier) / 100
	switch refundType {
	case models.RefundDepositOnly:
		if eligible > booking.DepositAmount {
			eligible = booking.DepositAmount
		}
	case models.RefundPartial:
		if eligible > partialCap {
			eligible = partialCap
		}
	}
	if eligible < 0 {
		eligible = 0
	}

	return &RefundQuote{EligibleAmount: eligible, TierPercent: tier, TotalPaid: paid}, nil
}

func (s *refundService) Execute(ctx context.Context, bookingID uint, reason string, refundType models.RefundType, partialCap float64, initiator string) (*models.Refund, error) {
	booking, err := s.bookingRepo.FindByIDWithSlot(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	quote, err := s.quote(ctx, booking, refundType, partialCap)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindUnrefundedByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	refund := &models.Refund{
		BookingID: bookingID,
		Amount:    quote.EligibleAmount,
		Reason:    reason,
		Type:      refundType,
		Status:    models.RefundPending,
		Initiator: initiator,
	}

	// Allocation of the eligible amount across payments, oldest first.
	allocations := make([]refundAllocation, 0, len(payments))
	remaining := quote.EligibleAmount
	for _, p := range payments {
		a := p.Amount
		if a > remaining {
			a = remaining
		}
		allocations = append(allocations, refundAllocation{payment: p, amount: a})
		remaining -= a
	}

	err = s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		won, err := s.bookingRepo.TransitionStatus(ctx, tx, bookingID,
			[]models.BookingStatus{models.BookingPending, models.BookingConfirmed},
			models.BookingCancelled)
		if err != nil {
			return err
		}
		if !won {
			return ErrRefundNotEligible
		}

		if err := s.refundRepo.Create(ctx, tx, refund); err != nil {
			return err
		}

		for _, a := range allocations {
			if err := s.paymentRepo.MarkRefunded(ctx, tx, a.payment.ID, a.amount); err != nil {
				return err
			}
		}

		if err := s.slots.Release(ctx, tx, booking.SlotID); err != nil {
			return err
		}

		if err := enqueueNotification(ctx, tx, s.outboxRepo, booking.UserID, models.NotifBookingCancelled, map[string]any{
			"booking_id":    booking.ID,
			"refund_amount": quote.EligibleAmount,
			"reason":        reason,
		}); err != nil {
			return err
		}
		return enqueueNotification(ctx, tx, s.outboxRepo, operatorRecipient(booking.StadiumID), models.NotifOperatorFreed, map[string]any{
			"booking_id": booking.ID,
			"slot_id":    booking.SlotID,
		})
	})
	if err != nil {
		return nil, err
	}

	// Gateway-side refund happens outside the transaction: it is a separate
	// system of record. A failure here is an operational alert, never a
	// reason to reinstate the booking.
	s.settleWithGateway(ctx, refund, allocations)

	return refund, nil
}

type refundAllocation struct {
	payment models.Payment
	amount  float64
}

func (s *refundService) settleWithGateway(ctx context.Context, refund *models.Refund, allocations []refundAllocation) {
	if refund.Amount <= 0 {
		refund.Status = models.RefundCompleted
		if err := s.refundRepo.UpdateStatus(ctx, refund.ID, models.RefundCompleted, ""); err != nil {
			s.logger.Error("update refund status", zap.Uint("refund_id", refund.ID), zap.Error(err))
		}
		return
	}

	status := models.RefundCompleted
	var gatewayRefundID string
	for _, a := range allocations {
		if a.amount <= 0 || a.payment.Method == "cash" {
			continue
		}
		id, err := s.gw.Refund(ctx, a.payment.TransactionID, gateway.ToCents(a.amount))
		if err != nil {
			s.logger.Error("gateway refund failed",
				zap.Uint("refund_id", refund.ID),
				zap.String("transaction_id", a.payment.TransactionID),
				zap.Error(err))
			status = models.RefundFailed
			continue
		}
		gatewayRefundID = id
	}

	refund.Status = status
	refund.GatewayRefundID = gatewayRefundID
	if err := s.refundRepo.UpdateStatus(ctx, refund.ID, status, gatewayRefundID); err != nil {
		s.logger.Error("update refund status", zap.Uint("refund_id", refund.ID), zap.Error(err))
	}
}
