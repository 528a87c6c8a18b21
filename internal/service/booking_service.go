package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/playmena/stadium-booking/internal/models"
	"github.com/playmena/stadium-booking/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BookingService owns the booking state machine:
// pending -> confirmed -> completed, with pending|confirmed -> cancelled.
// No transition leaves cancelled or completed.
type BookingService interface {
	CreateBooking(ctx context.Context, userID string, slotID uint, voucherCode string) (*models.Booking, error)
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error)
	ConfirmByCash(ctx context.Context, bookingID uint, operatorID string) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID uint, userID, reason string, refundType models.RefundType, partialCap float64) (*models.Refund, error)
	// ExpireStale cancels pending bookings older than the reservation
	// window and releases their slots. Run periodically by the expiry
	// worker; without it abandoned checkouts leak slots into reserved.
	ExpireStale(ctx context.Context, window time.Duration, batch int) (int, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	outboxRepo  repository.OutboxRepository
	paymentRepo repository.PaymentRepository
	slots       SlotLedger
	vouchers    VoucherService
	refunds     RefundService
	logger      *zap.Logger
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	outboxRepo repository.OutboxRepository,
	paymentRepo repository.PaymentRepository,
	slots SlotLedger,
	vouchers VoucherService,
	refunds RefundService,
	logger *zap.Logger,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		outboxRepo:  outboxRepo,
		paymentRepo: paymentRepo,
		slots:       slots,
		vouchers:    vouchers,
		refunds:     refunds,
		logger:      logger,
	}
}

// CreateBooking reserves the slot, applies the voucher and persists the
// pending booking as one all-or-nothing transaction. A failed voucher rolls
// the slot reservation back with everything else.
func (s *bookingService) CreateBooking(ctx context.Context, userID string, slotID uint, voucherCode string) (*models.Booking, error) {
	slot, err := s.slots.Get(ctx, slotID)
	if err != nil {
		return nil, err
	}

	var result *models.Booking
	err = s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.slots.Reserve(ctx, tx, slotID); err != nil {
			return err
		}

		var discount float64
		var voucher *models.Voucher
		if voucherCode != "" {
			voucher, discount, err = s.vouchers.Validate(ctx, tx, voucherCode, slot.Price, userID)
			if err != nil {
				return err
			}
		}

		booking := &models.Booking{
			StadiumID:      slot.StadiumID,
			SlotID:         slot.ID,
			UserID:         userID,
			Date:           slot.Date,
			StartTime:      slot.StartTime,
			EndTime:        slot.EndTime,
			BasePrice:      slot.Price,
			DiscountAmount: discount,
			FinalAmount:    slot.Price - discount,
			Status:         models.BookingPending,
		}
		if voucher != nil {
			booking.VoucherCode = &voucher.Code
		}
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return err
		}

		if voucher != nil {
			if err := s.vouchers.Redeem(ctx, tx, voucher, booking.ID, userID, discount); err != nil {
				return err
			}
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.Uint("booking_id", result.ID),
		zap.Uint("slot_id", slotID),
		zap.String("user_id", userID),
		zap.Float64("final_amount", result.FinalAmount))
	return result, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByIDWithSlot(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.bookingRepo.FindByUserID(ctx, userID)
}

// ConfirmByCash settles a pending booking paid at the venue: confirm the
// booking and slot and record the cash payment in one transaction.
func (s *bookingService) ConfirmByCash(ctx context.Context, bookingID uint, operatorID string) (*models.Booking, error) {
	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	err = s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		won, err := s.bookingRepo.TransitionStatus(ctx, tx, bookingID,
			[]models.BookingStatus{models.BookingPending}, models.BookingConfirmed)
		if err != nil {
			return err
		}
		if !won {
			return ErrBookingNotPending
		}

		if err := s.slots.Confirm(ctx, tx, booking.SlotID); err != nil {
			return err
		}

		if err := s.paymentRepo.CreatePayment(ctx, tx, &models.Payment{
			BookingID:     bookingID,
			Amount:        booking.FinalAmount,
			Method:        "cash",
			TransactionID: fmt.Sprintf("cash-%s", uuid.NewString()),
		}); err != nil {
			return err
		}

		if err := enqueueNotification(ctx, tx, s.outboxRepo, booking.UserID, models.NotifBookingConfirmed, map[string]any{
			"booking_id": bookingID,
			"amount":     booking.FinalAmount,
			"method":     "cash",
		}); err != nil {
			return err
		}
		return enqueueNotification(ctx, tx, s.outboxRepo, operatorRecipient(booking.StadiumID), models.NotifOperatorBooked, map[string]any{
			"booking_id": bookingID,
			"slot_id":    booking.SlotID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking confirmed by cash",
		zap.Uint("booking_id", bookingID),
		zap.String("operator_id", operatorID))
	return s.GetBooking(ctx, bookingID)
}

// Cancel delegates amount computation and the cancellation transaction to
// the refund engine.
func (s *bookingService) Cancel(ctx context.Context, bookingID uint, userID, reason string, refundType models.RefundType, partialCap float64) (*models.Refund, error) {
	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	return s.refunds.Execute(ctx, bookingID, reason, refundType, partialCap, userID)
}

func (s *bookingService) ExpireStale(ctx context.Context, window time.Duration, batch int) (int, error) {
	cutoff := time.Now().Add(-window)
	stale, err := s.bookingRepo.FindExpiredPending(ctx, cutoff, batch)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, booking := range stale {
		err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			won, err := s.bookingRepo.TransitionStatus(ctx, tx, booking.ID,
				[]models.BookingStatus{models.BookingPending}, models.BookingCancelled)
			if err != nil {
				return err
			}
			if !won {
				// Settled or cancelled between the sweep query and now.
				return nil
			}
			if err := s.slots.Release(ctx, tx, booking.SlotID); err != nil {
				return err
			}
			expired++
			return enqueueNotification(ctx, tx, s.outboxRepo, booking.UserID, models.NotifBookingExpired, map[string]any{
				"booking_id": booking.ID,
				"slot_id":    booking.SlotID,
			})
		})
		if err != nil {
			s.logger.Error("expire booking", zap.Uint("booking_id", booking.ID), zap.Error(err))
		}
	}
	return expired, nil
}
