package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/playmena/stadium-booking/internal/models"
	"github.com/playmena/stadium-booking/internal/repository"
	"gorm.io/gorm"
)

// Voucher codes are case-insensitive alphanumeric plus -/_, 3-20 chars.
var voucherCodePattern = regexp.MustCompile(`^[A-Z0-9_-]{3,20}$`)

type VoucherService interface {
	// Validate checks a code against eligibility rules and returns the
	// voucher and the discount it grants on the given amount.
	Validate(ctx context.Context, tx *gorm.DB, code string, amount float64, userID string) (*models.Voucher, float64, error)
	// Redeem consumes one usage slot with a conditional increment and
	// records the usage, inside the caller's transaction. Losing the last
	// usage slot to a concurrent redeemer returns ErrVoucherExhausted.
	Redeem(ctx context.Context, tx *gorm.DB, voucher *models.Voucher, bookingID uint, userID string, discountAmount float64) error
}

type voucherService struct {
	repo repository.VoucherRepository
}

func NewVoucherService(repo repository.VoucherRepository) VoucherService {
	return &voucherService{repo: repo}
}

// NormalizeCode upper-cases a voucher code and rejects malformed input.
func NormalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !voucherCodePattern.MatchString(code) {
		return "", ErrInvalidVoucher
	}
	return code, nil
}

// ComputeDiscount applies the voucher type to an order amount. The result is
// always clamped to [0, amount].
func ComputeDiscount(v *models.Voucher, amount float64) float64 {
	var discount float64
	switch v.Type {
	case models.VoucherPercentage:
		discount = amount * v.Value / 100
	case models.VoucherFixed:
		discount = v.Value
	case models.VoucherFull:
		discount = amount
	}
	if discount < 0 {
		return 0
	}
	if discount > amount {
		return amount
	}
	return discount
}

func (s *voucherService) Validate(ctx context.Context, tx *gorm.DB, code string, amount float64, userID string) (*models.Voucher, float64, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return nil, 0, err
	}

	voucher, err := s.repo.FindByCode(ctx, tx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrInvalidVoucher
		}
		return nil, 0, err
	}

	if !voucher.IsActive {
		return nil, 0, ErrVoucherInactive
	}
	if time.Now().After(voucher.ExpiresAt) {
		return nil, 0, ErrVoucherExpired
	}
	if voucher.MaxUses > 0 && voucher.UsedCount >= voucher.MaxUses {
		return nil, 0, ErrVoucherExhausted
	}
	if voucher.MinAmount > 0 && amount < voucher.MinAmount {
		return nil, 0, ErrVoucherMinAmount
	}
	if voucher.UserID != nil && *voucher.UserID != userID {
		return nil, 0, ErrVoucherWrongUser
	}

	return voucher, ComputeDiscount(voucher, amount), nil
}

func (s *voucherService) Redeem(ctx context.Context, tx *gorm.DB, voucher *models.Voucher, bookingID uint, userID string, discountAmount float64) error {
	won, err := s.repo.IncrementUsageIf(ctx, tx, voucher.ID, voucher.MaxUses)
	if err != nil {
		return err
	}
	if !won {
		return ErrVoucherExhausted
	}

	return s.repo.CreateUsage(ctx, tx, &models.VoucherUsage{
		VoucherID:      voucher.ID,
		BookingID:      bookingID,
		UserID:         userID,
		DiscountAmount: discountAmount,
	})
}
