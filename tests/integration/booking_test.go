//go:build integration

package integration

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/playmena/stadium-booking/internal/models"
	"github.com/playmena/stadium-booking/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 20 users race for one slot: exactly one booking wins, the rest get
// ErrSlotUnavailable, the slot ends up reserved.
func TestConcurrentSlotBooking(t *testing.T) {
	cleanTables()
	slot := createTestSlot(t, 150, 48*time.Hour)
	svc := newServices()

	racers := 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	losers := 0

	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func(n int) {
			defer wg.Done()
			_, err := svc.bookings.CreateBooking(t.Context(), fmt.Sprintf("user-%03d", n), slot.ID, "")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners++
				return
			}
			assert.ErrorIs(t, err, service.ErrSlotUnavailable)
			losers++
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, winners, "exactly one booking should win the slot")
	assert.Equal(t, racers-1, losers)

	var dbSlot models.Slot
	require.NoError(t, testDB.First(&dbSlot, slot.ID).Error)
	assert.Equal(t, models.SlotReserved, dbSlot.Status)

	var active int64
	testDB.Model(&models.Booking{}).
		Where("slot_id = ? AND status <> ?", slot.ID, models.BookingCancelled).
		Count(&active)
	assert.Equal(t, int64(1), active)
}

// A voucher capped at 3 uses, redeemed by 10 concurrent bookings on distinct
// slots: exactly 3 bookings carry the discount, 7 fail and roll back their
// slot reservations.
func TestVoucherUsageCapUnderContention(t *testing.T) {
	cleanTables()
	svc := newServices()
	createTestVoucher(t, "CAP3", models.VoucherPercentage, 20, 3)

	attempts := 10
	slots := make([]*models.Slot, attempts)
	for i := range slots {
		slots[i] = createTestSlot(t, 150, 48*time.Hour)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	redeemed := 0
	exhausted := 0

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(n int) {
			defer wg.Done()
			_, err := svc.bookings.CreateBooking(t.Context(), fmt.Sprintf("user-%03d", n), slots[n].ID, "CAP3")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				redeemed++
				return
			}
			assert.ErrorIs(t, err, service.ErrVoucherExhausted)
			exhausted++
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 3, redeemed, "voucher must redeem exactly max_uses times")
	assert.Equal(t, 7, exhausted)

	var voucher models.Voucher
	require.NoError(t, testDB.Where("code = ?", "CAP3").First(&voucher).Error)
	assert.Equal(t, 3, voucher.UsedCount)

	var usages int64
	testDB.Model(&models.VoucherUsage{}).Where("voucher_id = ?", voucher.ID).Count(&usages)
	assert.Equal(t, int64(3), usages)

	// A failed redemption must give the slot back.
	var availableSlots int64
	testDB.Model(&models.Slot{}).Where("status = ?", models.SlotAvailable).Count(&availableSlots)
	assert.Equal(t, int64(7), availableSlots)
}

// A pending booking past the reservation window is cancelled by the sweep
// and its slot returns to the pool.
func TestExpireStaleReservations(t *testing.T) {
	cleanTables()
	svc := newServices()
	slot := createTestSlot(t, 150, 48*time.Hour)

	booking, err := svc.bookings.CreateBooking(t.Context(), "user-001", slot.ID, "")
	require.NoError(t, err)

	// Backdate the reservation past the 15 minute window.
	testDB.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("created_at", time.Now().Add(-20*time.Minute))

	n, err := svc.bookings.ExpireStale(t.Context(), 15*time.Minute, 200)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var dbBooking models.Booking
	require.NoError(t, testDB.First(&dbBooking, booking.ID).Error)
	assert.Equal(t, models.BookingCancelled, dbBooking.Status)

	var dbSlot models.Slot
	require.NoError(t, testDB.First(&dbSlot, slot.ID).Error)
	assert.Equal(t, models.SlotAvailable, dbSlot.Status)

	var notif models.Notification
	require.NoError(t, testDB.Where("kind = ?", models.NotifBookingExpired).First(&notif).Error)
	assert.Equal(t, "user-001", notif.UserID)
}

// A confirmed booking is out of the sweep's reach even when old.
func TestExpireSkipsConfirmed(t *testing.T) {
	cleanTables()
	svc := newServices()
	slot := createTestSlot(t, 150, 48*time.Hour)

	booking, err := svc.bookings.CreateBooking(t.Context(), "user-001", slot.ID, "")
	require.NoError(t, err)
	_, err = svc.bookings.ConfirmByCash(t.Context(), booking.ID, "operator-1")
	require.NoError(t, err)

	testDB.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("created_at", time.Now().Add(-20*time.Minute))

	n, err := svc.bookings.ExpireStale(t.Context(), 15*time.Minute, 200)
	require.NoError(t, err)
	assert.Zero(t, n)

	var dbBooking models.Booking
	require.NoError(t, testDB.First(&dbBooking, booking.ID).Error)
	assert.Equal(t, models.BookingConfirmed, dbBooking.Status)
}

// Cash confirmation settles everything in one shot: booking confirmed, slot
// booked, cash payment on record.
func TestConfirmByCash(t *testing.T) {
	cleanTables()
	svc := newServices()
	slot := createTestSlot(t, 150, 48*time.Hour)

	booking, err := svc.bookings.CreateBooking(t.Context(), "user-001", slot.ID, "")
	require.NoError(t, err)

	confirmed, err := svc.bookings.ConfirmByCash(t.Context(), booking.ID, "operator-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, confirmed.Status)

	var dbSlot models.Slot
	require.NoError(t, testDB.First(&dbSlot, slot.ID).Error)
	assert.Equal(t, models.SlotBooked, dbSlot.Status)

	var payment models.Payment
	require.NoError(t, testDB.Where("booking_id = ?", booking.ID).First(&payment).Error)
	assert.Equal(t, "cash", payment.Method)
	assert.Equal(t, 150.0, payment.Amount)

	// Cash settlement cannot happen twice.
	_, err = svc.bookings.ConfirmByCash(t.Context(), booking.ID, "operator-1")
	assert.ErrorIs(t, err, service.ErrBookingNotPending)
}
