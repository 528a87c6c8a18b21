package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/playmena/stadium-booking/internal/models"
	"github.com/playmena/stadium-booking/internal/repository"
	"gorm.io/gorm"
)

// SlotLedger is the only writer of slot status. Every transition is a single
// conditional UPDATE on the current status, so two transactions racing for
// the same slot cannot both win.
type SlotLedger interface {
	Reserve(ctx context.Context, tx *gorm.DB, slotID uint) error
	Confirm(ctx context.Context, tx *gorm.DB, slotID uint) error
	Release(ctx context.Context, tx *gorm.DB, slotID uint) error
	Get(ctx context.Context, slotID uint) (*models.Slot, error)
}

type slotLedger struct {
	repo repository.SlotRepository
}

func NewSlotLedger(repo repository.SlotRepository) SlotLedger {
	return &slotLedger{repo: repo}
}

func (l *slotLedger) Get(ctx context.Context, slotID uint) (*models.Slot, error) {
	slot, err := l.repo.FindByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return slot, nil
}

// Reserve transitions available -> reserved. Losing the race is an expected
// outcome surfaced as ErrSlotUnavailable.
func (l *slotLedger) Reserve(ctx context.Context, tx *gorm.DB, slotID uint) error {
	won, err := l.repo.UpdateStatusIf(ctx, tx, slotID, []models.SlotStatus{models.SlotAvailable}, models.SlotReserved)
	if err != nil {
		return err
	}
	if !won {
		return ErrSlotUnavailable
	}
	return nil
}

// Confirm transitions reserved -> booked when a payment settles. A slot that
// is not reserved here means the state machine was bypassed.
func (l *slotLedger) Confirm(ctx context.Context, tx *gorm.DB, slotID uint) error {
	won, err := l.repo.UpdateStatusIf(ctx, tx, slotID, []models.SlotStatus{models.SlotReserved}, models.SlotBooked)
	if err != nil {
		return err
	}
	if !won {
		return fmt.Errorf("slot %d is not reserved, cannot confirm", slotID)
	}
	return nil
}

// Release frees a reserved or booked slot on cancellation or expiry.
func (l *slotLedger) Release(ctx context.Context, tx *gorm.DB, slotID uint) error {
	won, err := l.repo.UpdateStatusIf(ctx, tx, slotID, []models.SlotStatus{models.SlotReserved, models.SlotBooked}, models.SlotAvailable)
	if err != nil {
		return err
	}
	if !won {
		return fmt.Errorf("slot %d is not held, cannot release", slotID)
	}
	return nil
}
