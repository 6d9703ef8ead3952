package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/counseling-platform/scheduling-service/internal/models"
	"github.com/counseling-platform/scheduling-service/internal/repository"
	"gorm.io/gorm"
)

type AvailabilityService interface {
	ToggleOnlineSlot(ctx context.Context, counselorID uint, date time.Time, sessionIndex int, active bool) (*models.OnlineSlot, error)
	ListCounselorSlots(ctx context.Context, counselorID uint, from, to time.Time) ([]models.OnlineSlot, error)
	ListOpenSlots(ctx context.Context, counselorID uint, date time.Time) ([]models.OnlineSlot, error)
	GetOfflineWindow(ctx context.Context, date time.Time, sessionIndex int) (*models.OfflineSlot, error)
}

type availabilityService struct {
	slotRepo    repository.SlotRepository
	bookingRepo repository.BookingRepository
}

func NewAvailabilityService(slotRepo repository.SlotRepository, bookingRepo repository.BookingRepository) AvailabilityService {
	return &availabilityService{slotRepo: slotRepo, bookingRepo: bookingRepo}
}

// ToggleOnlineSlot creates the slot row on first activation and flips
// open/closed afterwards. A slot carrying a non-terminal booking is never
// closed out from under the student.
func (s *availabilityService) ToggleOnlineSlot(ctx context.Context, counselorID uint, date time.Time, sessionIndex int, active bool) (*models.OnlineSlot, error) {
	if !models.ValidSessionIndex(sessionIndex) {
		return nil, fmt.Errorf("%w: session index must be 1-3", ErrPolicyViolation)
	}

	var result *models.OnlineSlot
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slot, err := s.slotRepo.FindOnline(ctx, tx, counselorID, date, sessionIndex)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if !active {
				return ErrSlotNotFound
			}
			created := &models.OnlineSlot{
				CounselorID:  counselorID,
				Date:         models.DateOnly(date),
				SessionIndex: sessionIndex,
				Status:       models.OnlineSlotOpen,
			}
			if err := s.slotRepo.CreateOnline(ctx, tx, created); err != nil {
				return err
			}
			result = created
			return nil
		}

		locked, err := s.slotRepo.FindOnlineByIDForUpdate(ctx, tx, slot.ID)
		if err != nil {
			return err
		}

		if active {
			switch locked.Status {
			case models.OnlineSlotOpen:
				// Already open, nothing to do.
			case models.OnlineSlotReserved:
				return ErrSlotHasBooking
			case models.OnlineSlotClosed:
				if _, err := s.slotRepo.SetOnlineStatus(ctx, tx, locked.ID, models.OnlineSlotClosed, models.OnlineSlotOpen); err != nil {
					return err
				}
				locked.Status = models.OnlineSlotOpen
			}
			result = locked
			return nil
		}

		switch locked.Status {
		case models.OnlineSlotClosed:
			// Already closed, nothing to do.
		case models.OnlineSlotReserved:
			return ErrSlotHasBooking
		case models.OnlineSlotOpen:
			busy, err := s.bookingRepo.HasActiveForOnlineSlot(ctx, tx, locked.ID)
			if err != nil {
				return err
			}
			if busy {
				return ErrSlotHasBooking
			}
			if _, err := s.slotRepo.SetOnlineStatus(ctx, tx, locked.ID, models.OnlineSlotOpen, models.OnlineSlotClosed); err != nil {
				return err
			}
			locked.Status = models.OnlineSlotClosed
		}
		result = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *availabilityService) ListCounselorSlots(ctx context.Context, counselorID uint, from, to time.Time) ([]models.OnlineSlot, error) {
	return s.slotRepo.ListOnlineByCounselor(ctx, counselorID, from, to)
}

func (s *availabilityService) ListOpenSlots(ctx context.Context, counselorID uint, date time.Time) ([]models.OnlineSlot, error) {
	return s.slotRepo.ListOpenOnlineByCounselor(ctx, counselorID, date)
}

// GetOfflineWindow returns the walk-in window's occupancy. Rows are created
// lazily on first registration, so a missing row reads as an empty open window.
func (s *availabilityService) GetOfflineWindow(ctx context.Context, date time.Time, sessionIndex int) (*models.OfflineSlot, error) {
	if !models.ValidSessionIndex(sessionIndex) {
		return nil, fmt.Errorf("%w: session index must be 1-3", ErrPolicyViolation)
	}
	slot, err := s.slotRepo.FindOffline(ctx, date, sessionIndex)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.OfflineSlot{
				Date:         models.DateOnly(date),
				SessionIndex: sessionIndex,
				Status:       models.OfflineSlotOpen,
				Capacity:     models.OfflineSlotCapacity,
				BookedCount:  0,
			}, nil
		}
		return nil, err
	}
	return slot, nil
}
