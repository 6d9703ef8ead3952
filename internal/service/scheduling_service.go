package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/counseling-platform/scheduling-service/internal/meeting"
	"github.com/counseling-platform/scheduling-service/internal/models"
	"github.com/counseling-platform/scheduling-service/internal/repository"
	"gorm.io/gorm"
)

// EventPublisher is the outbound messaging port. Lifecycle events are
// published after the owning transaction commits; publish failures are
// logged by the implementation and never fail the request.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type SchedulingService interface {
	RequestOnlineBooking(ctx context.Context, requesterID, counselorID uint, date time.Time, sessionIndex int, complaint string) (*models.Booking, error)
	RequestOfflineBooking(ctx context.Context, requesterID uint, date time.Time, sessionIndex int, complaint string) (*models.Booking, error)
	ApproveBooking(ctx context.Context, counselorID, bookingID uint) (*models.Booking, error)
	RejectBooking(ctx context.Context, counselorID, bookingID uint, reason string) (*models.Booking, error)
	CompleteSession(ctx context.Context, counselorID, bookingID uint) (*models.Booking, *models.HistoryRecord, error)
	CancelOfflineBooking(ctx context.Context, requesterID, bookingID uint) (*models.Booking, error)
	RateSession(ctx context.Context, raterID, historyRecordID uint, score int) (*models.RatingEntry, error)

	GetBookingForRequester(ctx context.Context, requesterID, bookingID uint) (*models.Booking, error)
	ListBookingsForRequester(ctx context.Context, requesterID uint) ([]models.Booking, error)
	ListBookingsForCounselor(ctx context.Context, counselorID uint, status *models.BookingStatus) ([]models.Booking, error)
}

type schedulingService struct {
	slotRepo      repository.SlotRepository
	bookingRepo   repository.BookingRepository
	historyRepo   repository.HistoryRepository
	ratingRepo    repository.RatingRepository
	counselorRepo repository.CounselorRepository
	rooms         meeting.RoomCreator
	publisher     EventPublisher
}

func NewSchedulingService(
	slotRepo repository.SlotRepository,
	bookingRepo repository.BookingRepository,
	historyRepo repository.HistoryRepository,
	ratingRepo repository.RatingRepository,
	counselorRepo repository.CounselorRepository,
	rooms meeting.RoomCreator,
	publisher EventPublisher,
) SchedulingService {
	return &schedulingService{
		slotRepo:      slotRepo,
		bookingRepo:   bookingRepo,
		historyRepo:   historyRepo,
		ratingRepo:    ratingRepo,
		counselorRepo: counselorRepo,
		rooms:         rooms,
		publisher:     publisher,
	}
}

// roomCallTimeout caps the meeting-room call made while the approval
// transaction holds the booking row lock.
const roomCallTimeout = 5 * time.Second

// offlineWeekdayAllowed reports whether walk-in windows run on the given day.
func offlineWeekdayAllowed(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Tuesday || wd == time.Thursday
}

// roundAverage rounds a mean score to one decimal place.
func roundAverage(sum, count int64) float64 {
	if count == 0 {
		return 0
	}
	mean := float64(sum) / float64(count)
	return math.Round(mean*10) / 10
}

func (s *schedulingService) publish(routingKey string, payload any) {
	if s.publisher != nil {
		_ = s.publisher.Publish(routingKey, payload)
	}
}

func (s *schedulingService) RequestOnlineBooking(ctx context.Context, requesterID, counselorID uint, date time.Time, sessionIndex int, complaint string) (*models.Booking, error) {
	if !models.ValidSessionIndex(sessionIndex) {
		return nil, fmt.Errorf("%w: session index must be 1-3", ErrPolicyViolation)
	}
	if models.DateOnly(date).Before(models.DateOnly(time.Now().UTC())) {
		return nil, fmt.Errorf("%w: date is in the past", ErrPolicyViolation)
	}

	var result *models.Booking
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slot, err := s.slotRepo.FindOnline(ctx, tx, counselorID, date, sessionIndex)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlotNotFound
			}
			return err
		}

		// Conditional flip open->reserved; losing a race means the slot was
		// taken between lookup and update, which surfaces as unavailable.
		reserved, err := s.slotRepo.ReserveOnline(ctx, tx, slot.ID)
		if err != nil {
			return err
		}
		if !reserved {
			return ErrSlotUnavailable
		}

		booking := &models.Booking{
			RequesterID:   requesterID,
			SlotID:        slot.ID,
			Kind:          models.KindOnline,
			ComplaintText: complaint,
			Status:        models.StatusPending,
		}
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return err
		}
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("booking.requested", result)
	return result, nil
}

func (s *schedulingService) RequestOfflineBooking(ctx context.Context, requesterID uint, date time.Time, sessionIndex int, complaint string) (*models.Booking, error) {
	// Policy checks run before any slot lookup.
	if !models.ValidSessionIndex(sessionIndex) {
		return nil, fmt.Errorf("%w: session index must be 1-3", ErrPolicyViolation)
	}
	if !offlineWeekdayAllowed(date) {
		return nil, fmt.Errorf("%w: walk-in sessions run on Tuesday and Thursday only", ErrPolicyViolation)
	}
	if complaint == "" {
		return nil, fmt.Errorf("%w: complaint text is required", ErrPolicyViolation)
	}
	if models.DateOnly(date).Before(models.DateOnly(time.Now().UTC())) {
		return nil, fmt.Errorf("%w: date is in the past", ErrPolicyViolation)
	}

	var result *models.Booking
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Locks the window row, serializing concurrent registrations.
		slot, err := s.slotRepo.EnsureOffline(ctx, tx, date, sessionIndex)
		if err != nil {
			return err
		}

		_, err = s.bookingRepo.FindActiveByRequesterAndOfflineSlot(ctx, tx, requesterID, slot.ID)
		if err == nil {
			return ErrAlreadyRegistered
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		registered, err := s.slotRepo.RegisterOffline(ctx, tx, slot.ID)
		if err != nil {
			return err
		}
		if !registered {
			return ErrSlotUnavailable
		}

		booking := &models.Booking{
			RequesterID:   requesterID,
			SlotID:        slot.ID,
			Kind:          models.KindOffline,
			ComplaintText: complaint,
			Status:        models.StatusRegistered,
		}
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return err
		}
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("booking.registered", result)
	return result, nil
}

// loadOnlineBookingForCounselor locks the booking, verifies it is an online
// booking on a slot owned by the acting counselor, and returns both rows.
func (s *schedulingService) loadOnlineBookingForCounselor(ctx context.Context, tx *gorm.DB, counselorID, bookingID uint) (*models.Booking, *models.OnlineSlot, error) {
	booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, err
	}
	if booking.Kind != models.KindOnline {
		return nil, nil, ErrInvalidTransition
	}
	slot, err := s.slotRepo.FindOnlineByID(ctx, tx, booking.SlotID)
	if err != nil {
		return nil, nil, err
	}
	if slot.CounselorID != counselorID {
		return nil, nil, ErrNotSlotOwner
	}
	return booking, slot, nil
}

func (s *schedulingService) ApproveBooking(ctx context.Context, counselorID, bookingID uint) (*models.Booking, error) {
	var result *models.Booking
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, _, err := s.loadOnlineBookingForCounselor(ctx, tx, counselorID, bookingID)
		if err != nil {
			return err
		}
		if !booking.CanTransition(models.StatusApproved) {
			return ErrInvalidTransition
		}

		// The room is created before the status flip commits. A collaborator
		// failure rolls the transaction back with no partial state, and the
		// terminal-state guard above makes a retry safe. The deadline bounds
		// how long the locked booking row waits on a slow provider.
		roomCtx, cancel := context.WithTimeout(ctx, roomCallTimeout)
		defer cancel()
		room, err := s.rooms.CreateRoom(roomCtx, booking.ID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMeetingRoom, err)
		}

		if err := s.bookingRepo.UpdateApproval(ctx, tx, booking.ID, room.JoinURL, room.HostURL); err != nil {
			return err
		}
		booking.Status = models.StatusApproved
		booking.MeetingJoinURL = room.JoinURL
		booking.MeetingHostURL = room.HostURL
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("booking.approved", result)
	return result, nil
}

func (s *schedulingService) RejectBooking(ctx context.Context, counselorID, bookingID uint, reason string) (*models.Booking, error) {
	var result *models.Booking
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, slot, err := s.loadOnlineBookingForCounselor(ctx, tx, counselorID, bookingID)
		if err != nil {
			return err
		}
		if !booking.CanTransition(models.StatusRejected) {
			return ErrInvalidTransition
		}

		if err := s.bookingRepo.UpdateRejection(ctx, tx, booking.ID, reason); err != nil {
			return err
		}
		// Rejection frees the slot for other requesters.
		released, err := s.slotRepo.ReleaseOnline(ctx, tx, slot.ID)
		if err != nil {
			return err
		}
		if !released {
			// A pending booking on a non-reserved slot is corrupted state.
			return fmt.Errorf("slot %d not reserved while rejecting booking %d", slot.ID, booking.ID)
		}
		booking.Status = models.StatusRejected
		booking.RejectionReason = reason
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("booking.rejected", result)
	return result, nil
}

func (s *schedulingService) CompleteSession(ctx context.Context, counselorID, bookingID uint) (*models.Booking, *models.HistoryRecord, error) {
	var (
		resultBooking *models.Booking
		resultRecord  *models.HistoryRecord
	)
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, slot, err := s.loadOnlineBookingForCounselor(ctx, tx, counselorID, bookingID)
		if err != nil {
			return err
		}
		if !booking.CanTransition(models.StatusCompleted) {
			return ErrInvalidTransition
		}

		if err := s.bookingRepo.UpdateStatus(ctx, tx, booking.ID, models.StatusCompleted); err != nil {
			return err
		}
		record := &models.HistoryRecord{
			BookingID: booking.ID,
			StartedAt: models.SessionStartTime(slot.Date, slot.SessionIndex),
			EndedAt:   time.Now().UTC(),
			Outcome:   models.OutcomeFinished,
		}
		if err := s.historyRepo.Create(ctx, tx, record); err != nil {
			return err
		}
		booking.Status = models.StatusCompleted
		resultBooking = booking
		resultRecord = record
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.publish("session.completed", resultRecord)
	return resultBooking, resultRecord, nil
}

func (s *schedulingService) CancelOfflineBooking(ctx context.Context, requesterID, bookingID uint) (*models.Booking, error) {
	var result *models.Booking
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.RequesterID != requesterID {
			return ErrNotBookingOwner
		}
		if !booking.CanTransition(models.StatusCancelled) {
			return ErrInvalidTransition
		}

		// Cancelled registrations do not free walk-in capacity.
		if err := s.bookingRepo.UpdateStatus(ctx, tx, booking.ID, models.StatusCancelled); err != nil {
			return err
		}
		booking.Status = models.StatusCancelled
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("booking.cancelled", result)
	return result, nil
}

func (s *schedulingService) RateSession(ctx context.Context, raterID, historyRecordID uint, score int) (*models.RatingEntry, error) {
	if score < models.MinRatingScore || score > models.MaxRatingScore {
		return nil, fmt.Errorf("%w: score must be between %d and %d", ErrPolicyViolation, models.MinRatingScore, models.MaxRatingScore)
	}

	var result *models.RatingEntry
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.historyRepo.FindByID(ctx, historyRecordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHistoryNotFound
			}
			return err
		}
		booking, err := s.bookingRepo.FindByID(ctx, record.BookingID)
		if err != nil {
			return err
		}
		if booking.RequesterID != raterID {
			return ErrNotBookingOwner
		}
		slot, err := s.slotRepo.FindOnlineByID(ctx, tx, booking.SlotID)
		if err != nil {
			return err
		}

		// Locking the counselor row serializes concurrent rating submissions
		// so the recomputed average never loses an update.
		counselor, err := s.counselorRepo.FindByIDForUpdate(ctx, tx, slot.CounselorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCounselorNotFound
			}
			return err
		}

		exists, err := s.ratingRepo.Exists(ctx, tx, raterID, record.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyRated
		}

		entry := &models.RatingEntry{
			CounselorID:     counselor.ID,
			RaterID:         raterID,
			HistoryRecordID: record.ID,
			Score:           score,
		}
		if err := s.ratingRepo.Create(ctx, tx, entry); err != nil {
			return err
		}

		sum, count, err := s.ratingRepo.SumByCounselor(ctx, tx, counselor.ID)
		if err != nil {
			return err
		}
		if err := s.counselorRepo.UpdateRating(ctx, tx, counselor.ID, roundAverage(sum, count), int(count)); err != nil {
			return err
		}
		result = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("session.rated", result)
	return result, nil
}

func (s *schedulingService) GetBookingForRequester(ctx context.Context, requesterID, bookingID uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.RequesterID != requesterID {
		return nil, ErrNotBookingOwner
	}
	return booking, nil
}

func (s *schedulingService) ListBookingsForRequester(ctx context.Context, requesterID uint) ([]models.Booking, error) {
	return s.bookingRepo.ListByRequester(ctx, requesterID)
}

func (s *schedulingService) ListBookingsForCounselor(ctx context.Context, counselorID uint, status *models.BookingStatus) ([]models.Booking, error) {
	return s.bookingRepo.ListOnlineForCounselor(ctx, counselorID, status)
}
