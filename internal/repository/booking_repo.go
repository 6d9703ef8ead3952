package repository

import (
	"context"

	"github.com/counseling-platform/scheduling-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.BookingStatus) error
	UpdateApproval(ctx context.Context, tx *gorm.DB, id uint, joinURL, hostURL string) error
	UpdateRejection(ctx context.Context, tx *gorm.DB, id uint, reason string) error
	HasActiveForOnlineSlot(ctx context.Context, tx *gorm.DB, slotID uint) (bool, error)
	FindActiveByRequesterAndOfflineSlot(ctx context.Context, tx *gorm.DB, requesterID, slotID uint) (*models.Booking, error)
	ListByRequester(ctx context.Context, requesterID uint) ([]models.Booking, error)
	ListOnlineForCounselor(ctx context.Context, counselorID uint, status *models.BookingStatus) ([]models.Booking, error)
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByIDForUpdate locks the booking row so state-machine checks and the
// subsequent status write form one atomic unit.
func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.BookingStatus) error {
	return tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *bookingRepository) UpdateApproval(ctx context.Context, tx *gorm.DB, id uint, joinURL, hostURL string) error {
	return tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           models.StatusApproved,
			"meeting_join_url": joinURL,
			"meeting_host_url": hostURL,
		}).Error
}

func (r *bookingRepository) UpdateRejection(ctx context.Context, tx *gorm.DB, id uint, reason string) error {
	return tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           models.StatusRejected,
			"rejection_reason": reason,
		}).Error
}

// HasActiveForOnlineSlot reports whether a non-terminal booking still claims
// the online slot. Used by the availability toggle guard.
func (r *bookingRepository) HasActiveForOnlineSlot(ctx context.Context, tx *gorm.DB, slotID uint) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("slot_id = ? AND kind = ? AND status IN ?", slotID, models.KindOnline,
			[]models.BookingStatus{models.StatusPending, models.StatusApproved}).
		Count(&count).Error
	return count > 0, err
}

func (r *bookingRepository) FindActiveByRequesterAndOfflineSlot(ctx context.Context, tx *gorm.DB, requesterID, slotID uint) (*models.Booking, error) {
	var booking models.Booking
	err := tx.WithContext(ctx).
		Where("requester_id = ? AND slot_id = ? AND kind = ? AND status = ?",
			requesterID, slotID, models.KindOffline, models.StatusRegistered).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) ListByRequester(ctx context.Context, requesterID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListOnlineForCounselor returns the online bookings attached to a
// counselor's slots, optionally filtered by status.
func (r *bookingRepository) ListOnlineForCounselor(ctx context.Context, counselorID uint, status *models.BookingStatus) ([]models.Booking, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Joins("JOIN online_slots ON online_slots.id = bookings.slot_id").
		Where("bookings.kind = ? AND online_slots.counselor_id = ?", models.KindOnline, counselorID)
	if status != nil {
		q = q.Where("bookings.status = ?", *status)
	}
	var bookings []models.Booking
	if err := q.Order("bookings.id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}
