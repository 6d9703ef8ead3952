package repository

import (
	"context"
	"time"

	"github.com/counseling-platform/scheduling-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SlotRepository interface {
	// online
	FindOnline(ctx context.Context, tx *gorm.DB, counselorID uint, date time.Time, sessionIndex int) (*models.OnlineSlot, error)
	FindOnlineByID(ctx context.Context, tx *gorm.DB, id uint) (*models.OnlineSlot, error)
	FindOnlineByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.OnlineSlot, error)
	ReserveOnline(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	ReleaseOnline(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	CreateOnline(ctx context.Context, tx *gorm.DB, slot *models.OnlineSlot) error
	SetOnlineStatus(ctx context.Context, tx *gorm.DB, id uint, from, to models.OnlineSlotStatus) (bool, error)
	ListOnlineByCounselor(ctx context.Context, counselorID uint, from, to time.Time) ([]models.OnlineSlot, error)
	ListOpenOnlineByCounselor(ctx context.Context, counselorID uint, date time.Time) ([]models.OnlineSlot, error)

	// offline
	EnsureOffline(ctx context.Context, tx *gorm.DB, date time.Time, sessionIndex int) (*models.OfflineSlot, error)
	FindOffline(ctx context.Context, date time.Time, sessionIndex int) (*models.OfflineSlot, error)
	FindOfflineByID(ctx context.Context, id uint) (*models.OfflineSlot, error)
	RegisterOffline(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
}

type slotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) SlotRepository {
	return &slotRepository{db: db}
}

// FindOnline and FindOnlineByID are only called inside a service-layer
// transaction and read through it.
func (r *slotRepository) FindOnline(ctx context.Context, tx *gorm.DB, counselorID uint, date time.Time, sessionIndex int) (*models.OnlineSlot, error) {
	var slot models.OnlineSlot
	err := tx.WithContext(ctx).
		Where("counselor_id = ? AND date = ? AND session_index = ?", counselorID, models.DateOnly(date), sessionIndex).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepository) FindOnlineByID(ctx context.Context, tx *gorm.DB, id uint) (*models.OnlineSlot, error) {
	var slot models.OnlineSlot
	if err := tx.WithContext(ctx).First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

// FindOnlineByIDForUpdate acquires a row-level lock on the slot within the given transaction.
func (r *slotRepository) FindOnlineByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.OnlineSlot, error) {
	var slot models.OnlineSlot
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

// ReserveOnline flips an open slot to reserved. The status guard in the WHERE
// clause makes the check-and-set a single conditional update; false means the
// slot was no longer open.
func (r *slotRepository) ReserveOnline(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.OnlineSlot{}).
		Where("id = ? AND status = ?", id, models.OnlineSlotOpen).
		Update("status", models.OnlineSlotReserved)
	return res.RowsAffected == 1, res.Error
}

// ReleaseOnline reopens a reserved slot after its booking is rejected.
func (r *slotRepository) ReleaseOnline(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.OnlineSlot{}).
		Where("id = ? AND status = ?", id, models.OnlineSlotReserved).
		Update("status", models.OnlineSlotOpen)
	return res.RowsAffected == 1, res.Error
}

func (r *slotRepository) CreateOnline(ctx context.Context, tx *gorm.DB, slot *models.OnlineSlot) error {
	return tx.WithContext(ctx).Create(slot).Error
}

// SetOnlineStatus moves a slot between open and closed, guarded on the
// current status so concurrent toggles cannot double-apply.
func (r *slotRepository) SetOnlineStatus(ctx context.Context, tx *gorm.DB, id uint, from, to models.OnlineSlotStatus) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.OnlineSlot{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected == 1, res.Error
}

func (r *slotRepository) ListOnlineByCounselor(ctx context.Context, counselorID uint, from, to time.Time) ([]models.OnlineSlot, error) {
	var slots []models.OnlineSlot
	err := r.db.WithContext(ctx).
		Where("counselor_id = ? AND date BETWEEN ? AND ?", counselorID, models.DateOnly(from), models.DateOnly(to)).
		Order("date ASC, session_index ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *slotRepository) ListOpenOnlineByCounselor(ctx context.Context, counselorID uint, date time.Time) ([]models.OnlineSlot, error) {
	var slots []models.OnlineSlot
	err := r.db.WithContext(ctx).
		Where("counselor_id = ? AND date = ? AND status = ?", counselorID, models.DateOnly(date), models.OnlineSlotOpen).
		Order("session_index ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// EnsureOffline returns the shared walk-in slot for a window, creating the
// row on first registration. The row is locked so the subsequent capacity
// update is serialized with concurrent registrations.
func (r *slotRepository) EnsureOffline(ctx context.Context, tx *gorm.DB, date time.Time, sessionIndex int) (*models.OfflineSlot, error) {
	day := models.DateOnly(date)
	slot := models.OfflineSlot{
		Date:         day,
		SessionIndex: sessionIndex,
		Status:       models.OfflineSlotOpen,
		Capacity:     models.OfflineSlotCapacity,
	}
	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "session_index"}},
			DoNothing: true,
		}).
		Create(&slot).Error
	if err != nil {
		return nil, err
	}
	var locked models.OfflineSlot
	err = tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("date = ? AND session_index = ?", day, sessionIndex).
		First(&locked).Error
	if err != nil {
		return nil, err
	}
	return &locked, nil
}

func (r *slotRepository) FindOffline(ctx context.Context, date time.Time, sessionIndex int) (*models.OfflineSlot, error) {
	var slot models.OfflineSlot
	err := r.db.WithContext(ctx).
		Where("date = ? AND session_index = ?", models.DateOnly(date), sessionIndex).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepository) FindOfflineByID(ctx context.Context, id uint) (*models.OfflineSlot, error) {
	var slot models.OfflineSlot
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

// RegisterOffline claims one walk-in seat. The count increment and the
// close-at-capacity flip happen in one conditional update; false means the
// window was already full or closed.
func (r *slotRepository) RegisterOffline(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.OfflineSlot{}).
		Where("id = ? AND status = ? AND booked_count < capacity", id, models.OfflineSlotOpen).
		Updates(map[string]interface{}{
			"booked_count": gorm.Expr("booked_count + 1"),
			"status": gorm.Expr(
				"CASE WHEN booked_count + 1 >= capacity THEN ? ELSE status END",
				models.OfflineSlotClosed,
			),
		})
	return res.RowsAffected == 1, res.Error
}
