package repository

import (
	"context"

	"github.com/counseling-platform/scheduling-service/internal/models"
	"gorm.io/gorm"
)

type HistoryRepository interface {
	Create(ctx context.Context, tx *gorm.DB, record *models.HistoryRecord) error
	FindByID(ctx context.Context, id uint) (*models.HistoryRecord, error)
	FindByBookingID(ctx context.Context, bookingID uint) (*models.HistoryRecord, error)
	ListByBookingIDs(ctx context.Context, bookingIDs []uint) ([]models.HistoryRecord, error)
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

// Create appends the completion record. The unique index on booking_id makes
// a second insert for the same booking fail instead of double-recording.
func (r *historyRepository) Create(ctx context.Context, tx *gorm.DB, record *models.HistoryRecord) error {
	return tx.WithContext(ctx).Create(record).Error
}

func (r *historyRepository) FindByID(ctx context.Context, id uint) (*models.HistoryRecord, error) {
	var record models.HistoryRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *historyRepository) FindByBookingID(ctx context.Context, bookingID uint) (*models.HistoryRecord, error) {
	var record models.HistoryRecord
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *historyRepository) ListByBookingIDs(ctx context.Context, bookingIDs []uint) ([]models.HistoryRecord, error) {
	if len(bookingIDs) == 0 {
		return []models.HistoryRecord{}, nil
	}
	var records []models.HistoryRecord
	err := r.db.WithContext(ctx).
		Where("booking_id IN ?", bookingIDs).
		Order("ended_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
