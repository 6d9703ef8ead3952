package repository

import (
	"context"

	"github.com/counseling-platform/scheduling-service/internal/models"
	"gorm.io/gorm"
)

type RatingRepository interface {
	Exists(ctx context.Context, tx *gorm.DB, raterID, historyRecordID uint) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, entry *models.RatingEntry) error
	SumByCounselor(ctx context.Context, tx *gorm.DB, counselorID uint) (sum int64, count int64, err error)
	ListByCounselor(ctx context.Context, counselorID uint) ([]models.RatingEntry, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Exists(ctx context.Context, tx *gorm.DB, raterID, historyRecordID uint) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.RatingEntry{}).
		Where("rater_id = ? AND history_record_id = ?", raterID, historyRecordID).
		Count(&count).Error
	return count > 0, err
}

func (r *ratingRepository) Create(ctx context.Context, tx *gorm.DB, entry *models.RatingEntry) error {
	return tx.WithContext(ctx).Create(entry).Error
}

// SumByCounselor returns the score sum and entry count for the aggregate
// recompute. Runs inside the rating transaction while the counselor row is
// locked, so concurrent submissions cannot lose updates.
func (r *ratingRepository) SumByCounselor(ctx context.Context, tx *gorm.DB, counselorID uint) (int64, int64, error) {
	type agg struct {
		Sum   int64
		Count int64
	}
	var a agg
	err := tx.WithContext(ctx).
		Model(&models.RatingEntry{}).
		Select("COALESCE(SUM(score), 0) AS sum, COUNT(*) AS count").
		Where("counselor_id = ?", counselorID).
		Scan(&a).Error
	return a.Sum, a.Count, err
}

func (r *ratingRepository) ListByCounselor(ctx context.Context, counselorID uint) ([]models.RatingEntry, error) {
	var entries []models.RatingEntry
	err := r.db.WithContext(ctx).
		Where("counselor_id = ?", counselorID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
