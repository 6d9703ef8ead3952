package repository

import (
	"context"

	"github.com/counseling-platform/scheduling-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CounselorRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Counselor, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Counselor, error)
	Upsert(ctx context.Context, counselor *models.Counselor) error
	UpdateRating(ctx context.Context, tx *gorm.DB, id uint, average float64, count int) error
}

type counselorRepository struct {
	db *gorm.DB
}

func NewCounselorRepository(db *gorm.DB) CounselorRepository {
	return &counselorRepository{db: db}
}

func (r *counselorRepository) FindByID(ctx context.Context, id uint) (*models.Counselor, error) {
	var counselor models.Counselor
	if err := r.db.WithContext(ctx).First(&counselor, id).Error; err != nil {
		return nil, err
	}
	return &counselor, nil
}

// FindByIDForUpdate locks the counselor row, serializing concurrent rating
// submissions for the same counselor.
func (r *counselorRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Counselor, error) {
	var counselor models.Counselor
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&counselor, id).Error; err != nil {
		return nil, err
	}
	return &counselor, nil
}

// Upsert syncs a profile row from the identity service. The rating columns
// are owned locally and left untouched on conflict.
func (r *counselorRepository) Upsert(ctx context.Context, counselor *models.Counselor) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}).
		Create(counselor).Error
}

func (r *counselorRepository) UpdateRating(ctx context.Context, tx *gorm.DB, id uint, average float64, count int) error {
	return tx.WithContext(ctx).
		Model(&models.Counselor{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"average_rating": average,
			"rating_count":   count,
		}).Error
}
