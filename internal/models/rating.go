package models

import "time"

// RatingEntry is a single score a student gives a counselor for one completed
// session. The (rater, history record) pair is unique.
type RatingEntry struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CounselorID     uint      `gorm:"not null;index" json:"counselor_id"`
	RaterID         uint      `gorm:"not null;uniqueIndex:idx_rating_once,priority:1" json:"rater_id"`
	HistoryRecordID uint      `gorm:"not null;uniqueIndex:idx_rating_once,priority:2" json:"history_record_id"`
	Score           int       `gorm:"not null" json:"score"`
	CreatedAt       time.Time `json:"created_at"`
}

const (
	MinRatingScore = 1
	MaxRatingScore = 5
)
