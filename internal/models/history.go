package models

import "time"

type OutcomeCode string

const (
	OutcomeFinished OutcomeCode = "finished"
)

// HistoryRecord is the immutable record of a completed session. Exactly one
// exists per booking; it is inserted inside the completion transaction and
// never updated.
type HistoryRecord struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	BookingID uint        `gorm:"not null;uniqueIndex" json:"booking_id"`
	StartedAt time.Time   `gorm:"not null" json:"started_at"`
	EndedAt   time.Time   `gorm:"not null" json:"ended_at"`
	Outcome   OutcomeCode `gorm:"type:varchar(20);not null" json:"outcome"`
	CreatedAt time.Time   `json:"created_at"`
}
