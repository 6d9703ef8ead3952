package models

import "time"

// Counselor is a local projection of the identity service's counselor
// profile, kept in sync over RabbitMQ. The rating aggregate is persisted
// here whenever a RatingEntry is inserted.
type Counselor struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	AverageRating float64   `gorm:"not null;default:0" json:"average_rating"`
	RatingCount   int       `gorm:"not null;default:0" json:"rating_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
