package database

import (
	"log"

	"github.com/counseling-platform/scheduling-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.OnlineSlot{},
		&models.OfflineSlot{},
		&models.Booking{},
		&models.HistoryRecord{},
		&models.RatingEntry{},
		&models.Counselor{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Partial unique index: at most one non-rejected booking per online slot.
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_online_booking_active
		ON bookings (slot_id)
		WHERE kind = 'online' AND status <> 'rejected'
	`)

	// Partial unique index: a student registers at most once per walk-in window.
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_offline_booking_once
		ON bookings (slot_id, requester_id)
		WHERE kind = 'offline' AND status <> 'cancelled'
	`)

	return db
}
