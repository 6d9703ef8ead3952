package models

import "time"

type OnlineSlotStatus string

const (
	OnlineSlotOpen     OnlineSlotStatus = "open"
	OnlineSlotReserved OnlineSlotStatus = "reserved"
	OnlineSlotClosed   OnlineSlotStatus = "closed"
)

type OfflineSlotStatus string

const (
	OfflineSlotOpen   OfflineSlotStatus = "open"
	OfflineSlotClosed OfflineSlotStatus = "closed"
)

// OfflineSlotCapacity is the fixed number of walk-in seats per window.
const OfflineSlotCapacity = 5

// OnlineSlot is a single-occupancy unit of counselor time. Counselors open
// windows per day; a slot is never deleted, only status-flipped.
type OnlineSlot struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	CounselorID  uint             `gorm:"not null;uniqueIndex:idx_online_slot_window,priority:1" json:"counselor_id"`
	Date         time.Time        `gorm:"type:date;not null;uniqueIndex:idx_online_slot_window,priority:2" json:"date"`
	SessionIndex int              `gorm:"not null;uniqueIndex:idx_online_slot_window,priority:3" json:"session_index"`
	Status       OnlineSlotStatus `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// OfflineSlot is a shared walk-in window. BookedCount is maintained
// transactionally together with the status flip at capacity.
type OfflineSlot struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	Date         time.Time         `gorm:"type:date;not null;uniqueIndex:idx_offline_slot_window,priority:1" json:"date"`
	SessionIndex int               `gorm:"not null;uniqueIndex:idx_offline_slot_window,priority:2" json:"session_index"`
	Status       OfflineSlotStatus `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	Capacity     int               `gorm:"not null;default:5" json:"capacity"`
	BookedCount  int               `gorm:"not null;default:0" json:"booked_count"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// sessionStartHours maps a session index to the hour the window starts.
var sessionStartHours = map[int]int{
	1: 10,
	2: 13,
	3: 16,
}

// ValidSessionIndex reports whether idx names one of the three fixed windows.
func ValidSessionIndex(idx int) bool {
	_, ok := sessionStartHours[idx]
	return ok
}

// SessionStartTime returns the scheduled start of a session window on the
// given day. The result is in UTC and is used as HistoryRecord.StartedAt.
func SessionStartTime(date time.Time, sessionIndex int) time.Time {
	h := sessionStartHours[sessionIndex]
	return time.Date(date.Year(), date.Month(), date.Day(), h, 0, 0, 0, time.UTC)
}

// DateOnly truncates t to its calendar day in UTC, matching the slot Date columns.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
