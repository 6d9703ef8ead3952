package models

import "time"

type BookingKind string

const (
	KindOnline  BookingKind = "online"
	KindOffline BookingKind = "offline"
)

type BookingStatus string

// Online lifecycle. Rejected and Completed are terminal.
const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusCompleted BookingStatus = "completed"
	StatusRejected  BookingStatus = "rejected"
)

// Offline lifecycle. Registrations are auto-accepted subject to capacity.
const (
	StatusRegistered BookingStatus = "registered"
	StatusCancelled  BookingStatus = "cancelled"
)

type Booking struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	RequesterID     uint          `gorm:"not null;index" json:"requester_id"`
	SlotID          uint          `gorm:"not null;index" json:"slot_id"`
	Kind            BookingKind   `gorm:"type:varchar(10);not null" json:"kind"`
	ComplaintText   string        `gorm:"type:text;not null" json:"complaint_text"`
	Status          BookingStatus `gorm:"type:varchar(20);not null" json:"status"`
	MeetingJoinURL  string        `json:"meeting_join_url,omitempty"`
	MeetingHostURL  string        `json:"meeting_host_url,omitempty"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// transitions enumerates every legal status change per kind. Anything not
// listed here is an invalid transition.
var transitions = map[BookingKind]map[BookingStatus][]BookingStatus{
	KindOnline: {
		StatusPending:  {StatusApproved, StatusRejected},
		StatusApproved: {StatusCompleted},
	},
	KindOffline: {
		StatusRegistered: {StatusCancelled},
	},
}

// CanTransition reports whether the booking may move to the target status.
func (b *Booking) CanTransition(to BookingStatus) bool {
	for _, next := range transitions[b.Kind][b.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the booking has reached a final status and must
// never be mutated again.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether the booking still claims its slot. Used by the
// slot toggle guard: a counselor cannot close a slot out from under a student.
func (b *Booking) IsActive() bool {
	return !b.IsTerminal()
}
