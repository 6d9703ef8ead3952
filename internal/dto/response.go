package dto

import (
	"time"

	"github.com/counseling-platform/scheduling-service/internal/models"
)

const dateLayout = "2006-01-02"

type BookingResponse struct {
	ID              uint                 `json:"id"`
	RequesterID     uint                 `json:"requester_id"`
	SlotID          uint                 `json:"slot_id"`
	Kind            models.BookingKind   `json:"kind"`
	Status          models.BookingStatus `json:"status"`
	Complaint       string               `json:"complaint"`
	MeetingJoinURL  string               `json:"meeting_join_url,omitempty"`
	MeetingHostURL  string               `json:"meeting_host_url,omitempty"`
	RejectionReason string               `json:"rejection_reason,omitempty"`
	SubmittedAt     time.Time            `json:"submitted_at"`
}

type SlotResponse struct {
	ID           uint                    `json:"id"`
	CounselorID  uint                    `json:"counselor_id"`
	Date         string                  `json:"date"`
	SessionIndex int                     `json:"session_index"`
	StartsAt     time.Time               `json:"starts_at"`
	Status       models.OnlineSlotStatus `json:"status"`
}

type OfflineWindowResponse struct {
	Date           string                   `json:"date"`
	SessionIndex   int                      `json:"session_index"`
	Status         models.OfflineSlotStatus `json:"status"`
	Capacity       int                      `json:"capacity"`
	BookedCount    int                      `json:"booked_count"`
	SeatsAvailable int                      `json:"seats_available"`
}

type HistoryResponse struct {
	ID        uint               `json:"id"`
	BookingID uint               `json:"booking_id"`
	StartedAt time.Time          `json:"started_at"`
	EndedAt   time.Time          `json:"ended_at"`
	Outcome   models.OutcomeCode `json:"outcome"`
}

type CompletionResponse struct {
	Booking BookingResponse `json:"booking"`
	History HistoryResponse `json:"history"`
}

type RatingResponse struct {
	ID              uint `json:"id"`
	CounselorID     uint `json:"counselor_id"`
	HistoryRecordID uint `json:"history_record_id"`
	Score           int  `json:"score"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		RequesterID:     b.RequesterID,
		SlotID:          b.SlotID,
		Kind:            b.Kind,
		Status:          b.Status,
		Complaint:       b.ComplaintText,
		MeetingJoinURL:  b.MeetingJoinURL,
		MeetingHostURL:  b.MeetingHostURL,
		RejectionReason: b.RejectionReason,
		SubmittedAt:     b.CreatedAt,
	}
}

func ToSlotResponse(s *models.OnlineSlot) SlotResponse {
	return SlotResponse{
		ID:           s.ID,
		CounselorID:  s.CounselorID,
		Date:         s.Date.Format(dateLayout),
		SessionIndex: s.SessionIndex,
		StartsAt:     models.SessionStartTime(s.Date, s.SessionIndex),
		Status:       s.Status,
	}
}

func ToOfflineWindowResponse(s *models.OfflineSlot) OfflineWindowResponse {
	return OfflineWindowResponse{
		Date:           s.Date.Format(dateLayout),
		SessionIndex:   s.SessionIndex,
		Status:         s.Status,
		Capacity:       s.Capacity,
		BookedCount:    s.BookedCount,
		SeatsAvailable: s.Capacity - s.BookedCount,
	}
}

func ToHistoryResponse(h *models.HistoryRecord) HistoryResponse {
	return HistoryResponse{
		ID:        h.ID,
		BookingID: h.BookingID,
		StartedAt: h.StartedAt,
		EndedAt:   h.EndedAt,
		Outcome:   h.Outcome,
	}
}

func ToRatingResponse(r *models.RatingEntry) RatingResponse {
	return RatingResponse{
		ID:              r.ID,
		CounselorID:     r.CounselorID,
		HistoryRecordID: r.HistoryRecordID,
		Score:           r.Score,
	}
}
