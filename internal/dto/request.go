package dto

// Dates travel as calendar days in "2006-01-02" form; handlers parse them.

type OnlineBookingRequest struct {
	CounselorID  uint   `json:"counselor_id"`
	Date         string `json:"date"`
	SessionIndex int    `json:"session_index"`
	Complaint    string `json:"complaint"`
}

type OfflineBookingRequest struct {
	Date         string `json:"date"`
	SessionIndex int    `json:"session_index"`
	Complaint    string `json:"complaint"`
}

type RejectBookingRequest struct {
	Reason string `json:"reason"`
}

type RateSessionRequest struct {
	HistoryRecordID uint `json:"history_record_id"`
	Score           int  `json:"score"`
}

type ToggleSlotRequest struct {
	Date         string `json:"date"`
	SessionIndex int    `json:"session_index"`
	Active       *bool  `json:"active"`
}
