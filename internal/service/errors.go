package service

import "errors"

var (
	ErrSlotNotFound      = errors.New("slot not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrHistoryNotFound   = errors.New("history record not found")
	ErrCounselorNotFound = errors.New("counselor not found")

	// ErrSlotUnavailable covers a reserved/closed online slot and a walk-in
	// window at capacity.
	ErrSlotUnavailable = errors.New("slot is not available")

	// ErrInvalidTransition is returned when an operation is attempted on a
	// booking outside the required source state.
	ErrInvalidTransition = errors.New("invalid booking state transition")

	// ErrNotSlotOwner is returned when a counselor acts on a booking whose
	// slot belongs to someone else.
	ErrNotSlotOwner = errors.New("booking does not belong to this counselor")

	// ErrNotBookingOwner is returned when a student acts on another
	// student's booking or history record.
	ErrNotBookingOwner = errors.New("booking does not belong to this requester")

	// ErrPolicyViolation covers scheduling policy failures: disallowed
	// weekday, empty complaint, bad session index or score. Wrapped with a
	// detail message.
	ErrPolicyViolation = errors.New("scheduling policy violation")

	ErrAlreadyRated      = errors.New("session already rated by this requester")
	ErrAlreadyRegistered = errors.New("requester already registered for this window")

	// ErrSlotHasBooking is returned when a counselor tries to close a slot
	// that still carries a non-terminal booking.
	ErrSlotHasBooking = errors.New("slot has an active booking")

	// ErrMeetingRoom wraps meeting-room collaborator failures. The approval
	// transaction rolls back, leaving no partial state.
	ErrMeetingRoom = errors.New("meeting room creation failed")
)
