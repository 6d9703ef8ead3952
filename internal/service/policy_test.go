package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Policy checks run before any repository access, so a zero-value service is
// enough to exercise them.
func policyOnlyService() SchedulingService {
	return NewSchedulingService(nil, nil, nil, nil, nil, nil, nil)
}

func TestOfflineWeekdayAllowed(t *testing.T) {
	tuesday := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Tuesday, tuesday.Weekday())

	assert.True(t, offlineWeekdayAllowed(tuesday))
	assert.True(t, offlineWeekdayAllowed(tuesday.AddDate(0, 0, 2)))  // Thursday
	assert.False(t, offlineWeekdayAllowed(tuesday.AddDate(0, 0, 1))) // Wednesday
	assert.False(t, offlineWeekdayAllowed(tuesday.AddDate(0, 0, 4))) // Saturday
	assert.False(t, offlineWeekdayAllowed(tuesday.AddDate(0, 0, 5))) // Sunday
	assert.False(t, offlineWeekdayAllowed(tuesday.AddDate(0, 0, 6))) // Monday
}

func TestRequestOfflineBooking_WeekdayPolicy(t *testing.T) {
	svc := policyOnlyService()
	wednesday := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)

	_, err := svc.RequestOfflineBooking(context.Background(), 1, wednesday, 2, "cannot sleep")

	assert.ErrorIs(t, err, ErrPolicyViolation)
}

func TestRequestOfflineBooking_EmptyComplaint(t *testing.T) {
	svc := policyOnlyService()
	// Far-future Tuesday so only the complaint check can fail.
	tuesday := time.Date(2030, 6, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Tuesday, tuesday.Weekday())

	_, err := svc.RequestOfflineBooking(context.Background(), 1, tuesday, 2, "")

	assert.ErrorIs(t, err, ErrPolicyViolation)
}

func TestRequestOfflineBooking_BadSessionIndex(t *testing.T) {
	svc := policyOnlyService()
	tuesday := time.Date(2030, 6, 4, 0, 0, 0, 0, time.UTC)

	_, err := svc.RequestOfflineBooking(context.Background(), 1, tuesday, 4, "cannot sleep")

	assert.ErrorIs(t, err, ErrPolicyViolation)
}

func TestRequestOnlineBooking_BadSessionIndex(t *testing.T) {
	svc := policyOnlyService()
	future := time.Now().UTC().AddDate(0, 0, 7)

	_, err := svc.RequestOnlineBooking(context.Background(), 1, 7, future, 0, "anxiety")

	assert.ErrorIs(t, err, ErrPolicyViolation)
}

func TestRequestOnlineBooking_PastDate(t *testing.T) {
	svc := policyOnlyService()
	past := time.Now().UTC().AddDate(0, 0, -1)

	_, err := svc.RequestOnlineBooking(context.Background(), 1, 7, past, 1, "anxiety")

	assert.ErrorIs(t, err, ErrPolicyViolation)
}

func TestRateSession_ScoreBounds(t *testing.T) {
	svc := policyOnlyService()

	_, err := svc.RateSession(context.Background(), 1, 1, 0)
	assert.ErrorIs(t, err, ErrPolicyViolation)

	_, err = svc.RateSession(context.Background(), 1, 1, 6)
	assert.ErrorIs(t, err, ErrPolicyViolation)
}

func TestRoundAverage(t *testing.T) {
	assert.Equal(t, 0.0, roundAverage(0, 0))
	assert.Equal(t, 5.0, roundAverage(5, 1))
	assert.Equal(t, 4.5, roundAverage(9, 2))
	assert.Equal(t, 4.3, roundAverage(13, 3))  // 4.333...
	assert.Equal(t, 4.7, roundAverage(14, 3))  // 4.666...
	assert.Equal(t, 3.5, roundAverage(21, 6))  // exact
	assert.Equal(t, 2.9, roundAverage(20, 7))  // 2.857...
}
