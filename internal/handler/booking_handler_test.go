package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/counseling-platform/scheduling-service/internal/dto"
	"github.com/counseling-platform/scheduling-service/internal/middleware"
	"github.com/counseling-platform/scheduling-service/internal/models"
	"github.com/counseling-platform/scheduling-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// --- Mock SchedulingService ---

type mockSchedulingService struct {
	requestOnlineFn  func(ctx context.Context, requesterID, counselorID uint, date time.Time, sessionIndex int, complaint string) (*models.Booking, error)
	requestOfflineFn func(ctx context.Context, requesterID uint, date time.Time, sessionIndex int, complaint string) (*models.Booking, error)
	approveFn        func(ctx context.Context, counselorID, bookingID uint) (*models.Booking, error)
	rejectFn         func(ctx context.Context, counselorID, bookingID uint, reason string) (*models.Booking, error)
	completeFn       func(ctx context.Context, counselorID, bookingID uint) (*models.Booking, *models.HistoryRecord, error)
	cancelFn         func(ctx context.Context, requesterID, bookingID uint) (*models.Booking, error)
	rateFn           func(ctx context.Context, raterID, historyRecordID uint, score int) (*models.RatingEntry, error)
	getFn            func(ctx context.Context, requesterID, bookingID uint) (*models.Booking, error)
	listRequesterFn  func(ctx context.Context, requesterID uint) ([]models.Booking, error)
	listCounselorFn  func(ctx context.Context, counselorID uint, status *models.BookingStatus) ([]models.Booking, error)
}

func (m *mockSchedulingService) RequestOnlineBooking(ctx context.Context, requesterID, counselorID uint, date time.Time, sessionIndex int, complaint string) (*models.Booking, error) {
	return m.requestOnlineFn(ctx, requesterID, counselorID, date, sessionIndex, complaint)
}
func (m *mockSchedulingService) RequestOfflineBooking(ctx context.Context, requesterID uint, date time.Time, sessionIndex int, complaint string) (*models.Booking, error) {
	return m.requestOfflineFn(ctx, requesterID, date, sessionIndex, complaint)
}
func (m *mockSchedulingService) ApproveBooking(ctx context.Context, counselorID, bookingID uint) (*models.Booking, error) {
	return m.approveFn(ctx, counselorID, bookingID)
}
func (m *mockSchedulingService) RejectBooking(ctx context.Context, counselorID, bookingID uint, reason string) (*models.Booking, error) {
	return m.rejectFn(ctx, counselorID, bookingID, reason)
}
func (m *mockSchedulingService) CompleteSession(ctx context.Context, counselorID, bookingID uint) (*models.Booking, *models.HistoryRecord, error) {
	return m.completeFn(ctx, counselorID, bookingID)
}
func (m *mockSchedulingService) CancelOfflineBooking(ctx context.Context, requesterID, bookingID uint) (*models.Booking, error) {
	return m.cancelFn(ctx, requesterID, bookingID)
}
func (m *mockSchedulingService) RateSession(ctx context.Context, raterID, historyRecordID uint, score int) (*models.RatingEntry, error) {
	return m.rateFn(ctx, raterID, historyRecordID, score)
}
func (m *mockSchedulingService) GetBookingForRequester(ctx context.Context, requesterID, bookingID uint) (*models.Booking, error) {
	return m.getFn(ctx, requesterID, bookingID)
}
func (m *mockSchedulingService) ListBookingsForRequester(ctx context.Context, requesterID uint) ([]models.Booking, error) {
	return m.listRequesterFn(ctx, requesterID)
}
func (m *mockSchedulingService) ListBookingsForCounselor(ctx context.Context, counselorID uint, status *models.BookingStatus) ([]models.Booking, error) {
	return m.listCounselorFn(ctx, counselorID, status)
}

func newTestContext(t *testing.T, method, target, body string, subjectID uint) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextSubjectID, subjectID)
	return c, rec
}

// --- Tests ---

func TestRequestOnlineBooking_Handler_Success(t *testing.T) {
	svc := &mockSchedulingService{
		requestOnlineFn: func(ctx context.Context, requesterID, counselorID uint, date time.Time, sessionIndex int, complaint string) (*models.Booking, error) {
			assert.Equal(t, uint(42), requesterID)
			assert.Equal(t, uint(7), counselorID)
			assert.Equal(t, 1, sessionIndex)
			return &models.Booking{
				ID:          1,
				RequesterID: requesterID,
				SlotID:      10,
				Kind:        models.KindOnline,
				Status:      models.StatusPending,
				CreatedAt:   time.Now(),
			}, nil
		},
	}

	body := `{"counselor_id":7,"date":"2025-06-10","session_index":1,"complaint":"trouble sleeping"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/bookings/online", body, 42)

	h := NewBookingHandler(svc)
	err := h.RequestOnlineBooking(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.BookingResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint(1), resp.ID)
	assert.Equal(t, models.StatusPending, resp.Status)
	assert.Equal(t, models.KindOnline, resp.Kind)
}

func TestRequestOnlineBooking_Handler_SlotUnavailable(t *testing.T) {
	svc := &mockSchedulingService{
		requestOnlineFn: func(ctx context.Context, requesterID, counselorID uint, date time.Time, sessionIndex int, complaint string) (*models.Booking, error) {
			return nil, service.ErrSlotUnavailable
		},
	}

	body := `{"counselor_id":7,"date":"2025-06-10","session_index":1,"complaint":"x"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/bookings/online", body, 42)

	h := NewBookingHandler(svc)
	err := h.RequestOnlineBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestRequestOnlineBooking_Handler_BadDate(t *testing.T) {
	body := `{"counselor_id":7,"date":"10/06/2025","session_index":1,"complaint":"x"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/bookings/online", body, 42)

	h := NewBookingHandler(&mockSchedulingService{})
	err := h.RequestOnlineBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestRequestOfflineBooking_Handler_PolicyViolation(t *testing.T) {
	svc := &mockSchedulingService{
		requestOfflineFn: func(ctx context.Context, requesterID uint, date time.Time, sessionIndex int, complaint string) (*models.Booking, error) {
			return nil, service.ErrPolicyViolation
		},
	}

	body := `{"date":"2025-06-11","session_index":2,"complaint":"stress"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/bookings/offline", body, 42)

	h := NewBookingHandler(svc)
	err := h.RequestOfflineBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestRequestOfflineBooking_Handler_Success(t *testing.T) {
	svc := &mockSchedulingService{
		requestOfflineFn: func(ctx context.Context, requesterID uint, date time.Time, sessionIndex int, complaint string) (*models.Booking, error) {
			return &models.Booking{
				ID:          5,
				RequesterID: requesterID,
				SlotID:      3,
				Kind:        models.KindOffline,
				Status:      models.StatusRegistered,
			}, nil
		},
	}

	body := `{"date":"2025-06-10","session_index":2,"complaint":"stress"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/bookings/offline", body, 42)

	h := NewBookingHandler(svc)
	err := h.RequestOfflineBooking(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.BookingResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusRegistered, resp.Status)
	assert.Equal(t, models.KindOffline, resp.Kind)
}

func TestGetBooking_Handler_Forbidden(t *testing.T) {
	svc := &mockSchedulingService{
		getFn: func(ctx context.Context, requesterID, bookingID uint) (*models.Booking, error) {
			return nil, service.ErrNotBookingOwner
		},
	}

	c, _ := newTestContext(t, http.MethodGet, "/api/v1/bookings/9", "", 42)
	c.SetParamNames("id")
	c.SetParamValues("9")

	h := NewBookingHandler(svc)
	err := h.GetBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestListBookings_Handler_Success(t *testing.T) {
	svc := &mockSchedulingService{
		listRequesterFn: func(ctx context.Context, requesterID uint) ([]models.Booking, error) {
			return []models.Booking{
				{ID: 1, RequesterID: requesterID, Kind: models.KindOnline, Status: models.StatusPending},
				{ID: 2, RequesterID: requesterID, Kind: models.KindOffline, Status: models.StatusRegistered},
			}, nil
		},
	}

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/bookings", "", 42)

	h := NewBookingHandler(svc)
	err := h.ListBookings(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.BookingResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestRateSession_Handler_AlreadyRated(t *testing.T) {
	svc := &mockSchedulingService{
		rateFn: func(ctx context.Context, raterID, historyRecordID uint, score int) (*models.RatingEntry, error) {
			return nil, service.ErrAlreadyRated
		},
	}

	body := `{"history_record_id":3,"score":5}`
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/ratings", body, 42)

	h := NewBookingHandler(svc)
	err := h.RateSession(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestRateSession_Handler_Success(t *testing.T) {
	svc := &mockSchedulingService{
		rateFn: func(ctx context.Context, raterID, historyRecordID uint, score int) (*models.RatingEntry, error) {
			return &models.RatingEntry{ID: 1, CounselorID: 7, RaterID: raterID, HistoryRecordID: historyRecordID, Score: score}, nil
		},
	}

	body := `{"history_record_id":3,"score":5}`
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/ratings", body, 42)

	h := NewBookingHandler(svc)
	err := h.RateSession(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.RatingResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Score)
	assert.Equal(t, uint(7), resp.CounselorID)
}

func TestCancelBooking_Handler_InvalidTransition(t *testing.T) {
	svc := &mockSchedulingService{
		cancelFn: func(ctx context.Context, requesterID, bookingID uint) (*models.Booking, error) {
			return nil, service.ErrInvalidTransition
		},
	}

	c, _ := newTestContext(t, http.MethodDelete, "/api/v1/bookings/4", "", 42)
	c.SetParamNames("id")
	c.SetParamValues("4")

	h := NewBookingHandler(svc)
	err := h.CancelBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}
