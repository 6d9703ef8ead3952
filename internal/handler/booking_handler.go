package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/counseling-platform/scheduling-service/internal/dto"
	"github.com/counseling-platform/scheduling-service/internal/middleware"
	"github.com/counseling-platform/scheduling-service/internal/service"
	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

// BookingHandler serves the student-facing side of the engine.
type BookingHandler struct {
	svc service.SchedulingService
}

func NewBookingHandler(svc service.SchedulingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/bookings/online", h.RequestOnlineBooking)
	g.POST("/bookings/offline", h.RequestOfflineBooking)
	g.GET("/bookings", h.ListBookings)
	g.GET("/bookings/:id", h.GetBooking)
	g.DELETE("/bookings/:id", h.CancelBooking)
	g.POST("/ratings", h.RateSession)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func (h *BookingHandler) RequestOnlineBooking(c echo.Context) error {
	var req dto.OnlineBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.CounselorID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "counselor_id is required")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	booking, err := h.svc.RequestOnlineBooking(c.Request().Context(),
		middleware.SubjectID(c), req.CounselorID, date, req.SessionIndex, req.Complaint)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) RequestOfflineBooking(c echo.Context) error {
	var req dto.OfflineBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	booking, err := h.svc.RequestOfflineBooking(c.Request().Context(),
		middleware.SubjectID(c), date, req.SessionIndex, req.Complaint)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	bookings, err := h.svc.ListBookingsForRequester(c.Request().Context(), middleware.SubjectID(c))
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]dto.BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = dto.ToBookingResponse(&b)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := h.svc.GetBookingForRequester(c.Request().Context(), middleware.SubjectID(c), uint(id))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

// CancelBooking withdraws a walk-in registration. Online bookings are
// withdrawn by the counselor through rejection, not here.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := h.svc.CancelOfflineBooking(c.Request().Context(), middleware.SubjectID(c), uint(id))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) RateSession(c echo.Context) error {
	var req dto.RateSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.HistoryRecordID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "history_record_id is required")
	}

	entry, err := h.svc.RateSession(c.Request().Context(), middleware.SubjectID(c), req.HistoryRecordID, req.Score)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToRatingResponse(entry))
}
