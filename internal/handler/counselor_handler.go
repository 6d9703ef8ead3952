package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/counseling-platform/scheduling-service/internal/dto"
	"github.com/counseling-platform/scheduling-service/internal/middleware"
	"github.com/counseling-platform/scheduling-service/internal/models"
	"github.com/counseling-platform/scheduling-service/internal/service"
	"github.com/labstack/echo/v4"
)

// CounselorHandler serves the counselor-facing side: availability toggling
// and the approve/reject/complete transitions.
type CounselorHandler struct {
	scheduling   service.SchedulingService
	availability service.AvailabilityService
}

func NewCounselorHandler(scheduling service.SchedulingService, availability service.AvailabilityService) *CounselorHandler {
	return &CounselorHandler{scheduling: scheduling, availability: availability}
}

func (h *CounselorHandler) RegisterRoutes(g *echo.Group) {
	g.PUT("/slots", h.ToggleSlot)
	g.GET("/slots", h.ListSlots)
	g.GET("/bookings", h.ListBookings)
	g.POST("/bookings/:id/approve", h.ApproveBooking)
	g.POST("/bookings/:id/reject", h.RejectBooking)
	g.POST("/bookings/:id/complete", h.CompleteSession)
}

func (h *CounselorHandler) ToggleSlot(c echo.Context) error {
	var req dto.ToggleSlotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Active == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "active is required")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	slot, err := h.availability.ToggleOnlineSlot(c.Request().Context(),
		middleware.SubjectID(c), date, req.SessionIndex, *req.Active)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToSlotResponse(slot))
}

func (h *CounselorHandler) ListSlots(c echo.Context) error {
	from := time.Now().UTC()
	to := from.AddDate(0, 1, 0)
	if s := c.QueryParam("from"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "from must be YYYY-MM-DD")
		}
		from = t
	}
	if s := c.QueryParam("to"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "to must be YYYY-MM-DD")
		}
		to = t
	}

	slots, err := h.availability.ListCounselorSlots(c.Request().Context(), middleware.SubjectID(c), from, to)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]dto.SlotResponse, len(slots))
	for i, s := range slots {
		resp[i] = dto.ToSlotResponse(&s)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CounselorHandler) ListBookings(c echo.Context) error {
	var status *models.BookingStatus
	if s := c.QueryParam("status"); s != "" {
		bs := models.BookingStatus(s)
		status = &bs
	}

	bookings, err := h.scheduling.ListBookingsForCounselor(c.Request().Context(), middleware.SubjectID(c), status)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]dto.BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = dto.ToBookingResponse(&b)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CounselorHandler) ApproveBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := h.scheduling.ApproveBooking(c.Request().Context(), middleware.SubjectID(c), uint(id))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *CounselorHandler) RejectBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}
	var req dto.RejectBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Reason == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "reason is required")
	}

	booking, err := h.scheduling.RejectBooking(c.Request().Context(), middleware.SubjectID(c), uint(id), req.Reason)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *CounselorHandler) CompleteSession(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, record, err := h.scheduling.CompleteSession(c.Request().Context(), middleware.SubjectID(c), uint(id))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.CompletionResponse{
		Booking: dto.ToBookingResponse(booking),
		History: dto.ToHistoryResponse(record),
	})
}
