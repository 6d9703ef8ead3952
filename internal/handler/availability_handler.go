package handler

import (
	"net/http"
	"strconv"

	"github.com/counseling-platform/scheduling-service/internal/dto"
	"github.com/counseling-platform/scheduling-service/internal/service"
	"github.com/labstack/echo/v4"
)

// AvailabilityHandler serves the public browse endpoints students hit while
// picking a slot. These routes sit behind the response cache.
type AvailabilityHandler struct {
	svc service.AvailabilityService
}

func NewAvailabilityHandler(svc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

func (h *AvailabilityHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/counselors/:id/slots", h.ListOpenSlots)
	g.GET("/walk-in", h.GetWalkInWindow)
}

func (h *AvailabilityHandler) ListOpenSlots(c echo.Context) error {
	counselorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid counselor id")
	}
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	slots, err := h.svc.ListOpenSlots(c.Request().Context(), uint(counselorID), date)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]dto.SlotResponse, len(slots))
	for i, s := range slots {
		resp[i] = dto.ToSlotResponse(&s)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AvailabilityHandler) GetWalkInWindow(c echo.Context) error {
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	session, err := strconv.Atoi(c.QueryParam("session"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "session must be an integer")
	}

	slot, err := h.svc.GetOfflineWindow(c.Request().Context(), date, session)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToOfflineWindowResponse(slot))
}
