package handler

import (
	"errors"
	"net/http"

	"github.com/counseling-platform/scheduling-service/internal/service"
	"github.com/labstack/echo/v4"
)

// toHTTPError maps service sentinels onto HTTP status codes. Anything
// unmapped is an internal error.
func toHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrSlotNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrHistoryNotFound),
		errors.Is(err, service.ErrCounselorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSlotUnavailable),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrAlreadyRated),
		errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrSlotHasBooking):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNotSlotOwner),
		errors.Is(err, service.ErrNotBookingOwner):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPolicyViolation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrMeetingRoom):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
