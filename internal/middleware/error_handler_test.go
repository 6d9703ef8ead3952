package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func runErrorHandler(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(err, c)
	return rec
}

func TestErrorHandler_MappedHTTPError(t *testing.T) {
	rec := runErrorHandler(t, echo.NewHTTPError(http.StatusConflict, "slot is not available"))

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "slot is not available", body["message"])
}

func TestErrorHandler_UnmappedErrorMasked(t *testing.T) {
	rec := runErrorHandler(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body["message"])
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestErrorHandler_Internal500Masked(t *testing.T) {
	rec := runErrorHandler(t, echo.NewHTTPError(http.StatusInternalServerError, "slot 3 not reserved while rejecting booking 9"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body["message"])
}

func TestErrorHandler_BadGatewayMessageKept(t *testing.T) {
	rec := runErrorHandler(t, echo.NewHTTPError(http.StatusBadGateway, "meeting room creation failed"))

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "meeting room creation failed", body["message"])
}

func TestErrorHandler_CommittedResponseUntouched(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, c.JSON(http.StatusOK, map[string]string{"status": "ok"}))
	ErrorHandler(errors.New("late failure"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "internal server error")
}
