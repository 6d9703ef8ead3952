package middleware

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error as {"message": ...}. Handlers map domain
// sentinels to echo.HTTPError themselves; anything that arrives unmapped is
// an internal failure, logged in full and masked in the response.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := err.Error()

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	if code == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		msg = "internal server error"
	}

	if err := c.JSON(code, map[string]string{"message": msg}); err != nil {
		log.Printf("[HTTP] failed to write error response: %v", err)
	}
}
