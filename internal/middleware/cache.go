package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// ResponseCache caches successful GET responses in Redis, keyed on path and
// query. Public availability listings are read-heavy and tolerate a short
// TTL of staleness; writes go through the engine and are never cached.
// A nil client disables caching entirely.
func ResponseCache(client *redis.Client, prefix string, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if client == nil || c.Request().Method != http.MethodGet {
				return next(c)
			}

			key := prefix + ":" + c.Request().URL.Path
			if q := c.Request().URL.RawQuery; q != "" {
				key += "?" + q
			}

			if cached, err := client.Get(c.Request().Context(), key).Bytes(); err == nil {
				return c.JSONBlob(http.StatusOK, cached)
			}

			rec := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = rec

			if err := next(c); err != nil {
				return err
			}
			if rec.status == http.StatusOK && rec.buf.Len() > 0 {
				// Best effort; a failed SET just means the next request
				// recomputes.
				_ = client.Set(c.Request().Context(), key, rec.buf.Bytes(), ttl).Err()
			}
			return nil
		}
	}
}

type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *captureWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}
