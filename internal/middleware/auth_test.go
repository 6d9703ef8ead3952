package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return signed
}

func runAuth(t *testing.T, authHeader string) (echo.Context, *httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := JWTAuth(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return c, rec, err
}

func TestJWTAuth_ValidToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":  float64(42),
		"role": RoleStudent,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	c, rec, err := runAuth(t, "Bearer "+token)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(42), SubjectID(c))
	assert.Equal(t, RoleStudent, c.Get(ContextRole))
}

func TestJWTAuth_StringSubject(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":  "7",
		"role": RoleCounselor,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	c, rec, err := runAuth(t, "Bearer "+token)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(7), SubjectID(c))
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	_, rec, err := runAuth(t, "")

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":  float64(42),
		"role": RoleStudent,
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})

	_, rec, err := runAuth(t, "Bearer "+token)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": float64(42),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte("another-secret"))
	assert.NoError(t, err)

	_, rec, err := runAuth(t, "Bearer "+signed)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_BadSubject(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":  "not-a-number",
		"role": RoleStudent,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	_, rec, err := runAuth(t, "Bearer "+token)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(RoleCounselor)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	t.Run("allowed role passes", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(ContextRole, RoleCounselor)

		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("other role rejected", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(ContextRole, RoleStudent)

		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing role rejected", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
