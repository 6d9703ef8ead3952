package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys populated by JWTAuth. The engine trusts these values; token
// issuance belongs to the external identity service.
const (
	ContextSubjectID = "subject_id"
	ContextRole      = "role"
)

const (
	RoleStudent   = "student"
	RoleCounselor = "counselor"
)

// JWTAuth validates a Bearer access token and injects the token's subject and
// role claims into the request context so handlers can resolve the acting
// (subjectId, role) pair.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid claims"})
			}

			subject, ok := subjectFromClaims(claims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid subject"})
			}
			role, _ := claims["role"].(string)

			c.Set(ContextSubjectID, subject)
			c.Set(ContextRole, role)
			return next(c)
		}
	}
}

// subjectFromClaims reads the "sub" claim, which arrives as a JSON number or
// a numeric string depending on the issuer.
func subjectFromClaims(claims jwt.MapClaims) (uint, bool) {
	switch v := claims["sub"].(type) {
	case float64:
		if v <= 0 {
			return 0, false
		}
		return uint(v), true
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil || n == 0 {
			return 0, false
		}
		return uint(n), true
	}
	return 0, false
}

// SubjectID returns the authenticated subject injected by JWTAuth.
func SubjectID(c echo.Context) uint {
	if v, ok := c.Get(ContextSubjectID).(uint); ok {
		return v
	}
	return 0
}

// RequireRole aborts with 403 unless the authenticated role is in the allowed
// set. Assumes JWTAuth ran earlier in the chain.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ContextRole).(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
			}
			return next(c)
		}
	}
}
