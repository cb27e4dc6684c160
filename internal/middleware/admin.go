package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// RequireAdmin returns a middleware that aborts with 403 unless the
// authenticated user id passes the supplied allow-list check. This is
// the only authorization in the system: the allow-list is static
// configuration, and the check runs before any core operation is
// reached. It assumes JWTAuth has stored the user id in the context.
func RequireAdmin(isAdmin func(uint64) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := contextUserID(c)
			if !ok || !isAdmin(uid) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// contextUserID extracts the user id stored by JWTAuth. JSON numbers
// arrive as float64 from MapClaims; string subjects are parsed.
func contextUserID(c echo.Context) (uint64, bool) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, true
	case int:
		return uint64(t), true
	case int64:
		return uint64(t), true
	case float64:
		return uint64(t), true
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
