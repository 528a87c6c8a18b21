package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const userIDKey = "current_user_id"

// CurrentUser trusts the authenticated user id injected by the upstream
// gateway. Session issuance and token validation happen there; this service
// only consumes the resulting identity.
func CurrentUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := c.Request().Header.Get("X-User-ID")
		if userID == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
		}
		c.Set(userIDKey, userID)
		return next(c)
	}
}

// UserID returns the authenticated user id set by CurrentUser.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
