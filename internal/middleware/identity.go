package middleware

// identity.go provides the shared user-id extraction helper.  JWT numeric
// claims come back as float64 from encoding/json, so the helper accepts
// the handful of representations a "sub" claim can take.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// UserID extracts the authenticated user id stored by JWTAuth.  The
// second return is false when no identity is present — callers such as
// the response cache must then behave as if caching were disabled rather
// than fall back to a shared, unscoped key.  Handlers share this helper
// so the claim representations are interpreted in exactly one place.
func UserID(c echo.Context) (uint64, bool) {
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
