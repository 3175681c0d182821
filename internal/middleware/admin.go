package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAdmin returns a middleware that restricts a route to the
// identities listed in the ADMIN_IDS configuration.  It assumes
// JWTAuth ran earlier and stored the authenticated identity in the
// context.  Anyone not on the list receives 403 Forbidden.
func RequireAdmin(adminIDs []string) echo.MiddlewareFunc {
	// Build a set of allowed identities for constant-time lookups.
	allowed := make(map[string]bool, len(adminIDs))
	for _, id := range adminIDs {
		allowed[id] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !allowed[Identity(c)] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
