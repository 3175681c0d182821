package middleware

// identity.go defines helpers shared across middleware and handlers
// for reading the authenticated identity placed in the Echo context by
// JWTAuth. When no user is authenticated the helpers return "" (or
// "guest" for rate-limit keys, which must never be empty).

import "github.com/labstack/echo/v4"

// Identity returns the authenticated user's public identity, or ""
// when the request carries no valid token.
func Identity(c echo.Context) string {
	v, _ := c.Get("identity").(string)
	return v
}

// JTI returns the jti claim of the presented token, or "".
func JTI(c echo.Context) string {
	v, _ := c.Get("jti").(string)
	return v
}

// rateIdentity is Identity with a non-empty fallback for building
// rate-limit bucket keys.
func rateIdentity(c echo.Context) string {
	if id := Identity(c); id != "" {
		return id
	}
	return "guest"
}
