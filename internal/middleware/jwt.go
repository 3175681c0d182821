package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// RevocationChecker answers "is this token currently revoked?" for a
// set of decoded claims.  It is injected at construction time rather
// than registered as process-wide state, so every protected route is
// explicit about consulting the ledger.  Implementations must be
// fail-closed: claims they cannot account for count as revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, claims jwt.MapClaims) bool
}

// JWTAuth returns an Echo middleware that validates a Bearer access
// token, consults the revocation checker before trusting any claim,
// and injects the token's identity and jti into the request context.
// Handlers read them back via Identity(c) and JTI(c).  Refresh tokens
// are rejected here; they are only good for the refresh endpoint.
func JWTAuth(secret string, checker RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse with HS256 only; a crafted "alg" header must not
			// downgrade verification.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			if typ, _ := claims["type"].(string); typ != "access" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "only access tokens are allowed"})
			}

			// The ledger check runs before any claim is trusted for
			// authorization.  Unknown tokens count as revoked.
			if checker.IsRevoked(c.Request().Context(), claims) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token has been revoked"})
			}

			c.Set("identity", claims["sub"])
			c.Set("jti", claims["jti"])
			return next(c)
		}
	}
}
