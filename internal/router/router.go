package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/nmoreno/user-auth-api/internal/config"
	"github.com/nmoreno/user-auth-api/internal/handler"
	"github.com/nmoreno/user-auth-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check for load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the auth endpoints under /api/auth.  The whole
// /api surface sits behind the Redis token-bucket limiter; protected
// endpoints additionally run JWTAuth with the revocation checker, and
// prune-db is restricted to the configured admin identities.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, cfg config.Config, checker middleware.RevocationChecker, rdb *redis.Client) {
	api := e.Group("/api", middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// Public endpoints: no session required.
	g := api.Group("/auth")
	g.POST("/sign-up", a.SignUp)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	// Protected endpoints: a valid, non-revoked access token is
	// checked before any claim is trusted.
	auth := api.Group("/auth", middleware.JWTAuth(cfg.JWTSecret, checker))
	auth.GET("/token", a.ListTokens)
	auth.POST("/token", a.CreateRefreshToken)
	auth.PUT("/token/:jti", a.ToggleToken)
	auth.GET("/logout", a.Logout)
	auth.GET("/prune-db", a.PruneDB, middleware.RequireAdmin(cfg.AdminIDs))
}
