package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/nmoreno/user-auth-api/internal/config"
	"github.com/nmoreno/user-auth-api/internal/middleware"
	"github.com/nmoreno/user-auth-api/internal/model"
	"github.com/nmoreno/user-auth-api/internal/queue"
	"github.com/nmoreno/user-auth-api/internal/repository"
	"github.com/nmoreno/user-auth-api/internal/utils"
)

// UserStore is the credential-store surface the auth endpoints need.
// Satisfied by *repository.UserRepo.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash, fname, lname string) (string, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// TokenManager is the token lifecycle surface the auth endpoints need.
// Satisfied by *service.TokenService.
type TokenManager interface {
	Issue(ctx context.Context, userIdentity string, tokenType model.TokenType) (utils.MintedToken, error)
	Tokens(ctx context.Context, userIdentity string) ([]model.TokenEntry, error)
	Toggle(ctx context.Context, jti, userIdentity string, revoke bool) error
	LogoutEverywhere(ctx context.Context, userIdentity string) (int64, error)
	Prune(ctx context.Context, now time.Time) (int64, error)
	IsRevoked(ctx context.Context, claims jwt.MapClaims) bool
}

// EventPublisher forwards auth events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.AuthEvent) error
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Tokens TokenManager
	Events EventPublisher
}

func NewAuthHandler(cfg config.Config, u UserStore, t TokenManager, ev EventPublisher) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Events: ev}
}

// publish fires an auth event without blocking the request; publishing
// is best-effort and errors are already logged by the publisher.
func (h *AuthHandler) publish(ev queue.AuthEvent) {
	if h.Events == nil {
		return
	}
	ev.At = time.Now().UTC().Format(time.RFC3339)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.Events.Publish(ctx, ev)
	}()
}

// ----- DTOs -----

type signUpReq struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	FName    *string `json:"fname"`
	LName    *string `json:"lname"`
}
type loginReq struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type toggleReq struct {
	Revoke *bool `json:"revoke"`
}

type userPart struct {
	ID          string `json:"id"`
	FName       string `json:"fname"`
	LName       string `json:"lname"`
	UserPicture string `json:"user_picture"`
}

type tokenSummary struct {
	JTI          string    `json:"jti"`
	TokenType    string    `json:"token_type"`
	UserIdentity string    `json:"user_identity"`
	Revoked      bool      `json:"revoked"`
	Expires      time.Time `json:"expires"`
}

// SignUp creates a new local-credential account.  All validation runs
// before any store write; a duplicate email rolls the whole sign-up
// back and answers with a generic already-exists message.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpReq
	if err := c.Bind(&req); err != nil {
		return apiErr(http.StatusBadRequest, "json request only")
	}

	if req.Email == nil {
		return apiErr(http.StatusBadRequest, "email not found in request")
	}
	if !utils.ValidEmail(*req.Email) {
		return apiErr(http.StatusBadRequest, "invalid email format")
	}
	if req.Password == nil {
		return apiErr(http.StatusBadRequest, "password not found in request")
	}
	if !utils.ValidPassword(*req.Password) {
		return apiErr(http.StatusBadRequest, "insecure password")
	}
	if req.FName == nil {
		return apiErr(http.StatusBadRequest, "fname not found in request")
	}
	fname := utils.NormalizeName(*req.FName)
	if fname == "" {
		return apiErr(http.StatusBadRequest, "fname not found in request")
	}
	if req.LName == nil {
		return apiErr(http.StatusBadRequest, "lname not found in request")
	}
	lname := utils.NormalizeName(*req.LName)
	if lname == "" {
		return apiErr(http.StatusBadRequest, "lname not found in request")
	}

	hash, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return apiErr(http.StatusInternalServerError, "create user failed")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.Create(ctx, *req.Email, hash, fname, lname); err != nil {
		if err == repository.ErrEmailExists {
			return apiErr(http.StatusBadRequest, "user already created - login instead")
		}
		return apiErr(http.StatusInternalServerError, "create user failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": "created"})
}

// Login verifies local credentials and issues an access token backed
// by a ledger row.  Wrong password keeps the original 404 contract; a
// social-login-only account never reaches password verification.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return apiErr(http.StatusBadRequest, "not json request")
	}
	if req.Email == nil {
		return apiErr(http.StatusBadRequest, "misising email")
	}
	if req.Password == nil {
		return apiErr(http.StatusBadRequest, "missing password")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, *req.Email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return apiErr(http.StatusNotFound, "user not found")
		}
		return apiErr(http.StatusInternalServerError, "query failed")
	}
	if u.Credential.IsSocial() {
		return apiErr(http.StatusBadRequest, "user logged with social login")
	}
	if !u.Credential.Verify(*req.Password) {
		return apiErr(http.StatusNotFound, "wrong password")
	}

	access, err := h.Tokens.Issue(ctx, u.PublicID, model.TokenTypeAccess)
	if err != nil {
		return apiErr(http.StatusInternalServerError, "issue token failed")
	}

	h.publish(queue.AuthEvent{Event: queue.EventLogin, UserIdentity: u.PublicID, JTI: access.JTI, TokenType: string(model.TokenTypeAccess)})

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": access.Token,
		"user": userPart{
			ID:          u.PublicID,
			FName:       u.FName,
			LName:       u.LName,
			UserPicture: u.Picture,
		},
	})
}

// CreateRefreshToken mints a long-lived refresh token for the caller.
// Clients that want sessions outliving the access TTL opt in here; the
// token gets its own ledger row, so logout-everywhere kills it too.
func (h *AuthHandler) CreateRefreshToken(c echo.Context) error {
	identity := middleware.Identity(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	refresh, err := h.Tokens.Issue(ctx, identity, model.TokenTypeRefresh)
	if err != nil {
		return apiErr(http.StatusInternalServerError, "issue token failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"refresh_token": refresh.Token,
		"expires":       refresh.Exp,
	})
}

// Refresh exchanges a valid refresh token for a new access token.  The
// refresh token must verify, be of type "refresh", and pass the same
// fail-closed ledger check as any other token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return apiErr(http.StatusBadRequest, "refresh_token required")
	}

	claims, err := utils.ParseClaims(req.RefreshToken, h.Cfg.JWTSecret)
	if err != nil {
		return apiErr(http.StatusUnauthorized, "invalid refresh token")
	}
	if utils.ClaimString(claims, "type") != string(model.TokenTypeRefresh) {
		return apiErr(http.StatusUnauthorized, "invalid refresh token")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if h.Tokens.IsRevoked(ctx, claims) {
		return apiErr(http.StatusUnauthorized, "token has been revoked")
	}
	identity := utils.ClaimString(claims, "sub")
	if identity == "" {
		return apiErr(http.StatusUnauthorized, "invalid refresh token")
	}

	access, err := h.Tokens.Issue(ctx, identity, model.TokenTypeAccess)
	if err != nil {
		return apiErr(http.StatusInternalServerError, "issue token failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"access_token": access.Token})
}

// ListTokens returns every ledger entry owned by the caller.
func (h *AuthHandler) ListTokens(c echo.Context) error {
	identity := middleware.Identity(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.Tokens.Tokens(ctx, identity)
	if err != nil {
		return apiErr(http.StatusInternalServerError, "query failed")
	}
	out := make([]tokenSummary, 0, len(entries))
	for _, e := range entries {
		out = append(out, tokenSummary{
			JTI:          e.JTI,
			TokenType:    string(e.TokenType),
			UserIdentity: e.UserIdentity,
			Revoked:      e.Revoked,
			Expires:      e.Expires,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// ToggleToken revokes or unrevokes one of the caller's own tokens.  A
// token that does not exist and a token owned by someone else produce
// the same 404 body, so the endpoint cannot be used to probe for other
// users' jtis.
func (h *AuthHandler) ToggleToken(c echo.Context) error {
	jti := c.Param("jti")

	var req toggleReq
	if err := c.Bind(&req); err != nil {
		return apiErr(http.StatusBadRequest, "'revoke' must be a boolean")
	}
	if req.Revoke == nil {
		return apiErr(http.StatusBadRequest, "Missing 'revoke' in body")
	}
	revoke := *req.Revoke
	identity := middleware.Identity(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.Toggle(ctx, jti, identity, revoke); err != nil {
		if err == repository.ErrTokenNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "The specified token was not found"})
		}
		return apiErr(http.StatusInternalServerError, "toggle failed")
	}

	if revoke {
		h.publish(queue.AuthEvent{Event: queue.EventTokenRevoked, UserIdentity: identity, JTI: jti})
		return c.JSON(http.StatusOK, echo.Map{"msg": "Token revoked"})
	}
	h.publish(queue.AuthEvent{Event: queue.EventTokenUnrevoked, UserIdentity: identity, JTI: jti})
	return c.JSON(http.StatusOK, echo.Map{"msg": "Token unrevoked"})
}

// Logout revokes every active token of the caller ("logout
// everywhere").  Idempotent: repeating it affects zero rows.
func (h *AuthHandler) Logout(c echo.Context) error {
	identity := middleware.Identity(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	count, err := h.Tokens.LogoutEverywhere(ctx, identity)
	if err != nil {
		return apiErr(http.StatusInternalServerError, "logout failed")
	}
	h.publish(queue.AuthEvent{Event: queue.EventLogoutEverywhere, UserIdentity: identity, Count: count})
	return c.JSON(http.StatusOK, echo.Map{"success": "user logged out"})
}

// PruneDB deletes expired ledger rows.  Admin-only; routed behind
// RequireAdmin.
func (h *AuthHandler) PruneDB(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	count, err := h.Tokens.Prune(ctx, time.Now().UTC())
	if err != nil {
		return apiErr(http.StatusInternalServerError, "prune failed")
	}
	h.publish(queue.AuthEvent{Event: queue.EventLedgerPruned, UserIdentity: middleware.Identity(c), Count: count})
	return c.JSON(http.StatusOK, echo.Map{"success": "db pruned correctly"})
}
