// Package service holds the token lifecycle manager and the publishing
// of auth events to the message broker.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nmoreno/user-auth-api/internal/model"
	"github.com/nmoreno/user-auth-api/internal/repository"
	"github.com/nmoreno/user-auth-api/internal/utils"
)

// Ledger is the persistence contract the lifecycle manager needs.  It
// is satisfied by *repository.TokenLedger; tests supply an in-memory
// implementation.
type Ledger interface {
	Insert(ctx context.Context, e model.TokenEntry) error
	Find(ctx context.Context, jti string) (model.TokenEntry, error)
	ListForUser(ctx context.Context, userIdentity string) ([]model.TokenEntry, error)
	SetRevoked(ctx context.Context, jti string, revoked bool) error
	RevokeAllForUser(ctx context.Context, userIdentity string) (int64, error)
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}

// TokenService orchestrates token issuance, revocation and pruning on
// top of the ledger, and answers the per-request revocation check.
type TokenService struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Ledger     Ledger
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration, l Ledger) *TokenService {
	return &TokenService{Secret: secret, AccessTTL: accessTTL, RefreshTTL: refreshTTL, Ledger: l}
}

// Issue mints a JWT for the identity and records it in the ledger.
// Mint-then-insert: when the insert fails the signed string is
// discarded and never returned, so no token exists without a ledger
// row backing it.  A jti collision means the uniqueness guarantee is
// broken upstream; it is logged as an integrity fault.
func (s *TokenService) Issue(ctx context.Context, userIdentity string, tokenType model.TokenType) (utils.MintedToken, error) {
	ttl := s.AccessTTL
	if tokenType == model.TokenTypeRefresh {
		ttl = s.RefreshTTL
	}
	minted, err := utils.MintToken(s.Secret, userIdentity, string(tokenType), ttl)
	if err != nil {
		return utils.MintedToken{}, err
	}
	entry := model.TokenEntry{
		JTI:          minted.JTI,
		TokenType:    tokenType,
		UserIdentity: userIdentity,
		Revoked:      false,
		Expires:      minted.Exp,
	}
	if err := s.Ledger.Insert(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicateJTI) {
			log.Printf("integrity fault: duplicate jti %s for user %s", minted.JTI, userIdentity)
		}
		return utils.MintedToken{}, err
	}
	return minted, nil
}

// Toggle revokes or unrevokes a single token after verifying that it
// belongs to the caller.  An absent jti and a jti owned by someone else
// both come back as repository.ErrTokenNotFound, so the response never
// reveals whether another user's token exists.
func (s *TokenService) Toggle(ctx context.Context, jti, userIdentity string, revoke bool) error {
	entry, err := s.Ledger.Find(ctx, jti)
	if err != nil {
		return err
	}
	if entry.UserIdentity != userIdentity {
		return repository.ErrTokenNotFound
	}
	return s.Ledger.SetRevoked(ctx, jti, revoke)
}

// Tokens lists every ledger entry owned by the identity.
func (s *TokenService) Tokens(ctx context.Context, userIdentity string) ([]model.TokenEntry, error) {
	return s.Ledger.ListForUser(ctx, userIdentity)
}

// LogoutEverywhere revokes all of the identity's active tokens in one
// bulk transaction.  Idempotent: a second call affects zero rows.
func (s *TokenService) LogoutEverywhere(ctx context.Context, userIdentity string) (int64, error) {
	return s.Ledger.RevokeAllForUser(ctx, userIdentity)
}

// Prune deletes every ledger entry that expired before now.  Meant for
// periodic or administrative invocation, not per-request.
func (s *TokenService) Prune(ctx context.Context, now time.Time) (int64, error) {
	return s.Ledger.PruneExpired(ctx, now)
}

// IsRevoked answers "is this token currently revoked?" for decoded
// claims.  Fail-closed: a missing jti claim or an absent ledger row
// (forged jti, or pruned after expiry) counts as revoked, so an unknown
// token is never trusted.
func (s *TokenService) IsRevoked(ctx context.Context, claims jwt.MapClaims) bool {
	jti := utils.ClaimString(claims, "jti")
	if jti == "" {
		return true
	}
	entry, err := s.Ledger.Find(ctx, jti)
	if err != nil {
		return true
	}
	return entry.Revoked
}
