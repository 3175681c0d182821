package model

import "time"

// TokenType distinguishes the two kinds of JWTs the service mints.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenEntry models a row in the `token_ledger` table: the durable
// record of one issued JWT.  The jti claim is the primary key and is
// never reused, even after pruning removes the row.  UserIdentity
// references users.public_id, never the internal row id, so token
// validity is decoupled from the internal storage layout.
//
// Fields:
//  JTI          – token_ledger.jti (JWT unique identifier, primary key).
//  TokenType    – token_ledger.token_type ("access" or "refresh").
//  UserIdentity – token_ledger.user_identity (owner's public_id).
//  Revoked      – token_ledger.revoked.
//  Expires      – token_ledger.expires (UTC).
type TokenEntry struct {
	JTI          string
	TokenType    TokenType
	UserIdentity string
	Revoked      bool
	Expires      time.Time
}

// Expired reports whether the entry's expiry is strictly in the past.
// An entry with Expires equal to now is still considered live; the
// prune operation uses the same boundary.
func (e TokenEntry) Expired(now time.Time) bool {
	return e.Expires.Before(now)
}
