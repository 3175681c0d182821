package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// CredentialKind discriminates how an account authenticates.  Local
// accounts carry a bcrypt password hash; social accounts were created
// through an external identity provider and have no password at all.
type CredentialKind int

const (
	// CredentialLocal marks an account with a stored password hash.
	CredentialLocal CredentialKind = iota
	// CredentialSocial marks a social-login-only account.  Such an
	// account must never pass local password verification.
	CredentialSocial
)

// Credential is a discriminated credential value.  Modeling the
// local/social split as a variant (instead of a nullable hash column
// leaking into business code) makes it impossible to compare a plain
// password against a missing hash: Verify on a social credential is
// always false.
type Credential struct {
	kind     CredentialKind
	hash     string // bcrypt hash, local only
	provider string // identity provider name, social only
}

// LocalCredential wraps a bcrypt hash produced at sign-up.
func LocalCredential(hash string) Credential {
	return Credential{kind: CredentialLocal, hash: hash}
}

// SocialCredential marks an account that authenticates through the
// named external provider.
func SocialCredential(provider string) Credential {
	return Credential{kind: CredentialSocial, provider: provider}
}

// IsSocial reports whether the account is social-login only.
func (c Credential) IsSocial() bool { return c.kind == CredentialSocial }

// Provider returns the identity provider for social credentials and
// the empty string for local ones.
func (c Credential) Provider() string { return c.provider }

// Hash exposes the stored bcrypt hash.  Empty for social accounts.
func (c Credential) Hash() string { return c.hash }

// Verify compares a plain password against the stored hash.  It
// returns false for social credentials without touching bcrypt.
func (c Credential) Verify(plain string) bool {
	if c.kind != CredentialLocal || c.hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.hash), []byte(plain)) == nil
}

// User mirrors the `users` table.  The numeric ID is the storage
// primary key and never leaves the process; PublicID is the opaque
// identity embedded in token claims and exposed over the API, so the
// internal row layout can change without invalidating issued tokens.
//
// Fields:
//  ID         – users.id (internal primary key).
//  PublicID   – users.public_id (uuid, unique, external identity).
//  Email      – users.email (unique, stored lowercased).
//  Credential – local hash or social provider (users.password_hash / users.auth_provider).
//  FName      – users.fname (normalized display form).
//  LName      – users.lname (normalized display form).
//  Picture    – users.picture (optional avatar URL).
//  CreatedAt  – users.created_at.
type User struct {
	ID         uint64
	PublicID   string
	Email      string
	Credential Credential
	FName      string
	LName      string
	Picture    string
	CreatedAt  time.Time
}
