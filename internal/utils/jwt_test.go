package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMintAndParse_RoundTrip(t *testing.T) {
	t.Parallel()

	minted, err := MintToken("super-secret", "pid-123", "access", time.Hour)
	if err != nil {
		t.Fatalf("MintToken error: %v", err)
	}
	if minted.Token == "" {
		t.Fatalf("empty token string")
	}
	if _, err := uuid.Parse(minted.JTI); err != nil {
		t.Fatalf("jti is not a uuid: %q", minted.JTI)
	}

	claims, err := ParseClaims(minted.Token, "super-secret")
	if err != nil {
		t.Fatalf("ParseClaims error: %v", err)
	}
	if got := ClaimString(claims, "sub"); got != "pid-123" {
		t.Fatalf("sub mismatch: got %q", got)
	}
	if got := ClaimString(claims, "type"); got != "access" {
		t.Fatalf("type mismatch: got %q", got)
	}
	if got := ClaimString(claims, "jti"); got != minted.JTI {
		t.Fatalf("jti mismatch: got %q want %q", got, minted.JTI)
	}
}

func TestMint_UniqueJTIs(t *testing.T) {
	t.Parallel()

	a, err := MintToken("s", "u", "access", time.Hour)
	if err != nil {
		t.Fatalf("MintToken error: %v", err)
	}
	b, err := MintToken("s", "u", "access", time.Hour)
	if err != nil {
		t.Fatalf("MintToken error: %v", err)
	}
	if a.JTI == b.JTI {
		t.Fatalf("two mints produced the same jti %q", a.JTI)
	}
}

func TestParseClaims_WrongSecret(t *testing.T) {
	t.Parallel()

	minted, err := MintToken("right-secret", "u", "access", time.Hour)
	if err != nil {
		t.Fatalf("MintToken error: %v", err)
	}
	if _, err := ParseClaims(minted.Token, "wrong-secret"); err == nil {
		t.Fatalf("expected error for wrong secret, got nil")
	}
}

func TestParseClaims_Expired(t *testing.T) {
	t.Parallel()

	minted, err := MintToken("s", "u", "access", -time.Minute)
	if err != nil {
		t.Fatalf("MintToken error: %v", err)
	}
	if _, err := ParseClaims(minted.Token, "s"); err == nil {
		t.Fatalf("expected error for expired token, got nil")
	}
}

func TestParseClaims_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := ParseClaims("not.a.jwt", "s"); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}
