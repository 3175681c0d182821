package utils // package utils provides helpers for token minting, hashing and validation

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
	"github.com/google/uuid"       // uuid generates the jti claim
)

// MintedToken is the result of signing a new JWT.  Token carries the
// serialized JWT string, JTI the unique identifier claim that keys the
// token's ledger row, and Exp the UTC expiration embedded in the exp
// claim.  The ledger row must exist before Token is handed to a caller;
// under the fail-closed revocation check a signed token without a
// ledger row is rejected.
type MintedToken struct {
	Token string    // the serialized JWT string
	JTI   string    // unique identifier claim (ledger primary key)
	Exp   time.Time // UTC expiration time
}

// ErrBadToken is returned by ParseClaims for any token that fails
// signature verification, is malformed, expired, or carries claims in
// an unexpected shape.
var ErrBadToken = errors.New("invalid token")

// MintToken builds and signs an HS256 JWT for an identity.  The claims
// embed the owner's public identity (sub), a freshly generated jti, the
// token type ("access" or "refresh"), expiry (exp) and issued-at (iat).
// The expiry is computed from the current UTC time plus ttl.
func MintToken(secret, identity, tokenType string, ttl time.Duration) (MintedToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"jti":  jti,
		"sub":  identity,
		"type": tokenType,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return MintedToken{}, err
	}
	return MintedToken{Token: signed, JTI: jti, Exp: exp}, nil
}

// ParseClaims verifies an HS256 JWT against the secret and returns its
// claims.  Tokens signed with a different method are rejected so a
// crafted "alg" header cannot downgrade verification.
func ParseClaims(raw, secret string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrBadToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrBadToken
	}
	return claims, nil
}

// ClaimString extracts a string claim, returning "" when the claim is
// absent or not a string.
func ClaimString(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
