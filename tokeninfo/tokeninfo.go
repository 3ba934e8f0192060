// Package tokeninfo peeks at access-token claims without verifying them.
//
// The client has no signing key and never trusts claim contents for
// authorization decisions; a 401 from the server remains the only
// authoritative expiry signal. Claims are used purely for diagnostics:
// logging when a token is about to expire and tagging audit events with the
// subject. Backends issuing opaque (non-JWT) tokens are supported; every
// function degrades to [ErrNotJWT].
package tokeninfo

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned for tokens that are not parseable JWTs. Opaque
// tokens are valid credentials; they just carry no readable claims.
var ErrNotJWT = errors.New("tokeninfo: token is not a JWT")

// Claims is the subset of registered claims the client cares about. Zero
// fields mean the claim was absent.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Peek decodes the claims of token without signature verification.
func Peek(token string) (Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, ErrNotJWT
	}

	var out Claims
	if sub, err := parsed.Claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if iat, err := parsed.Claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

// ExpiresWithin reports whether token carries an exp claim falling within d
// from now. Opaque tokens and tokens without exp report false.
func ExpiresWithin(token string, d time.Duration) bool {
	claims, err := Peek(token)
	if err != nil || claims.ExpiresAt.IsZero() {
		return false
	}
	return time.Until(claims.ExpiresAt) <= d
}
