// Package jwtx inspects bearer tokens on the client side.
//
// The client treats tokens as opaque and never verifies signatures; that is
// the server's job. When a token happens to be a JWT, its exp claim lets the
// client skip a round trip for a credential that is already stale.
package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresAt returns the exp claim of token. ok is false when token is not a
// JWT or carries no exp claim.
func ExpiresAt(token string) (exp time.Time, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	nd, err := claims.GetExpirationTime()
	if err != nil || nd == nil {
		return time.Time{}, false
	}
	return nd.Time, true
}

// Expired reports whether token is a JWT whose exp claim is not after now.
// Opaque tokens are never reported as expired.
func Expired(token string, now time.Time) bool {
	exp, ok := ExpiresAt(token)
	return ok && !exp.After(now)
}
