// Package auth inspects bearer tokens on the client side. Signatures are not
// checked here (the client does not hold the key); only the registered
// claims are read so that an obviously expired token is not sent to the API.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresAt returns the exp claim of a JWT. ok is false for opaque tokens
// and for JWTs without exp.
func ExpiresAt(token string) (exp time.Time, ok bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether token is a JWT whose exp is not after now.
// Opaque tokens are never reported as expired.
func Expired(token string, now time.Time) bool {
	exp, ok := ExpiresAt(token)
	return ok && !now.Before(exp)
}
