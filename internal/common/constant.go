// Package common contains shared constants, sentinel errors and small byte
// helpers used across DentaCare client components.
package common

import "time"

const (
	// AuthTokenCookieName is the name of the persisted cell holding the
	// bearer token.
	AuthTokenCookieName = "auth_token"

	// AuthTokenMaxAge is how long a persisted token is kept before it is
	// considered gone.
	AuthTokenMaxAge = 7 * 24 * time.Hour
)
