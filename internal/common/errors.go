package common

import "errors"

var (
	// Token errors (malformed or lapsed bearer token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Returned by components after Close.
	ErrClosed = errors.New("closed")
)
