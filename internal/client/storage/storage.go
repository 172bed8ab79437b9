// Package storage persists the session token between client runs.
//
// Every backend implements SessionStorage and models a single cell named
// auth_token with a max-age (7 days by default). A cell past its max-age
// reads as absent. Clear removes the cell outright rather than writing an
// empty value, so nothing stale survives a logout.
//
// Backends:
//   - CookieStorage: a Set-Cookie line in a file (path "/", Secure,
//     SameSite=Strict).
//   - SQLiteStorage: rows in the local metadata table.
//   - MemoryStorage: process-local, used in tests and with -s memory.
//   - EncryptedStorage: seals the token of any other backend with a
//     passphrase-derived key.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dentacare/internal/common"
)

// SessionStorage is the persisted token cell. Get returns "" when no live
// token is stored.
type SessionStorage interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	Close() error
}

type options struct {
	maxAge time.Duration
	now    func() time.Time
}

// Option tunes a backend.
type Option func(*options)

// WithMaxAge overrides the cell lifetime.
func WithMaxAge(d time.Duration) Option {
	return func(o *options) { o.maxAge = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// checkToken rejects values that cannot be a bearer token. Removing the
// token is Clear's job, so "" is rejected too.
func checkToken(token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty", common.ErrInvalidToken)
	}
	return nil
}

func newOptions(opts []Option) options {
	o := options{maxAge: common.AuthTokenMaxAge, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
