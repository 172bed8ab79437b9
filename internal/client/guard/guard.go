// Package guard decides whether a navigation target may be entered with the
// current session, restoring a persisted session before deciding.
package guard

import (
	"context"

	"github.com/dmitrijs2005/dentacare/internal/client/services"
)

const (
	LoginPath    = "/auth/login"
	RegisterPath = "/auth/register"
)

// Session is the part of the session manager the guard consults.
type Session interface {
	InitializeAuth(ctx context.Context) services.State
}

// Decision is the outcome of Check. Redirect is set when Allow is false.
type Decision struct {
	Allow    bool
	Redirect string
}

type Guard struct {
	session  Session
	public   map[string]struct{}
	redirect string
}

type Option func(*Guard)

// WithPublicPaths replaces the set of paths reachable without a session.
func WithPublicPaths(paths ...string) Option {
	return func(g *Guard) {
		g.public = make(map[string]struct{}, len(paths))
		for _, p := range paths {
			g.public[p] = struct{}{}
		}
	}
}

// WithRedirect sets where anonymous users are sent.
func WithRedirect(path string) Option {
	return func(g *Guard) { g.redirect = path }
}

func New(session Session, opts ...Option) *Guard {
	g := &Guard{session: session, redirect: LoginPath}
	WithPublicPaths(LoginPath, RegisterPath)(g)
	for _, o := range opts {
		o(g)
	}
	return g
}

// Check validates any persisted session first, so a restorable session
// is never bounced to the login page.
func (g *Guard) Check(ctx context.Context, path string) Decision {
	state := g.session.InitializeAuth(ctx)

	if _, ok := g.public[path]; ok || state == services.StateAuthenticated {
		return Decision{Allow: true}
	}
	return Decision{Redirect: g.redirect}
}

// IsPublic reports whether path is reachable without a session.
func (g *Guard) IsPublic(path string) bool {
	_, ok := g.public[path]
	return ok
}
