// Package guard protects portal routes. It resolves the browser session on
// every request and decides between letting the request through, redirecting
// to the login page, and answering with a neutral placeholder when the
// session state cannot be determined.
package guard

import (
	"context"
	"net/http"

	slogctx "github.com/veqryn/slog-context"

	"github.com/barangay-connect/member-portal/internal/session"
	"github.com/barangay-connect/member-portal/pkg/fingerprint"
)

// Resolver determines the session behind a cookie value and the fingerprint
// of the browser presenting it. Implemented by session.Manager.
type Resolver interface {
	Resolve(ctx context.Context, sessionID, fingerprint string) (session.Session, error)
	SessionCookieName() string
}

// Using an unexported type prevents key collisions from other packages.
type contextKey string

const sessionKey contextKey = "session"

type Guard struct {
	resolver  Resolver
	loginPath string
}

func New(resolver Resolver, loginPath string) *Guard {
	return &Guard{
		resolver:  resolver,
		loginPath: loginPath,
	}
}

// Protect wraps a handler that requires an authenticated session. The
// resolved session is placed in the request context; an anonymous request is
// redirected to the login page, and a request whose session state could not
// be determined gets a 503 with Retry-After instead of being logged out.
func (g *Guard) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := g.resolve(r)
		if err != nil {
			slogctx.Warn(r.Context(), "Could not determine session state", "error", err)
			w.Header().Set("Retry-After", "5")
			http.Error(w, "The portal is temporarily unavailable. Please try again shortly.", http.StatusServiceUnavailable)
			return
		}

		if !s.Authenticated() {
			http.Redirect(w, r, g.loginPath, http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Resolve wraps a handler that adapts to the session state without requiring
// one, such as the login page itself. The session in the context is the zero
// value for anonymous requests and for requests whose state could not be
// determined.
func (g *Guard) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := g.resolve(r)
		if err != nil {
			slogctx.Warn(r.Context(), "Could not determine session state", "error", err)
			s = session.Session{}
		}

		ctx := context.WithValue(r.Context(), sessionKey, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *Guard) resolve(r *http.Request) (session.Session, error) {
	cookie, err := r.Cookie(g.resolver.SessionCookieName())
	if err != nil {
		// No cookie means an anonymous request, not a failure.
		return session.Session{}, nil
	}

	fp, _ := fingerprint.FromHTTPRequest(r)

	return g.resolver.Resolve(r.Context(), cookie.Value, fp)
}

// SessionFromContext retrieves the session the guard placed in the context.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(session.Session)
	return s, ok
}
