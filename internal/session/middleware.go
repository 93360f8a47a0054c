package session

import (
	"context"
	"net/http"
)

// CookieName carries the opaque session id. The token itself never leaves
// the server.
const CookieName = "pleno_session"

type ctxKey struct{}

// Handle is the read-side view of one browser session, injected into the
// request context by Middleware. Consumers receive it by dependency
// injection rather than reaching for globals.
type Handle struct {
	provider  *Provider
	sessionID string
}

// State returns the session's current auth state.
func (h *Handle) State(ctx context.Context) AuthState {
	return h.provider.State(ctx, h.sessionID)
}

// SessionID returns the opaque session id.
func (h *Handle) SessionID() string { return h.sessionID }

// Provider returns the owning provider.
func (h *Handle) Provider() *Provider { return h.provider }

// Subscribe registers an observer for this session's state changes.
func (h *Handle) Subscribe() (<-chan AuthState, func()) {
	return h.provider.Subscribe(h.sessionID)
}

// FromContext returns the session handle for the request. Calling it on a
// request that never passed through Middleware is a ConfigurationError:
// the caller is mounted outside the provider and should fail loudly.
func FromContext(ctx context.Context) (*Handle, error) {
	h, ok := ctx.Value(ctxKey{}).(*Handle)
	if !ok || h == nil {
		return nil, errOutsideProvider
	}
	return h, nil
}

// NewContext returns a context carrying the given handle. Used by tests and
// by Middleware.
func NewContext(ctx context.Context, h *Handle) context.Context {
	return context.WithValue(ctx, ctxKey{}, h)
}

// Middleware establishes the session for every request: it validates or
// mints the session cookie and injects a Handle into the request context.
// secure controls the cookie's Secure attribute (false for local
// development over plain http).
func Middleware(p *Provider, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var current string
			if c, err := r.Cookie(CookieName); err == nil {
				current = c.Value
			}

			id, fresh, err := p.EnsureSession(r.Context(), current)
			if err != nil {
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
			if fresh {
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			h := &Handle{provider: p, sessionID: id}
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), h)))
		})
	}
}
