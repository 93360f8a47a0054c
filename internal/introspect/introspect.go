// Package introspect guards the anonymization API with RFC 7662 token
// introspection against the invitely authorization server.
package introspect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Result is the introspection response. Extra holds any additional claims
// the server returned alongside the standard fields.
type Result struct {
	Active   bool   `json:"active"`
	Subject  string `json:"sub,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Scope    string `json:"scope,omitempty"`

	Extra map[string]any `json:"-"`
}

type ctxKey struct{}

// FromContext returns the introspection result stored by Middleware, if
// any. Requests passing through a disabled gate have none.
func FromContext(ctx context.Context) (*Result, bool) {
	r, ok := ctx.Value(ctxKey{}).(*Result)
	return r, ok
}

// Options configures the gate.
type Options struct {
	// URL is the introspection endpoint. Empty disables the gate entirely,
	// which is the local-development mode: requests pass through
	// unauthenticated.
	URL string

	// Timeout bounds the introspection call. Defaults to 10 seconds.
	Timeout time.Duration

	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
}

// Middleware returns a middleware that validates the request's Bearer token
// via token introspection. Missing or inactive tokens get 401; an
// unreachable introspection service gets 503. No retries: the client
// re-sends the request if it wants another attempt.
func Middleware(opts Options) func(http.Handler) http.Handler {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.URL == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "Authorization required")
				return
			}

			result, err := introspectToken(r.Context(), client, opts.URL, token)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"error": fmt.Sprintf("token introspection service unavailable: %v", err),
				})
				return
			}
			if !result.Active {
				unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, result)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func introspectToken(ctx context.Context, client *http.Client, endpoint, token string) (*Result, error) {
	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("introspection endpoint returned %s", resp.Status)
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding introspection response: %w", err)
	}

	result := &Result{Extra: raw}
	if v, ok := raw["active"].(bool); ok {
		result.Active = v
	}
	if v, ok := raw["sub"].(string); ok {
		result.Subject = v
	}
	if v, ok := raw["client_id"].(string); ok {
		result.ClientID = v
	}
	if v, ok := raw["scope"].(string); ok {
		result.Scope = v
	}
	return result, nil
}
