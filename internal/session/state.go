// Package session implements the OAuth2 authorization-code + PKCE session
// layer for the plenosite web app. A single Provider owns all session
// mutation (the code-for-token exchange); everything else reads state
// through a Handle or a subscription.
package session

// AuthState is a point-in-time snapshot of a browser session's
// authentication status. At most one of Token and Error is set; IsLoading
// is mutually exclusive with both.
type AuthState struct {
	Token     string `json:"token,omitempty"`
	IsLoading bool   `json:"is_loading"`
	Error     string `json:"error,omitempty"`
}

// IsAuthenticated reports whether the session holds a token.
func (s AuthState) IsAuthenticated() bool { return s.Token != "" }

// Settled reports whether the login flow has finished, successfully or not.
func (s AuthState) Settled() bool { return !s.IsLoading }
