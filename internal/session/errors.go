package session

import "errors"

// ConfigurationError reports misuse of the session API: a consumer asked
// for auth state without a provider handle in scope. This is a programmer
// error, not a runtime condition; callers should fail the request rather
// than swallow it.
type ConfigurationError struct {
	msg string
}

func (e *ConfigurationError) Error() string { return e.msg }

// errOutsideProvider is returned by FromContext when the session
// middleware never ran for the request.
var errOutsideProvider = &ConfigurationError{
	msg: "session: auth state must be read within the provider middleware",
}

var (
	// ErrSessionNotFound means the session id has no live record, usually
	// because it expired and was purged.
	ErrSessionNotFound = errors.New("session not found")

	// ErrLoginExpired means the pending login attempt outlived its TTL
	// before the authorization server redirected back.
	ErrLoginExpired = errors.New("login attempt expired")

	// ErrStateMismatch means the callback carried a state value that does
	// not belong to the session presenting it.
	ErrStateMismatch = errors.New("oauth state does not match session")
)
