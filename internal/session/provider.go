package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Config holds the OAuth client settings consumed by the Provider.
type Config struct {
	ClientID    string
	AuthURL     string
	TokenURL    string
	RedirectURI string
	Scope       string
	StripQuery  bool

	LoginTTL   time.Duration
	SessionTTL time.Duration
}

// Provider owns session state for the whole app. It is the single writer:
// only BeginLogin, CompleteLogin and Logout mutate sessions, and every
// mutation is broadcast to subscribers. Reads go through State or a Handle.
//
// Sessions never log in automatically; login starts only when the user
// asks for it.
type Provider struct {
	cfg   Config
	oauth oauth2.Config
	store *Store

	mu      sync.Mutex
	subs    map[string]map[int]chan AuthState
	nextSub int
}

// New creates a Provider. The store handle is a constructor-time
// requirement: building a Provider without one is a configuration error.
func New(cfg Config, store *Store) (*Provider, error) {
	if store == nil {
		return nil, &ConfigurationError{msg: "session: provider requires a non-nil store"}
	}
	if cfg.ClientID == "" {
		return nil, &ConfigurationError{msg: "session: provider requires an OAuth client id"}
	}
	if cfg.LoginTTL <= 0 {
		cfg.LoginTTL = 10 * time.Minute
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	return &Provider{
		cfg: cfg,
		oauth: oauth2.Config{
			ClientID: cfg.ClientID,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
			RedirectURL: cfg.RedirectURI,
			Scopes:      strings.Fields(cfg.Scope),
		},
		store: store,
		subs:  make(map[string]map[int]chan AuthState),
	}, nil
}

// StripQuery reports whether OAuth query parameters should be removed from
// the URL once the callback has been processed.
func (p *Provider) StripQuery() bool { return p.cfg.StripQuery }

// EnsureSession validates an existing session id or mints a new one.
// Returns the id to use and whether it is new.
func (p *Provider) EnsureSession(ctx context.Context, id string) (string, bool, error) {
	if id != "" {
		if _, err := p.store.GetSession(ctx, id); err == nil {
			return id, false, nil
		} else if !errors.Is(err, ErrSessionNotFound) {
			return "", false, err
		}
	}
	fresh, err := p.store.CreateSession(ctx, p.cfg.SessionTTL)
	if err != nil {
		return "", false, err
	}
	return fresh, true, nil
}

// BeginLogin starts the authorization-code + PKCE flow for the session and
// returns the authorization URL to redirect the browser to.
func (p *Provider) BeginLogin(ctx context.Context, sessionID string) (string, error) {
	state := uuid.NewString()
	verifier, err := newCodeVerifier()
	if err != nil {
		return "", err
	}

	if err := p.store.BeginLogin(ctx, sessionID, state, verifier, p.cfg.LoginTTL); err != nil {
		return "", err
	}
	p.notify(ctx, sessionID)

	authURL := p.oauth.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge(verifier)),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
	return authURL, nil
}

// CompleteLogin finishes the flow after the authorization server redirected
// back. Exactly one of code or errParam is normally present. A callback for
// a session with a pending login settles it: a token on success, an error
// message otherwise. A callback for a session with no pending login is a
// stray (replayed tab, forged cross-site GET) and is ignored, so it cannot
// wipe a state the session already settled into. The exchange is never
// retried; a fresh login is the only retry path.
func (p *Provider) CompleteLogin(ctx context.Context, sessionID, state, code, errParam string) {
	settle := func(fn func() error) {
		if err := fn(); err != nil {
			log.Printf("session: settling %s: %v", sessionID, err)
		}
		p.notify(ctx, sessionID)
	}
	fail := func(msg string) {
		pending, err := p.store.HasPendingLogin(ctx, sessionID)
		if err != nil {
			log.Printf("session: checking pending login for %s: %v", sessionID, err)
		}
		if !pending {
			log.Printf("session: ignoring stray callback for %s: %s", sessionID, msg)
			return
		}
		settle(func() error { return p.store.SetError(ctx, sessionID, msg) })
	}

	if errParam != "" {
		fail(errParam)
		return
	}
	if code == "" {
		fail("no authorization code received")
		return
	}

	owner, verifier, err := p.store.ConsumeLogin(ctx, state)
	if err != nil || owner != sessionID {
		if err == nil {
			err = ErrStateMismatch
		}
		fail(err.Error())
		return
	}

	token, err := p.oauth.Exchange(ctx, code,
		oauth2.SetAuthURLParam("code_verifier", verifier))
	if err != nil {
		settle(func() error {
			return p.store.SetError(ctx, sessionID, fmt.Sprintf("token exchange failed: %v", err))
		})
		return
	}

	settle(func() error {
		return p.store.SetToken(ctx, sessionID, token.AccessToken, token.TokenType, token.Expiry)
	})
}

// Logout clears the session's token and error.
func (p *Provider) Logout(ctx context.Context, sessionID string) error {
	if err := p.store.ClearToken(ctx, sessionID); err != nil {
		return err
	}
	p.notify(ctx, sessionID)
	return nil
}

// State returns the current auth state for the session. Unknown or expired
// sessions read as anonymous.
func (p *Provider) State(ctx context.Context, sessionID string) AuthState {
	rec, err := p.store.GetSession(ctx, sessionID)
	if err != nil {
		return AuthState{}
	}

	st := AuthState{Token: rec.Token, Error: rec.Error}
	if rec.Token != "" && !rec.TokenExpiry.IsZero() && time.Now().UTC().After(rec.TokenExpiry) {
		st.Token = ""
	}
	if st.Token == "" && st.Error == "" {
		pending, err := p.store.HasPendingLogin(ctx, sessionID)
		if err == nil && pending {
			st.IsLoading = true
		}
	}
	return st
}

// Subscribe registers an observer for the session's state changes. The
// returned cancel function must be called on teardown. Updates are
// best-effort snapshots; slow consumers miss intermediate states, never
// the order of terminal ones.
func (p *Provider) Subscribe(sessionID string) (<-chan AuthState, func()) {
	ch := make(chan AuthState, 4)

	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	if p.subs[sessionID] == nil {
		p.subs[sessionID] = make(map[int]chan AuthState)
	}
	p.subs[sessionID][id] = ch
	p.mu.Unlock()

	cancel := func() {
		p.mu.Lock()
		if set, ok := p.subs[sessionID]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(p.subs, sessionID)
			}
		}
		p.mu.Unlock()
	}
	return ch, cancel
}

// notify broadcasts the session's current state to its subscribers.
func (p *Provider) notify(ctx context.Context, sessionID string) {
	st := p.State(ctx, sessionID)

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range p.subs[sessionID] {
		select {
		case ch <- st:
		default:
			// Drop rather than block the writer.
		}
	}
}
