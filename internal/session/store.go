package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/plenohq/plenosite/internal/db"
)

// Store persists sessions and pending login attempts in SQLite. Session ids
// are namespaced with the configured storage key prefix so multiple
// deployments can share a database file.
type Store struct {
	db     *db.DB
	prefix string
}

// NewStore creates a Store using the given storage key prefix.
func NewStore(database *db.DB, prefix string) *Store {
	return &Store{db: database, prefix: prefix}
}

// Record is a stored session row.
type Record struct {
	ID          string
	Token       string
	TokenType   string
	TokenExpiry time.Time
	Error       string
	ExpiresAt   time.Time
}

// sqliteTime formats a time the way datetime('now') does, so stored values
// compare correctly against SQL-side expressions.
func sqliteTime(t time.Time) string {
	return t.UTC().Format(time.DateTime)
}

func parseSqliteTime(s string) time.Time {
	if t, err := time.Parse(time.DateTime, s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

// CreateSession inserts a fresh anonymous session and returns its id.
func (s *Store) CreateSession(ctx context.Context, ttl time.Duration) (string, error) {
	id := s.prefix + uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, expires_at) VALUES (?, ?)`,
		id, sqliteTime(time.Now().Add(ttl)))
	if err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return id, nil
}

// GetSession returns the live session record for id. Expired sessions are
// reported as ErrSessionNotFound.
func (s *Store) GetSession(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, token, token_type, COALESCE(token_expires_at, ''), error, expires_at
		 FROM sessions WHERE id = ?`, id)

	var rec Record
	var tokenExpiry, expiresAt string
	if err := row.Scan(&rec.ID, &rec.Token, &rec.TokenType, &tokenExpiry, &rec.Error, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	rec.TokenExpiry = parseSqliteTime(tokenExpiry)
	rec.ExpiresAt = parseSqliteTime(expiresAt)
	if time.Now().UTC().After(rec.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	return &rec, nil
}

// BeginLogin records a pending login attempt for the session. Any previous
// pending attempt for the session is superseded, and any prior terminal
// state is cleared.
func (s *Store) BeginLogin(ctx context.Context, sessionID, state, verifier string, ttl time.Duration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning login: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM login_attempts WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("clearing stale login attempts: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO login_attempts (state, session_id, pkce_verifier, expires_at) VALUES (?, ?, ?, ?)`,
		state, sessionID, verifier, sqliteTime(time.Now().Add(ttl))); err != nil {
		return fmt.Errorf("recording login attempt: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET token = '', token_type = '', token_expires_at = NULL, error = '',
		 updated_at = datetime('now') WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("resetting session: %w", err)
	}

	return tx.Commit()
}

// ConsumeLogin removes and returns the pending login attempt identified by
// the OAuth state value. A consumed attempt cannot be replayed: the delete
// and read are one statement, so concurrent callers presenting the same
// state see exactly one winner.
func (s *Store) ConsumeLogin(ctx context.Context, state string) (sessionID, verifier string, err error) {
	row := s.db.QueryRowContext(ctx,
		`DELETE FROM login_attempts WHERE state = ?
		 RETURNING session_id, pkce_verifier, expires_at`, state)

	var expiresAt string
	if err := row.Scan(&sessionID, &verifier, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", ErrStateMismatch
		}
		return "", "", fmt.Errorf("consuming login attempt: %w", err)
	}

	if time.Now().UTC().After(parseSqliteTime(expiresAt)) {
		return "", "", ErrLoginExpired
	}
	return sessionID, verifier, nil
}

// HasPendingLogin reports whether the session has an unexpired login
// attempt in flight.
func (s *Store) HasPendingLogin(ctx context.Context, sessionID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM login_attempts WHERE session_id = ? AND expires_at > datetime('now')`,
		sessionID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking pending login: %w", err)
	}
	return count > 0, nil
}

// SetToken records a completed exchange. The error field and any pending
// login attempts are cleared so the terminal-state invariant holds.
func (s *Store) SetToken(ctx context.Context, sessionID, token, tokenType string, expiry time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	defer tx.Rollback()

	var expiryVal any
	if !expiry.IsZero() {
		expiryVal = sqliteTime(expiry)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET token = ?, token_type = ?, token_expires_at = ?, error = '',
		 updated_at = datetime('now') WHERE id = ?`,
		token, tokenType, expiryVal, sessionID); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM login_attempts WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("clearing login attempts: %w", err)
	}

	return tx.Commit()
}

// SetError records a failed exchange. The token and any pending login
// attempts are cleared.
func (s *Store) SetError(ctx context.Context, sessionID, msg string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storing error: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET token = '', token_type = '', token_expires_at = NULL, error = ?,
		 updated_at = datetime('now') WHERE id = ?`, msg, sessionID); err != nil {
		return fmt.Errorf("storing error: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM login_attempts WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("clearing login attempts: %w", err)
	}

	return tx.Commit()
}

// ClearToken drops the session's token and error, returning it to the
// anonymous state. Used by logout.
func (s *Store) ClearToken(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET token = '', token_type = '', token_expires_at = NULL, error = '',
		 updated_at = datetime('now') WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	return nil
}

// PurgeExpired deletes expired sessions and login attempts. Returns the
// number of sessions removed.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM login_attempts WHERE expires_at <= datetime('now')`); err != nil {
		return 0, fmt.Errorf("purging login attempts: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= datetime('now')`)
	if err != nil {
		return 0, fmt.Errorf("purging sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
