package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const sessionSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	user_json  TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions (expires_at);
`

type sessionRow struct {
	ID        string `db:"id"`
	UserJSON  string `db:"user_json"`
	CreatedAt int64  `db:"created_at"`
	ExpiresAt int64  `db:"expires_at"`
}

// SQLSessionStore implements SessionStore on a SQL database, so admin
// sessions survive gateway restarts. Expiry is enforced in the queries
// themselves; a background loop prunes expired rows.
type SQLSessionStore struct {
	db *sqlx.DB

	// SessionTimeout defines how long sessions last (default: 24 hours)
	SessionTimeout time.Duration
}

// NewSQLSessionStore creates a SQL-backed session store and ensures its
// schema exists
func NewSQLSessionStore(db *sqlx.DB) (*SQLSessionStore, error) {
	return NewSQLSessionStoreWithTimeout(db, 24*time.Hour)
}

// NewSQLSessionStoreWithTimeout creates a SQL-backed session store with custom timeout
func NewSQLSessionStoreWithTimeout(db *sqlx.DB, timeout time.Duration) (*SQLSessionStore, error) {
	if _, err := db.Exec(sessionSchema); err != nil {
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	store := &SQLSessionStore{
		db:             db,
		SessionTimeout: timeout,
	}

	// Start cleanup goroutine
	go store.cleanupLoop()

	return store, nil
}

// GetSession retrieves a user session by session ID
func (s *SQLSessionStore) GetSession(ctx context.Context, sessionID string) (*AuthUser, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row, "SELECT id, user_json, created_at, expires_at FROM sessions WHERE id = ?", sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	if time.Now().Unix() >= row.ExpiresAt {
		// Clean up the expired row; the caller only needs to know it is gone
		_, _ = s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
		return nil, ErrSessionExpired
	}

	var user AuthUser
	if err := json.Unmarshal([]byte(row.UserJSON), &user); err != nil {
		return nil, fmt.Errorf("failed to decode session user: %w", err)
	}
	return &user, nil
}

// CreateSession creates a new session for the user and returns the session ID
func (s *SQLSessionStore) CreateSession(ctx context.Context, user *AuthUser) (string, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return "", err
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("failed to encode session user: %w", err)
	}

	now := time.Now()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO sessions (id, user_json, created_at, expires_at) VALUES (?, ?, ?, ?)",
		sessionID, string(userJSON), now.Unix(), now.Add(s.SessionTimeout).Unix())
	if err != nil {
		return "", err
	}

	return sessionID, nil
}

// DeleteSession removes a session by session ID
func (s *SQLSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
	return err
}

// CleanExpiredSessions removes expired sessions
func (s *SQLSessionStore) CleanExpiredSessions(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", time.Now().Unix())
	return err
}

// cleanupLoop runs periodically to clean up expired sessions
func (s *SQLSessionStore) cleanupLoop() {
	ticker := time.NewTicker(time.Hour) // Clean up every hour
	defer ticker.Stop()

	for range ticker.C {
		s.CleanExpiredSessions(context.Background())
	}
}

// GetSessionCount returns the current number of stored sessions (for debugging/monitoring)
func (s *SQLSessionStore) GetSessionCount() int {
	var count int
	if err := s.db.Get(&count, "SELECT COUNT(*) FROM sessions"); err != nil {
		return 0
	}
	return count
}
