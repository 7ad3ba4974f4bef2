package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/roshanmgr/venue-booking/internal/model"
	"github.com/roshanmgr/venue-booking/internal/utils"
)

// SessionRepo is the single source of truth for live refresh sessions.
// Refresh secrets are stored SHA-256 hashed; a row existing is necessary but
// not sufficient to accept a refresh, the (jti, user, session) triple must
// also match.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

const sessionCols = "id,user_id,session_id,jti,token_hash,expires_at,created_at"

func scanSession(scan func(dest ...any) error) (model.Session, error) {
	var s model.Session
	err := scan(&s.ID, &s.UserID, &s.SessionID, &s.Jti, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt)
	return s, err
}

// Create inserts a new session row with a freshly generated refresh secret
// and returns the raw secret for the client.  The secret itself is never
// persisted.
func (r *SessionRepo) Create(ctx context.Context, userID uint64, sessionID, jti string, expiresAt time.Time) (string, error) {
	secret := utils.NewRefreshSecret()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (user_id, session_id, jti, token_hash, expires_at) VALUES (?,?,?,?,?)",
		userID, sessionID, jti, utils.HashSecret(secret), expiresAt)
	if err != nil {
		return "", err
	}
	return secret, nil
}

// FindByRefreshSecret looks a session up by the raw secret presented by the
// client.
func (r *SessionRepo) FindByRefreshSecret(ctx context.Context, secret string) (model.Session, error) {
	s, err := scanSession(r.DB.QueryRowContext(ctx,
		"SELECT "+sessionCols+" FROM sessions WHERE token_hash=? LIMIT 1",
		utils.HashSecret(secret)).Scan)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	return s, err
}

// FindActive performs the three-way match required to accept a refresh:
// jti, user and session id must all agree with one stored row.
func (r *SessionRepo) FindActive(ctx context.Context, jti string, userID uint64, sessionID string) (model.Session, error) {
	s, err := scanSession(r.DB.QueryRowContext(ctx,
		"SELECT "+sessionCols+" FROM sessions WHERE jti=? AND user_id=? AND session_id=? LIMIT 1",
		jti, userID, sessionID).Scan)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	return s, err
}

// Rotate atomically replaces a session: the old row is deleted and a new one
// bound to the same session id but a new jti, secret and expiry is inserted,
// all in one transaction.  If two refreshes race, the loser's delete matches
// zero rows and the rotation is abandoned.
func (r *SessionRepo) Rotate(ctx context.Context, old model.Session, newJti string, expiresAt time.Time) (string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id=?", old.ID)
	if err != nil {
		return "", err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", ErrNotFound
	}
	secret := utils.NewRefreshSecret()
	_, err = tx.ExecContext(ctx,
		"INSERT INTO sessions (user_id, session_id, jti, token_hash, expires_at) VALUES (?,?,?,?,?)",
		old.UserID, old.SessionID, newJti, utils.HashSecret(secret), expiresAt)
	if err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return secret, nil
}

// Delete removes one session row.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE id=?", id)
	return err
}

// RevokeAllForUser deletes every session row for a user.  Login calls this
// first so at most one live session per user survives.
func (r *SessionRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE user_id=?", userID)
	return err
}
