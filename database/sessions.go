package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mbolis/quick-quiz/auth"
)

var ErrNoSession = errors.New("no such session")

// Sessions persists login sessions, so that a restart does not log users out.
type Sessions struct {
	db *sql.DB
}

func NewSessions(db *sql.DB) Sessions {
	return Sessions{db}
}

func (s Sessions) Save(ctx context.Context, session *auth.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (id, access_token, refresh_token, name, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			name = excluded.name,
			expires_at = excluded.expires_at`,
		session.ID,
		session.Access,
		session.Refresh,
		session.Name,
		session.Expires.Unix(),
		time.Now().Unix(),
	)
	return err
}

// Get loads a live session. Expired sessions are deleted and reported as
// auth.ErrSessionExpired.
func (s Sessions) Get(ctx context.Context, id string) (*auth.Session, error) {
	session := &auth.Session{ID: id}
	var expires int64
	err := s.db.
		QueryRowContext(ctx, `
			SELECT access_token, refresh_token, name, expires_at
			FROM session
			WHERE id = ?`,
			id,
		).
		Scan(&session.Access, &session.Refresh, &session.Name, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	session.Expires = time.Unix(expires, 0)
	if session.Expired() {
		if err := s.Delete(ctx, id); err != nil {
			return nil, err
		}
		return nil, auth.ErrSessionExpired
	}
	return session, nil
}

func (s Sessions) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = ?`, id)
	return err
}

// PurgeExpired deletes every session expired at now and returns how many.
func (s Sessions) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE expires_at <= ?`, now.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
